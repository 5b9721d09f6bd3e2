package types

import (
	"iter"
	"maps"
)

// DefaultMap is a map wrapper that materializes a default value the first
// time a missing key is read.
//
//	spenders := NewDefaultMap[wire.OutPoint](func() Set[chainhash.Hash] { return NewSet[chainhash.Hash]() })
//	spenders.Get(op).Add(txid) // creates the set on first access
type DefaultMap[K comparable, V any] struct {
	data        map[K]V
	defaultFunc func() V
}

// NewDefaultMap creates an empty DefaultMap that uses defaultFunc to build
// values for missing keys.
func NewDefaultMap[K comparable, V any](defaultFunc func() V) DefaultMap[K, V] {
	return DefaultMap[K, V]{
		data:        make(map[K]V),
		defaultFunc: defaultFunc,
	}
}

// Get returns the value stored under key. If the key is absent, a default
// value is created, stored and returned.
func (d *DefaultMap[K, V]) Get(key K) V {
	val, ok := d.data[key]
	if ok {
		return val
	}

	val = d.defaultFunc()
	d.data[key] = val
	return val
}

// Lookup returns the value stored under key without creating a default.
func (d *DefaultMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := d.data[key]
	return val, ok
}

// Set assigns val to key.
func (d *DefaultMap[K, V]) Set(key K, val V) {
	d.data[key] = val
}

// Len returns the number of materialized keys.
func (d *DefaultMap[K, V]) Len() int {
	return len(d.data)
}

// All iterates over every materialized key/value pair.
func (d *DefaultMap[K, V]) All() iter.Seq2[K, V] {
	return maps.All(d.data)
}

// ToMap returns the underlying map. Mutations of the returned map are
// visible through the DefaultMap.
func (d *DefaultMap[K, V]) ToMap() map[K]V {
	return d.data
}
