// Package chflow holds channel helpers that give up as soon as a context
// is done.
package chflow

import (
	"context"
	"iter"
)

// Receive reads one value from ch. It reports false, with the zero value,
// when ch is closed or ctx is done first.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}

// Send writes data to ch. It reports false when ctx is done first.
func Send[T any](ctx context.Context, ch chan<- T, data T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}

// Produce sends every value of seq on the returned channel from a new
// goroutine, in order. The channel is closed once seq is exhausted or ctx
// is done.
func Produce[T any](ctx context.Context, seq iter.Seq[T]) <-chan T {
	ch := make(chan T)

	go func() {
		defer close(ch)

		for v := range seq {
			if !Send(ctx, ch, v) {
				return
			}
		}
	}()

	return ch
}
