// Package stdout writes wallet event batches and update failures as JSON
// lines.
package stdout

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/gabapcia/walletsync/internal/eventproc"
)

type notifier struct {
	mu  sync.Mutex
	out io.Writer
}

var (
	_ eventproc.EventNotifier   = (*notifier)(nil)
	_ eventproc.FailureNotifier = (*notifier)(nil)
)

// New returns a notifier writing to w, or to os.Stdout when w is nil.
func New(w io.Writer) *notifier {
	if w == nil {
		w = os.Stdout
	}

	return &notifier{out: w}
}

func (n *notifier) NotifyEvents(_ context.Context, batch eventproc.Batch) error {
	line, err := eventproc.MarshalBatch(batch)
	if err != nil {
		return err
	}

	return n.writeLine(line)
}

func (n *notifier) NotifyUpdateFailure(_ context.Context, failure eventproc.Failure) error {
	line, err := eventproc.MarshalFailure(failure)
	if err != nil {
		return err
	}

	return n.writeLine(line)
}

func (n *notifier) writeLine(line []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := n.out.Write(append(line, '\n'))
	return err
}
