package explorer

import (
	"context"
	"sync"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/rollup"
)

const inboxSize = 64

// Loop owns an Explorer on its own goroutine. All access goes through Do;
// fetch callbacks are queued on the same goroutine.
type Loop struct {
	ex    *Explorer
	inbox chan func()
	done  chan struct{}
	exit  chan struct{}
	once  sync.Once
}

// NewLoop starts a loop running a new explorer. opts.Post is replaced by
// the loop's own queue. The loop stops when ctx is done or Close is
// called.
func NewLoop(ctx context.Context, m *network.Model, loader rollup.Loader, opts Options) *Loop {
	l := &Loop{
		inbox: make(chan func(), inboxSize),
		done:  make(chan struct{}),
		exit:  make(chan struct{}),
	}
	opts.Post = l.post
	l.ex = New(m, loader, opts)
	go l.run(ctx)
	return l
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.exit)
	for {
		select {
		case fn := <-l.inbox:
			fn()
		case <-ctx.Done():
			l.Close()
			return
		case <-l.done:
			return
		}
	}
}

func (l *Loop) post(fn func()) {
	select {
	case l.inbox <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Explorer)) error {
	ran := make(chan struct{})
	job := func() {
		defer close(ran)
		fn(l.ex)
	}
	select {
	case l.inbox <- job:
	case <-l.done:
		return errors.New(errors.ErrCodeInternal, "explorer loop closed")
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return errors.New(errors.ErrCodeInternal, "explorer loop closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop. Pending callbacks are dropped and in-flight fetches
// run to completion in the background.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Wait blocks until the loop goroutine has exited.
func (l *Loop) Wait() { <-l.exit }
