package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/yourcommute/pkg/rollup"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on stderr while a rollup loads. Progress
// reported through [Spinner.Progress] is shown as a percentage.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	stop    sync.Once
	stopped chan struct{}

	pct   atomic.Int32 // -1 until the first progress report
	width atomic.Int32 // widest line drawn
	mu    sync.Mutex
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when ctx is done.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	s.pct.Store(-1)
	return s
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Progress sets the percentage shown after the message.
func (s *Spinner) Progress(pct int) {
	s.pct.Store(int32(min(max(pct, 0), 100)))
}

// Text returns the current status line without the frame.
func (s *Spinner) Text() string {
	if pct := s.pct.Load(); pct >= 0 {
		return fmt.Sprintf("%s %d%%", s.message, pct)
	}
	return s.message
}

func (s *Spinner) draw(frame string) {
	text := s.Text()
	s.width.Store(max(s.width.Load(), int32(len(text))))
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", int(s.width.Load())+4))
	})
}

// Cancelled reports whether the spinner's context is done, either from
// the parent context or from Stop.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// spinnerLoader forwards download progress to a spinner.
type spinnerLoader struct {
	rollup.Loader
	spinner *Spinner
}

func (l spinnerLoader) Load(ctx context.Context, from string, progress func(pct int)) (rollup.File, error) {
	return l.Loader.Load(ctx, from, func(pct int) {
		l.spinner.Progress(pct)
		if progress != nil {
			progress(pct)
		}
	})
}
