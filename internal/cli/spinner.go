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

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/navgen/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on w until stopped or until its context
// ends. The message can change while it runs.
type Spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int
}

// newSpinner creates a spinner writing to w that stops with ctx.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{w: w, parent: ctx, ctx: sctx, cancel: cancel, stopped: make(chan struct{}), message: message}
}

// interactive reports whether w is a terminal worth animating on.
func interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Start begins the animation. On a non-terminal writer nothing is drawn
// and the spinner only tracks its message.
func (s *Spinner) Start() {
	if !interactive(s.w) {
		go func() {
			<-s.ctx.Done()
			close(s.stopped)
		}()
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	fmt.Fprintf(s.w, "\r%s", line)
	s.width = max(s.width, len(s.message)+4)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// SetMessage replaces the status text shown next to the animation.
func (s *Spinner) SetMessage(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = fmt.Sprintf(format, args...)
}

// Message returns the current status text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop ends the animation and clears the line. It may be called repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// Cancelled reports whether the spinner's parent context ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// =============================================================================
// Run Progress
// =============================================================================

// runProgress feeds pipeline and output events into a spinner so long runs
// show how many screens were processed and artifacts written.
type runProgress struct {
	observability.NoopPipelineHooks
	observability.NoopOutputHooks

	spinner *Spinner

	total     atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	written   atomic.Int64
	unchanged atomic.Int64
	deleted   atomic.Int64
}

// OnRunStart implements observability.PipelineHooks.
func (p *runProgress) OnRunStart(_ context.Context, _ string, declarations int) {
	p.total.Store(int64(declarations))
	p.spinner.SetMessage("Resolving screens 0/%d", declarations)
}

// OnScreenComplete implements observability.PipelineHooks.
func (p *runProgress) OnScreenComplete(_ context.Context, _ string, _ time.Duration, err error) {
	n := p.processed.Add(1)
	if err != nil {
		p.failed.Add(1)
	}
	p.spinner.SetMessage("Resolving screens %d/%d", n, p.total.Load())
}

// OnAssembleComplete implements observability.PipelineHooks.
func (p *runProgress) OnAssembleComplete(_ context.Context, graphs int, _ time.Duration, _ error) {
	p.spinner.SetMessage("Assembled %d nav graphs", graphs)
}

// OnWrite implements observability.OutputHooks.
func (p *runProgress) OnWrite(context.Context, string, int) {
	p.written.Add(1)
	p.writing()
}

// OnSkip implements observability.OutputHooks.
func (p *runProgress) OnSkip(context.Context, string) {
	p.unchanged.Add(1)
	p.writing()
}

// OnDelete implements observability.OutputHooks.
func (p *runProgress) OnDelete(_ context.Context, _ string, err error) {
	if err == nil {
		p.deleted.Add(1)
	}
	p.writing()
}

func (p *runProgress) writing() {
	p.spinner.SetMessage("Writing artifacts: %d written, %d unchanged, %d deleted",
		p.written.Load(), p.unchanged.Load(), p.deleted.Load())
}

// withRunProgress runs fn with a spinner on w that follows the run through
// the observability hooks. The previously registered hooks are restored
// afterwards.
func withRunProgress(ctx context.Context, w io.Writer, fn func() error) (*runProgress, error) {
	p := &runProgress{spinner: newSpinner(ctx, w, "Loading feed...")}

	prevPipeline, prevOutput := observability.Pipeline(), observability.Output()
	observability.SetPipelineHooks(p)
	observability.SetOutputHooks(p)
	defer func() {
		observability.SetPipelineHooks(prevPipeline)
		observability.SetOutputHooks(prevOutput)
	}()

	p.spinner.Start()
	err := fn()
	p.spinner.Stop()
	loggerFromContext(ctx).Debug("run progress", "status", p.spinner.Message(), "failed", p.failed.Load())
	return p, err
}
