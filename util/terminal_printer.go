package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter redraws a fixed set of status lines in place
type TerminalPrinter struct {
	outputs   []*LiveOutput
	frequency time.Duration
	doneCh    chan struct{}
	stoppedCh chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	if out != nil {
		writer.Out = out
	}
	return &TerminalPrinter{
		outputs:   make([]*LiveOutput, 0),
		frequency: frequency,
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),

		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

// NewOutput adds a line to the printer. Call before Start.
func (t *TerminalPrinter) NewOutput() *LiveOutput {
	out := &LiveOutput{mu: new(sync.Mutex)}
	if len(t.outputs) > 0 {
		t.writers = append(t.writers, t.writer.Newline())
	} else {
		t.writers = append(t.writers, t.writer)
	}
	t.outputs = append(t.outputs, out)
	return out
}

func (t *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		defer close(t.stoppedCh)
		for {
			select {
			case <-t.doneCh:
				t.print()
				return
			case <-ctx.Done():
				t.print()
				return
			case <-time.After(t.frequency):
				t.print()
			}
		}
	}()
}

// Stop prints the outputs one last time and waits for the printer to exit
func (t *TerminalPrinter) Stop() {
	close(t.doneCh)
	<-t.stoppedCh
}

func (t *TerminalPrinter) print() {
	for i, output := range t.outputs {
		fmt.Fprintln(t.writers[i], output.Get())
	}
	t.writer.Flush()
}

// LiveOutput holds the latest text of one status line
type LiveOutput struct {
	mu        *sync.Mutex
	printable string
}

func (p *LiveOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

func (p *LiveOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
