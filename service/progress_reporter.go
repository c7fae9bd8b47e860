package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// ProgressBarReporter shows a progress bar for batch runs on interactive terminals
type ProgressBarReporter struct {
	mu          sync.Mutex
	writer      io.Writer
	description string
	bar         *progressbar.ProgressBar
}

// NewProgressBarReporter creates a progress bar writing to writer (stderr when nil)
func NewProgressBarReporter(writer io.Writer, description string) *ProgressBarReporter {
	if writer == nil {
		writer = os.Stderr
	}
	if description == "" {
		description = "Analyzing"
	}
	return &ProgressBarReporter{writer: writer, description: description}
}

// Start creates the bar for total items
func (p *ProgressBarReporter) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	writer := p.writer
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// Increment advances the bar by one item
func (p *ProgressBarReporter) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Finish completes the bar
func (p *ProgressBarReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

// NoOpProgressReporter is a progress reporter that does nothing
type NoOpProgressReporter struct{}

// NewNoOpProgressReporter creates a no-op progress reporter
func NewNoOpProgressReporter() *NoOpProgressReporter {
	return &NoOpProgressReporter{}
}

func (n *NoOpProgressReporter) Start(total int) {}
func (n *NoOpProgressReporter) Increment()      {}
func (n *NoOpProgressReporter) Finish()         {}

// IsInteractive reports whether writer is a terminal
func IsInteractive(writer io.Writer) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

// CreateProgressReporter returns a progress bar on terminals and a no-op otherwise
func CreateProgressReporter(writer io.Writer, enabled bool) domain.ProgressReporter {
	if !enabled || writer == nil || !IsInteractive(writer) {
		return NewNoOpProgressReporter()
	}
	return NewProgressBarReporter(writer, "Analyzing")
}
