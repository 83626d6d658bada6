// Defines progress reporting interfaces and implementations.

package export

import (
	"fmt"
	"io"
	"time"
)

// ImportStats contains statistics about an import operation.
type ImportStats struct {
	Pages       int           `json:"pages"`
	Databases   int           `json:"databases"`
	Attachments int           `json:"attachments"`
	Warnings    int           `json:"warnings"`
	Errors      int           `json:"errors"`
	Duration    time.Duration `json:"duration"`
}

// ProgressReporter is the interface for reporting import progress.
type ProgressReporter interface {
	OnStart(total int)
	OnProgress(current int, item string)
	OnWarning(msg string)
	OnError(err error)
	OnComplete(stats ImportStats)
}

// CLIProgress writes progress to stdout/stderr.
type CLIProgress struct {
	Out io.Writer
	Err io.Writer
}

// OnStart is called when the import begins.
func (p *CLIProgress) OnStart(total int) {
	_, _ = fmt.Fprintf(p.Out, "Found %d pages to import\n\n", total)
}

// OnProgress is called for each page processed.
func (p *CLIProgress) OnProgress(current int, item string) {
	_, _ = fmt.Fprintf(p.Out, "[%d] %s\n", current, item)
}

// OnWarning is called for non-fatal issues.
func (p *CLIProgress) OnWarning(msg string) {
	_, _ = fmt.Fprintf(p.Err, "Warning: %s\n", msg)
}

// OnError is called for errors during the import.
func (p *CLIProgress) OnError(err error) {
	_, _ = fmt.Fprintf(p.Err, "Error: %v\n", err)
}

// OnComplete is called when the import finishes.
func (p *CLIProgress) OnComplete(stats ImportStats) {
	_, _ = fmt.Fprintf(p.Out, "\nComplete!\n")
	_, _ = fmt.Fprintf(p.Out, "---------\n")
	_, _ = fmt.Fprintf(p.Out, "Pages:       %d\n", stats.Pages)
	_, _ = fmt.Fprintf(p.Out, "Databases:   %d\n", stats.Databases)
	_, _ = fmt.Fprintf(p.Out, "Attachments: %d\n", stats.Attachments)
	if stats.Warnings > 0 {
		_, _ = fmt.Fprintf(p.Out, "Warnings:    %d\n", stats.Warnings)
	}
	if stats.Errors > 0 {
		_, _ = fmt.Fprintf(p.Out, "Errors:      %d\n", stats.Errors)
	}
	_, _ = fmt.Fprintf(p.Out, "Duration:    %s\n", stats.Duration.Round(time.Millisecond))
}

// NullProgress discards all progress updates.
type NullProgress struct{}

// OnStart implements ProgressReporter.
func (NullProgress) OnStart(total int) {}

// OnProgress implements ProgressReporter.
func (NullProgress) OnProgress(current int, item string) {}

// OnWarning implements ProgressReporter.
func (NullProgress) OnWarning(msg string) {}

// OnError implements ProgressReporter.
func (NullProgress) OnError(err error) {}

// OnComplete implements ProgressReporter.
func (NullProgress) OnComplete(stats ImportStats) {}
