// Package botskills implements the skill CLI functionality layer: connect,
// disconnect, update, refresh and list operations over the connected-skills
// file, reporting through a retained-channel logger.
package botskills

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger collects CLI output on four channels. Every line is retained so
// operations (and tests) can inspect what was reported; Execute methods
// signal failure via IsError rather than process exit codes.
type Logger struct {
	out io.Writer

	messages  []string
	warnings  []string
	errors    []string
	successes []string
}

// NewLogger writes colored output to out. A nil writer defaults to stdout.
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{out: out}
}

// Message logs a neutral progress line.
func (l *Logger) Message(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	l.messages = append(l.messages, line)
	fmt.Fprintln(l.out, line)
}

// Warning logs a non-fatal problem.
func (l *Logger) Warning(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	l.warnings = append(l.warnings, line)
	fmt.Fprintf(l.out, "%s %s\n", color.New(color.FgYellow).Sprint("⚠"), line)
}

// Error logs a failure. Once called, IsError reports true.
func (l *Logger) Error(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	l.errors = append(l.errors, line)
	fmt.Fprintf(l.out, "%s %s\n", color.New(color.FgRed).Sprint("✗"), line)
}

// Success logs a completed operation.
func (l *Logger) Success(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	l.successes = append(l.successes, line)
	fmt.Fprintf(l.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), line)
}

// IsError reports whether any error has been logged.
func (l *Logger) IsError() bool { return len(l.errors) > 0 }

// Messages returns the retained message lines.
func (l *Logger) Messages() []string { return l.messages }

// Warnings returns the retained warning lines.
func (l *Logger) Warnings() []string { return l.warnings }

// Errors returns the retained error lines.
func (l *Logger) Errors() []string { return l.errors }

// Successes returns the retained success lines.
func (l *Logger) Successes() []string { return l.successes }
