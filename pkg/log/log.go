// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/operation"
	"github.com/walteh/overflo/pkg/status"
)

// 📦 TransferOperation describes a transfer for its console header
type TransferOperation struct {
	Name        string      // Job name, may be empty
	Source      string      // Source directory
	Destination string      // Destination directory
	Mode        status.Mode // Copy or move
	Filter      string      // Human readable filter description
	DryRun      bool        // Whether nothing will be written
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *TransferOperation
	progress  []operation.Progress
	formatter status.FileFormatter
}

var _ operation.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		console:   console,
		mu:        sync.Mutex{},
		formatter: status.NewDefaultFileFormatter(),
	}
}


// Zerolog returns the structured logger so it can be carried in a context
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartTransfer prints the header of a transfer
func (l *Logger) StartTransfer(ctx context.Context, op TransferOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.progress = nil

	verb := strings.ToLower(op.Mode.Verb())
	if op.DryRun {
		verb = "planning"
	}
	fmt.Fprintf(l.console, "[%s %s → %s]\n",
		verb,
		color.New(color.FgCyan).Sprint(op.Source),
		color.New(color.FgCyan).Sprint(op.Destination))

	name := op.Name
	if name == "" {
		name = string(op.Mode)
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Filter))

	l.zlog.Info().
		Str("job", op.Name).
		Str("source", op.Source).
		Str("destination", op.Destination).
		Str("mode", string(op.Mode)).
		Str("filter", op.Filter).
		Bool("dry_run", op.DryRun).
		Msg("starting transfer")
}

// ⏳ Progress records a file that is about to be transferred
func (l *Logger) Progress(ctx context.Context, p operation.Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.progress = append(l.progress, p)
	l.zlog.Debug().
		Str("file", p.Name).
		Str("progress", l.formatter.FormatProgress(p.Index, p.Total)).
		Msg(p.Verb)
}

// ✅ Complete prints one line per file and the summary of the transfer
func (l *Logger) Complete(ctx context.Context, outcome status.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range outcome.Results {
		fmt.Fprintln(l.console, status.FormatFileLine(outcome.Mode, r))
		l.zlog.Debug().Int("index", r.Index).Str("destination", r.Destination).Msg(l.formatter.FormatFileResult(outcome.Mode, r))
	}

	lines := strings.Split(outcome.Summary(), "\n")
	if outcome.Failure > 0 {
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(lines[0]))
	} else {
		fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(lines[0]))
	}
	for _, line := range lines[1:] {
		fmt.Fprintf(l.console, "   %s\n", color.New(color.Faint).Sprint(line))
	}

	event := l.zlog.Info()
	if outcome.Failure > 0 {
		event = l.zlog.Warn()
	}
	event.
		Int("success", outcome.Success).
		Int("failure", outcome.Failure).
		Int("scanned", outcome.Scanned).
		Int("candidates", outcome.Candidates).
		Int64("bytes", outcome.Bytes()).
		Dur("took", outcome.Duration()).
		Int("progress_events", len(l.progress)).
		Msg("transfer complete")

	l.currentOp = nil
	l.progress = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("overflo")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
