// Package cli implements the hoverfx command-line interface.
//
// This package provides commands for hovering figures from the shell,
// exploring them interactively in the terminal, inspecting how overlapping
// labels were grouped, serving the HTTP API and managing the SVG cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - hover: Run one hover cycle and print the points, labels and spikes
//   - explore: Hover a figure with the mouse in the terminal
//   - groups: Debug tool rendering the label overlap groups with Graphviz
//   - serve: Run the HTTP and WebSocket API
//   - cache: Manage the rendered SVG cache
//
// # Configuration
//
// Hover defaults, the cache directory and the serve address are read from
// $XDG_CONFIG_HOME/hoverfx/config.toml, or the file named by --config.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/hoverfx/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level along with the elapsed time, rounded to the
// microsecond. Example output: "Hovered fig-1 (312µs)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Microsecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
