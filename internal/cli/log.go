// log.go sets up the debug logger shared by all subcommands.
//
// Every run appends structured records to a size-capped, rotated log file
// in the project directory, so a failed overnight deploy can be diagnosed
// after the fact. With --verbose the same records are mirrored to stderr;
// stdout stays reserved for command output either way.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// logFileName is the rotated debug log, kept next to the deployment so
// it travels with the project.
const logFileName = ".redeploy.log"

// logger is the package-wide logger. It defaults to a discard handler so
// code paths that run before initLogger (flag errors, help) stay quiet.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Log returns the CLI's logger. Valid after initLogger has run, which
// the root command's PersistentPreRunE guarantees for every subcommand.
func Log() *slog.Logger {
	return logger
}

// initLogger builds the logger for this run. The file sink always
// records at debug level; the stderr mirror only exists with --verbose.
func initLogger(projectDir string, verbose bool) {
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(projectDir, logFileName),
		MaxSize:    1,  // megabytes per file
		MaxBackups: 2,  // rotated files kept
		MaxAge:     30, // days
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(fileSink, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	if verbose {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	logger = slog.New(multiHandler(handlers))
}

// multiHandler fans every record out to all wrapped handlers. slog has no
// built-in tee, and pulling in a multi-handler dependency for two sinks
// is not worth it.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
