package buddy

import (
	"context"
	"log/slog"
)

// nopHandler silently discards all log records. Enabled returns false so
// the caller skips message formatting entirely, making disabled logging
// effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// LoggingAllocator wraps an Allocator and logs every Allocate and
// Deallocate call. The facade itself performs no logging — this
// decorator exists for callers who want visibility without paying for it
// by default. A LoggingAllocator built by NewLoggingAllocator logs
// nothing until given a logger via SetLogger; the zero value is not
// usable.
type LoggingAllocator struct {
	*Allocator
	logger *slog.Logger
}

// NewLoggingAllocator wraps a with a silent logger; use SetLogger to
// enable output.
func NewLoggingAllocator(a *Allocator) *LoggingAllocator {
	return &LoggingAllocator{Allocator: a, logger: slog.New(nopHandler{})}
}

// SetLogger installs the logger used for subsequent calls. Passing nil
// restores silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: every successful Allocate and Deallocate
//   - [slog.LevelWarn]: Allocate calls that returned an error
//     (ErrOutOfMemory or an invalid alignment)
func (l *LoggingAllocator) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}
	l.logger = logger
}

// Allocate logs and delegates to the wrapped Allocator.
func (l *LoggingAllocator) Allocate(size, alignment uint64) (uint64, error) {
	offset, err := l.Allocator.Allocate(size, alignment)
	if err != nil {
		l.logger.Warn("allocate failed", "size", size, "alignment", alignment, "error", err)
		return offset, err
	}
	l.logger.Debug("allocate", "size", size, "alignment", alignment, "offset", offset)
	return offset, nil
}

// Deallocate logs and delegates to the wrapped Allocator.
func (l *LoggingAllocator) Deallocate(offset, size, alignment uint64) {
	l.logger.Debug("deallocate", "offset", offset, "size", size, "alignment", alignment)
	l.Allocator.Deallocate(offset, size, alignment)
}
