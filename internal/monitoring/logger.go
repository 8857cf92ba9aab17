// Package monitoring holds the diagnostic loggers shared by the
// guidance packages.
package monitoring

import (
	"io"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Streams splits a package's logging into three writers:
//
//   - ops: actionable warnings and errors (sequencing errors, dropped log records)
//   - diag: state transitions and tuning context
//   - trace: per-tick telemetry
//
// All streams start disabled.
type Streams struct {
	prefix string

	mu    sync.RWMutex
	ops   *log.Logger
	diag  *log.Logger
	trace *log.Logger
}

// NewStreams returns disabled streams whose lines carry prefix.
func NewStreams(prefix string) *Streams {
	return &Streams{prefix: prefix}
}

// SetWriters configures the three streams. Pass nil to disable one.
func (s *Streams) SetWriters(ops, diag, trace io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = s.newLogger(ops)
	s.diag = s.newLogger(diag)
	s.trace = s.newLogger(trace)
}

func (s *Streams) newLogger(w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, s.prefix, log.LstdFlags|log.Lmicroseconds)
}

// Opsf logs to the ops stream.
func (s *Streams) Opsf(format string, args ...interface{}) {
	s.printf(func() *log.Logger { return s.ops }, format, args...)
}

// Diagf logs to the diag stream.
func (s *Streams) Diagf(format string, args ...interface{}) {
	s.printf(func() *log.Logger { return s.diag }, format, args...)
}

// Tracef logs to the trace stream.
func (s *Streams) Tracef(format string, args ...interface{}) {
	s.printf(func() *log.Logger { return s.trace }, format, args...)
}

func (s *Streams) printf(pick func() *log.Logger, format string, args ...interface{}) {
	s.mu.RLock()
	l := pick()
	s.mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
