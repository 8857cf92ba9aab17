package workflow

import (
	"io"

	"github.com/banshee-data/propmount/internal/monitoring"
)

var logs = monitoring.NewStreams("[workflow] ")

// SetLogWriters configures the three logging streams for the workflow package.
// Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	logs.SetWriters(ops, diag, trace)
}

// opsf logs to the ops stream (rejected events, sequencing errors).
func opsf(format string, args ...interface{}) { logs.Opsf(format, args...) }

// diagf logs to the diag stream (step transitions).
func diagf(format string, args ...interface{}) { logs.Diagf(format, args...) }

// tracef logs to the trace stream (every handled event).
func tracef(format string, args ...interface{}) { logs.Tracef(format, args...) }
