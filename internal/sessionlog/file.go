package sessionlog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/propmount/internal/fsutil"
)

// FileSink appends to a plain-text log, one record per line. The file
// is opened in append mode per write so a crash loses at most one line.
type FileSink struct {
	fs   fsutil.FileSystem
	path string
}

// NewFileSink creates dir if needed and returns a sink writing to
// dir/FileName(started).
func NewFileSink(fs fsutil.FileSystem, dir string, started time.Time) (*FileSink, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	return &FileSink{fs: fs, path: filepath.Join(dir, FileName(started))}, nil
}

// Path returns the log file path.
func (f *FileSink) Path() string { return f.path }

// Record implements Sink.
func (f *FileSink) Record(r Record) error {
	return f.append(FormatRecord(r) + "\n")
}

// Summary implements Sink.
func (f *FileSink) Summary(s Summary) error {
	return f.append(strings.Join(FormatSummary(s), "\n") + "\n")
}

// Close implements Sink.
func (f *FileSink) Close() error { return nil }

func (f *FileSink) append(text string) error {
	if err := f.fs.AppendFile(f.path, []byte(text), 0644); err != nil {
		return fmt.Errorf("append %s: %w", f.path, err)
	}
	return nil
}
