package sessionlog

import (
	"sync"
	"testing"
	"time"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	monitoring.SetLogger(nil)
}

// lockedSink is a memSink safe for the recorder goroutine.
type lockedSink struct {
	mu sync.Mutex
	memSink
}

func (l *lockedSink) Record(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.memSink.Record(r)
}

func (l *lockedSink) Summary(s Summary) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.memSink.Summary(s)
}

// blockingSink blocks every Record until release is closed.
type blockingSink struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	count   int
}

func (b *blockingSink) Record(Record) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	b.count++
	return nil
}
func (b *blockingSink) Summary(Summary) error { return nil }
func (b *blockingSink) Close() error          { return nil }

func TestRecorder_DeliversInOrder(t *testing.T) {
	sink := &lockedSink{}
	rec := NewRecorder(sink, 16)

	for _, e := range []string{"a", "b", "c"} {
		require.NoError(t, rec.Record(Record{At: t0, Event: e}))
	}
	require.NoError(t, rec.Summary(Summary{Total: time.Second}))
	require.NoError(t, rec.Close())

	require.Len(t, sink.records, 3)
	assert.Equal(t, "a", sink.records[0].Event)
	assert.Equal(t, "c", sink.records[2].Event)
	assert.Len(t, sink.summaries, 1)
	assert.True(t, sink.closed)
	assert.Equal(t, RecorderStats{Written: 4}, rec.Stats())
}

func TestRecorder_SwallowsSinkErrors(t *testing.T) {
	sink := &lockedSink{memSink: memSink{err: errors.New("storage unavailable")}}
	rec := NewRecorder(sink, 4)

	assert.NoError(t, rec.Record(Record{Event: "a"}))
	assert.NoError(t, rec.Summary(Summary{}))
	_ = rec.Close()

	assert.Equal(t, int64(2), rec.Stats().Failed)
	assert.Equal(t, int64(0), rec.Stats().Written)
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	sink := &blockingSink{started: make(chan struct{}), release: make(chan struct{})}
	rec := NewRecorder(sink, 1)

	require.NoError(t, rec.Record(Record{Event: "in flight"}))
	<-sink.started
	require.NoError(t, rec.Record(Record{Event: "queued"}))
	require.NoError(t, rec.Record(Record{Event: "dropped"}))

	close(sink.release)
	require.NoError(t, rec.Close())

	assert.Equal(t, 2, sink.count)
	assert.Equal(t, RecorderStats{Written: 2, Dropped: 1}, rec.Stats())
}

func TestRecorder_AfterClose(t *testing.T) {
	sink := &lockedSink{}
	rec := NewRecorder(sink, 0)
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	assert.NoError(t, rec.Record(Record{Event: "late"}))
	assert.Empty(t, sink.records)
	assert.Equal(t, int64(1), rec.Stats().Dropped)
}
