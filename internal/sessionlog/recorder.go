package sessionlog

import (
	"sync"
	"sync/atomic"

	"github.com/banshee-data/propmount/internal/monitoring"
)

// RecorderStats counts what happened to queued items.
type RecorderStats struct {
	Written int64
	Dropped int64 // queue full or recorder closed
	Failed  int64 // sink returned an error
}

type queued struct {
	record  *Record
	summary *Summary
}

// Recorder is a fire-and-forget Sink. Calls enqueue and return nil
// immediately; a single goroutine drains the queue into the wrapped
// sink. A full queue drops the item. Sink errors are counted and logged
// but never reach the caller.
type Recorder struct {
	sink  Sink
	queue chan queued
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	written atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewRecorder starts the drain goroutine. queueSize below 1 is treated as 1.
func NewRecorder(sink Sink, queueSize int) *Recorder {
	if queueSize < 1 {
		queueSize = 1
	}
	r := &Recorder{
		sink:  sink,
		queue: make(chan queued, queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for item := range r.queue {
		var err error
		switch {
		case item.record != nil:
			err = r.sink.Record(*item.record)
		case item.summary != nil:
			err = r.sink.Summary(*item.summary)
		}
		if err != nil {
			r.failed.Add(1)
			monitoring.Logf("[sessionlog] write failed: %v", err)
			continue
		}
		r.written.Add(1)
	}
}

func (r *Recorder) enqueue(item queued) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		return
	}
	select {
	case r.queue <- item:
	default:
		n := r.dropped.Add(1)
		monitoring.Logf("[sessionlog] queue full, dropped item (%d dropped so far)", n)
	}
}

// Record implements Sink. It never fails.
func (r *Recorder) Record(rec Record) error {
	r.enqueue(queued{record: &rec})
	return nil
}

// Summary implements Sink. It never fails.
func (r *Recorder) Summary(s Summary) error {
	r.enqueue(queued{summary: &s})
	return nil
}

// Close stops accepting items, drains the queue and closes the wrapped
// sink. It returns the sink's Close error, if any, for the harness;
// the workflow never calls it. Safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
	return r.sink.Close()
}

// Stats returns the counters.
func (r *Recorder) Stats() RecorderStats {
	return RecorderStats{
		Written: r.written.Load(),
		Dropped: r.dropped.Load(),
		Failed:  r.failed.Load(),
	}
}
