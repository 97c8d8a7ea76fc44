package curation

import (
	"context"
	"log"
	"sync"
	"time"
)

// TermSink is where the recorder delivers terms; *Store implements it.
type TermSink interface {
	RecordTerm(ctx context.Context, term, kind string) error
}

const recordTimeout = 5 * time.Second

type entry struct {
	term, kind string
}

// Recorder decouples parsing from the database. RecordTerm enqueues and never
// blocks; a single worker drains the queue in the background. When the queue
// is full the term is dropped rather than stalling a parse.
type Recorder struct {
	sink  TermSink
	queue chan entry

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder starts a recorder with the given queue size (256 when <= 0).
func NewRecorder(sink TermSink, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{sink: sink, queue: make(chan entry, buffer)}
	r.wg.Add(1)
	go r.drain()
	return r
}

// RecordTerm enqueues one term without blocking.
func (r *Recorder) RecordTerm(term, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- entry{term: term, kind: kind}:
	default:
	}
}

// Close stops accepting terms and waits for the queue to drain.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.sink.RecordTerm(ctx, e.term, e.kind); err != nil {
			log.Printf("curation: failed to record term %q: %v", e.term, err)
		}
		cancel()
	}
}
