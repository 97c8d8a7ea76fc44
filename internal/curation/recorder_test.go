package curation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSink struct {
	mu    sync.Mutex
	terms []string
}

func (f *fakeSink) RecordTerm(_ context.Context, term, kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, kind+":"+term)
	return nil
}

func TestRecorderDeliversInOrder(t *testing.T) {
	sink := &fakeSink{}
	rec := NewRecorder(sink, 8)
	rec.RecordTerm("clojure", "skill")
	rec.RecordTerm("gotham", "location")
	rec.Close()

	assert.Equal(t, []string{"skill:clojure", "location:gotham"}, sink.terms)
}

func TestRecorderDropsWhenClosed(t *testing.T) {
	sink := &fakeSink{}
	rec := NewRecorder(sink, 8)
	rec.Close()
	rec.RecordTerm("late", "skill")

	assert.Empty(t, sink.terms)
}

func TestRecorderCloseIsIdempotent(t *testing.T) {
	rec := NewRecorder(&fakeSink{}, 8)
	rec.Close()
	rec.Close()
}
