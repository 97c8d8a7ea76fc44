// Package tagger labels entity spans in free-text hiring queries. Two
// implementations exist: a deterministic keyword tagger driven entirely by the
// lookup tables, and an optional Gemini-backed tagger. The parser always falls
// back to the keyword tagger when the LLM one fails, so parsing never depends
// on a network call succeeding.
package tagger

import (
	"context"

	"github.com/jonathan/talent-query/internal/types"
)

// Tagger finds labeled entity spans in raw query text. Span offsets are byte
// offsets into text.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]types.EntitySpan, error)
}
