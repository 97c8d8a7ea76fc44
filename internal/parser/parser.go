// Package parser turns free-text hiring queries into structured requirement
// descriptions: skills with mandatory/optional dispositions, category
// expansions, experience constraints, locations and availability. Parsing is
// deterministic given a table snapshot; the optional LLM tagger only proposes
// entity spans, never final structure.
package parser

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jonathan/talent-query/internal/observability"
	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/tagger"
	"github.com/jonathan/talent-query/internal/types"
)

// Curator records terms the tables did not recognize so they can be reviewed
// and promoted into the dictionary. Implementations must not block.
type Curator interface {
	RecordTerm(term, kind string)
}

// Parser interprets queries against the current table snapshot.
type Parser struct {
	store   *tables.Store
	llm     tagger.Tagger
	curator Curator
	metrics *observability.Metrics
}

// Config carries the parser dependencies. Store is required; everything else
// may be nil.
type Config struct {
	Store   *tables.Store
	LLM     tagger.Tagger
	Curator Curator
	Metrics *observability.Metrics
}

// New builds a parser from cfg.
func New(cfg Config) *Parser {
	return &Parser{
		store:   cfg.Store,
		llm:     cfg.LLM,
		curator: cfg.Curator,
		metrics: cfg.Metrics,
	}
}

// Parse interprets one query. It never fails: an empty or unintelligible
// query produces an empty envelope, and tagger errors fall back to the
// keyword tagger.
func (p *Parser) Parse(ctx context.Context, query string) *types.ParseEnvelope {
	started := time.Now()
	query = strings.TrimSpace(query)
	env := &types.ParseEnvelope{
		OriginalQuery:    query,
		Parsed:           emptyParsed(),
		AppliedFilters:   []string{},
		EntitiesDetected: emptyEntities(),
	}
	if query == "" {
		return env
	}

	tbl := p.store.Get()
	spans := p.tag(ctx, tbl, query)
	lower := strings.ToLower(query)
	rm := buildRequirementMap(tbl, lower)
	firstOpt := firstOptionalKeywordPos(tbl, lower)

	skills := p.extractSkills(tbl, rm, lower, firstOpt, spans)
	cats := extractCategories(tbl, rm, lower, firstOpt)
	exp := extractExperience(tbl, lower, spans)
	locs := extractLocations(tbl, lower)
	avail := extractAvailability(tbl, lower)

	dedupeConflicts(tbl, lower, &skills.all, &skills.mandatory, &skills.optional)

	assemble(env, tbl, lower, skills, cats, exp, locs, avail, spans)

	if p.metrics != nil {
		p.metrics.ParsesTotal.Inc()
		p.metrics.ParseDuration.Observe(time.Since(started).Seconds())
	}
	return env
}

// tag runs the LLM tagger when configured and falls back to the keyword
// tagger on any error.
func (p *Parser) tag(ctx context.Context, tbl *tables.Tables, query string) []types.EntitySpan {
	if p.llm != nil {
		spans, err := p.llm.Tag(ctx, query)
		if err == nil {
			return spans
		}
		log.Printf("llm tagger failed, using keyword tagger: %v", err)
		if p.metrics != nil {
			p.metrics.TaggerFallbacks.Inc()
		}
	}
	return tagger.TagKeywords(tbl, query)
}

// recordUnknown hands an unrecognized term to the curation store, if any.
func (p *Parser) recordUnknown(term, kind string) {
	if term == "" {
		return
	}
	if p.metrics != nil {
		p.metrics.UnknownTerms.Inc()
	}
	if p.curator != nil {
		p.curator.RecordTerm(term, kind)
	}
}

func emptyParsed() types.ParsedQuery {
	return types.ParsedQuery{
		Skills:              []string{},
		MandatorySkills:     []string{},
		OptionalSkills:      []string{},
		SkillOperator:       types.SkillOperatorAnd,
		Categories:          []string{},
		MandatoryCategories: []string{},
		OptionalCategories:  []string{},
		CategorySkills:      []string{},
		SkillRequirements:   []types.SkillRequirement{},
		Locations:           []string{},
		SkillLevels:         []string{},
		Roles:               []string{},
		Certifications:      []string{},
		Companies:           []string{},
		Dates:               []string{},
	}
}

func emptyEntities() types.EntitiesDetected {
	return types.EntitiesDetected{
		Skills:              []string{},
		OptionalSkills:      []string{},
		Categories:          []string{},
		MandatoryCategories: []string{},
		OptionalCategories:  []string{},
		CategorySkills:      []string{},
		TechExperiences:     []string{},
		OverallExperiences:  []string{},
		Locations:           []string{},
		SkillLevels:         []string{},
		Roles:               []string{},
		Certifications:      []string{},
		Companies:           []string{},
		Dates:               []string{},
	}
}
