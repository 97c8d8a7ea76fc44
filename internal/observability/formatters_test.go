package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

func TestPrintEnvelope(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	minYears := 5.0
	env := &types.ParseEnvelope{
		OriginalQuery: "Python developers with 5 years experience in Bangalore",
		Parsed: types.ParsedQuery{
			Skills:             []string{"Python"},
			OptionalSkills:     []string{"AWS"},
			MinYearsExperience: &minYears,
			ExperienceOperator: types.OperatorGTE,
			Locations:          []string{"Bangalore"},
			AvailabilityStatus: &types.AvailabilityStatus{Status: types.AvailabilityAvailable},
		},
		SkillsFound: 2,
	}

	p.PrintEnvelope(env)
	output := buf.String()

	assert.Contains(t, output, "Parsed Query")
	assert.Contains(t, output, "Python")
	assert.Contains(t, output, "AWS")
	assert.Contains(t, output, "min 5.0")
	assert.Contains(t, output, "Bangalore")
	assert.Contains(t, output, "Available")
	assert.Contains(t, output, "Skills found: 2")
}

func TestPrintEnvelope_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEnvelope(nil)

	assert.Empty(t, buf.String())
}

func TestPrintEnvelope_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	env := &types.ParseEnvelope{
		Parsed: types.ParsedQuery{
			Skills: []string{"Python", "Java", "Go", "Rust", "C++", "Scala", "Kotlin"},
		},
	}

	p.PrintEnvelope(env)
	output := buf.String()

	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "Kotlin")
}

func TestPrintAppliedFilters(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	env := &types.ParseEnvelope{
		AppliedFilters: []string{"Skills: Python", "Location: Bangalore"},
	}

	p.PrintAppliedFilters(env)
	output := buf.String()

	assert.Contains(t, output, "Applied Filters")
	assert.Contains(t, output, "Skills: Python")
	assert.Contains(t, output, "Location: Bangalore")
}

func TestPrintAppliedFilters_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAppliedFilters(&types.ParseEnvelope{})

	assert.Empty(t, buf.String())
}

func TestPrintTableStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTableStats(tables.Stats{
		Categories:           5,
		Technologies:         29,
		NormalizationEntries: 40,
		Locations:            30,
	})
	output := buf.String()

	assert.Contains(t, output, "Table Stats")
	assert.Contains(t, output, "29")
}
