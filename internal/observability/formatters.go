// Package observability provides parse metrics plus formatted output
// utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintEnvelope outputs a human-readable summary of one parsed query.
func (p *Printer) PrintEnvelope(env *types.ParseEnvelope) {
	if env == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Query: %s\n", env.OriginalQuery))
	sb.WriteString("\n")

	writeList(&sb, "Skills", env.Parsed.Skills)
	writeList(&sb, "Optional Skills", env.Parsed.OptionalSkills)
	writeList(&sb, "Categories", env.Parsed.Categories)
	writeList(&sb, "Category Skills", env.Parsed.CategorySkills)

	if env.Parsed.MinYearsExperience != nil || env.Parsed.MaxYearsExperience != nil {
		sb.WriteString("Experience: ")
		if env.Parsed.MinYearsExperience != nil {
			sb.WriteString(fmt.Sprintf("min %.1f", *env.Parsed.MinYearsExperience))
		}
		if env.Parsed.MaxYearsExperience != nil {
			sb.WriteString(fmt.Sprintf(" max %.1f", *env.Parsed.MaxYearsExperience))
		}
		if env.Parsed.ExperienceOperator != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", env.Parsed.ExperienceOperator))
		}
		sb.WriteString("\n")
	}

	writeList(&sb, "Locations", env.Parsed.Locations)

	if env.Parsed.AvailabilityStatus != nil {
		sb.WriteString(fmt.Sprintf("Availability: %s\n", env.Parsed.AvailabilityStatus.Status))
	}

	sb.WriteString(fmt.Sprintf("\nSkills found: %d", env.SkillsFound))

	p.printBox("Parsed Query", sb.String())
}

// PrintAppliedFilters outputs the filter list derived from one parse.
func (p *Printer) PrintAppliedFilters(env *types.ParseEnvelope) {
	if env == nil || len(env.AppliedFilters) == 0 {
		return
	}
	p.printBox("Applied Filters", strings.Join(env.AppliedFilters, "\n"))
}

// PrintTableStats outputs counts for the loaded lookup tables.
func (p *Printer) PrintTableStats(stats tables.Stats) {
	content := fmt.Sprintf("Categories:     %d\nTechnologies:   %d\nNormalizations: %d\nLocations:      %d",
		stats.Categories, stats.Technologies, stats.NormalizationEntries, stats.Locations)
	p.printBox("Table Stats", content)
}
