package parser

import (
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

// buildRequirementMap walks the query clause by clause and records a
// disposition for every skill and category mentioned in a clause that carries
// a requirement keyword. Keys are lower-cased raw and canonical spellings;
// later clauses overwrite earlier ones, so the last mention of a term wins.
//
// Clauses split on commas; " and " splits each clause into subclauses that
// inherit the clause disposition unless they carry their own keyword.
func buildRequirementMap(tbl *tables.Tables, lowerQuery string) map[string]types.Disposition {
	rm := make(map[string]types.Disposition)
	for _, clause := range strings.Split(lowerQuery, ",") {
		clauseDisp := dispositionOf(tbl, clause)
		for _, sub := range strings.Split(clause, " and ") {
			d := dispositionOf(tbl, sub)
			if d == types.DispositionUnknown {
				d = clauseDisp
			}
			if d == types.DispositionUnknown {
				continue
			}
			for _, m := range tbl.ScanSkills(sub) {
				rm[m.Raw] = d
				rm[strings.ToLower(m.Canonical)] = d
			}
			for _, m := range tbl.ScanCategories(sub) {
				rm[m.Raw] = d
				rm[strings.ToLower(m.Name)] = d
			}
		}
	}
	return rm
}

// dispositionOf classifies one text segment by its requirement keywords.
// Optional phrases are located first so a mandatory word embedded in a negated
// phrase ("not required") cannot flip the segment to mandatory.
func dispositionOf(tbl *tables.Tables, segment string) types.Disposition {
	segment = strings.ToLower(segment)
	var optOccs [][2]int
	for _, kw := range tbl.Keywords.Optional {
		optOccs = append(optOccs, tables.FindTerm(segment, kw)...)
	}
	for _, kw := range tbl.Keywords.Mandatory {
		for _, occ := range tables.FindTerm(segment, kw) {
			if !overlapsAny(optOccs, occ) {
				return types.DispositionMandatory
			}
		}
	}
	if len(optOccs) > 0 {
		return types.DispositionOptional
	}
	return types.DispositionUnknown
}

// firstOptionalKeywordPos returns the byte offset of the earliest optional
// keyword in the query, or len(lowerQuery) when none occurs. Terms appearing
// before this point default to mandatory.
func firstOptionalKeywordPos(tbl *tables.Tables, lowerQuery string) int {
	first := len(lowerQuery)
	for _, kw := range tbl.Keywords.Optional {
		for _, occ := range tables.FindTerm(lowerQuery, kw) {
			if occ[0] < first {
				first = occ[0]
			}
		}
	}
	return first
}

// windowDisposition inspects the text between the end of an entity and the
// end of its enclosing subclause (the next comma or " and ") for requirement
// keywords. The entity's own spelling is excluded from the window.
func windowDisposition(tbl *tables.Tables, lowerQuery string, entityEnd int) (types.Disposition, bool) {
	winEnd := len(lowerQuery)
	if i := strings.Index(lowerQuery[entityEnd:], ","); i >= 0 {
		winEnd = entityEnd + i
	}
	if i := strings.Index(lowerQuery[entityEnd:winEnd], " and "); i >= 0 {
		winEnd = entityEnd + i
	}
	d := dispositionOf(tbl, lowerQuery[entityEnd:winEnd])
	return d, d != types.DispositionUnknown
}

// classifyTerm resolves a term's disposition: the requirement map wins, then
// anything before the first optional keyword is mandatory, then the text
// trailing the term in its subclause is inspected, and mandatory is the
// final default.
func classifyTerm(tbl *tables.Tables, rm map[string]types.Disposition, lowerQuery string, keys []string, start, end, firstOpt int) types.Disposition {
	for _, k := range keys {
		if d, ok := rm[k]; ok && d != types.DispositionUnknown {
			return d
		}
	}
	if start < firstOpt {
		return types.DispositionMandatory
	}
	if d, ok := windowDisposition(tbl, lowerQuery, end); ok {
		return d
	}
	return types.DispositionMandatory
}

// extractSkills resolves every TECHNOLOGY span to a canonical skill and a
// disposition. Terms the tables do not know are omitted from the result and
// handed to curation instead.
func (p *Parser) extractSkills(tbl *tables.Tables, rm map[string]types.Disposition, lowerQuery string, firstOpt int, spans []types.EntitySpan) skillSet {
	seen := make(map[string]bool)
	var out skillSet
	for _, s := range spans {
		if s.Label != types.LabelTechnology {
			continue
		}
		canonical := tbl.NormalizeSkill(s.Text)
		if !tbl.KnownSkill(canonical) {
			// LLM taggers occasionally label a query verb ("find", "show")
			// as a technology; those are noise, not curation candidates.
			if !tbl.IsVerbToken(canonical) {
				p.recordUnknown(canonical, "skill")
			}
			continue
		}
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys := []string{strings.ToLower(strings.TrimSpace(s.Text)), key}
		out.all = append(out.all, canonical)
		if classifyTerm(tbl, rm, lowerQuery, keys, s.Start, s.End, firstOpt) == types.DispositionOptional {
			out.optional = append(out.optional, canonical)
		} else {
			out.mandatory = append(out.mandatory, canonical)
		}
	}
	return out
}

// skillSet is the outcome of the skill stage. all keeps document order;
// mandatory and optional partition it.
type skillSet struct {
	all       []string
	mandatory []string
	optional  []string
}

func overlapsAny(taken [][2]int, occ [2]int) bool {
	for _, iv := range taken {
		if occ[0] < iv[1] && iv[0] < occ[1] {
			return true
		}
	}
	return false
}
