package parser

import (
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

// roleProximity is how many characters before a role keyword are checked for
// a concrete technology. "Python developer" names a skill, not a request for
// every programming language.
const roleProximity = 15

// catSet is the outcome of the category stage.
type catSet struct {
	all       []string
	mandatory []string
	optional  []string
	skills    []string
}

// extractCategories detects requested technology groups. A category triggers
// on its name, an alias, or a bare keyword; role keywords are suppressed when
// a concrete technology immediately precedes them.
func extractCategories(tbl *tables.Tables, rm map[string]types.Disposition, lowerQuery string, firstOpt int) catSet {
	var out catSet
	seenSkill := make(map[string]bool)

	for _, cat := range tbl.Dictionary.Categories {
		hit, ok := findCategoryHit(tbl, lowerQuery, cat)
		if !ok {
			continue
		}
		out.all = append(out.all, cat.Name)

		keys := append(hit.rawKeys, strings.ToLower(cat.Name))
		if classifyTerm(tbl, rm, lowerQuery, keys, hit.start, hit.end, firstOpt) == types.DispositionOptional {
			out.optional = append(out.optional, cat.Name)
		} else {
			out.mandatory = append(out.mandatory, cat.Name)
		}

		for _, skill := range cat.Technologies {
			key := strings.ToLower(skill)
			if !seenSkill[key] {
				seenSkill[key] = true
				out.skills = append(out.skills, skill)
			}
		}
	}
	return out
}

type categoryHit struct {
	start   int
	end     int
	rawKeys []string
}

func findCategoryHit(tbl *tables.Tables, lowerQuery string, cat tables.Category) (categoryHit, bool) {
	hit := categoryHit{start: len(lowerQuery), end: len(lowerQuery)}
	found := false

	record := func(phrase string, occ [2]int) {
		found = true
		if occ[0] < hit.start {
			hit.start = occ[0]
			hit.end = occ[1]
		}
		hit.rawKeys = append(hit.rawKeys, strings.ToLower(phrase))
	}

	triggers := append([]string{cat.Name}, cat.Aliases...)
	for _, phrase := range triggers {
		for _, occ := range tables.FindTerm(lowerQuery, phrase) {
			record(phrase, occ)
		}
	}

	for _, kw := range cat.Keywords {
		// A keyword that is itself a known skill would fire on every
		// mention of that skill; skip it.
		if tbl.KnownSkill(kw) {
			continue
		}
		for _, occ := range tables.FindTerm(lowerQuery, kw) {
			if tbl.IsRoleKeyword(kw) && techPrecedes(tbl, lowerQuery, occ[0]) {
				continue
			}
			record(kw, occ)
		}
	}
	return hit, found
}

// techPrecedes reports whether a known technology occurs in the few
// characters before pos.
func techPrecedes(tbl *tables.Tables, lowerQuery string, pos int) bool {
	from := pos - roleProximity
	if from < 0 {
		from = 0
	}
	return len(tbl.ScanSkills(lowerQuery[from:pos])) > 0
}
