package tagger

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

var (
	yearsBetween = regexp.MustCompile(`(?i)\bbetween\s+\d+(?:\.\d+)?\s+and\s+\d+(?:\.\d+)?\s*(?:years?|yrs?)\b`)
	yearsRange   = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:to|[-–])\s*\d+(?:\.\d+)?\s*\+?\s*(?:years?|yrs?)\b`)
	yearsSingle  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*\+?\s*(?:years?|yrs?)\b`)

	// "experience" directly after a years phrase marks it as overall rather
	// than skill-bound.
	experienceAfter = regexp.MustCompile(`^\s*(?:of\s+)?(?:overall\s+|total\s+)?experience\b`)

	wordToken = regexp.MustCompile(`[A-Za-z]+`)
)

// skillLevelTerms are matched longest-first so "entry level" wins over any
// shorter overlap.
var skillLevelTerms = []string{
	"entry level", "entry-level", "mid level", "mid-level", "intermediate",
	"experienced", "beginner", "fresher", "senior", "junior", "expert",
}

// TagKeywords is the deterministic tagger. It scans text against the given
// table snapshot and never fails; the parser uses it directly and as the
// fallback when an LLM tagger errors.
func TagKeywords(tbl *tables.Tables, text string) []types.EntitySpan {
	lower := strings.ToLower(text)
	var spans []types.EntitySpan

	techSpans := make([][2]int, 0, 4)
	for _, m := range tbl.ScanSkills(text) {
		techSpans = append(techSpans, [2]int{m.Start, m.End})
		spans = append(spans, types.EntitySpan{Start: m.Start, End: m.End, Label: types.LabelTechnology, Text: text[m.Start:m.End]})
	}
	for _, m := range tbl.ScanCategories(text) {
		spans = append(spans, types.EntitySpan{Start: m.Start, End: m.End, Label: types.LabelTechCategory, Text: text[m.Start:m.End]})
	}

	spans = append(spans, tagExperience(text, techSpans)...)

	for _, m := range tbl.ScanLocations(text) {
		spans = append(spans, types.EntitySpan{Start: m.Start, End: m.End, Label: types.LabelLocation, Text: text[m.Start:m.End]})
	}

	for _, idx := range wordToken.FindAllStringIndex(text, -1) {
		word := lower[idx[0]:idx[1]]
		if tbl.IsRoleKeyword(word) || tbl.IsRoleKeyword(strings.TrimSuffix(word, "s")) {
			spans = append(spans, types.EntitySpan{Start: idx[0], End: idx[1], Label: types.LabelRole, Text: text[idx[0]:idx[1]]})
		}
	}

	var levelTaken [][2]int
	for _, term := range skillLevelTerms {
		for _, occ := range tables.FindTerm(lower, term) {
			if overlaps(levelTaken, occ) {
				continue
			}
			levelTaken = append(levelTaken, occ)
			spans = append(spans, types.EntitySpan{Start: occ[0], End: occ[1], Label: types.LabelSkillLevel, Text: text[occ[0]:occ[1]]})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// tagExperience finds years-of-experience phrases. A phrase immediately
// followed by "experience" is overall; otherwise it is tech-bound when a
// technology occurs in the same comma clause, and overall when none does.
func tagExperience(text string, techSpans [][2]int) []types.EntitySpan {
	var spans []types.EntitySpan
	var taken [][2]int
	for _, re := range []*regexp.Regexp{yearsBetween, yearsRange, yearsSingle} {
		for _, idx := range re.FindAllStringIndex(text, -1) {
			occ := [2]int{idx[0], idx[1]}
			if overlaps(taken, occ) {
				continue
			}
			taken = append(taken, occ)

			label := types.LabelTechExperience
			if experienceAfter.MatchString(strings.ToLower(text[idx[1]:])) {
				label = types.LabelOverallExperience
			} else if !techInSameClause(text, occ, techSpans) {
				label = types.LabelOverallExperience
			}
			spans = append(spans, types.EntitySpan{Start: idx[0], End: idx[1], Label: label, Text: text[idx[0]:idx[1]]})
		}
	}
	return spans
}

func techInSameClause(text string, occ [2]int, techSpans [][2]int) bool {
	lo, hi := clauseBounds(text, occ[0])
	for _, ts := range techSpans {
		if ts[0] >= lo && ts[1] <= hi {
			return true
		}
	}
	return false
}

// clauseBounds returns the comma-delimited clause containing byte offset pos.
func clauseBounds(text string, pos int) (int, int) {
	lo := strings.LastIndex(text[:pos], ",") + 1
	hi := strings.Index(text[pos:], ",")
	if hi < 0 {
		hi = len(text)
	} else {
		hi += pos
	}
	return lo, hi
}

func overlaps(taken [][2]int, occ [2]int) bool {
	for _, iv := range taken {
		if occ[0] < iv[1] && iv[0] < occ[1] {
			return true
		}
	}
	return false
}
