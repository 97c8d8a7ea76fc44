// Package tables holds the immutable lookup tables the query parser reads:
// the technology dictionary with its categories, the skill normalization map,
// the location gazetteer, availability keywords and the requirement keyword
// sets. Tables are loaded once at startup and swapped atomically on reload;
// they are never mutated in place.
package tables

import (
	"regexp"
	"sort"
	"strings"
)

// Category is a named group of related technologies that can be required
// generically ("any cloud platform"). Name, Aliases and Keywords are all
// trigger phrases; Technologies is the member skill set the category expands
// to.
type Category struct {
	Name         string   `json:"name" validate:"required"`
	Aliases      []string `json:"aliases"`
	Keywords     []string `json:"keywords"`
	Technologies []string `json:"technologies" validate:"required,min=1,dive,required"`
}

// Technology describes one canonical skill: the category it belongs to and
// the variant spellings that normalize to it.
type Technology struct {
	Category string   `json:"category" validate:"required"`
	Variants []string `json:"variants"`
}

// TechDictionary is the full technology dictionary. Categories keeps its
// configured order; Technologies maps canonical skill names to their entries.
type TechDictionary struct {
	Categories   []Category            `json:"categories" validate:"required,min=1,dive"`
	Technologies map[string]Technology `json:"technologies" validate:"required,min=1,dive"`
}

// AvailabilityKeywords maps each availability bucket to the keywords that
// signal it.
type AvailabilityKeywords struct {
	Available    []string `json:"available" validate:"required,min=1"`
	Limited      []string `json:"limited" validate:"required,min=1"`
	NotAvailable []string `json:"not_available" validate:"required,min=1"`
}

// RequirementKeywords holds the phrase sets that mark a clause mandatory or
// optional, plus the role words that double as generic category triggers and
// the query verbs that taggers sometimes mislabel as technologies.
type RequirementKeywords struct {
	Mandatory []string `json:"mandatory" validate:"required,min=1,dive,required"`
	Optional  []string `json:"optional" validate:"required,min=1,dive,required"`
	Roles     []string `json:"roles" validate:"required,min=1,dive,required"`
	Verbs     []string `json:"verbs" validate:"dive,required"`
}

// DefaultRequirementKeywords returns the built-in requirement keyword sets.
// These are data, not logic; keywords.json overrides them.
func DefaultRequirementKeywords() RequirementKeywords {
	return RequirementKeywords{
		Mandatory: []string{"mandatory", "required", "must have", "essential"},
		Optional:  []string{"optional", "nice to have", "good to have", "preferred", "bonus", "added advantage", "not required"},
		Roles:     []string{"developer", "programmer", "engineer", "architect", "analyst", "consultant"},
		Verbs:     []string{"find", "show", "get", "give", "need", "want", "list", "display", "search", "looking", "guide", "fetch", "suggest", "provide"},
	}
}

// DefaultAvailabilityKeywords returns the built-in availability keyword
// buckets, overridable by availability.json.
func DefaultAvailabilityKeywords() AvailabilityKeywords {
	return AvailabilityKeywords{
		Available:    []string{"immediate", "immediately", "asap", "urgently", "urgent", "right away", "straight away"},
		Limited:      []string{"part time", "part-time", "part-timer", "contract", "freelance", "support", "temporarily", "flexible"},
		NotAvailable: []string{"no availability", "not available", "unavailable", "not immediately"},
	}
}

// Tables is the immutable set of lookup tables one parse call reads. All
// exported fields are fixed after Load; the unexported indexes are derived
// once and shared by every stage.
type Tables struct {
	Dictionary    TechDictionary
	Normalization map[string]string
	Locations     []string
	Availability  AvailabilityKeywords
	Keywords      RequirementKeywords

	canonical     map[string]string // lower-cased name, variant or alias -> canonical skill
	skillTerms    []term            // longest-first scan order over all known spellings
	catTriggers   []catTrigger      // category name + alias triggers, longest first
	suffixes      []string          // requirement keywords stripped from skill text
	roleSet       map[string]bool
	verbSet       map[string]bool
	locationTerms []term
}

// term is one scannable spelling with an optional word-boundary pattern.
// pattern is nil for terms with punctuation (".net", "c++") which match by
// plain substring instead.
type term struct {
	lower   string
	pattern *regexp.Regexp
}

type catTrigger struct {
	term
	category string // canonical category name
}

// SkillMatch is one technology occurrence found by scanning raw text.
type SkillMatch struct {
	Start     int
	End       int
	Raw       string
	Canonical string
}

// CategoryMatch is one category name or alias occurrence found in raw text.
type CategoryMatch struct {
	Start int
	End   int
	Raw   string
	Name  string
}

var wordLike = regexp.MustCompile(`^[a-z0-9][a-z0-9 _-]*$`)

func newTerm(lower string) term {
	if wordLike.MatchString(lower) {
		return term{lower: lower, pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(lower) + `\b`)}
	}
	return term{lower: lower}
}

// occurrences returns the byte offsets of every match of t in lowerText.
func (t term) occurrences(lowerText string) [][2]int {
	if t.pattern != nil {
		idx := t.pattern.FindAllStringIndex(lowerText, -1)
		out := make([][2]int, 0, len(idx))
		for _, m := range idx {
			out = append(out, [2]int{m[0], m[1]})
		}
		return out
	}
	var out [][2]int
	for from := 0; ; {
		i := strings.Index(lowerText[from:], t.lower)
		if i < 0 {
			break
		}
		start := from + i
		out = append(out, [2]int{start, start + len(t.lower)})
		from = start + len(t.lower)
	}
	return out
}

// finalize builds the derived indexes. Called once by Load after validation.
func (t *Tables) finalize() {
	t.canonical = make(map[string]string)
	for name, tech := range t.Dictionary.Technologies {
		t.canonical[strings.ToLower(name)] = name
		for _, v := range tech.Variants {
			t.canonical[strings.ToLower(v)] = name
		}
	}
	for alias, target := range t.Normalization {
		canonical := target
		if resolved, ok := t.canonical[strings.ToLower(target)]; ok {
			canonical = resolved
		}
		t.canonical[strings.ToLower(alias)] = canonical
	}

	t.skillTerms = make([]term, 0, len(t.canonical))
	for spelling := range t.canonical {
		t.skillTerms = append(t.skillTerms, newTerm(spelling))
	}
	sortTermsLongestFirst(t.skillTerms)

	for _, cat := range t.Dictionary.Categories {
		t.catTriggers = append(t.catTriggers, catTrigger{term: newTerm(strings.ToLower(cat.Name)), category: cat.Name})
		for _, alias := range cat.Aliases {
			t.catTriggers = append(t.catTriggers, catTrigger{term: newTerm(strings.ToLower(alias)), category: cat.Name})
		}
	}
	sort.SliceStable(t.catTriggers, func(i, j int) bool {
		return len(t.catTriggers[i].lower) > len(t.catTriggers[j].lower)
	})

	t.suffixes = append(append([]string{}, t.Keywords.Mandatory...), t.Keywords.Optional...)

	t.roleSet = make(map[string]bool, len(t.Keywords.Roles))
	for _, r := range t.Keywords.Roles {
		t.roleSet[strings.ToLower(r)] = true
	}

	t.verbSet = make(map[string]bool, len(t.Keywords.Verbs))
	for _, v := range t.Keywords.Verbs {
		t.verbSet[strings.ToLower(v)] = true
	}

	t.locationTerms = make([]term, 0, len(t.Locations))
	for _, loc := range t.Locations {
		t.locationTerms = append(t.locationTerms, newTerm(strings.ToLower(loc)))
	}
	sortTermsLongestFirst(t.locationTerms)
}

func sortTermsLongestFirst(terms []term) {
	sort.SliceStable(terms, func(i, j int) bool {
		if len(terms[i].lower) != len(terms[j].lower) {
			return len(terms[i].lower) > len(terms[j].lower)
		}
		return terms[i].lower < terms[j].lower
	})
}

// NormalizeSkill maps raw entity text to its canonical skill name. It
// case-folds, strips one trailing requirement-keyword suffix ("GraphQL
// optional" -> "graphql") and consults the normalization indexes; unknown
// terms pass through case-folded. The result is stable under repeated
// normalization.
func (t *Tables) NormalizeSkill(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, kw := range t.suffixes {
		if strings.HasSuffix(s, " "+kw) {
			s = strings.TrimSpace(strings.TrimSuffix(s, kw))
			break
		}
	}
	if canonical, ok := t.canonical[s]; ok {
		return canonical
	}
	return s
}

// KnownSkill reports whether raw text (case-insensitive) resolves to a
// canonical skill in the dictionary or normalization map.
func (t *Tables) KnownSkill(raw string) bool {
	_, ok := t.canonical[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ScanSkills finds every known technology spelling in text. Longer spellings
// win over shorter ones occupying the same region ("JavaScript" before
// "Java"), and overlapping matches are dropped. Matches are returned in
// document order.
func (t *Tables) ScanSkills(text string) []SkillMatch {
	lower := strings.ToLower(text)
	var taken [][2]int
	var out []SkillMatch
	for _, st := range t.skillTerms {
		for _, occ := range st.occurrences(lower) {
			if overlapsAny(taken, occ) {
				continue
			}
			taken = append(taken, occ)
			out = append(out, SkillMatch{
				Start:     occ[0],
				End:       occ[1],
				Raw:       lower[occ[0]:occ[1]],
				Canonical: t.canonical[st.lower],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// ScanCategories finds category names and aliases in text, longest trigger
// first, in document order. Bare trigger keywords (including role words) are
// not scanned here; the category resolver handles those with its proximity
// rules.
func (t *Tables) ScanCategories(text string) []CategoryMatch {
	lower := strings.ToLower(text)
	var taken [][2]int
	var out []CategoryMatch
	for _, ct := range t.catTriggers {
		for _, occ := range ct.occurrences(lower) {
			if overlapsAny(taken, occ) {
				continue
			}
			taken = append(taken, occ)
			out = append(out, CategoryMatch{
				Start: occ[0],
				End:   occ[1],
				Raw:   lower[occ[0]:occ[1]],
				Name:  ct.category,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// ScanLocations finds gazetteer entries in text, longest first, in document
// order.
func (t *Tables) ScanLocations(text string) []SkillMatch {
	lower := strings.ToLower(text)
	var taken [][2]int
	var out []SkillMatch
	for _, lt := range t.locationTerms {
		for _, occ := range lt.occurrences(lower) {
			if overlapsAny(taken, occ) {
				continue
			}
			taken = append(taken, occ)
			out = append(out, SkillMatch{Start: occ[0], End: occ[1], Raw: lower[occ[0]:occ[1]]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// FindTerm returns the offsets of every occurrence of phrase in lowerText,
// word-boundary matched when the phrase is word-like.
func FindTerm(lowerText, phrase string) [][2]int {
	return newTerm(strings.ToLower(phrase)).occurrences(lowerText)
}

// LookupCategory resolves raw text to a configured category by name or alias.
func (t *Tables) LookupCategory(raw string) (Category, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, cat := range t.Dictionary.Categories {
		if strings.ToLower(cat.Name) == lower {
			return cat, true
		}
		for _, alias := range cat.Aliases {
			if strings.ToLower(alias) == lower {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// ExpandCategory returns the member skills of the named category, or nil when
// the category is not configured.
func (t *Tables) ExpandCategory(name string) []string {
	cat, ok := t.LookupCategory(name)
	if !ok {
		return nil
	}
	return append([]string{}, cat.Technologies...)
}

// IsRoleKeyword reports whether word is one of the configured role words.
func (t *Tables) IsRoleKeyword(word string) bool {
	return t.roleSet[strings.ToLower(word)]
}

// IsVerbToken reports whether word is one of the configured query verbs
// ("find", "show"). Verb tokens are never worth curating as skills.
func (t *Tables) IsVerbToken(word string) bool {
	return t.verbSet[strings.ToLower(strings.TrimSpace(word))]
}

// Stats summarizes the loaded tables for diagnostics endpoints.
type Stats struct {
	Categories           int `json:"categories"`
	Technologies         int `json:"technologies"`
	NormalizationEntries int `json:"normalization_entries"`
	Locations            int `json:"locations"`
}

// Stats returns counts for the loaded tables.
func (t *Tables) Stats() Stats {
	return Stats{
		Categories:           len(t.Dictionary.Categories),
		Technologies:         len(t.Dictionary.Technologies),
		NormalizationEntries: len(t.Normalization),
		Locations:            len(t.Locations),
	}
}

func overlapsAny(taken [][2]int, occ [2]int) bool {
	for _, iv := range taken {
		if occ[0] < iv[1] && iv[0] < occ[1] {
			return true
		}
	}
	return false
}
