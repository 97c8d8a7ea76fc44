package parser

import (
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
)

// dedupeConflicts removes skills whose every occurrence in the query sits
// inside a longer skill's spelling: "Java" reported alongside "JavaScript",
// or "SQL" alongside "SQL Server", when the shorter term never appears on its
// own. The shorter skill is dropped from every list.
func dedupeConflicts(tbl *tables.Tables, lowerQuery string, lists ...*[]string) {
	var union []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, skill := range *list {
			key := strings.ToLower(skill)
			if !seen[key] {
				seen[key] = true
				union = append(union, skill)
			}
		}
	}
	if len(union) < 2 {
		return
	}

	drop := make(map[string]bool)
	for _, short := range union {
		for _, long := range union {
			if short == long || !strings.Contains(strings.ToLower(long), strings.ToLower(short)) {
				continue
			}
			longOccs := skillOccurrences(tbl, lowerQuery, long)
			standalone := 0
			for _, occ := range skillOccurrences(tbl, lowerQuery, short) {
				if !overlapsAny(longOccs, occ) {
					standalone++
				}
			}
			if standalone == 0 {
				drop[strings.ToLower(short)] = true
			}
		}
	}
	if len(drop) == 0 {
		return
	}

	for _, list := range lists {
		kept := (*list)[:0]
		for _, skill := range *list {
			if !drop[strings.ToLower(skill)] {
				kept = append(kept, skill)
			}
		}
		*list = kept
	}
}

// skillOccurrences finds every occurrence of a skill under any of its
// spellings.
func skillOccurrences(tbl *tables.Tables, lowerQuery, canonical string) [][2]int {
	occs := tables.FindTerm(lowerQuery, canonical)
	if tech, ok := tbl.Dictionary.Technologies[canonical]; ok {
		for _, v := range tech.Variants {
			if strings.EqualFold(v, canonical) {
				continue
			}
			occs = append(occs, tables.FindTerm(lowerQuery, v)...)
		}
	}
	return occs
}
