package parser

import (
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
)

// extractLocations returns gazetteer hits in document order, spelled the way
// the gazetteer spells them regardless of query casing.
func extractLocations(tbl *tables.Tables, lowerQuery string) []string {
	canonical := make(map[string]string, len(tbl.Locations))
	for _, loc := range tbl.Locations {
		canonical[strings.ToLower(loc)] = loc
	}

	seen := make(map[string]bool)
	var out []string
	for _, m := range tbl.ScanLocations(lowerQuery) {
		loc, ok := canonical[m.Raw]
		if !ok || seen[m.Raw] {
			continue
		}
		seen[m.Raw] = true
		out = append(out, loc)
	}
	return out
}
