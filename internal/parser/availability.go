package parser

import (
	"sort"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

type availOcc struct {
	status  string
	keyword string
	pos     [2]int
}

// extractAvailability buckets the query into Available, Limited or Not
// Available. Longer keywords win overlapping shorter ones ("not available"
// over "available"), and among the survivors the earliest match in the query
// decides the bucket.
func extractAvailability(tbl *tables.Tables, lowerQuery string) *types.AvailabilityStatus {
	var occs []availOcc
	collect := func(status string, keywords []string) {
		for _, kw := range keywords {
			for _, occ := range tables.FindTerm(lowerQuery, kw) {
				occs = append(occs, availOcc{status: status, keyword: kw, pos: occ})
			}
		}
	}
	collect(types.AvailabilityAvailable, tbl.Availability.Available)
	collect(types.AvailabilityLimited, tbl.Availability.Limited)
	collect(types.AvailabilityNotAvailable, tbl.Availability.NotAvailable)
	if len(occs) == 0 {
		return nil
	}

	sort.SliceStable(occs, func(i, j int) bool {
		return occs[i].pos[1]-occs[i].pos[0] > occs[j].pos[1]-occs[j].pos[0]
	})
	var taken [][2]int
	var kept []availOcc
	for _, o := range occs {
		if overlapsAny(taken, o.pos) {
			continue
		}
		taken = append(taken, o.pos)
		kept = append(kept, o)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].pos[0] < kept[j].pos[0] })

	status := kept[0].status
	var keywords []string
	seen := make(map[string]bool)
	for _, o := range kept {
		if o.status != status || seen[o.keyword] {
			continue
		}
		seen[o.keyword] = true
		keywords = append(keywords, o.keyword)
	}

	return &types.AvailabilityStatus{
		Status:   status,
		Keywords: keywords,
		Details:  availabilityDetails(status, keywords),
	}
}

var immediateTerms = map[string]bool{
	"immediate": true, "immediately": true, "asap": true,
	"right away": true, "straight away": true, "urgently": true, "urgent": true,
	"can start": true, "join immediately": true,
}

var partTimeTerms = map[string]bool{
	"part-time": true, "part time": true, "part-timer": true,
}

func availabilityDetails(status string, keywords []string) *string {
	var details string
	switch status {
	case types.AvailabilityNotAvailable:
		details = "Currently unavailable"
	case types.AvailabilityAvailable:
		for _, kw := range keywords {
			if immediateTerms[kw] {
				details = "Immediate/ASAP"
				break
			}
		}
	case types.AvailabilityLimited:
		for _, kw := range keywords {
			if partTimeTerms[kw] {
				details = "Part-Time basis"
				break
			}
		}
	}
	if details == "" {
		return nil
	}
	return &details
}
