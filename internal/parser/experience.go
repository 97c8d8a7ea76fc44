package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

// bindDistance is how far (in bytes) a technology mention may sit from a
// years phrase and still be bound to it.
const bindDistance = 50

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	afterOfIn     = regexp.MustCompile(`^\s*(?:of|in|with)\s*$`)

	ltePreceding = []string{"up to", "at most", "maximum", "max", "no more than", "less than", "under"}
	eqPreceding  = []string{"exactly", "equal to", "precisely"}
	gtePreceding = []string{"at least", "minimum", "min", "more than", "over"}
)

// boundReq is an experience constraint explicitly tied to one skill.
type boundReq struct {
	skill  string
	min    float64
	max    *float64
	op     string
	reason string
}

// expResult is the outcome of the experience stage. min/max/op describe the
// overall constraint; reqs are the explicitly skill-bound ones.
type expResult struct {
	min     *float64
	max     *float64
	op      string
	context *types.ExperienceContext
	reqs    []boundReq

	techTexts    []string
	overallTexts []string
}

type techMention struct {
	canonical  string
	start, end int
}

// extractExperience folds every years phrase in the query into an operator
// plus bounds, and binds each phrase to a skill or to the candidate's overall
// experience.
func extractExperience(tbl *tables.Tables, lowerQuery string, spans []types.EntitySpan) expResult {
	var out expResult

	var techs []techMention
	for _, s := range spans {
		if s.Label != types.LabelTechnology {
			continue
		}
		canonical := tbl.NormalizeSkill(s.Text)
		if tbl.KnownSkill(canonical) {
			techs = append(techs, techMention{canonical: canonical, start: s.Start, end: s.End})
		}
	}

	boundSkills := make(map[string]bool)
	for _, s := range spans {
		if s.Label != types.LabelTechExperience && s.Label != types.LabelOverallExperience {
			continue
		}
		min, max, op := parseYears(lowerQuery, s)

		var bound *techMention
		if s.Label == types.LabelTechExperience {
			bound = nearestTech(lowerQuery, s, techs)
		}
		if bound != nil {
			out.techTexts = append(out.techTexts, s.Text)
			if !boundSkills[bound.skillKey()] {
				boundSkills[bound.skillKey()] = true
				out.reqs = append(out.reqs, boundReq{
					skill:  bound.canonical,
					min:    deref(min),
					max:    max,
					op:     op,
					reason: bindReason(s, bound),
				})
			}
		} else {
			out.overallTexts = append(out.overallTexts, s.Text)
		}

		// The first overall phrase sets the query-level constraint; with
		// only skill-bound phrases the first of those does.
		if out.op == "" && (bound == nil || s.Label == types.LabelTechExperience && !hasOverall(spans)) {
			out.min, out.max, out.op = min, max, op
		}
	}

	out.context = experienceContext(out)
	return out
}

func (m *techMention) skillKey() string {
	return strings.ToLower(m.canonical)
}

func hasOverall(spans []types.EntitySpan) bool {
	for _, s := range spans {
		if s.Label == types.LabelOverallExperience {
			return true
		}
	}
	return false
}

// parseYears folds one years phrase plus the words just before it into
// bounds and one of the four operators.
func parseYears(lowerQuery string, s types.EntitySpan) (*float64, *float64, string) {
	nums := numberPattern.FindAllString(s.Text, -1)
	if len(nums) >= 2 {
		lo, hi := parseFloat(nums[0]), parseFloat(nums[1])
		return &lo, &hi, types.OperatorBetween
	}
	if len(nums) == 0 {
		return nil, nil, ""
	}
	n := parseFloat(nums[0])

	from := s.Start - 16
	if from < 0 {
		from = 0
	}
	preceding := lowerQuery[from:s.Start]
	switch {
	case containsAnyPhrase(preceding, ltePreceding):
		return nil, &n, types.OperatorLTE
	case containsAnyPhrase(preceding, eqPreceding):
		return &n, &n, types.OperatorEQ
	case strings.Contains(s.Text, "+") || containsAnyPhrase(preceding, gtePreceding):
		return &n, nil, types.OperatorGTE
	default:
		return &n, nil, types.OperatorGTE
	}
}

// nearestTech picks the technology a years phrase binds to: a mention right
// after "of"/"in"/"with" wins, otherwise the closest mention in the same
// comma clause within bindDistance.
func nearestTech(lowerQuery string, s types.EntitySpan, techs []techMention) *techMention {
	lo, hi := clauseBounds(lowerQuery, s.Start)

	var best *techMention
	bestDist := bindDistance + 1
	for i := range techs {
		t := &techs[i]
		if t.start < lo || t.end > hi {
			continue
		}
		if t.start >= s.End && afterOfIn.MatchString(lowerQuery[s.End:t.start]) {
			return t
		}
		var dist int
		switch {
		case t.end <= s.Start:
			dist = s.Start - t.end
		case t.start >= s.End:
			dist = t.start - s.End
		default:
			dist = 0
		}
		if dist < bestDist {
			bestDist = dist
			best = t
		}
	}
	return best
}

func bindReason(s types.EntitySpan, bound *techMention) string {
	if bound.start >= s.End {
		return fmt.Sprintf("%s named directly after the years phrase %q", bound.canonical, s.Text)
	}
	return fmt.Sprintf("%s appears in the same clause as the years phrase %q", bound.canonical, s.Text)
}

func experienceContext(out expResult) *types.ExperienceContext {
	if len(out.reqs) > 0 {
		skill := out.reqs[0].skill
		return &types.ExperienceContext{
			Type:   types.ExperienceTypeSkillSpecific,
			Skill:  &skill,
			Reason: out.reqs[0].reason,
		}
	}
	if out.op != "" {
		return &types.ExperienceContext{
			Type:   types.ExperienceTypeTotal,
			Reason: "OVERALL_EXPERIENCE entity detected, no specific skill mentioned",
		}
	}
	return nil
}

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

func containsAnyPhrase(segment string, phrases []string) bool {
	for _, p := range phrases {
		if len(tables.FindTerm(segment, p)) > 0 {
			return true
		}
	}
	return false
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
