package parser

import (
	"fmt"
	"strings"

	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/types"
)

// assemble fills the envelope from the stage outcomes. Every list stays
// non-nil so the wire format carries [] rather than null.
func assemble(env *types.ParseEnvelope, tbl *tables.Tables, lowerQuery string, skills skillSet, cats catSet, exp expResult, locs []string, avail *types.AvailabilityStatus, spans []types.EntitySpan) {
	parsed := &env.Parsed

	// skills is the legacy field downstream filters read; it carries only the
	// required skills, with optional ones split out.
	setList(&parsed.Skills, skills.mandatory)
	setList(&parsed.MandatorySkills, skills.mandatory)
	setList(&parsed.OptionalSkills, skills.optional)
	parsed.SkillOperator = detectSkillOperator(lowerQuery, spans)

	setList(&parsed.Categories, cats.all)
	setList(&parsed.MandatoryCategories, cats.mandatory)
	setList(&parsed.OptionalCategories, cats.optional)
	setList(&parsed.CategorySkills, cats.skills)

	parsed.MinYearsExperience = exp.min
	parsed.MaxYearsExperience = exp.max
	parsed.ExperienceOperator = exp.op
	parsed.ExperienceContext = exp.context
	parsed.SkillRequirements = skillRequirements(skills, exp)

	if len(locs) > 0 {
		parsed.Location = &locs[0]
		parsed.Locations = locs
	}
	parsed.AvailabilityStatus = avail

	setList(&parsed.SkillLevels, collectSpans(spans, types.LabelSkillLevel, nil))
	setList(&parsed.Roles, collectSpans(spans, types.LabelRole, func(text string) string {
		return normalizeRole(tbl, text)
	}))
	setList(&parsed.Certifications, collectSpans(spans, types.LabelCertification, nil))
	setList(&parsed.Companies, collectSpans(spans, types.LabelCompany, nil))
	setList(&parsed.Dates, collectSpans(spans, types.LabelDate, nil))

	env.AppliedFilters = appliedFilters(parsed)
	env.SkillsFound = countDistinct(skills.mandatory, cats.skills)
	env.EntitiesDetected = detectedEntities(parsed, skills, cats, exp, locs, avail)
}

// skillRequirements lists the explicit skill-bound constraints first, then
// propagates the overall constraint to every remaining skill.
func skillRequirements(skills skillSet, exp expResult) []types.SkillRequirement {
	out := make([]types.SkillRequirement, 0, len(exp.reqs))
	covered := make(map[string]bool)
	for _, r := range exp.reqs {
		covered[strings.ToLower(r.skill)] = true
		out = append(out, types.SkillRequirement{
			Skill:          r.skill,
			MinYears:       r.min,
			MaxYears:       r.max,
			Operator:       r.op,
			ExperienceType: types.ExperienceTypeSkillSpecific,
		})
	}
	if exp.op == "" {
		return out
	}
	for _, skill := range skills.all {
		if covered[strings.ToLower(skill)] {
			continue
		}
		out = append(out, types.SkillRequirement{
			Skill:          skill,
			MinYears:       deref(exp.min),
			MaxYears:       exp.max,
			Operator:       exp.op,
			ExperienceType: types.ExperienceTypeTotal,
		})
	}
	return out
}

// detectSkillOperator returns OR when two technologies are joined by a bare
// "or" (or a slash), AND otherwise.
func detectSkillOperator(lowerQuery string, spans []types.EntitySpan) string {
	var techs []types.EntitySpan
	for _, s := range spans {
		if s.Label == types.LabelTechnology {
			techs = append(techs, s)
		}
	}
	for i := 1; i < len(techs); i++ {
		gap := strings.TrimSpace(lowerQuery[techs[i-1].End:techs[i].Start])
		if gap == "or" || gap == "/" {
			return types.SkillOperatorOr
		}
	}
	return types.SkillOperatorAnd
}

func normalizeRole(tbl *tables.Tables, text string) string {
	role := strings.ToLower(text)
	if !tbl.IsRoleKeyword(role) {
		if singular := strings.TrimSuffix(role, "s"); tbl.IsRoleKeyword(singular) {
			role = singular
		}
	}
	return role
}

// collectSpans gathers the texts of one span label, deduplicated
// case-insensitively in document order.
func collectSpans(spans []types.EntitySpan, label types.EntityLabel, transform func(string) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range spans {
		if s.Label != label {
			continue
		}
		text := s.Text
		if transform != nil {
			text = transform(text)
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, text)
	}
	return out
}

// appliedFilters renders the human-readable summary of everything the parse
// constrained.
func appliedFilters(parsed *types.ParsedQuery) []string {
	filters := []string{}
	if len(parsed.MandatorySkills) > 0 {
		filters = append(filters, "Skills: "+strings.Join(parsed.MandatorySkills, ", "))
	}
	if len(parsed.OptionalSkills) > 0 {
		filters = append(filters, "Optional Skills: "+strings.Join(parsed.OptionalSkills, ", "))
	}
	if len(parsed.MandatoryCategories) > 0 {
		filters = append(filters, "Categories: "+strings.Join(parsed.MandatoryCategories, ", "))
	}
	if len(parsed.OptionalCategories) > 0 {
		filters = append(filters, "Optional Categories: "+strings.Join(parsed.OptionalCategories, ", "))
	}
	if parsed.ExperienceOperator != "" {
		filters = append(filters, "Experience: "+formatYears(parsed.ExperienceOperator, parsed.MinYearsExperience, parsed.MaxYearsExperience))
	}
	for _, r := range parsed.SkillRequirements {
		if r.ExperienceType == types.ExperienceTypeSkillSpecific {
			min := r.MinYears
			filters = append(filters, fmt.Sprintf("%s: %s", r.Skill, formatYears(r.Operator, &min, r.MaxYears)))
		}
	}
	if len(parsed.Locations) > 0 {
		filters = append(filters, "Location: "+strings.Join(parsed.Locations, ", "))
	}
	if parsed.AvailabilityStatus != nil {
		filters = append(filters, "Availability: "+parsed.AvailabilityStatus.Status)
	}
	return filters
}

func formatYears(op string, min, max *float64) string {
	switch op {
	case types.OperatorBetween:
		return fmt.Sprintf("%s-%s years", formatNum(min), formatNum(max))
	case types.OperatorLTE:
		return fmt.Sprintf("up to %s years", formatNum(max))
	case types.OperatorEQ:
		return fmt.Sprintf("exactly %s years", formatNum(min))
	default:
		return fmt.Sprintf("%s+ years", formatNum(min))
	}
}

func formatNum(f *float64) string {
	if f == nil {
		return "?"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", *f), "0"), ".")
}

func countDistinct(lists ...[]string) int {
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, item := range list {
			seen[strings.ToLower(item)] = true
		}
	}
	return len(seen)
}

func detectedEntities(parsed *types.ParsedQuery, skills skillSet, cats catSet, exp expResult, locs []string, avail *types.AvailabilityStatus) types.EntitiesDetected {
	out := emptyEntities()
	setList(&out.Skills, skills.all)
	setList(&out.OptionalSkills, skills.optional)
	setList(&out.Categories, cats.all)
	setList(&out.MandatoryCategories, cats.mandatory)
	setList(&out.OptionalCategories, cats.optional)
	setList(&out.CategorySkills, cats.skills)
	setList(&out.TechExperiences, exp.techTexts)
	setList(&out.OverallExperiences, exp.overallTexts)
	if len(locs) > 0 {
		out.Locations = locs
		out.PrimaryLocation = &locs[0]
	}
	out.Availability = avail
	out.SkillLevels = parsed.SkillLevels
	out.Roles = parsed.Roles
	out.Certifications = parsed.Certifications
	out.Companies = parsed.Companies
	out.Dates = parsed.Dates
	return out
}

func setList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
