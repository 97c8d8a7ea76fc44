package types

// Experience comparison operators. The engine folds every numeric phrase
// into one of these four.
const (
	OperatorGTE     = "gte"
	OperatorLTE     = "lte"
	OperatorEQ      = "eq"
	OperatorBetween = "between"
)

// Availability status buckets. These are the values downstream filters match
// against, so the spelling (including the space in "Not Available") is fixed.
const (
	AvailabilityAvailable    = "Available"
	AvailabilityLimited      = "Limited"
	AvailabilityNotAvailable = "Not Available"
)

// Experience context types.
const (
	ExperienceTypeSkillSpecific = "skill_specific"
	ExperienceTypeTotal         = "total"
)

// Skill combination operators.
const (
	SkillOperatorAnd = "AND"
	SkillOperatorOr  = "OR"
)

// ExperienceConstraint is a numeric years-of-experience requirement bound to
// either one skill (BoundSkill set) or the whole candidate (BoundSkill empty).
type ExperienceConstraint struct {
	MinYears   *float64 `json:"min_years"`
	MaxYears   *float64 `json:"max_years"`
	Operator   string   `json:"operator"`
	BoundSkill string   `json:"bound_skill,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// SkillRequirement is one entry of the per-skill experience requirement list
// in the output envelope. Field names match the wire format consumed by
// existing clients.
type SkillRequirement struct {
	Skill          string   `json:"skill"`
	MinYears       float64  `json:"min_years"`
	MaxYears       *float64 `json:"max_years"`
	Operator       string   `json:"operator"`
	ExperienceType string   `json:"experience_type"`
}

// ExperienceContext reports whether the detected experience requirement is
// skill-specific or applies to the candidate's total experience.
type ExperienceContext struct {
	Type   string  `json:"type"`
	Skill  *string `json:"skill"`
	Reason string  `json:"reason"`
}

// AvailabilityStatus is the detected availability of the candidate being
// searched for. Keywords preserves document order of the matches.
type AvailabilityStatus struct {
	Status   string   `json:"status"`
	Keywords []string `json:"keywords"`
	Details  *string  `json:"details"`
}

// ParsedQuery is the structured interpretation of one search query. The JSON
// field names and nesting are a stable contract with downstream consumers.
type ParsedQuery struct {
	Skills              []string            `json:"skills"`
	MandatorySkills     []string            `json:"mandatory_skills"`
	OptionalSkills      []string            `json:"optional_skills"`
	SkillOperator       string              `json:"skill_operator"`
	Categories          []string            `json:"categories"`
	MandatoryCategories []string            `json:"mandatory_categories"`
	OptionalCategories  []string            `json:"optional_categories"`
	CategorySkills      []string            `json:"category_skills"`
	MinYearsExperience  *float64            `json:"min_years_experience"`
	MaxYearsExperience  *float64            `json:"max_years_experience"`
	ExperienceOperator  string              `json:"experience_operator"`
	ExperienceContext   *ExperienceContext  `json:"experience_context"`
	SkillRequirements   []SkillRequirement  `json:"skill_requirements"`
	Location            *string             `json:"location"`
	Locations           []string            `json:"locations"`
	AvailabilityStatus  *AvailabilityStatus `json:"availability_status"`
	SkillLevels         []string            `json:"skill_levels"`
	Roles               []string            `json:"roles"`
	Certifications      []string            `json:"certifications"`
	Companies           []string            `json:"companies"`
	Dates               []string            `json:"dates"`
}

// EntitiesDetected is the flat echo of everything the tagger and fallbacks
// found, kept for API compatibility with existing consumers.
type EntitiesDetected struct {
	Skills              []string            `json:"skills"`
	OptionalSkills      []string            `json:"optional_skills"`
	Categories          []string            `json:"categories"`
	MandatoryCategories []string            `json:"mandatory_categories"`
	OptionalCategories  []string            `json:"optional_categories"`
	CategorySkills      []string            `json:"category_skills"`
	TechExperiences     []string            `json:"tech_experiences"`
	OverallExperiences  []string            `json:"overall_experiences"`
	Locations           []string            `json:"locations"`
	PrimaryLocation     *string             `json:"primary_location"`
	Availability        *AvailabilityStatus `json:"availability"`
	SkillLevels         []string            `json:"skill_levels"`
	Roles               []string            `json:"roles"`
	Certifications      []string            `json:"certifications"`
	Companies           []string            `json:"companies"`
	Dates               []string            `json:"dates"`
}

// ParseEnvelope is the full response for one parse call.
type ParseEnvelope struct {
	OriginalQuery    string           `json:"original_query"`
	Parsed           ParsedQuery      `json:"parsed"`
	AppliedFilters   []string         `json:"applied_filters"`
	SkillsFound      int              `json:"skills_found"`
	EntitiesDetected EntitiesDetected `json:"entities_detected"`
}
