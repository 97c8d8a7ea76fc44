// Package types provides type definitions for structured data used throughout the talent-query system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// EntityLabel identifies the kind of span produced by an entity tagger.
type EntityLabel string

// Entity labels emitted by the tagger contract.
const (
	LabelTechnology        EntityLabel = "TECHNOLOGY"
	LabelTechCategory      EntityLabel = "TECH_CATEGORY"
	LabelTechExperience    EntityLabel = "TECH_EXPERIENCE"
	LabelOverallExperience EntityLabel = "OVERALL_EXPERIENCE"
	LabelSkillLevel        EntityLabel = "SKILL_LEVEL"
	LabelRole              EntityLabel = "ROLE"
	LabelCertification     EntityLabel = "CERTIFICATION"
	LabelLocation          EntityLabel = "LOCATION"
	LabelCompany           EntityLabel = "COMPANY"
	LabelDate              EntityLabel = "DATE"
)

// EntitySpan is a typed region of the query text. Start and End are byte
// offsets into the original query string; Text is the covered substring.
type EntitySpan struct {
	Start int         `json:"start"`
	End   int         `json:"end"`
	Label EntityLabel `json:"label"`
	Text  string      `json:"text"`
}

// Disposition says whether a skill or category is required or merely desirable.
type Disposition string

// Disposition values. Unknown is internal only; the parser always resolves
// it to mandatory or optional before results are assembled.
const (
	DispositionMandatory Disposition = "mandatory"
	DispositionOptional  Disposition = "optional"
	DispositionUnknown   Disposition = "unknown"
)
