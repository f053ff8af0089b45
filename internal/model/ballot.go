package model

import "fmt"

// Category is an award category on a ballot
type Category string

const (
	CategoryShield        Category = "shield"
	CategorySpark         Category = "spark"
	CategoryCatalyst      Category = "catalyst"
	CategoryMentalSupport Category = "mental_support"
	CategoryBonus         Category = "bonus"
)

// CategorySpec describes one ballot field
type CategorySpec struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	// Strict categories must name an existing player, lenient ones are stored
	// unresolved and skipped when counting.
	Strict bool `json:"strict"`
}

// BallotSchema is the set of categories a deployment votes on
type BallotSchema struct {
	Name       string         `json:"name"`
	Categories []CategorySpec `json:"categories"`
	// RequireReason makes the free-text reason mandatory. The reason is
	// forwarded as a message to the target of ReasonCategory.
	RequireReason  bool     `json:"require_reason"`
	ReasonCategory Category `json:"reason_category,omitempty"`
}

const (
	SchemaNamePillars = "pillars"
	SchemaNameSupport = "support"
)

// PillarsSchema is the three-pillar ballot: shield, spark and catalyst
func PillarsSchema() BallotSchema {
	return BallotSchema{
		Name: SchemaNamePillars,
		Categories: []CategorySpec{
			{Category: CategoryShield, Label: "Shield", Required: true},
			{Category: CategorySpark, Label: "Spark", Required: true},
			{Category: CategoryCatalyst, Label: "Catalyst", Required: true},
		},
	}
}

// SupportSchema is the mental-support ballot with a reasoned bonus pick
func SupportSchema() BallotSchema {
	return BallotSchema{
		Name: SchemaNameSupport,
		Categories: []CategorySpec{
			{Category: CategoryMentalSupport, Label: "Mental support", Required: true},
			{Category: CategoryBonus, Label: "Bonus", Required: true, Strict: true},
		},
		RequireReason:  true,
		ReasonCategory: CategoryBonus,
	}
}

// SchemaByName looks up a built-in ballot schema
func SchemaByName(name string) (BallotSchema, error) {
	switch name {
	case "", SchemaNamePillars:
		return PillarsSchema(), nil
	case SchemaNameSupport:
		return SupportSchema(), nil
	default:
		return BallotSchema{}, fmt.Errorf("unknown ballot schema %q", name)
	}
}

// Spec returns the spec for a category, if the schema has it
func (s BallotSchema) Spec(c Category) (CategorySpec, bool) {
	for _, spec := range s.Categories {
		if spec.Category == c {
			return spec, true
		}
	}
	return CategorySpec{}, false
}
