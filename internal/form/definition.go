package form

import (
	"sme-predictor/internal/common/validation"
	"sme-predictor/internal/models"
)

type FieldKind int

const (
	Text FieldKind = iota
	Integer
	Decimal
	Enum
)

func (k FieldKind) numeric() bool { return k == Integer || k == Decimal }

// FieldSpec declares one form field and its constraints.
type FieldSpec struct {
	Name       string
	Label      string
	Kind       FieldKind
	Separators bool
	Required   bool
	Min        *float64
	Max        *float64
	Options    []Option
}

// Definition is an ordered set of fields for one prediction variant.
type Definition struct {
	Variant models.Variant
	Fields  []FieldSpec

	index map[string]int
}

func newDefinition(variant models.Variant, fields []FieldSpec) *Definition {
	d := &Definition{Variant: variant, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		d.index[f.Name] = i
	}
	return d
}

// Field looks up a field by name.
func (d *Definition) Field(name string) (FieldSpec, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return d.Fields[i], true
}

// Schema derives the JSON schema the coerced payload is validated against.
func (d *Definition) Schema() validation.JSONSchema {
	schema := validation.JSONSchema{
		Type:                 "object",
		Properties:           make(map[string]validation.Property, len(d.Fields)),
		AdditionalProperties: false,
	}

	for _, f := range d.Fields {
		prop := validation.Property{Description: f.Label, Minimum: f.Min, Maximum: f.Max}
		switch f.Kind {
		case Integer:
			prop.Type = "integer"
		case Decimal:
			prop.Type = "number"
		case Enum:
			prop.Type = "string"
			for _, o := range f.Options {
				prop.Enum = append(prop.Enum, o.Value)
			}
		default:
			prop.Type = "string"
		}
		schema.Properties[f.Name] = prop
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

var zero = validation.Float64Ptr(0)

// PreInvestment is the new-business form.
func PreInvestment() *Definition {
	return newDefinition(models.VariantPreInvestment, []FieldSpec{
		{Name: "business_capital", Label: "Business Capital (RWF)", Kind: Integer, Separators: true, Required: true, Min: zero},
		{Name: "owner_age", Label: "Owner Age", Kind: Integer, Required: true, Min: validation.Float64Ptr(18), Max: validation.Float64Ptr(80)},
		{Name: "owner_business_experience", Label: "Business Experience (years)", Kind: Integer, Required: true, Min: zero, Max: validation.Float64Ptr(50)},
		{Name: "capital_source", Label: "Capital Source", Kind: Enum, Required: true, Options: plain(capitalSources)},
		{Name: "business_sector", Label: "Business Sector", Kind: Enum, Required: true, Options: plain(businessSectors)},
		{Name: "number_of_employees", Label: "Number of Employees", Kind: Integer, Separators: true, Required: true, Min: zero},
		{Name: "business_location", Label: "Business Location", Kind: Enum, Required: true, Options: plain(businessLocations)},
		{Name: "entity_type", Label: "Entity Type", Kind: Enum, Required: true, Options: plain(entityTypes)},
		{Name: "owner_gender", Label: "Owner Gender", Kind: Enum, Required: true, Options: genders},
		{Name: "education_level_numeric", Label: "Education Level", Kind: Integer, Required: true, Min: zero, Max: validation.Float64Ptr(4), Options: educationLevels},
	})
}

// ExistingBusiness is the existing-business form. The four-year history is
// optional and defaults to zero.
func ExistingBusiness() *Definition {
	fields := []FieldSpec{
		{Name: "business_capital", Label: "Business Capital (RWF)", Kind: Decimal, Separators: true, Required: true, Min: zero},
		{Name: "business_sector", Label: "Business Sector", Kind: Enum, Required: true, Options: plain(businessSectors)},
		{Name: "entity_type", Label: "Entity Type", Kind: Enum, Required: true, Options: plain(entityTypes)},
		{Name: "business_location", Label: "Business Location", Kind: Enum, Required: true, Options: plain(businessLocations)},
		{Name: "capital_source", Label: "Capital Source", Kind: Enum, Required: true, Options: plain(capitalSources)},
		{Name: "number_of_employees", Label: "Number of Employees", Kind: Integer, Required: true, Min: zero},
	}
	for _, year := range []string{"first", "second", "third", "fourth"} {
		fields = append(fields, FieldSpec{
			Name: "turnover_" + year + "_year", Label: "Turnover (" + year + " year)",
			Kind: Decimal, Separators: true, Min: zero,
		})
	}
	for _, year := range []string{"first", "second", "third", "fourth"} {
		fields = append(fields, FieldSpec{
			Name: "employment_" + year + "_year", Label: "Employment (" + year + " year)",
			Kind: Integer, Min: zero,
		})
	}
	return newDefinition(models.VariantExistingBusiness, fields)
}

// ForVariant returns the definition of a prediction variant.
func ForVariant(v models.Variant) (*Definition, bool) {
	switch v {
	case models.VariantPreInvestment:
		return PreInvestment(), true
	case models.VariantExistingBusiness:
		return ExistingBusiness(), true
	}
	return nil, false
}
