// internal/models/profile.go
package models

import (
	"strconv"
	"strings"
)

// Variant tags a prediction flow. The values double as the API's
// prediction_type tags.
type Variant string

const (
	VariantPreInvestment    Variant = "new_business"
	VariantExistingBusiness Variant = "existing_business"
	VariantGeneral          Variant = "general"
)

func (v Variant) Valid() bool {
	switch v {
	case VariantPreInvestment, VariantExistingBusiness, VariantGeneral:
		return true
	}
	return false
}

// DisplayName is the human label used in reports and dashboards.
func (v Variant) DisplayName() string {
	switch v {
	case VariantPreInvestment:
		return "New Business"
	case VariantExistingBusiness:
		return "Existing Business"
	default:
		return "General"
	}
}

// Field is one label/value row of a submitted profile.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Profile is a submitted business profile of either variant.
type Profile interface {
	Variant() Variant
	Fields() []Field
}

// PreInvestmentProfile is the body of POST /predict.
type PreInvestmentProfile struct {
	BusinessCapital         int64  `json:"business_capital" mapstructure:"business_capital" yaml:"business_capital"`
	OwnerAge                int    `json:"owner_age" mapstructure:"owner_age" yaml:"owner_age"`
	OwnerBusinessExperience int    `json:"owner_business_experience" mapstructure:"owner_business_experience" yaml:"owner_business_experience"`
	CapitalSource           string `json:"capital_source" mapstructure:"capital_source" yaml:"capital_source"`
	BusinessSector          string `json:"business_sector" mapstructure:"business_sector" yaml:"business_sector"`
	NumberOfEmployees       int    `json:"number_of_employees" mapstructure:"number_of_employees" yaml:"number_of_employees"`
	BusinessLocation        string `json:"business_location" mapstructure:"business_location" yaml:"business_location"`
	EntityType              string `json:"entity_type" mapstructure:"entity_type" yaml:"entity_type"`
	OwnerGender             string `json:"owner_gender" mapstructure:"owner_gender" yaml:"owner_gender"`
	EducationLevelNumeric   int    `json:"education_level_numeric" mapstructure:"education_level_numeric" yaml:"education_level_numeric"`
}

func (p *PreInvestmentProfile) Variant() Variant { return VariantPreInvestment }

func (p *PreInvestmentProfile) Fields() []Field {
	gender := p.OwnerGender
	switch gender {
	case "M":
		gender = "Male"
	case "F":
		gender = "Female"
	}
	return []Field{
		{"business_capital", "Business Capital", FormatRWF(float64(p.BusinessCapital))},
		{"owner_age", "Owner Age", strconv.Itoa(p.OwnerAge) + " years"},
		{"owner_business_experience", "Business Experience", strconv.Itoa(p.OwnerBusinessExperience) + " years"},
		{"capital_source", "Capital Source", OrNA(p.CapitalSource)},
		{"business_sector", "Business Sector", OrNA(p.BusinessSector)},
		{"number_of_employees", "Number of Employees", strconv.Itoa(p.NumberOfEmployees)},
		{"business_location", "Business Location", OrNA(p.BusinessLocation)},
		{"entity_type", "Entity Type", OrNA(p.EntityType)},
		{"owner_gender", "Owner Gender", OrNA(gender)},
		{"education_level_numeric", "Education Level", EducationLabel(p.EducationLevelNumeric)},
	}
}

// ExistingBusinessProfile is the body of POST /predict-existing-business.
type ExistingBusinessProfile struct {
	BusinessCapital      float64 `json:"business_capital" mapstructure:"business_capital" yaml:"business_capital"`
	BusinessSector       string  `json:"business_sector" mapstructure:"business_sector" yaml:"business_sector"`
	EntityType           string  `json:"entity_type" mapstructure:"entity_type" yaml:"entity_type"`
	BusinessLocation     string  `json:"business_location" mapstructure:"business_location" yaml:"business_location"`
	CapitalSource        string  `json:"capital_source" mapstructure:"capital_source" yaml:"capital_source"`
	NumberOfEmployees    int     `json:"number_of_employees" mapstructure:"number_of_employees" yaml:"number_of_employees"`
	TurnoverFirstYear    float64 `json:"turnover_first_year" mapstructure:"turnover_first_year" yaml:"turnover_first_year"`
	TurnoverSecondYear   float64 `json:"turnover_second_year" mapstructure:"turnover_second_year" yaml:"turnover_second_year"`
	TurnoverThirdYear    float64 `json:"turnover_third_year" mapstructure:"turnover_third_year" yaml:"turnover_third_year"`
	TurnoverFourthYear   float64 `json:"turnover_fourth_year" mapstructure:"turnover_fourth_year" yaml:"turnover_fourth_year"`
	EmploymentFirstYear  int     `json:"employment_first_year" mapstructure:"employment_first_year" yaml:"employment_first_year"`
	EmploymentSecondYear int     `json:"employment_second_year" mapstructure:"employment_second_year" yaml:"employment_second_year"`
	EmploymentThirdYear  int     `json:"employment_third_year" mapstructure:"employment_third_year" yaml:"employment_third_year"`
	EmploymentFourthYear int     `json:"employment_fourth_year" mapstructure:"employment_fourth_year" yaml:"employment_fourth_year"`
}

func (p *ExistingBusinessProfile) Variant() Variant { return VariantExistingBusiness }

func (p *ExistingBusinessProfile) Fields() []Field {
	return []Field{
		{"business_capital", "Business Capital", FormatRWF(p.BusinessCapital)},
		{"business_sector", "Business Sector", OrNA(p.BusinessSector)},
		{"entity_type", "Entity Type", OrNA(p.EntityType)},
		{"business_location", "Business Location", OrNA(p.BusinessLocation)},
		{"capital_source", "Capital Source", OrNA(p.CapitalSource)},
		{"number_of_employees", "Number of Employees", strconv.Itoa(p.NumberOfEmployees)},
	}
}

// TurnoverHistory returns turnover for years one to four.
func (p *ExistingBusinessProfile) TurnoverHistory() [4]float64 {
	return [4]float64{p.TurnoverFirstYear, p.TurnoverSecondYear, p.TurnoverThirdYear, p.TurnoverFourthYear}
}

// EmploymentHistory returns headcount for years one to four.
func (p *ExistingBusinessProfile) EmploymentHistory() [4]int {
	return [4]int{p.EmploymentFirstYear, p.EmploymentSecondYear, p.EmploymentThirdYear, p.EmploymentFourthYear}
}

var educationLabels = []string{
	"No formal education",
	"Primary education",
	"Secondary education",
	"Tertiary education",
	"Higher education",
}

// EducationLabel renders an education level as "<n> - <label>".
func EducationLabel(level int) string {
	if level < 0 || level >= len(educationLabels) {
		return NA
	}
	return strconv.Itoa(level) + " - " + educationLabels[level]
}

// NA is shown for absent optional values.
const NA = "N/A"

func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

// FormatRWF renders an amount with thousands separators and the currency code.
func FormatRWF(amount float64) string {
	return GroupThousands(strconv.FormatFloat(amount, 'f', 0, 64)) + " RWF"
}

// GroupThousands inserts "," every three digits of the integer part of s.
func GroupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
