package form

var capitalSources = []string{
	"Personal Savings", "Bank Loan", "Business Partner", "Microfinance",
	"Family/Friends", "Government Grant", "Foreign Investment",
	"Venture Capital", "Crowdfunding", "Inheritance", "Business Incubator", "Angel Investment",
}

var businessSectors = []string{
	"Agriculture, Forestry And Fishing",
	"Information And Communication",
	"Manufacturing",
	"Wholesale And Retail Trade; Repair Of Motor Vehicles And Motorcycles",
	"Professional, Scientific And Technical Activities",
	"Human Health And Social Work Activities",
	"Education",
	"Accommodation And Food Service Activities",
	"Administrative And Support Service Activities",
	"Construction",
	"Transportation And Storage",
	"Financial And Insurance Activities",
	"Arts, Entertainment And Recreation",
	"Other Service Activities",
	"Real Estate Activities",
	"Public Administration And Defence; Compulsory Social Security",
	"Water Supply, Gas And Remediation Services",
	"Electricity, Gas And Air Conditioning Supply",
	"Mining And Quarrying",
	"Activities Of Households As Employers; Undifferentiated Goods- And Services-Producing Activities Of Households For Own Use",
	"Activities Of Extraterritorial Organizations And Bodies",
	"Unclassified",
	"Motorcycle transport",
	"Activities of Mobile Money Agents",
}

// Rwandan districts.
var businessLocations = []string{
	"BUGESERA", "BURERA", "GAKENKE", "GASABO", "GATSIBO", "GICUMBI",
	"GISAGARA", "HUYE", "KAMONYI", "KARONGI", "KAYONZA", "KICUKIRO",
	"KIREHE", "MUHANGA", "MUSANZE", "NGOMA", "NGORORERO", "NYABIHU",
	"NYAGATARE", "NYAMAGABE", "NYAMASHEKE", "NYANZA", "NYARUGENGE",
	"NYARUGURU", "RUBAVU", "RUHANGO", "RULINDO", "RUSIZI", "RUTSIRO", "RWAMAGANA",
}

var entityTypes = []string{
	"INDIVIDUAL", "PRIVATE CORPORATION", "COOPERATIVE", "JOINT VENTURE",
	"LIMITED LIABILITY COMPANY", "PARTNERSHIP", "SOLE PROPRIETORSHIP",
}

var genders = []Option{
	{Value: "M", Label: "Male"},
	{Value: "F", Label: "Female"},
}

var educationLevels = []Option{
	{Value: "0", Label: "0 - No formal education"},
	{Value: "1", Label: "1 - Primary education"},
	{Value: "2", Label: "2 - Secondary education"},
	{Value: "3", Label: "3 - Tertiary education"},
	{Value: "4", Label: "4 - Higher education"},
}

// Option is one selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionSet lists every enumeration the forms accept.
type OptionSet struct {
	CapitalSources    []string `json:"capital_sources"`
	BusinessSectors   []string `json:"business_sectors"`
	BusinessLocations []string `json:"business_locations"`
	EntityTypes       []string `json:"entity_types"`
	Genders           []Option `json:"genders"`
	EducationLevels   []Option `json:"education_levels"`
}

// Options returns copies of the enumerations.
func Options() OptionSet {
	return OptionSet{
		CapitalSources:    append([]string(nil), capitalSources...),
		BusinessSectors:   append([]string(nil), businessSectors...),
		BusinessLocations: append([]string(nil), businessLocations...),
		EntityTypes:       append([]string(nil), entityTypes...),
		Genders:           append([]Option(nil), genders...),
		EducationLevels:   append([]Option(nil), educationLevels...),
	}
}

func plain(values []string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}
