package formatrecommendations

import "strings"

// Category is the display treatment for one family of recommendation text.
type Category struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Paragraph  string `json:"-"`
	Mitigation string `json:"-"`
}

type rule struct {
	match    func(lower string) bool
	category Category
}

func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{
		match: containsAny("revenue", "turnover", "sales"),
		category: Category{
			Type:  "revenue",
			Title: "Revenue Growth Strategy",
			Icon:  "📈",
			Color: "#22c55e",
			Paragraph: "Track monthly turnover against the same month last year and review pricing " +
				"at least once per quarter. Diversifying income streams reduces dependence on a single product or client.",
			Mitigation: "Keep a rolling three-month cash forecast and set an early-warning threshold " +
				"for revenue shortfalls so corrective action starts before reserves are depleted.",
		},
	},
	{
		match: containsAny("employment", "staff", "hiring", "workforce"),
		category: Category{
			Type:  "workforce",
			Title: "Workforce Development",
			Icon:  "👥",
			Color: "#3b82f6",
			Paragraph: "Hire against confirmed demand and invest in training for existing staff. " +
				"Clear roles and documented procedures let the business grow without losing quality.",
			Mitigation: "Cross-train key employees and document critical tasks so the business is " +
				"not exposed to the departure of a single person.",
		},
	},
	{
		match: containsAny("capital", "funding", "investment", "finance"),
		category: Category{
			Type:  "finance",
			Title: "Financial Management",
			Icon:  "💰",
			Color: "#f59e0b",
			Paragraph: "Separate business and personal accounts and keep up-to-date books. " +
				"Lenders and investors in Rwanda look for at least twelve months of clean financial records.",
			Mitigation: "Build a reserve covering three to six months of fixed costs and compare " +
				"financing offers from banks, SACCOs and microfinance institutions before borrowing.",
		},
	},
	{
		match: containsAny("market", "customer", "competition", "sector"),
		category: Category{
			Type:  "market",
			Title: "Market Positioning",
			Icon:  "🎯",
			Color: "#8b5cf6",
			Paragraph: "Talk to customers regularly and compare your offer with the nearest competitors. " +
				"A clear niche is easier to defend than competing on price alone.",
			Mitigation: "Monitor competitor pricing and sector trends, and avoid relying on one " +
				"customer group for most of your sales.",
		},
	},
	{
		match: containsAny("operational", "efficiency", "process", "productivity"),
		category: Category{
			Type:  "operations",
			Title: "Operational Excellence",
			Icon:  "⚙️",
			Color: "#06b6d4",
			Paragraph: "Map the steps from order to delivery and remove the ones that add cost without value. " +
				"Simple stock and quality checks prevent most day-to-day losses.",
			Mitigation: "Identify single points of failure in suppliers and equipment and arrange " +
				"alternatives before they are needed.",
		},
	},
	{
		match: containsAny("risk", "compliance", "regulation", "legal"),
		category: Category{
			Type:  "risk",
			Title: "Risk Management",
			Icon:  "🛡️",
			Color: "#ef4444",
			Paragraph: "Keep registrations, tax filings and licences current with RDB and RRA. " +
				"Appropriate insurance protects the business from losses it could not absorb alone.",
			Mitigation: "Review regulatory obligations every year and seek professional advice " +
				"before entering contracts or new markets.",
		},
	},
}

var defaultCategory = Category{
	Type:  "growth",
	Title: "Growth & Innovation",
	Icon:  "🚀",
	Color: "#10b981",
	Paragraph: "Set measurable goals for the next twelve months and review progress monthly. " +
		"Business development services and incubators can help test new ideas at low cost.",
	Mitigation: "Introduce changes in small, reversible steps and measure the effect of each " +
		"before committing further resources.",
}

// Categorize returns the category of the first rule whose keywords appear in
// text, ignoring case.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.match(lower) {
			return r.category
		}
	}
	return defaultCategory
}
