package match

import (
	"regexp"
)

// Domain is an industry category used to pick a term weight table
type Domain string

const (
	DomainTechnology  Domain = "technology"
	DomainFinance     Domain = "finance"
	DomainHealthcare  Domain = "healthcare"
	DomainMarketing   Domain = "marketing"
	DomainEducation   Domain = "education"
	DomainLegal       Domain = "legal"
	DomainEngineering Domain = "engineering"
	DomainRetail      Domain = "retail"
	DomainHR          Domain = "hr"
	DomainOperations  Domain = "operations"
	DomainResearch    Domain = "research"
	DomainDesign      Domain = "design"
	DomainConsulting  Domain = "consulting"
	DomainGeneral     Domain = "general"
)

// domainKeywords is the ordered detection catalog. Order breaks ties.
var domainKeywords = []struct {
	domain   Domain
	keywords []string
}{
	{DomainTechnology, []string{
		"software", "developer", "programming", "programmer", "python", "java",
		"javascript", "typescript", "golang", "aws", "azure", "cloud", "docker",
		"kubernetes", "api", "backend", "frontend", "full stack", "devops",
		"database", "sql", "machine learning", "web development", "react",
	}},
	{DomainFinance, []string{
		"finance", "financial", "accounting", "accountant", "audit", "banking",
		"investment", "budget", "tax", "cpa", "valuation", "treasury",
		"reconciliation", "forecasting", "portfolio",
	}},
	{DomainHealthcare, []string{
		"healthcare", "health care", "patient", "clinical", "nursing", "nurse",
		"medical", "hospital", "pharmacy", "physician", "diagnosis", "ehr",
	}},
	{DomainMarketing, []string{
		"marketing", "seo", "brand", "branding", "campaign", "social media",
		"advertising", "content strategy", "copywriting", "digital marketing",
		"market research", "public relations",
	}},
	{DomainEducation, []string{
		"teaching", "teacher", "curriculum", "tutor", "tutoring", "classroom",
		"lesson", "pedagogy", "instructor", "education",
	}},
	{DomainLegal, []string{
		"legal", "law", "lawyer", "litigation", "paralegal", "counsel",
		"contract law", "regulatory", "intellectual property", "attorney",
	}},
	{DomainEngineering, []string{
		"mechanical", "electrical", "civil", "cad", "solidworks", "autocad",
		"matlab", "manufacturing", "prototype", "circuit", "embedded",
		"firmware", "structural", "chemical engineering",
	}},
	{DomainRetail, []string{
		"retail", "store", "merchandising", "cashier", "inventory",
		"customer service", "ecommerce", "point of sale",
	}},
	{DomainHR, []string{
		"human resources", "hr", "recruiting", "recruitment", "recruiter",
		"onboarding", "payroll", "talent acquisition", "employee relations", "hris",
	}},
	{DomainOperations, []string{
		"operations", "logistics", "supply chain", "procurement", "warehouse",
		"scheduling", "lean", "six sigma", "process improvement",
	}},
	{DomainResearch, []string{
		"research", "researcher", "laboratory", "lab", "experiment", "experiments",
		"hypothesis", "publication", "statistical", "literature review",
	}},
	{DomainDesign, []string{
		"figma", "ux", "user experience", "ui design", "wireframe", "wireframes",
		"graphic design", "photoshop", "illustrator", "typography", "adobe",
	}},
	{DomainConsulting, []string{
		"consulting", "consultant", "advisory", "stakeholder", "stakeholders",
		"business analysis", "strategy", "client engagement",
	}},
}

// domainPatterns holds one compiled whole-word matcher per catalog keyword
var domainPatterns = compileDomainPatterns()

type domainPattern struct {
	domain   Domain
	patterns []*regexp.Regexp
}

func compileDomainPatterns() []domainPattern {
	out := make([]domainPattern, 0, len(domainKeywords))
	for _, entry := range domainKeywords {
		dp := domainPattern{domain: entry.domain}
		for _, kw := range entry.keywords {
			dp.patterns = append(dp.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		out = append(out, dp)
	}
	return out
}

// Domains returns the detectable domains in catalog order, followed by general
func Domains() []Domain {
	out := make([]Domain, 0, len(domainKeywords)+1)
	for _, entry := range domainKeywords {
		out = append(out, entry.domain)
	}
	return append(out, DomainGeneral)
}

// DomainScores counts whole-word keyword occurrences for every domain
func DomainScores(text string) map[Domain]int {
	scores := make(map[Domain]int, len(domainPatterns))
	for _, dp := range domainPatterns {
		total := 0
		for _, re := range dp.patterns {
			total += len(re.FindAllStringIndex(text, -1))
		}
		scores[dp.domain] = total
	}
	return scores
}

// DetectDomain returns the domain whose keywords occur most often in text.
// Ties keep the earlier domain in catalog order; no hits at all yields general.
func DetectDomain(text string) Domain {
	best := DomainGeneral
	bestScore := 0

	scores := DomainScores(text)
	for _, dp := range domainPatterns {
		if s := scores[dp.domain]; s > bestScore {
			best = dp.domain
			bestScore = s
		}
	}

	return best
}

// Valid reports whether d is part of the catalog
func (d Domain) Valid() bool {
	for _, known := range Domains() {
		if d == known {
			return true
		}
	}
	return false
}
