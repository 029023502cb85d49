package match

import (
	"sort"
	"strings"
)

// defaultWeight applies to any term absent from the weight tables
const defaultWeight = 1.0

// generalWeights is the cross-domain importance table
var generalWeights = buildWeightTable(map[string]float64{
	// Programming languages
	"javascript": 1.5, "typescript": 1.5, "python": 1.5, "java": 1.5,
	"c++": 1.5, "c#": 1.5, "php": 1.5, "ruby": 1.5, "swift": 1.5,
	"kotlin": 1.5, "rust": 1.5, "golang": 1.5, "scala": 1.5,

	// Frameworks
	"react": 1.4, "angular": 1.4, "vue": 1.4, "node": 1.4, "node.js": 1.4,
	"express": 1.4, "django": 1.4, "flask": 1.4, "spring": 1.4,
	"rails": 1.4, "laravel": 1.4, ".net": 1.4,

	// Databases and cloud
	"sql": 1.3, "mongodb": 1.3, "postgresql": 1.3, "aws": 1.3, "azure": 1.3,
	"google cloud": 1.3, "firebase": 1.3, "docker": 1.3, "kubernetes": 1.3,

	// Transferable skills
	"algorithm": 1.2, "api": 1.2, "architecture": 1.2, "design": 1.2,
	"test": 1.2, "debug": 1.2, "deploy": 1.2, "agile": 1.2, "scrum": 1.2,
	"lead": 1.2, "manage": 1.2, "collaborate": 1.2, "team": 1.2,
	"problem solving": 1.2,

	// Broadly important terms
	"engineer": 1.1, "developer": 1.1, "programmer": 1.1, "architect": 1.1,
	"scientist": 1.1, "analyst": 1.1, "administrator": 1.1, "devops": 1.1,
	"machine learning": 1.1, "data": 1.1, "security": 1.1, "networking": 1.1,
	"cloud": 1.1, "backend": 1.1, "frontend": 1.1, "fullstack": 1.1,
	"web": 1.1, "mobile": 1.1, "distributed": 1.1, "system": 1.1,
	"database": 1.1, "infrastructure": 1.1, "automation": 1.1,
	"analytics": 1.1, "leadership": 1.1, "communication": 1.1,
	"teamwork": 1.1, "critical thinking": 1.1, "experience": 1.1,
	"skill": 1.1, "knowledge": 1.1, "degree": 1.1, "project": 1.1,
	"development": 1.1, "implementation": 1.1, "optimization": 1.1,
	"analysis": 1.1, "research": 1.1,
})

// domainWeights holds the per-domain tables that override generalWeights
var domainWeights = map[Domain]weightTable{
	DomainTechnology: buildWeightTable(map[string]float64{
		"python": 1.8, "java": 1.7, "javascript": 1.7, "typescript": 1.7,
		"golang": 1.7, "c++": 1.7, "aws": 1.6, "docker": 1.6,
		"kubernetes": 1.6, "react": 1.6, "sql": 1.5, "microservices": 1.5,
		"api": 1.4, "software": 1.4, "developer": 1.4, "backend": 1.4,
		"frontend": 1.4, "cloud": 1.4, "machine learning": 1.8, "git": 1.3,
		"linux": 1.3, "ci/cd": 1.5, "rest api": 1.6, "full stack": 1.5,
	}),
	DomainFinance: buildWeightTable(map[string]float64{
		"accounting": 1.8, "financial analysis": 1.8, "excel": 1.6,
		"audit": 1.7, "budget": 1.5, "forecasting": 1.6, "cpa": 1.8,
		"valuation": 1.7, "investment": 1.6, "risk": 1.5, "compliance": 1.4,
		"reconciliation": 1.5, "tax": 1.6, "portfolio": 1.5,
		"financial modeling": 1.8,
	}),
	DomainHealthcare: buildWeightTable(map[string]float64{
		"patient": 1.7, "clinical": 1.8, "nursing": 1.8, "medical": 1.7,
		"health": 1.4, "pharmacy": 1.7, "hospital": 1.5, "care": 1.3,
		"diagnosis": 1.6, "ehr": 1.6, "hipaa": 1.6, "patient care": 1.8,
	}),
	DomainMarketing: buildWeightTable(map[string]float64{
		"marketing": 1.7, "seo": 1.8, "brand": 1.6, "campaign": 1.6,
		"social media": 1.7, "content": 1.5, "analytics": 1.5,
		"advertising": 1.6, "digital marketing": 1.8, "copywriting": 1.6,
		"google analytics": 1.7, "market research": 1.6,
	}),
	DomainEducation: buildWeightTable(map[string]float64{
		"teaching": 1.8, "curriculum": 1.8, "tutoring": 1.7, "student": 1.5,
		"classroom": 1.6, "lesson": 1.6, "instruction": 1.5, "learning": 1.3,
		"pedagogy": 1.7, "lesson planning": 1.8,
	}),
	DomainLegal: buildWeightTable(map[string]float64{
		"legal": 1.6, "law": 1.6, "litigation": 1.8, "contract": 1.6,
		"compliance": 1.6, "paralegal": 1.8, "regulatory": 1.6,
		"counsel": 1.7, "intellectual property": 1.8, "legal research": 1.8,
	}),
	DomainEngineering: buildWeightTable(map[string]float64{
		"mechanical": 1.7, "electrical": 1.7, "civil": 1.7, "cad": 1.8,
		"solidworks": 1.8, "autocad": 1.8, "matlab": 1.6,
		"manufacturing": 1.5, "design": 1.4, "prototype": 1.5,
		"simulation": 1.5, "circuit": 1.6, "embedded": 1.6, "firmware": 1.6,
		"finite element": 1.7,
	}),
	DomainRetail: buildWeightTable(map[string]float64{
		"retail": 1.6, "sales": 1.6, "customer service": 1.7,
		"merchandising": 1.8, "inventory": 1.6, "store": 1.4,
		"cashier": 1.6, "ecommerce": 1.6, "point of sale": 1.6,
	}),
	DomainHR: buildWeightTable(map[string]float64{
		"recruiting": 1.8, "recruitment": 1.8, "onboarding": 1.7,
		"payroll": 1.7, "talent": 1.6, "employee relations": 1.8,
		"hris": 1.7, "benefits": 1.5, "human resources": 1.8,
	}),
	DomainOperations: buildWeightTable(map[string]float64{
		"logistics": 1.8, "supply chain": 1.8, "operations": 1.6,
		"procurement": 1.7, "process improvement": 1.7, "scheduling": 1.5,
		"lean": 1.6, "six sigma": 1.8, "inventory": 1.5,
	}),
	DomainResearch: buildWeightTable(map[string]float64{
		"research": 1.7, "laboratory": 1.7, "experiment": 1.6,
		"statistical": 1.6, "statistics": 1.6, "publication": 1.6,
		"data analysis": 1.7, "hypothesis": 1.6, "literature review": 1.6,
	}),
	DomainDesign: buildWeightTable(map[string]float64{
		"figma": 1.8, "ux": 1.8, "user experience": 1.8, "wireframe": 1.7,
		"prototype": 1.6, "adobe": 1.6, "photoshop": 1.6, "illustrator": 1.6,
		"graphic design": 1.8, "typography": 1.6, "user research": 1.7,
	}),
	DomainConsulting: buildWeightTable(map[string]float64{
		"consulting": 1.7, "strategy": 1.6, "stakeholder": 1.6, "client": 1.4,
		"business analysis": 1.7, "presentation": 1.4, "powerpoint": 1.5,
		"advisory": 1.6,
	}),
}

// weightTable maps a term to its importance weight. Raw keys and their
// normalized forms are both present so lookups work on extracted terms.
type weightTable map[string]float64

// buildWeightTable indexes raw keys, then adds each key's normalized form
// unless a raw key already owns it. Colliding normalized forms keep the
// larger weight so the result does not depend on map order.
func buildWeightTable(raw map[string]float64) weightTable {
	table := make(weightTable, len(raw)*2)
	for k, w := range raw {
		table[k] = w
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		nk := strings.Join(Normalize(k), " ")
		if nk == "" || nk == k {
			continue
		}
		if _, isRaw := raw[nk]; isRaw {
			continue
		}
		if existing, ok := table[nk]; !ok || raw[k] > existing {
			table[nk] = raw[k]
		}
	}

	return table
}

// phrases returns the multi-word keys of the table in sorted order
func (t weightTable) phrases() []string {
	var out []string
	for k := range t {
		if strings.Contains(k, " ") {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// lookupWeight resolves a term against the domain table, then the general
// table, then the default weight
func lookupWeight(term string, domain Domain) float64 {
	if w, ok := lookupKnown(term, domain); ok {
		return w
	}
	return defaultWeight
}

func lookupKnown(term string, domain Domain) (float64, bool) {
	if domain != DomainGeneral {
		if table, ok := domainWeights[domain]; ok {
			if w, ok := table[term]; ok {
				return w, true
			}
		}
	}
	w, ok := generalWeights[term]
	return w, ok
}

// knownPhrases returns the multi-word table keys relevant to domain
func knownPhrases(domain Domain) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(list []string) {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	if table, ok := domainWeights[domain]; ok {
		add(table.phrases())
	}
	add(generalWeights.phrases())
	return out
}
