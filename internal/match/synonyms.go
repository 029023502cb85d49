package match

import (
	"sort"
	"strings"
)

// synonyms lists alternative phrasings for common resume and posting terms
var synonyms = map[string][]string{
	"developer":         {"engineer", "programmer", "coder", "software engineer", "implementer"},
	"software engineer": {"developer", "programmer", "coder", "engineer"},
	"frontend":          {"front-end", "front end", "client-side"},
	"backend":           {"back-end", "back end", "server-side", "api"},
	"fullstack":         {"full-stack", "full stack", "end-to-end"},
	"develop":           {"create", "build", "implement", "code", "program", "engineer"},
	"design":            {"architect", "plan", "model", "structure"},
	"analyze":           {"examine", "assess", "evaluate", "review"},
	"lead":              {"manage", "direct", "guide", "coordinate", "supervise"},
	"collaborate":       {"cooperate", "team up", "partner"},
	"api":               {"interface", "endpoint", "service", "integration"},
	"database":          {"data store", "storage", "repository"},
	"algorithm":         {"method", "procedure", "routine", "computation"},
	"deploy":            {"release", "ship", "publish", "launch"},
	"debug":             {"troubleshoot", "fix", "resolve", "diagnose"},
}

// ExpandWithSynonyms appends the synonyms of every known term found in text
// that are not already present. Terms are visited in sorted order.
func ExpandWithSynonyms(text string) string {
	lower := strings.ToLower(text)

	terms := make([]string, 0, len(synonyms))
	for term := range synonyms {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var additions []string
	added := make(map[string]bool)
	for _, term := range terms {
		if !containsTerm(lower, term) {
			continue
		}
		for _, syn := range synonyms[term] {
			if added[syn] || containsTerm(lower, syn) {
				continue
			}
			added[syn] = true
			additions = append(additions, syn)
		}
	}

	if len(additions) == 0 {
		return text
	}
	return text + " " + strings.Join(additions, " ")
}
