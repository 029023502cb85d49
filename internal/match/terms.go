package match

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultKeyphraseBoost multiplies the resolved weight of multi-word terms
const DefaultKeyphraseBoost = 1.2

// TermWeights maps a normalized term or phrase to its importance weight.
// Keys are non-empty and lowercase; values are positive.
type TermWeights map[string]float64

// set records a term, ignoring empty keys and non-positive weights
func (tw TermWeights) set(term string, weight float64) {
	term = strings.TrimSpace(term)
	if term == "" || weight <= 0 {
		return
	}
	tw[term] = weight
}

// Keys returns the terms in sorted order
func (tw TermWeights) Keys() []string {
	keys := make([]string, 0, len(tw))
	for k := range tw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of all weights
func (tw TermWeights) Total() float64 {
	total := 0.0
	for _, w := range tw {
		total += w
	}
	return total
}

// techTokens are terms the normalizer would split or strip
var techTokens = []string{
	"c++", "c#", "f#", ".net", "asp.net", "node.js", "react.js", "vue.js",
	"next.js", "ci/cd", "objective-c", "tcp/ip", "pl/sql",
}

// phraseBreak splits text into spans that a phrase never crosses
var phraseBreak = regexp.MustCompile(`[.,;:!?()\[\]{}"|•\n\r\t]+`)

// skillIndicator captures up to three words after "experience with", "proficient in" and similar
var skillIndicator = regexp.MustCompile(
	`\b(?:experience|experienced|proficient|proficiency|skilled|expertise|knowledge|familiarity|familiar|background)\s+(?:with|in|of|using)\s+` +
		`([a-z0-9+#]+(?:[-/][a-z0-9+#]+)*(?:\s+[a-z0-9+#]+(?:[-/][a-z0-9+#]+)*){0,2})`)

// yearsExperience captures "3+ years of experience" style requirements
var yearsExperience = regexp.MustCompile(
	`\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\s+(?:of\s+)?(?:relevant\s+|professional\s+|industry\s+|work\s+)?experience\b`)

// Extractor builds weighted term maps from free text
type Extractor struct {
	KeyphraseBoost float64
}

// NewExtractor creates an Extractor. A non-positive boost falls back to the default.
func NewExtractor(keyphraseBoost float64) *Extractor {
	if keyphraseBoost <= 0 {
		keyphraseBoost = DefaultKeyphraseBoost
	}
	return &Extractor{KeyphraseBoost: keyphraseBoost}
}

// ExtractWeightedTerms extracts terms with the default keyphrase boost
func ExtractWeightedTerms(text string, domain Domain) TermWeights {
	return NewExtractor(DefaultKeyphraseBoost).Extract(text, domain)
}

// Extract returns every single term and keyphrase of text with its weight.
// When a key is produced twice the later write wins.
func (e *Extractor) Extract(text string, domain Domain) TermWeights {
	terms := make(TermWeights)

	for _, tok := range Normalize(text) {
		terms.set(tok, lookupWeight(tok, domain))
	}

	lower := strings.ToLower(foldAccents(text))
	for _, tech := range techTokens {
		if containsTerm(lower, tech) {
			terms.set(tech, lookupWeight(tech, domain))
		}
	}

	for _, phrase := range extractKeyphrases(lower, domain) {
		terms.set(phrase, lookupWeight(phrase, domain)*e.KeyphraseBoost)
	}

	return terms
}

// extractKeyphrases finds multi-word terms in already lowercased text
func extractKeyphrases(lower string, domain Domain) []string {
	var phrases []string
	known := knownPhrases(domain)

	for _, span := range phraseBreak.Split(lower, -1) {
		normalized := Normalize(span)
		if len(normalized) < 2 {
			continue
		}

		// Known phrases may straddle a stopword ("point of sale")
		joined := " " + strings.Join(normalized, " ") + " "
		for _, p := range known {
			if strings.Contains(joined, " "+p+" ") {
				phrases = append(phrases, p)
			}
		}

		for _, run := range contentRuns(span) {
			for i := 0; i+1 < len(run); i++ {
				if isWeighted(run[i], domain) || isWeighted(run[i+1], domain) {
					phrases = append(phrases, run[i]+" "+run[i+1])
				}
			}
		}
	}

	for _, m := range skillIndicator.FindAllStringSubmatch(lower, -1) {
		if phrase := skillPhrase(m[1]); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}

	for _, m := range yearsExperience.FindAllStringSubmatch(lower, -1) {
		phrases = append(phrases, fmt.Sprintf("%s years experience", m[1]))
	}

	return phrases
}

// contentRuns splits a span into runs of stemmed tokens, breaking at
// stopwords and short tokens
func contentRuns(span string) [][]string {
	var runs [][]string
	var current []string

	flush := func() {
		if len(current) > 1 {
			runs = append(runs, current)
		}
		current = nil
	}

	for _, tok := range Tokenize(span) {
		if len(tok) < minTokenLength || stopwords[tok] {
			flush()
			continue
		}
		stemmed := Stem(tok)
		if stopwords[stemmed] {
			flush()
			continue
		}
		current = append(current, stemmed)
	}
	flush()

	return runs
}

// skillPhrase keeps the captured words up to the first stopword and
// returns them normalized when at least two remain
func skillPhrase(capture string) string {
	var kept []string
	for _, w := range strings.Fields(capture) {
		if stopwords[w] {
			break
		}
		kept = append(kept, w)
	}

	normalized := Normalize(strings.Join(kept, " "))
	if len(normalized) < 2 {
		return ""
	}
	if len(normalized) > 3 {
		normalized = normalized[:3]
	}
	return strings.Join(normalized, " ")
}

func isWeighted(term string, domain Domain) bool {
	_, ok := lookupKnown(term, domain)
	return ok
}

// containsTerm reports whether term occurs in text with no word character
// directly before or after it
func containsTerm(text, term string) bool {
	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx == -1 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end >= len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		offset = start + 1
	}
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
