package match

import (
	"strings"
)

// ScorerConfig configures the credit given to each kind of term match
type ScorerConfig struct {
	PartialCredit    float64 // Credit fraction for substring or shared-token matches
	StemCredit       float64 // Credit fraction for shared five-letter prefixes
	ResumeOnlyFactor float64 // Fraction of resume-only weight added to the denominator
	BaselineBoost    float64 // Flat amount added to every raw score
}

// DefaultScorerConfig returns the standard credit fractions
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		PartialCredit:    0.7,
		StemCredit:       0.5,
		ResumeOnlyFactor: 0.3,
		BaselineBoost:    0.07,
	}
}

// stemPrefixLength is how many leading characters a stem match compares
const stemPrefixLength = 5

// TermPair records a job term credited through a different resume term
type TermPair struct {
	Job    string `json:"job"`
	Resume string `json:"resume"`
}

// Result is the outcome of comparing a job term map against a resume term map
type Result struct {
	RawScore         float64    `json:"raw_score"`
	CommonTerms      []string   `json:"common_terms"`
	ApproximateTerms []TermPair `json:"approximate_terms,omitempty"`
	StemTerms        []TermPair `json:"stem_terms,omitempty"`
	MatchWeight      float64    `json:"match_weight"`
	TotalWeight      float64    `json:"total_weight"`
	ResumeOnlyWeight float64    `json:"resume_only_weight"`
}

// Scorer computes weighted overlap between job and resume terms.
// Scoring iterates job terms, so Score(a, b) generally differs from Score(b, a).
type Scorer struct {
	config ScorerConfig
}

// NewScorer creates a new Scorer with the given configuration
func NewScorer(config ScorerConfig) *Scorer {
	return &Scorer{config: config}
}

// ScoreMatch scores with the default configuration
func ScoreMatch(jobTerms, resumeTerms TermWeights) Result {
	return NewScorer(DefaultScorerConfig()).Score(jobTerms, resumeTerms)
}

// Score credits each job term by its best available match in the resume.
// Empty maps are not special-cased and yield the baseline boost alone.
func (s *Scorer) Score(jobTerms, resumeTerms TermWeights) Result {
	var res Result
	resumeKeys := resumeTerms.Keys()

	for _, term := range jobTerms.Keys() {
		weight := jobTerms[term]
		res.TotalWeight += weight

		if _, ok := resumeTerms[term]; ok {
			res.MatchWeight += weight
			res.CommonTerms = append(res.CommonTerms, term)
			continue
		}

		if partner, ok := findPartialMatch(term, resumeKeys); ok {
			res.MatchWeight += weight * s.config.PartialCredit
			res.ApproximateTerms = append(res.ApproximateTerms, TermPair{Job: term, Resume: partner})
			continue
		}

		if partner, ok := findStemMatch(term, resumeKeys); ok {
			res.MatchWeight += weight * s.config.StemCredit
			res.StemTerms = append(res.StemTerms, TermPair{Job: term, Resume: partner})
		}
	}

	for _, term := range resumeKeys {
		if _, ok := jobTerms[term]; ok {
			continue
		}
		extra := resumeTerms[term] * s.config.ResumeOnlyFactor
		res.TotalWeight += extra
		res.ResumeOnlyWeight += extra
	}

	raw := 0.0
	if res.TotalWeight > 0 {
		raw = res.MatchWeight / res.TotalWeight
	}
	res.RawScore = clamp(raw+s.config.BaselineBoost, 0, 1)

	return res
}

// findPartialMatch returns the first resume term that contains or is
// contained by term, or shares a whitespace token longer than three characters
func findPartialMatch(term string, resumeKeys []string) (string, bool) {
	termTokens := longTokens(term)

	for _, candidate := range resumeKeys {
		if strings.Contains(candidate, term) || strings.Contains(term, candidate) {
			return candidate, true
		}
		for _, tok := range strings.Fields(candidate) {
			if len(tok) > 3 && termTokens[tok] {
				return candidate, true
			}
		}
	}

	return "", false
}

// findStemMatch returns the first resume term sharing term's leading characters
func findStemMatch(term string, resumeKeys []string) (string, bool) {
	if len(term) < stemPrefixLength {
		return "", false
	}

	for _, candidate := range resumeKeys {
		if len(candidate) < stemPrefixLength {
			continue
		}
		n := min(stemPrefixLength, len(term), len(candidate))
		if term[:n] == candidate[:n] {
			return candidate, true
		}
	}

	return "", false
}

func longTokens(term string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(term) {
		if len(tok) > 3 {
			out[tok] = true
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

