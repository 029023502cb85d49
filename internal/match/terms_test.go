package match

import (
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestExtractWeightedTerms(t *testing.T) {
	terms := ExtractWeightedTerms("Python developer with AWS experience", DomainTechnology)

	want := map[string]float64{
		"python":           1.8,
		"developer":        1.4,
		"aws":              1.6,
		"experience":       1.1,
		"python developer": 1.2,
		"aws experience":   1.2,
	}

	if len(terms) != len(want) {
		t.Errorf("len(terms) = %d, want %d (%v)", len(terms), len(want), terms.Keys())
	}
	for term, w := range want {
		got, ok := terms[term]
		if !ok {
			t.Errorf("missing term %q", term)
			continue
		}
		if !approxEqual(got, w) {
			t.Errorf("terms[%q] = %v, want %v", term, got, w)
		}
	}
}

func TestExtractWeightedTerms_WeightResolution(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		domain Domain
		term   string
		want   float64
	}{
		{"domain table wins", "python", DomainTechnology, "python", 1.8},
		{"general table", "python", DomainGeneral, "python", 1.5},
		{"general fallback from domain", "python", DomainFinance, "python", 1.5},
		{"unknown term", "banana", DomainGeneral, "banana", 1.0},
		{"normalized key", "Managing payroll", DomainHR, "payroll", 1.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := ExtractWeightedTerms(tt.text, tt.domain)
			if got := terms[tt.term]; !approxEqual(got, tt.want) {
				t.Errorf("terms[%q] = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestExtractWeightedTerms_TechTokens(t *testing.T) {
	terms := ExtractWeightedTerms("Strong C++ and C# skills, some Node.js", DomainGeneral)

	for _, term := range []string{"c++", "c#", "node.js"} {
		if _, ok := terms[term]; !ok {
			t.Errorf("missing tech token %q in %v", term, terms.Keys())
		}
	}
	if _, ok := terms[".net"]; ok {
		t.Error("unexpected .net term")
	}
}

func TestExtractWeightedTerms_Keyphrases(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		domain Domain
		phrase string
		want   float64
	}{
		{
			name:   "years of experience",
			text:   "3+ years of experience required",
			domain: DomainGeneral,
			phrase: "3 years experience",
			want:   1.2,
		},
		{
			name:   "skill indicator",
			text:   "Proficient in machine learning and statistics",
			domain: DomainGeneral,
			phrase: "machine learn",
			want:   1.1 * 1.2,
		},
		{
			name:   "known phrase across stopword",
			text:   "Operate the point of sale system",
			domain: DomainRetail,
			phrase: "point sale",
			want:   1.6 * 1.2,
		},
		{
			name:   "adjacent pair with weighted token",
			text:   "Docker containers",
			domain: DomainTechnology,
			phrase: "docker container",
			want:   1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := ExtractWeightedTerms(tt.text, tt.domain)
			got, ok := terms[tt.phrase]
			if !ok {
				t.Fatalf("missing phrase %q in %v", tt.phrase, terms.Keys())
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("terms[%q] = %v, want %v", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestExtractWeightedTerms_PhrasesStopAtPunctuation(t *testing.T) {
	terms := ExtractWeightedTerms("Python. Banana", DomainTechnology)

	if _, ok := terms["python banana"]; ok {
		t.Error("phrase crossed a sentence boundary")
	}
}

func TestExtractWeightedTerms_Invariants(t *testing.T) {
	text := `Job Description: We're hiring a Senior Software Engineer (Go, Kubernetes, CI/CD).
Requirements: 5 years of professional experience; experience with distributed systems design.
Résumé screening, naïve café, ÜBER résumés!`

	terms := ExtractWeightedTerms(text, DetectDomain(text))
	if len(terms) == 0 {
		t.Fatal("no terms extracted")
	}

	for term, w := range terms {
		if term == "" {
			t.Error("empty term key")
		}
		if term != strings.ToLower(term) {
			t.Errorf("term %q is not lowercase", term)
		}
		if w <= 0 {
			t.Errorf("terms[%q] = %v, want > 0", term, w)
		}
	}
}

func TestExtractor_KeyphraseBoost(t *testing.T) {
	e := NewExtractor(2.0)
	terms := e.Extract("Docker containers", DomainTechnology)

	if got := terms["docker container"]; !approxEqual(got, 2.0) {
		t.Errorf("boosted phrase weight = %v, want 2.0", got)
	}

	if NewExtractor(0).KeyphraseBoost != DefaultKeyphraseBoost {
		t.Error("zero boost should fall back to the default")
	}
}

func TestContainsTerm(t *testing.T) {
	tests := []struct {
		text string
		term string
		want bool
	}{
		{"we use c++ daily", "c++", true},
		{"c#", "c#", true},
		{"asp.net core", ".net", false},
		{"asp.net core and .net", ".net", true},
		{"abc++", "c++", false},
		{"ci/cd pipelines", "ci/cd", true},
	}

	for _, tt := range tests {
		if got := containsTerm(tt.text, tt.term); got != tt.want {
			t.Errorf("containsTerm(%q, %q) = %v, want %v", tt.text, tt.term, got, tt.want)
		}
	}
}
