package match

import (
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultFallbackScore is returned when a score cannot be computed.
// It equals the scaler floor so a failed match reads as a weak one.
const DefaultFallbackScore = 0.20

// DefaultMaxInputBytes bounds the text scored per call
const DefaultMaxInputBytes = 64 * 1024

// Config configures a Matcher
type Config struct {
	FallbackScore  float64
	MaxInputBytes  int
	KeyphraseBoost float64
	ExpandSynonyms bool
	Scorer         ScorerConfig
}

// DefaultConfig returns the standard matching configuration
func DefaultConfig() Config {
	return Config{
		FallbackScore:  DefaultFallbackScore,
		MaxInputBytes:  DefaultMaxInputBytes,
		KeyphraseBoost: DefaultKeyphraseBoost,
		Scorer:         DefaultScorerConfig(),
	}
}

// Report explains how a score was reached
type Report struct {
	Domain          Domain         `json:"domain"`
	Sections        Sections       `json:"sections"`
	Result          Result         `json:"result"`
	Score           float64        `json:"score"`
	Formatted       FormattedScore `json:"formatted"`
	JobTermCount    int            `json:"job_terms"`
	ResumeTermCount int            `json:"resume_terms"`
	Fallback        bool           `json:"fallback"`
	FallbackReason  string         `json:"fallback_reason,omitempty"`
}

// Matcher scores job overviews against a resume. It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	config    Config
	extractor *Extractor
	scorer    *Scorer
	logger    *slog.Logger
}

// NewMatcher creates a Matcher. A nil logger uses slog.Default at call time.
func NewMatcher(config Config, logger *slog.Logger) *Matcher {
	if config.MaxInputBytes <= 0 {
		config.MaxInputBytes = DefaultMaxInputBytes
	}
	return &Matcher{
		config:    config,
		extractor: NewExtractor(config.KeyphraseBoost),
		scorer:    NewScorer(config.Scorer),
		logger:    logger,
	}
}

// Config returns the matcher configuration
func (m *Matcher) Config() Config {
	return m.config
}

func (m *Matcher) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// Match returns the scaled match score in [0,1] for a job overview and resume
func (m *Matcher) Match(jobText, resumeText string) float64 {
	return m.Explain(jobText, resumeText).Score
}

// Explain runs the full pipeline and reports every intermediate result.
// It never panics; failures produce the fallback score.
func (m *Matcher) Explain(jobText, resumeText string) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			m.log().Error("match pipeline failed, using fallback score", slog.Any("panic", r))
			report = m.fallback("internal error")
		}
	}()

	if strings.TrimSpace(jobText) == "" || strings.TrimSpace(resumeText) == "" {
		m.log().Warn("empty job or resume text, using fallback score",
			slog.Int("job_bytes", len(jobText)),
			slog.Int("resume_bytes", len(resumeText)))
		return m.fallback("empty input")
	}

	jobText = truncate(jobText, m.config.MaxInputBytes)
	resumeText = truncate(resumeText, m.config.MaxInputBytes)
	if m.config.ExpandSynonyms {
		jobText = ExpandWithSynonyms(jobText)
		resumeText = ExpandWithSynonyms(resumeText)
	}

	sections := ExtractJobSections(jobText)
	domain := DetectDomain(sections.Description)

	jobTerms := m.JobTerms(sections, domain)
	resumeTerms := m.extractor.Extract(resumeText, domain)
	result := m.scorer.Score(jobTerms, resumeTerms)

	score := ScaleScore(result.RawScore)
	if math.IsNaN(score) {
		return m.fallback("invalid score")
	}

	return Report{
		Domain:          domain,
		Sections:        sections,
		Result:          result,
		Score:           score,
		Formatted:       FormatScore(score),
		JobTermCount:    len(jobTerms),
		ResumeTermCount: len(resumeTerms),
	}
}

// JobTerms builds the job term map: description terms first, then each
// present section's terms overwrite them at the section's weight
func (m *Matcher) JobTerms(sections Sections, domain Domain) TermWeights {
	terms := m.extractor.Extract(sections.Description, domain)

	for _, ws := range sections.Weighted() {
		for term, w := range m.extractor.Extract(ws.Text, domain) {
			terms.set(term, w*ws.Weight)
		}
	}

	return terms
}

func (m *Matcher) fallback(reason string) Report {
	return Report{
		Domain:         DomainGeneral,
		Score:          m.config.FallbackScore,
		Formatted:      FormatScore(m.config.FallbackScore),
		Fallback:       true,
		FallbackReason: reason,
	}
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var defaultMatcher = NewMatcher(DefaultConfig(), nil)

// CalculateJobResumeMatch scores a job overview against a resume with the
// default configuration. The result is the scaled score in [0,1].
func CalculateJobResumeMatch(jobText, resumeText string) float64 {
	return defaultMatcher.Match(jobText, resumeText)
}

// FormatSimilarityScore formats a scaled score for display
func FormatSimilarityScore(score float64) FormattedScore {
	return FormatScore(score)
}
