package config

import (
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/match"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Matching MatchingConfig `toml:"matching"`
	Board    BoardConfig    `toml:"board"`
	Logging  LoggingConfig  `toml:"logging"`
	MCP      MCPConfig      `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// MatchingConfig tunes the resume matching engine
type MatchingConfig struct {
	FallbackScore      float64 `toml:"fallback_score"`
	BaselineBoost      float64 `toml:"baseline_boost"`
	KeyphraseBoost     float64 `toml:"keyphrase_boost"`
	PartialCredit      float64 `toml:"partial_credit"`
	StemCredit         float64 `toml:"stem_credit"`
	ResumeOnlyFactor   float64 `toml:"resume_only_factor"`
	MaxInputBytes      int     `toml:"max_input_bytes"`
	ExpandSynonyms     bool    `toml:"expand_synonyms"`
	GoodMatchPercent   int     `toml:"good_match_percent"`
	StrongMatchPercent int     `toml:"strong_match_percent"`
	Workers            int     `toml:"workers"`
}

// MatcherConfig converts the settings into a match.Config
func (m MatchingConfig) MatcherConfig() match.Config {
	return match.Config{
		FallbackScore:  m.FallbackScore,
		MaxInputBytes:  m.MaxInputBytes,
		KeyphraseBoost: m.KeyphraseBoost,
		ExpandSynonyms: m.ExpandSynonyms,
		Scorer: match.ScorerConfig{
			PartialCredit:    m.PartialCredit,
			StemCredit:       m.StemCredit,
			ResumeOnlyFactor: m.ResumeOnlyFactor,
			BaselineBoost:    m.BaselineBoost,
		},
	}
}

// BoardConfig contains WaterlooWorks connection settings
type BoardConfig struct {
	BaseURL           string  `toml:"base_url"`
	ListingPath       string  `toml:"listing_path"`
	OverviewPath      string  `toml:"overview_path"`
	ActionToken       string  `toml:"action_token"`
	SessionCookie     string  `toml:"session_cookie"`
	Concurrency       int     `toml:"concurrency"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BatchDelayMS      int     `toml:"batch_delay_ms"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout as a duration
func (b BoardConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// BatchDelay returns the pause between fetch batches as a duration
func (b BoardConfig) BatchDelay() time.Duration {
	return time.Duration(b.BatchDelayMS) * time.Millisecond
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	scorer := match.DefaultScorerConfig()

	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/jobmatch/jobmatch.db",
		},
		Matching: MatchingConfig{
			FallbackScore:      match.DefaultFallbackScore,
			BaselineBoost:      scorer.BaselineBoost,
			KeyphraseBoost:     match.DefaultKeyphraseBoost,
			PartialCredit:      scorer.PartialCredit,
			StemCredit:         scorer.StemCredit,
			ResumeOnlyFactor:   scorer.ResumeOnlyFactor,
			MaxInputBytes:      match.DefaultMaxInputBytes,
			ExpandSynonyms:     false,
			GoodMatchPercent:   match.GoodMatchPercent,
			StrongMatchPercent: 70,
			Workers:            8,
		},
		Board: BoardConfig{
			BaseURL:           "https://waterlooworks.uwaterloo.ca",
			ListingPath:       "/myAccount/co-op/full/jobs.htm",
			OverviewPath:      "/myAccount/co-op/direct/jobs.htm",
			Concurrency:       12,
			RequestsPerSecond: 5,
			BatchDelayMS:      1000,
			TimeoutSeconds:    30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
