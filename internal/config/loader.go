package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'jobmatch config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML on top of the defaults, expands paths and validates
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the config file, falling back to defaults when it does not exist
func LoadOrDefault(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.expandPaths(); err != nil {
			return nil, fmt.Errorf("failed to expand paths: %w", err)
		}
		return cfg, nil
	}

	return Load(expandedPath)
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Matching validation
	m := c.Matching
	if m.FallbackScore < 0 || m.FallbackScore > 1 {
		errs = append(errs, errors.New("matching.fallback_score must be between 0 and 1"))
	}
	if m.BaselineBoost < 0 || m.BaselineBoost > 1 {
		errs = append(errs, errors.New("matching.baseline_boost must be between 0 and 1"))
	}
	if m.KeyphraseBoost <= 0 {
		errs = append(errs, errors.New("matching.keyphrase_boost must be positive"))
	}
	for name, v := range map[string]float64{
		"partial_credit":     m.PartialCredit,
		"stem_credit":        m.StemCredit,
		"resume_only_factor": m.ResumeOnlyFactor,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("matching.%s must be between 0 and 1, got %v", name, v))
		}
	}
	if m.MaxInputBytes < 1024 {
		errs = append(errs, errors.New("matching.max_input_bytes must be at least 1024"))
	}
	if m.GoodMatchPercent < 20 || m.GoodMatchPercent > 100 {
		errs = append(errs, errors.New("matching.good_match_percent must be between 20 and 100"))
	}
	if m.StrongMatchPercent < 20 || m.StrongMatchPercent > 100 {
		errs = append(errs, errors.New("matching.strong_match_percent must be between 20 and 100"))
	}
	if m.Workers < 1 || m.Workers > 64 {
		errs = append(errs, errors.New("matching.workers must be between 1 and 64"))
	}

	// Board validation
	if !strings.HasPrefix(c.Board.BaseURL, "http://") && !strings.HasPrefix(c.Board.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("board.base_url must be an http(s) URL, got '%s'", c.Board.BaseURL))
	}
	if c.Board.Concurrency < 1 || c.Board.Concurrency > 50 {
		errs = append(errs, errors.New("board.concurrency must be between 1 and 50"))
	}
	if c.Board.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("board.requests_per_second must be positive"))
	}
	if c.Board.BatchDelayMS < 0 {
		errs = append(errs, errors.New("board.batch_delay_ms must not be negative"))
	}
	if c.Board.TimeoutSeconds < 1 {
		errs = append(errs, errors.New("board.timeout_seconds must be at least 1"))
	}

	// Logging validation
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got '%s'", c.Logging.Level))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be 'text' or 'json', got '%s'", c.Logging.Format))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// OverviewURL returns the full URL of the job overview endpoint
func (c *Config) OverviewURL() string {
	return strings.TrimRight(c.Board.BaseURL, "/") + c.Board.OverviewPath
}

// ListingURL returns the full URL of the job listing page
func (c *Config) ListingURL() string {
	return strings.TrimRight(c.Board.BaseURL, "/") + c.Board.ListingPath
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
