package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/logger"
	"github.com/vijay-prabhu/jobmatch/internal/match"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	logLevel   string
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Match your resume against WaterlooWorks job postings",
	Long: `jobmatch scores how well your resume fits each WaterlooWorks posting,
so you can spend your applications on the jobs that fit best.

It provides:
  - Keyword matching tuned per professional domain
  - Resume import from PDF or plain text
  - Job overview fetching from WaterlooWorks (or an extension export)
  - MCP server for AI assistant integration`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ~/.config/jobmatch/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json, jsonl)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level override (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(home, ".config", "jobmatch", "config.toml")
	}
}

// initLogging installs the default logger from the config file and --log-level.
// Logs go to stderr so stdout stays clean for JSON output and the MCP transport.
func initLogging(cmd *cobra.Command, args []string) error {
	level, format := "info", "text"
	if cfg, err := config.LoadOrDefault(configPath); err == nil {
		level, format = cfg.Logging.Level, cfg.Logging.Format
	}
	if logLevel != "" {
		level = logLevel
	}

	if _, err := logger.Init(level, format); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// loadConfig loads the config file, using defaults when none exists yet
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDB loads the config and opens the database it points at
func openDB() (*config.Config, *database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, db, nil
}

func newMatcher(cfg *config.Config) *match.Matcher {
	return match.NewMatcher(cfg.Matching.MatcherConfig(), slog.Default())
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jobmatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
