package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for errors",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Dir(configPath)
	dataDir := filepath.Join(home, ".local", "share", "jobmatch")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file already exists at %s\n", configPath)
		fmt.Println("Use 'jobmatch config show' to view current configuration")
		return nil
	}

	// Write default config. It holds a session cookie once filled in.
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Save your resume:           jobmatch resume set resume.pdf")
	fmt.Println("  2. Either import an extension export:")
	fmt.Println("       jobmatch import jobOverviews.json")
	fmt.Println("     or copy your WaterlooWorks session cookie into [board] and run:")
	fmt.Println("       jobmatch fetch")
	fmt.Println("  3. See your best matches:      jobmatch list --min 65")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'jobmatch config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(configPath); err != nil {
		return err
	}
	fmt.Printf("%s is valid\n", configPath)
	return nil
}

const defaultConfig = `# jobmatch configuration

[database]
path = "~/.local/share/jobmatch/jobmatch.db"

[matching]
fallback_score = 0.20       # score used when a job or resume has no text
baseline_boost = 0.07       # added to every raw score before scaling
keyphrase_boost = 1.2       # weight multiplier for multi-word phrases
partial_credit = 0.7        # credit for a job term partly covered by the resume
stem_credit = 0.5           # credit for a job term sharing a stem with the resume
resume_only_factor = 0.3    # share of resume-only term weight added to the denominator
max_input_bytes = 65536     # longer texts are truncated
expand_synonyms = false     # append synonyms (developer -> engineer, ...) before scoring
good_match_percent = 65     # highlighted as a good match
strong_match_percent = 70   # counted as a strong match in summaries
workers = 8                 # jobs scored in parallel

[board]
base_url = "https://waterlooworks.uwaterloo.ca"
listing_path = "/myAccount/co-op/full/jobs.htm"
overview_path = "/myAccount/co-op/direct/jobs.htm"
# Copy these from a logged-in browser session. The action token is read from the
# listing page when left empty.
action_token = ""
session_cookie = ""
concurrency = 12            # overview requests per batch
requests_per_second = 5
batch_delay_ms = 1000       # pause between batches
timeout_seconds = 30

[logging]
level = "info"              # debug, info, warn, error
format = "text"             # text, json

[mcp]
enabled = true
transport = "stdio"
`
