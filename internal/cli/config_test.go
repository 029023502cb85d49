package cli

import (
	"testing"

	"github.com/vijay-prabhu/jobmatch/internal/config"
)

func TestDefaultConfigParses(t *testing.T) {
	cfg, err := config.Parse([]byte(defaultConfig))
	if err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}

	want := config.Default()
	if cfg.Matching != want.Matching {
		t.Errorf("Matching = %+v, want %+v", cfg.Matching, want.Matching)
	}
	if cfg.Board != want.Board {
		t.Errorf("Board = %+v, want %+v", cfg.Board, want.Board)
	}
	if cfg.Logging != want.Logging {
		t.Errorf("Logging = %+v, want %+v", cfg.Logging, want.Logging)
	}
	if cfg.MCP != want.MCP {
		t.Errorf("MCP = %+v, want %+v", cfg.MCP, want.MCP)
	}
}
