package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// overviewsExport is the shape of the extension's storage dump
type overviewsExport struct {
	JobOverviews []JobOverview `json:"jobOverviews"`
}

// LoadOverviewsFile reads overviews exported from the browser extension
func LoadOverviewsFile(path string) ([]JobOverview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overviews file: %w", err)
	}
	defer f.Close()

	overviews, err := ReadOverviews(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return overviews, nil
}

// ReadOverviews decodes either a bare array of overviews or an object holding them
// under "jobOverviews". Entries without a job ID are dropped; entries with raw HTML
// but no parsed text are parsed.
func ReadOverviews(r io.Reader) ([]JobOverview, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var overviews []JobOverview
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &overviews); err != nil {
			return nil, fmt.Errorf("failed to decode overviews: %w", err)
		}
	default:
		var export overviewsExport
		if err := json.Unmarshal(trimmed, &export); err != nil {
			return nil, fmt.Errorf("failed to decode overviews: %w", err)
		}
		overviews = export.JobOverviews
	}

	kept := overviews[:0]
	for _, o := range overviews {
		o.JobID = strings.TrimSpace(o.JobID)
		if o.JobID == "" {
			continue
		}
		if o.Overview.Text == "" && o.RawHTML != "" {
			o.Overview = ParseOverview(o.RawHTML)
		}
		kept = append(kept, o)
	}

	return kept, nil
}

// WriteOverviewsFile stores overviews in the extension's export format
func WriteOverviewsFile(path string, overviews []JobOverview) error {
	data, err := json.MarshalIndent(overviewsExport{JobOverviews: overviews}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal overviews: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write overviews file: %w", err)
	}
	return nil
}
