package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Supported output formats
const (
	FormatTable       = "table"
	FormatJSON        = "json"
	FormatJSONCompact = "jsonl"
)

// Formats lists the accepted --format values
func Formats() []string {
	return []string{FormatTable, FormatJSON, FormatJSONCompact}
}

// JSON writes data as JSON to stdout
func JSON(data interface{}) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// JSONCompactTo writes data as single-line JSON to the given writer
func JSONCompactTo(w io.Writer, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// Output writes data to stdout in the specified format
func Output(format string, data interface{}) error {
	return OutputTo(os.Stdout, format, data)
}

// OutputTo writes data to w in the specified format
func OutputTo(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatJSONCompact:
		return JSONCompactTo(w, data)
	case FormatTable, "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
