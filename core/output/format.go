package output

import (
	"fmt"
	"strings"
)

// Format specifies the output format.
type Format string

const (
	// FormatTable renders styled tables for a terminal.
	FormatTable Format = "table"

	// FormatJSON renders the result as indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders the result as YAML.
	FormatYAML Format = "yaml"

	// FormatMarkdown renders a Markdown report.
	FormatMarkdown Format = "markdown"
)

func (f Format) String() string {
	return string(f)
}

// Interactive reports whether the format prompts for confirmation.
func (f Format) Interactive() bool {
	return f == FormatTable
}

// ParseFormat parses a format name. An empty name selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table", "interactive":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"table", "json", "yaml", "markdown"}
}
