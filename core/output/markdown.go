package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// MarkdownFormatter writes a Markdown report, to a file when one is set.
type MarkdownFormatter struct {
	out  io.Writer
	file string
}

func (f *MarkdownFormatter) Result(r *CommandResult) error {
	doc, err := RenderMarkdown(r)
	if err != nil {
		return err
	}

	if f.file == "" {
		_, err = io.WriteString(f.out, doc)
		return err
	}
	if err := os.WriteFile(f.file, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.file, err)
	}
	_, err = fmt.Fprintf(f.out, "Report written to %s\n", f.file)
	return err
}

func (f *MarkdownFormatter) Confirm(string) (bool, error) { return true, nil }

func (f *MarkdownFormatter) Interactive() bool { return false }

func (f *MarkdownFormatter) Progress(string) Progress { return nopProgress{} }

// RenderMarkdown renders r as a Markdown document.
func RenderMarkdown(r *CommandResult) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Message)
	if r.Success {
		b.WriteString("**Status:** success\n")
	} else {
		b.WriteString("**Status:** error\n")
	}
	if r.ErrorDetails != "" {
		fmt.Fprintf(&b, "\n**Error:** %s\n", r.ErrorDetails)
	}

	if r.Data != nil {
		if s, ok := r.Data.(Sectioner); ok {
			for _, sec := range s.Sections() {
				if len(sec.Rows) == 0 {
					continue
				}
				if sec.Title != "" {
					fmt.Fprintf(&b, "\n## %s\n", sec.Title)
				}
				b.WriteString("\n" + markdownTable(sec.Headers, sec.Rows))
			}
		} else {
			data, err := json.MarshalIndent(r.Data, "", "  ")
			if err != nil {
				return "", fmt.Errorf("failed to encode result data: %w", err)
			}
			b.WriteString("\n```json\n" + string(data) + "\n```\n")
		}
	}

	if r.Notes != "" {
		fmt.Fprintf(&b, "\n> %s\n", r.Notes)
	}
	return b.String(), nil
}

func markdownTable(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeCells(headers), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	return b.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}
