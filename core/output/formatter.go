package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter writes results and interacts with the user for one format.
type Formatter interface {
	// Result writes r.
	Result(r *CommandResult) error
	// Confirm asks a yes/no question. Non-interactive formatters answer yes.
	Confirm(prompt string) (bool, error)
	// Progress starts a progress display titled title.
	Progress(title string) Progress
	// Interactive reports whether Confirm really prompts the user.
	Interactive() bool
}

// Options configures New.
type Options struct {
	Format Format
	// Out receives results. Defaults to os.Stdout.
	Out io.Writer
	// Err receives progress and prompts. Defaults to os.Stderr.
	Err io.Writer
	// In is read for confirmations. Defaults to os.Stdin.
	In io.Reader
	// File, when set, receives Markdown output instead of Out.
	File string
}

// New creates the formatter for opts.Format.
func New(opts Options) (Formatter, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}

	switch opts.Format {
	case FormatTable, "":
		return &TableFormatter{out: opts.Out, err: opts.Err, in: bufio.NewReader(opts.In), tty: IsTTY()}, nil
	case FormatJSON:
		return &JSONFormatter{out: opts.Out}, nil
	case FormatYAML:
		return &YAMLFormatter{out: opts.Out}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{out: opts.Out, file: opts.File}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// TableFormatter renders results as styled terminal tables.
type TableFormatter struct {
	out io.Writer
	err io.Writer
	in  *bufio.Reader
	tty bool
}

func (f *TableFormatter) Result(r *CommandResult) error {
	var b strings.Builder
	if r.Success {
		b.WriteString(StyleSuccess.Render("✔ " + r.Message))
	} else {
		b.WriteString(StyleError.Render("✗ " + r.Message))
	}
	b.WriteString("\n")

	if r.ErrorDetails != "" {
		b.WriteString("\n" + r.ErrorDetails + "\n")
	}

	if r.Data != nil {
		if s, ok := r.Data.(Sectioner); ok {
			for _, sec := range s.Sections() {
				if len(sec.Rows) == 0 {
					continue
				}
				b.WriteString("\n")
				if sec.Title != "" {
					b.WriteString(StyleTitle.Render(sec.Title) + "\n")
				}
				t := NewTable(sec.Headers...)
				for _, row := range sec.Rows {
					t.Row(row...)
				}
				b.WriteString(t.String() + "\n")
			}
		} else {
			data, err := json.MarshalIndent(r.Data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result data: %w", err)
			}
			b.WriteString("\n" + string(data) + "\n")
		}
	}

	if r.Notes != "" {
		b.WriteString("\n" + StyleDim.Render(r.Notes) + "\n")
	}

	_, err := io.WriteString(f.out, b.String())
	return err
}

// Confirm prompts on the error stream and reads one line of input.
// Only "y" and "yes" confirm.
func (f *TableFormatter) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(f.err, "\n%s [y/N]: ", prompt)
	line, err := f.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (f *TableFormatter) Interactive() bool { return true }

func (f *TableFormatter) Progress(title string) Progress {
	if !f.tty {
		return nopProgress{}
	}
	return newBarProgress(f.err, title)
}

// JSONFormatter writes results as indented JSON.
type JSONFormatter struct {
	out io.Writer
}

func (f *JSONFormatter) Result(r *CommandResult) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func (f *JSONFormatter) Confirm(string) (bool, error) { return true, nil }

func (f *JSONFormatter) Interactive() bool { return false }

func (f *JSONFormatter) Progress(string) Progress { return nopProgress{} }
