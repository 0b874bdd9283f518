package output

// CommandResult is the outcome of one command.
type CommandResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Data         any    `json:"data,omitempty"`
	Notes        string `json:"notes,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`

	// Halted marks a run that stopped before writing because there was
	// nothing to do.
	Halted bool `json:"-"`
}

// Succeeded builds a successful result.
func Succeeded(message string, data any, notes string) *CommandResult {
	return &CommandResult{Success: true, Message: message, Data: data, Notes: notes}
}

// Failed builds an error result.
func Failed(message, details string, data any) *CommandResult {
	return &CommandResult{Message: message, ErrorDetails: details, Data: data}
}

// Section is one titled table of a report.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Sectioner is implemented by result data that knows how to lay itself out
// as tables. Data without it is rendered as JSON by the table and Markdown
// formatters.
type Sectioner interface {
	Sections() []Section
}
