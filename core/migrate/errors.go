package migrate

import (
	"fmt"
)

// Halt ends a run before Apply with a prepared outcome.
type Halt struct {
	// Success marks the outcome as a success rather than an error.
	Success bool

	// Message is shown to the user.
	Message string

	// Data is attached to the result, if any.
	Data any
}

func (h *Halt) Error() string { return h.Message }

// Done halts a run successfully, e.g. when everything is already migrated.
func Done(message string, data any) error {
	return &Halt{Success: true, Message: message, Data: data}
}

// Abort halts a run with an error outcome.
func Abort(message string, data any) error {
	return &Halt{Message: message, Data: data}
}

// NothingToMigrate aborts a run whose filters left no source records.
func NothingToMigrate(resource string) error {
	return Abort(fmt.Sprintf("No %s to migrate after applying filters.", resource), nil)
}

// ValidationError reports invalid command input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Stages of a migration.
const (
	StageFetch = "fetch"
	StageMatch = "match"
	StageApply = "apply"
)

// MigrationError wraps a failure with the stage and resource it happened in.
type MigrationError struct {
	Stage    string
	Resource string
	// Name identifies the record, when the failure concerns one.
	Name string
	Err  error
}

func (e *MigrationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Stage, e.Resource, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Resource, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// FetchError wraps a failure to read resource from an instance.
func FetchError(resource string, err error) error {
	return &MigrationError{Stage: StageFetch, Resource: resource, Err: err}
}
