package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Everything checked out
	ExitFailure      = 1 // A posture was invalid or two postures differ
	ExitCommandError = 2 // Bad arguments, unreadable files, unreachable server
)

// ExitError carries the exit code a command should end with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// commandError wraps err as a command error.
func commandError(message string, err error) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// ExitCode returns the exit code for err: zero for nil, ExitFailure when err
// does not say otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON envelope of every command's output.
type Response struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// output writes results as text or as a JSON envelope.
type output struct {
	format string
	w      io.Writer
}

// ok writes data. In text mode text is printed instead, or data itself when
// text is nil.
func (o output) ok(data interface{}, text func(w io.Writer)) error {
	if o.format == "json" {
		return json.NewEncoder(o.w).Encode(Response{Status: "ok", Data: data})
	}
	if text != nil {
		text(o.w)
		return nil
	}
	_, err := fmt.Fprintln(o.w, data)
	return err
}

// fail writes a failure and returns err so the command exits non-zero.
func (o output) fail(data interface{}, err *ExitError, text func(w io.Writer)) error {
	if o.format == "json" {
		if encErr := json.NewEncoder(o.w).Encode(Response{Status: "error", Data: data, Error: err.Error()}); encErr != nil {
			return encErr
		}
		return err
	}
	if text != nil {
		text(o.w)
	}
	return err
}
