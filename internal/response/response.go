// Package response defines the JSON envelope every command answers with.
package response

import (
	"encoding/json"
	"io"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// Response is the envelope written for every command, successful or not.
// Data may accompany an error when part of the work was done.
type Response struct {
	Command   string               `json:"command"`
	Cwd       string               `json:"cwd"`
	Success   bool                 `json:"success"`
	Data      any                  `json:"data"`
	Error     *string              `json:"error"`
	ErrorKind coreerrors.ErrorType `json:"error_kind,omitempty"`
}

// New builds the envelope for the outcome of a command
func New(command, cwd string, data any, err error) Response {
	r := Response{Command: command, Cwd: cwd, Success: err == nil, Data: data}
	if err != nil {
		msg := err.Error()
		r.Error = &msg
		r.ErrorKind = coreerrors.KindOf(err)
	}
	return r
}

// Write encodes r as one JSON document followed by a newline
func Write(w io.Writer, r Response) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Marshal returns r as JSON text
func Marshal(r Response) ([]byte, error) {
	return json.Marshal(r)
}
