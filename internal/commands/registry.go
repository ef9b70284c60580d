// Package commands is the operation catalog shared by the CLI and the MCP
// server. Each command declares its parameters once; both front ends build
// their flags or input schemas from that declaration and decode the same
// JSON arguments.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/response"
)

// ParamType is the JSON type of a parameter
type ParamType string

const (
	ParamString ParamType = "string"
	// ParamObject is a JSON object. The CLI takes it as JSON text.
	ParamObject ParamType = "object"
)

// Param describes one argument of a command
type Param struct {
	Name     string
	Type     ParamType
	Usage    string
	Required bool
	Enum     []string
}

// Command is one operation of the catalog
type Command struct {
	Name   string
	Usage  string
	Params []Param
	Run    func(ctx context.Context, args json.RawMessage) (any, error)
}

// cwdParam is shared by every command that touches the project
var cwdParam = Param{
	Name:  "cwd",
	Type:  ParamString,
	Usage: "working-directory root; defaults to the current directory",
}

// All returns the catalog in a stable order
func All() []Command {
	return []Command{
		getFilesCommand(),
		getJPAEntitiesCommand(),
		getPackagesCommand(),
		getBasicTypesCommand(),
		createJavaFileCommand(),
		createJPAEntityCommand(),
		createEntityFieldCommand(),
		createRelationshipCommand(),
		getJPAEntityInfoCommand(),
		annotateEntityCommand(),
	}
}

// Lookup finds a command by name
func Lookup(name string) (Command, bool) {
	for _, c := range All() {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Execute runs cmd with args and wraps the outcome in the response envelope
func Execute(ctx context.Context, cmd Command, args json.RawMessage) response.Response {
	cwd := envelopeCwd(args)
	debug.Log("COMMANDS", "running %s in %s\n", cmd.Name, cwd)
	data, err := cmd.Run(ctx, args)
	if err != nil {
		debug.Log("COMMANDS", "%s failed: %v\n", cmd.Name, err)
	}
	return response.New(cmd.Name, cwd, data, err)
}

// envelopeCwd is the cwd echoed in the envelope: the requested one, or the
// process directory when none was given
func envelopeCwd(args json.RawMessage) string {
	var probe struct {
		Cwd string `json:"cwd"`
	}
	if len(args) > 0 {
		_ = json.Unmarshal(args, &probe)
	}
	if probe.Cwd != "" {
		return probe.Cwd
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// handler adapts a typed command body to the raw-argument signature
func handler[T any](run func(ctx context.Context, req T) (any, error)) func(context.Context, json.RawMessage) (any, error) {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var req T
		if err := decodeStrict("arguments", args, &req); err != nil {
			return nil, err
		}
		return run(ctx, req)
	}
}

// decodeStrict decodes a JSON object into v, rejecting unknown keys. A JSON
// string holding an object is unwrapped first, since clients often send
// nested configs that way.
func decodeStrict(field string, raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return coreerrors.NewValidationError(field, string(raw), err.Error())
		}
		raw = json.RawMessage(strings.TrimSpace(inner))
		if len(raw) == 0 {
			return nil
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return coreerrors.NewValidationError(field, "", "is not valid: "+err.Error())
	}
	return nil
}
