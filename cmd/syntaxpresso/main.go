package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/syntaxpresso/core/internal/commands"
	"github.com/syntaxpresso/core/internal/debug"
	"github.com/syntaxpresso/core/internal/mcp"
	"github.com/syntaxpresso/core/internal/response"
	"github.com/syntaxpresso/core/internal/version"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "%s\nbuild: %s\n", version.FullInfo(), version.BuildID())
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the CLI. Catalog commands always print one JSON envelope
// to out and exit 0; failures are reported inside the envelope.
func newApp(out io.Writer) *cli.App {
	cmds := make([]*cli.Command, 0, len(commands.All())+1)
	for _, cmd := range commands.All() {
		cmds = append(cmds, catalogCommand(cmd))
	}
	cmds = append(cmds, mcpCommand())

	return &cli.App{
		Name:    "syntaxpresso",
		Usage:   "Structural edits for Java and JPA sources, for editors and AI assistants",
		Version: version.Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug logs to a file in the temp directory",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool("debug") {
				return nil
			}
			debug.EnableDebug = "true"
			path, err := debug.InitDebugLogFile()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", path)
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: cmds,
	}
}

// flagName is the CLI spelling of a parameter: file_extension -> file-extension
func flagName(p commands.Param) string {
	return strings.ReplaceAll(p.Name, "_", "-")
}

func catalogCommand(cmd commands.Command) *cli.Command {
	flags := make([]cli.Flag, 0, len(cmd.Params))
	for _, p := range cmd.Params {
		usage := p.Usage
		if len(p.Enum) > 0 {
			usage += " (" + strings.Join(p.Enum, "|") + ")"
		}
		if p.Required {
			usage += " [required]"
		}
		// Required flags are not enforced here so that a missing one is
		// still answered with an envelope
		flags = append(flags, &cli.StringFlag{Name: flagName(p), Usage: usage})
	}
	return &cli.Command{
		Name:   cmd.Name,
		Usage:  cmd.Usage,
		Flags:  flags,
		Action: runCommand(cmd),
	}
}

// runCommand turns the set flags into the JSON arguments the command takes
func runCommand(cmd commands.Command) cli.ActionFunc {
	return func(c *cli.Context) error {
		args := make(map[string]json.RawMessage, len(cmd.Params))
		for _, p := range cmd.Params {
			if !c.IsSet(flagName(p)) {
				continue
			}
			value := c.String(flagName(p))
			if p.Type == commands.ParamObject && json.Valid([]byte(value)) {
				args[p.Name] = json.RawMessage(value)
				continue
			}
			// Anything else travels as a JSON string; a malformed object
			// is rejected by the command with a validation error
			encoded, err := json.Marshal(value)
			if err != nil {
				return err
			}
			args[p.Name] = encoded
		}

		raw, err := json.Marshal(args)
		if err != nil {
			return err
		}
		return response.Write(c.App.Writer, commands.Execute(c.Context, cmd, raw))
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve every command as an MCP tool over stdio",
		Action: func(c *cli.Context) error {
			// stdout carries the protocol; debug output must stay off it
			debug.SetMCPMode(true)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := mcp.NewServer().Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
