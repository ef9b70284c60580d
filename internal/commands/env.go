package commands

import (
	"os"

	"github.com/syntaxpresso/core/internal/config"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/jpa"
	"github.com/syntaxpresso/core/internal/workspace"
)

// Env is a loaded project: its configuration and its workspace
type Env struct {
	Config    *config.Config
	Workspace *workspace.Workspace
}

// Open loads the configuration for cwd and opens its workspace. An empty
// cwd means the process directory.
func Open(cwd string) (*Env, error) {
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, coreerrors.NewFileError("getwd", "", err)
		}
		cwd = wd
	}
	info, err := os.Stat(cwd)
	if err != nil {
		return nil, coreerrors.NewFileError("stat", cwd, err)
	}
	if !info.IsDir() {
		return nil, coreerrors.NewValidationError("cwd", cwd, "is not a directory")
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.New(cfg.Project.Root, workspace.Options{
		Exclude:             cfg.Scan.Exclude,
		MaxWorkers:          cfg.Scan.MaxWorkers,
		MaxFileSize:         cfg.Scan.MaxFileSize,
		ValidateBufferPaths: cfg.Security.ValidateBufferPaths,
	})
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Workspace: ws}, nil
}

// JPAOptions maps project settings onto code generation options
func (e *Env) JPAOptions() jpa.Options {
	return jpa.Options{
		PersistencePackage: e.Config.Persistence.Package,
		IndentUnit:         e.Config.Format.Indent,
	}
}

// SourceDirectory resolves a source set name (main or test) to its
// configured directory
func (e *Env) SourceDirectory(name string) (string, error) {
	switch name {
	case "", "main":
		return e.Config.Source.MainDirectory, nil
	case "test":
		return e.Config.Source.TestDirectory, nil
	default:
		return "", coreerrors.NewValidationError("source_directory", name, "must be main or test")
	}
}
