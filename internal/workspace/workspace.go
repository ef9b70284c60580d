// Package workspace is the boundary between requests and the filesystem.
//
// Every path that is read from or written to disk is resolved against the
// working-directory root and rejected with a PathSecurityError when it
// escapes it, before any I/O happens.
package workspace

import (
	"os"
	"path/filepath"
	"runtime"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/pkg/pathutil"
)

// Options controls scanning and path policy
type Options struct {
	// Exclude holds doublestar patterns matched against root-relative paths
	Exclude []string
	// MaxWorkers bounds concurrent parsing during scans
	MaxWorkers int
	// MaxFileSize skips larger files during scans and rejects them as edit targets
	MaxFileSize int64
	// ValidateBufferPaths applies the containment check to paths that only
	// name an editor buffer
	ValidateBufferPaths bool
}

// Default limits
const (
	DefaultMaxFileSize = 2 * 1024 * 1024
	// ValidationThreshold is the size above which file headers are checked
	// for Java content before the whole file is read
	ValidationThreshold = 64 * 1024
)

// Workspace is a working-directory root plus its policies
type Workspace struct {
	root      string
	realRoot  string
	opts      Options
	validator *FileValidator
}

// New opens the workspace rooted at root, which must be an existing directory
func New(root string, opts Options) (*Workspace, error) {
	if root == "" {
		return nil, coreerrors.NewValidationError("cwd", root, "must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, coreerrors.NewFileError("resolve", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, coreerrors.NewFileError("stat", abs, err)
	}
	if !info.IsDir() {
		return nil, coreerrors.NewValidationError("cwd", root, "is not a directory")
	}

	realRoot, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, coreerrors.NewFileError("resolve", abs, err)
	}

	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Workspace{
		root:      abs,
		realRoot:  realRoot,
		opts:      opts,
		validator: NewFileValidator(ValidationThreshold, opts.MaxFileSize),
	}, nil
}

// Root returns the absolute working-directory root
func (w *Workspace) Root() string { return w.root }

// Resolve turns path (absolute or root-relative) into an absolute path inside
// the root. Symlinks along the existing part of the path are followed, so a
// link inside the root that points outside it is rejected.
func (w *Workspace) Resolve(path string) (string, error) {
	if path == "" {
		return "", coreerrors.NewValidationError("path", path, "must not be empty")
	}
	abs := pathutil.Resolve(path, w.root)
	physical, err := pathutil.EvalExisting(abs)
	if err != nil {
		return "", coreerrors.NewFileError("resolve", abs, err)
	}
	if !pathutil.Within(physical, w.realRoot) {
		return "", coreerrors.NewPathSecurityError(path, w.root)
	}
	return abs, nil
}

// Relative returns path relative to the root when it lies inside it
func (w *Workspace) Relative(path string) string {
	return pathutil.ToRelative(path, w.root)
}
