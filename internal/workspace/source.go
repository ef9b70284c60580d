package workspace

import (
	"path/filepath"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/parser"
)

// SourceRef names a file to edit: a path on disk, a base64 editor buffer,
// or both. With a buffer the path only identifies it.
type SourceRef struct {
	Path   string
	Buffer string
}

// Source is a resolved and parsed SourceRef. The caller owns File.
type Source struct {
	Path   string
	File   *parser.ParsedFile
	Buffer bool
}

// Close releases the parsed file
func (s Source) Close() {
	s.File.Close()
}

// Load resolves ref and parses it. Disk paths are checked for containment
// and validated before they are read. A buffer path is only checked when
// ValidateBufferPaths is set.
func (w *Workspace) Load(ref SourceRef) (Source, error) {
	if ref.Buffer != "" {
		path := ref.Path
		if path != "" {
			if w.opts.ValidateBufferPaths {
				abs, err := w.Resolve(path)
				if err != nil {
					return Source{}, err
				}
				path = abs
			} else if !filepath.IsAbs(path) {
				path = filepath.Join(w.root, path)
			}
		}
		f, err := parser.ParseEncoded(path, ref.Buffer)
		if err != nil {
			return Source{}, err
		}
		return Source{Path: path, File: f, Buffer: true}, nil
	}

	if ref.Path == "" {
		return Source{}, coreerrors.NewValidationError("path", "", "a file path or a source buffer is required")
	}
	abs, err := w.Resolve(ref.Path)
	if err != nil {
		return Source{}, err
	}
	if err := w.validator.Validate(abs); err != nil {
		return Source{}, err
	}
	f, err := parser.ParseFile(abs)
	if err != nil {
		return Source{}, err
	}
	return Source{Path: abs, File: f}, nil
}
