package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

const defaultFileMode fs.FileMode = 0o644

// WriteFile replaces path with content atomically: the bytes go to a
// temporary file in the same directory which is then renamed over the
// target. The original permissions are kept and a read-only target is
// refused.
func (w *Workspace) WriteFile(ctx context.Context, path string, content []byte) error {
	abs, err := w.Resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := defaultFileMode
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
		// A read-only target stays untouched
		if mode&0o200 == 0 {
			return coreerrors.NewFileError("write", abs, fs.ErrPermission)
		}
	}
	if err := writeAtomic(abs, content, mode); err != nil {
		return err
	}
	debug.LogEdit("wrote %s (%d bytes)\n", w.Relative(abs), len(content))
	return nil
}

// CreateFile writes a new file, creating parent directories. An existing
// file is never overwritten.
func (w *Workspace) CreateFile(ctx context.Context, path string, content []byte) error {
	abs, err := w.Resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err == nil {
		return coreerrors.NewFileError("create", abs, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return coreerrors.NewFileError("stat", abs, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return coreerrors.NewFileError("mkdir", filepath.Dir(abs), err)
	}
	if err := writeAtomic(abs, content, defaultFileMode); err != nil {
		return err
	}
	debug.LogEdit("created %s (%d bytes)\n", w.Relative(abs), len(content))
	return nil
}

func writeAtomic(path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return coreerrors.NewFileError("write", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return coreerrors.NewFileError("write", path, err)
	}

	if _, err := tmp.Write(content); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return coreerrors.NewFileError("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return coreerrors.NewFileError("rename", path, err)
	}
	return nil
}
