// Package pathutil provides utilities for converting between absolute and relative paths.
//
// Architecture Pattern:
// syntaxpresso resolves every path against the working-directory root it was started with.
// Edit targets are checked for containment with Within before any file I/O happens,
// and user-facing output converts absolute paths back with ToRelative.
package pathutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/app/src/main/java/Order.java", "/home/user/app") → "src/main/java/Order.java"
//   - ToRelative("/other/location/Order.java", "/home/user/app") → "/other/location/Order.java" (outside root)
//   - ToRelative("src/Order.java", "/home/user/app") → "src/Order.java" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	// Outside the root: the absolute path is clearer
	if escapesRoot(relPath) {
		return absPath
	}

	return relPath
}

// Resolve joins a possibly relative path onto rootDir and cleans it.
// Absolute paths are only cleaned.
func Resolve(path, rootDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(rootDir, path))
}

// Within reports whether path (absolute, or relative to rootDir) lies inside rootDir.
// The check is lexical and performs no file I/O; rootDir itself counts as inside.
//
// Examples:
//   - Within("src/Order.java", "/app") → true
//   - Within("../etc/passwd", "/app") → false
//   - Within("/app-other/Order.java", "/app") → false (prefix is not containment)
func Within(path, rootDir string) bool {
	if path == "" || rootDir == "" {
		return false
	}
	root := filepath.Clean(rootDir)
	target := Resolve(path, root)

	relPath, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return !escapesRoot(relPath)
}

// EvalExisting resolves symlinks in the longest existing prefix of path and
// appends the remaining elements, which do not exist yet, unchanged. It is the
// physical counterpart of Resolve for paths that are about to be created.
func EvalExisting(path string) (string, error) {
	path = filepath.Clean(path)
	var rest []string
	for {
		physical, err := filepath.EvalSymlinks(path)
		if err == nil {
			return filepath.Join(append([]string{physical}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", err
		}
		rest = append([]string{filepath.Base(path)}, rest...)
		path = parent
	}
}

func escapesRoot(relPath string) bool {
	return relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator))
}
