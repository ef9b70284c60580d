package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/locator"
	"github.com/syntaxpresso/core/internal/parser"
)

// FileInfo is one enumerated file
type FileInfo struct {
	Path         string `json:"file_path"`
	RelativePath string `json:"relative_path"`
}

// Files lists files under the root with the given extension ("java" or
// ".java"), skipping excluded paths. The result is sorted by relative path.
func (w *Workspace) Files(ctx context.Context, extension string) ([]FileInfo, error) {
	ext := strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if ext == "" || strings.ContainsAny(ext, `/\*?[]{}`) {
		return nil, coreerrors.NewValidationError("extension", extension, "must be a plain file extension")
	}

	var files []FileInfo
	err := doublestar.GlobWalk(os.DirFS(w.root), "**/*."+ext, func(rel string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.excluded(rel) {
			return nil
		}
		files = append(files, FileInfo{
			Path:         filepath.Join(w.root, filepath.FromSlash(rel)),
			RelativePath: filepath.FromSlash(rel),
		})
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, coreerrors.NewFileError("scan", w.root, err)
	}

	slices.SortFunc(files, func(a, b FileInfo) int { return strings.Compare(a.RelativePath, b.RelativePath) })
	debug.LogScan("found %d .%s files under %s\n", len(files), ext, w.root)
	return files, nil
}

// excluded checks a slash-separated root-relative path against the exclude
// patterns
func (w *Workspace) excluded(rel string) bool {
	for _, pattern := range w.opts.Exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			// A bad pattern must not break scanning
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ScanJava parses every Java file under the root with at most MaxWorkers
// files in flight and calls visit for each. Files that fail validation or
// parsing are skipped. Results keep file order; visit returning false drops
// the file.
func ScanJava[T any](ctx context.Context, w *Workspace, visit func(FileInfo, *parser.ParsedFile) (T, bool)) ([]T, error) {
	files, err := w.Files(ctx, "java")
	if err != nil {
		return nil, err
	}

	type slot struct {
		value T
		ok    bool
	}
	results := make([]slot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.MaxWorkers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := w.validator.Validate(file.Path); err != nil {
				debug.LogScan("skipping %s: %v\n", file.RelativePath, err)
				return nil
			}
			f, err := parser.ParseFile(file.Path)
			if err != nil {
				debug.LogScan("skipping %s: %v\n", file.RelativePath, err)
				return nil
			}
			defer f.Close()
			value, ok := visit(file, f)
			results[i] = slot{value: value, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.ok {
			out = append(out, r.value)
		}
	}
	return out, nil
}

// Packages lists the distinct packages declared under the root, sorted, and
// the root package: the shortest name, ties broken alphabetically
func (w *Workspace) Packages(ctx context.Context) (packages []string, rootPackage string, err error) {
	names, err := ScanJava(ctx, w, func(_ FileInfo, f *parser.ParsedFile) (string, bool) {
		name := locator.PackageName(f)
		return name, name != ""
	})
	if err != nil {
		return nil, "", err
	}

	slices.Sort(names)
	packages = slices.Compact(names)
	for _, p := range packages {
		if rootPackage == "" || len(p) < len(rootPackage) {
			rootPackage = p
		}
	}
	return packages, rootPackage, nil
}
