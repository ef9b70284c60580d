package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// LoadKDL applies dir/.syntaxpresso.kdl on top of cfg. It reports whether
// the file existed; a missing file leaves cfg untouched.
func LoadKDL(cfg *Config, dir string) (bool, error) {
	kdlPath := filepath.Join(dir, FileName)

	content, err := os.ReadFile(kdlPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, coreerrors.NewConfigError(FileName, kdlPath, err)
	}

	if err := applyKDL(cfg, string(content)); err != nil {
		return false, coreerrors.NewConfigError(FileName, kdlPath, err)
	}
	cfg.Files = append(cfg.Files, kdlPath)
	return true, nil
}

// parseKDL returns the defaults with content applied
func parseKDL(content string) (*Config, error) {
	cfg := Defaults("")
	if err := applyKDL(cfg, content); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyKDL walks the document and overwrites every value it names. Exclude
// patterns accumulate so a project keeps the base exclusions.
func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "persistence":
			for _, cn := range n.Children { // persistence { package "javax.persistence" }
				assignSimpleString(cn, "package", func(v string) {
					cfg.Persistence = Persistence{Package: v, Origin: SourceConfig}
				})
			}
		case "format":
			for _, cn := range n.Children {
				assignSimpleString(cn, "indent", func(v string) { cfg.Format.Indent = v })
				if nodeName(cn) == "indent_width" {
					if v, ok := firstIntArg(cn); ok && v > 0 {
						cfg.Format.Indent = strings.Repeat(" ", v)
					}
				}
			}
		case "relationships":
			for _, cn := range n.Children {
				assignSimpleString(cn, "collection_type", func(v string) { cfg.Relationships.CollectionType = v })
			}
		case "scan":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "exclude":
					cfg.Scan.Exclude = DeduplicatePatterns(append(cfg.Scan.Exclude, collectStringArgs(cn)...))
				case "max_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxWorkers = v
					}
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						sz, err := parseSize(s)
						if err != nil {
							return fmt.Errorf("scan.max_file_size %q: %w", s, err)
						}
						cfg.Scan.MaxFileSize = sz
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Scan.RespectGitignore = b
					}
				default:
					debug.Log("CONFIG", "unknown scan setting %q\n", nodeName(cn))
				}
			}
		case "source":
			for _, cn := range n.Children {
				assignSimpleString(cn, "main_directory", func(v string) { cfg.Source.MainDirectory = v })
				assignSimpleString(cn, "test_directory", func(v string) { cfg.Source.TestDirectory = v })
			}
		case "security":
			for _, cn := range n.Children {
				if nodeName(cn) == "validate_buffer_paths" {
					if b, ok := firstBoolArg(cn); ok {
						cfg.Security.ValidateBufferPaths = b
					}
				}
			}
		default:
			debug.Log("CONFIG", "unknown section %q\n", nodeName(n))
		}
	}

	return nil
}

// Helper functions over the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads `exclude "a" "b"` as well as the block form
// `exclude { "a"; "b" }` where every child node name is a value
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "2MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
