package config

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// GitignorePattern is one parsed .gitignore line
type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// GitignorePatterns reads root/.gitignore and returns its rules as scan
// exclude globs. A missing file yields no patterns.
func GitignorePatterns(root string) ([]string, error) {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	patterns, err := parseGitignore(file)
	if err != nil {
		return nil, err
	}
	return ExclusionPatterns(patterns), nil
}

func parseGitignore(r io.Reader) ([]GitignorePattern, error) {
	var patterns []GitignorePattern
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, parsePattern(line))
	}
	return patterns, scanner.Err()
}

// parsePattern extracts the modifiers (!, trailing /, leading /)
func parsePattern(line string) GitignorePattern {
	var pattern GitignorePattern

	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	}

	pattern.Pattern = line
	return pattern
}

// ExclusionPatterns converts gitignore rules to doublestar globs. Negations
// cannot be expressed as excludes and are skipped.
func ExclusionPatterns(patterns []GitignorePattern) []string {
	var exclusions []string

	for _, pattern := range patterns {
		if pattern.Negate || pattern.Pattern == "" {
			continue
		}
		exclusions = append(exclusions, toExclusions(pattern)...)
	}

	return exclusions
}

// toExclusions matches the path itself and, unless the rule names only
// directories, everything below a directory of that name
func toExclusions(pattern GitignorePattern) []string {
	p := pattern.Pattern
	// A slash in the middle anchors the pattern like a leading one
	anchored := pattern.Absolute || strings.Contains(p, "/")
	if !anchored && !strings.HasPrefix(p, "**/") {
		p = "**/" + p
	}

	if pattern.Directory {
		return []string{p + "/**"}
	}
	return []string{p, p + "/**"}
}
