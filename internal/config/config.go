package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/syntaxpresso/core/internal/debug"
)

// FileName is the configuration file looked up in the home directory and in
// the working directory
const FileName = ".syntaxpresso.kdl"

const (
	JakartaPersistence = "jakarta.persistence"
	JavaxPersistence   = "javax.persistence"

	DefaultIndent         = "    "
	DefaultCollectionType = "List"
	DefaultMaxFileSize    = 2 * 1024 * 1024
	DefaultMainDirectory  = "src/main/java"
	DefaultTestDirectory  = "src/test/java"
)

// Where a persistence package came from
const (
	SourceDefault = "default"
	SourceConfig  = "config"
	SourceBuild   = "build"
)

type Config struct {
	Project       Project
	Persistence   Persistence
	Format        Format
	Relationships Relationships
	Scan          Scan
	Source        Source
	Security      Security
	// Files lists the configuration files applied, base first
	Files []string
}

type Project struct {
	Root string
	// BuildTool is maven, gradle or empty when no build file was found
	BuildTool string
}

type Persistence struct {
	Package string
	// Origin is SourceDefault, SourceConfig or SourceBuild
	Origin string
}

type Format struct {
	Indent string // indent unit for members of an empty body
}

type Relationships struct {
	CollectionType string // to-many collection interface when a request names none
}

type Scan struct {
	Exclude          []string
	MaxWorkers       int   // 0 = auto-detect
	MaxFileSize      int64 // bytes
	RespectGitignore bool
}

type Source struct {
	MainDirectory string
	TestDirectory string
}

type Security struct {
	// ValidateBufferPaths applies the root containment check to paths that
	// only name an editor buffer
	ValidateBufferPaths bool
}

// Defaults returns the configuration used when no file sets a value
func Defaults(root string) *Config {
	return &Config{
		Project:       Project{Root: root},
		Persistence:   Persistence{Package: JakartaPersistence, Origin: SourceDefault},
		Format:        Format{Indent: DefaultIndent},
		Relationships: Relationships{CollectionType: DefaultCollectionType},
		Scan: Scan{
			Exclude: []string{
				"**/.git/**",
				"**/.*/**",
				"**/node_modules/**",
			},
			MaxWorkers:       0,
			MaxFileSize:      DefaultMaxFileSize,
			RespectGitignore: true,
		},
		Source: Source{
			MainDirectory: DefaultMainDirectory,
			TestDirectory: DefaultTestDirectory,
		},
	}
}

// Load builds the configuration for root: defaults, then ~/.syntaxpresso.kdl,
// then root/.syntaxpresso.kdl. Build files fill in what neither file sets and
// the result is validated.
func Load(root string) (*Config, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	cfg := Defaults(absRoot)

	// Step 1: global base config
	if homeDir, err := os.UserHomeDir(); err == nil && filepath.Clean(homeDir) != absRoot {
		if _, err := LoadKDL(cfg, homeDir); err != nil {
			// A broken global file must not block every project
			debug.Log("CONFIG", "ignoring global config: %v\n", err)
		}
	}

	// Step 2: project config overrides the base
	if _, err := LoadKDL(cfg, absRoot); err != nil {
		return nil, err
	}

	// Step 3: build files and .gitignore
	cfg.EnrichFromBuild()
	if cfg.Scan.RespectGitignore {
		patterns, err := GitignorePatterns(absRoot)
		if err != nil {
			debug.Log("CONFIG", "ignoring .gitignore: %v\n", err)
		}
		cfg.Scan.Exclude = DeduplicatePatterns(append(cfg.Scan.Exclude, patterns...))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	debug.Log("CONFIG", "root=%s persistence=%s (%s) build=%s files=%v\n",
		cfg.Project.Root, cfg.Persistence.Package, cfg.Persistence.Origin, cfg.Project.BuildTool, cfg.Files)
	return cfg, nil
}

// EnrichFromBuild inspects the build files under the project root. Output
// directories join the scan excludes and the persistence package is taken
// from the dependencies unless a config file set it.
func (c *Config) EnrichFromBuild() {
	if c.Project.Root == "" {
		return
	}

	info := NewBuildDetector(c.Project.Root).Detect()
	debug.Log("CONFIG", "build files: %s\n", info)
	c.Project.BuildTool = info.Tool
	if len(info.OutputDirs) > 0 {
		for _, dir := range info.OutputDirs {
			c.Scan.Exclude = append(c.Scan.Exclude, "**/"+dir+"/**")
		}
		c.Scan.Exclude = DeduplicatePatterns(c.Scan.Exclude)
	}
	if c.Persistence.Origin != SourceConfig && info.PersistencePackage != "" {
		c.Persistence = Persistence{Package: info.PersistencePackage, Origin: SourceBuild}
	}
}

// Workers resolves MaxWorkers, leaving one core for the editor
func (s Scan) Workers() int {
	if s.MaxWorkers > 0 {
		return s.MaxWorkers
	}
	return max(1, runtime.NumCPU()-1)
}

// DeduplicatePatterns removes duplicate exclusion patterns, keeping the first
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
