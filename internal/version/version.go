// Package version identifies the running syntaxpresso binary for --version
// and for editor plugins that pin a core build.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Version is the semantic version of the core
const Version = "0.3.0"

// Set with -ldflags "-X github.com/syntaxpresso/core/internal/version.GitCommit=..."
var (
	GitCommit = ""
	BuildDate = ""
)

// grammarModule is the parser dependency whose version changes edit output
const grammarModule = "github.com/tree-sitter/tree-sitter-java"

// FullInfo is the one-line description printed by --version
func FullInfo() string {
	info, _ := debug.ReadBuildInfo()
	commit, date := GitCommit, BuildDate
	if commit == "" {
		commit = setting(info, "vcs.revision", "unknown")
	}
	if date == "" {
		date = setting(info, "vcs.time", "development")
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("syntaxpresso core %s (commit %s, built %s, java grammar %s)",
		Version, commit, date, grammarVersion(info))
}

var (
	buildID     string
	buildIDOnce sync.Once
)

// BuildID fingerprints the binary: core version, VCS state and the Java
// grammar version. Editors compare it to decide whether cached results from
// an older core are still valid.
func BuildID() string {
	buildIDOnce.Do(func() {
		info, _ := debug.ReadBuildInfo()
		buildID = fingerprint(info)
	})
	return buildID
}

func fingerprint(info *debug.BuildInfo) string {
	parts := []string{Version, GitCommit, grammarVersion(info)}
	if info != nil {
		parts = append(parts, info.GoVersion,
			setting(info, "vcs.revision", ""), setting(info, "vcs.modified", ""))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "\x00")))
}

func grammarVersion(info *debug.BuildInfo) string {
	if info != nil {
		for _, dep := range info.Deps {
			if dep.Path == grammarModule {
				return dep.Version
			}
		}
	}
	return "unknown"
}

func setting(info *debug.BuildInfo, key, fallback string) string {
	if info == nil {
		return fallback
	}
	for _, s := range info.Settings {
		if s.Key == key && s.Value != "" {
			return s.Value
		}
	}
	return fallback
}
