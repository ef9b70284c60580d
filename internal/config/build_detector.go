// Build file inspection for Maven and Gradle projects
// Reads pom.xml, build.gradle(.kts) and gradle/libs.versions.toml to find
// output directories and the persistence API generation
package config

import (
	"encoding/xml"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/syntaxpresso/core/internal/debug"
)

// BuildInfo is what the build files reveal
type BuildInfo struct {
	Tool               string   // maven, gradle or empty
	OutputDirs         []string // relative to the project root
	PersistencePackage string   // empty when the dependencies do not tell
}

// BuildDetector reads build files under a project root
type BuildDetector struct {
	projectRoot string
}

// NewBuildDetector creates a new build detector
func NewBuildDetector(projectRoot string) *BuildDetector {
	return &BuildDetector{projectRoot: projectRoot}
}

// dependency is one coordinate found in a build file
type dependency struct {
	group, artifact, version string
}

// Detect inspects Maven first, then Gradle
func (d *BuildDetector) Detect() BuildInfo {
	if info, ok := d.detectMaven(); ok {
		return info
	}
	if info, ok := d.detectGradle(); ok {
		return info
	}
	return BuildInfo{}
}

type pomProject struct {
	Parent struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
	} `xml:"parent"`
	Properties struct {
		Entries []struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		} `xml:",any"`
	} `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Managed      []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Build        struct {
		Directory string `xml:"directory"`
	} `xml:"build"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// detectMaven reads pom.xml
func (d *BuildDetector) detectMaven() (BuildInfo, bool) {
	data, err := os.ReadFile(filepath.Join(d.projectRoot, "pom.xml"))
	if err != nil {
		return BuildInfo{}, false
	}
	info := BuildInfo{Tool: "maven", OutputDirs: []string{"target"}}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		debug.Log("CONFIG", "unreadable pom.xml: %v\n", err)
		return info, true
	}

	properties := make(map[string]string, len(pom.Properties.Entries))
	for _, e := range pom.Properties.Entries {
		properties[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}
	expand := func(v string) string {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") {
			return properties[v[2:len(v)-1]]
		}
		return v
	}

	if rel, ok := projectRelative(pom.Build.Directory); ok && rel != "target" {
		info.OutputDirs = append(info.OutputDirs, rel)
	}

	deps := []dependency{{group: pom.Parent.GroupID, artifact: pom.Parent.ArtifactID, version: expand(pom.Parent.Version)}}
	for _, dep := range append(pom.Dependencies, pom.Managed...) {
		deps = append(deps, dependency{group: dep.GroupID, artifact: dep.ArtifactID, version: expand(dep.Version)})
	}
	info.PersistencePackage = persistenceFromDependencies(deps)
	return info, true
}

// projectRelative strips ${project.basedir}/ and rejects anything that is
// still templated or leaves the project
func projectRelative(dir string) (string, bool) {
	dir = strings.TrimSpace(dir)
	for _, prefix := range []string{"${project.basedir}/", "${basedir}/"} {
		dir = strings.TrimPrefix(dir, prefix)
	}
	if dir == "" || strings.Contains(dir, "${") {
		return "", false
	}
	dir = filepath.ToSlash(filepath.Clean(dir))
	if !filepath.IsLocal(dir) {
		return "", false
	}
	return dir, true
}

var (
	// 'group:artifact:version' or "group:artifact" string notation
	gradleCoordinate = regexp.MustCompile(`["']([\w.\-]+):([\w.\-]+)(?::([\w.\-]+))?["']`)
	// id 'org.springframework.boot' version '3.2.0' and the Kotlin form
	gradleBootPlugin = regexp.MustCompile(`id\s*\(?\s*["']org\.springframework\.boot["']\s*\)?\s*version\s*\(?\s*["']([\w.\-]+)["']`)
)

// detectGradle reads build.gradle or build.gradle.kts plus the version
// catalog
func (d *BuildDetector) detectGradle() (BuildInfo, bool) {
	var script []byte
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		if data, err := os.ReadFile(filepath.Join(d.projectRoot, name)); err == nil {
			script = data
			break
		}
	}
	catalog, hasCatalog := d.readVersionCatalog()
	if script == nil && !hasCatalog {
		return BuildInfo{}, false
	}
	info := BuildInfo{Tool: "gradle", OutputDirs: []string{"build"}}

	var deps []dependency
	for _, m := range gradleCoordinate.FindAllStringSubmatch(string(script), -1) {
		deps = append(deps, dependency{group: m[1], artifact: m[2], version: m[3]})
	}
	if m := gradleBootPlugin.FindStringSubmatch(string(script)); m != nil {
		deps = append(deps, dependency{group: "org.springframework.boot", artifact: "spring-boot", version: m[1]})
	}
	deps = append(deps, catalog...)

	info.PersistencePackage = persistenceFromDependencies(deps)
	return info, true
}

// readVersionCatalog reads gradle/libs.versions.toml. Libraries are either
// "group:name:version" strings or tables with module or group/name and a
// version or version.ref.
func (d *BuildDetector) readVersionCatalog() ([]dependency, bool) {
	data, err := os.ReadFile(filepath.Join(d.projectRoot, "gradle", "libs.versions.toml"))
	if err != nil {
		return nil, false
	}
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		debug.Log("CONFIG", "unreadable version catalog: %v\n", err)
		return nil, true
	}

	versions, _ := doc["versions"].(map[string]interface{})
	version := func(entry map[string]interface{}) string {
		switch v := entry["version"].(type) {
		case string:
			return v
		case map[string]interface{}:
			if ref, ok := v["ref"].(string); ok {
				s, _ := versions[ref].(string)
				return s
			}
			if s, ok := v["strictly"].(string); ok {
				return s
			}
			if s, ok := v["require"].(string); ok {
				return s
			}
		}
		return ""
	}

	var deps []dependency
	if libraries, ok := doc["libraries"].(map[string]interface{}); ok {
		for _, key := range slices.Sorted(maps.Keys(libraries)) {
			switch v := libraries[key].(type) {
			case string:
				parts := strings.Split(v, ":")
				if len(parts) >= 2 {
					dep := dependency{group: parts[0], artifact: parts[1]}
					if len(parts) > 2 {
						dep.version = parts[2]
					}
					deps = append(deps, dep)
				}
			case map[string]interface{}:
				dep := dependency{version: version(v)}
				if module, ok := v["module"].(string); ok {
					dep.group, dep.artifact, _ = strings.Cut(module, ":")
				} else {
					dep.group, _ = v["group"].(string)
					dep.artifact, _ = v["name"].(string)
				}
				deps = append(deps, dep)
			}
		}
	}
	if plugins, ok := doc["plugins"].(map[string]interface{}); ok {
		for _, key := range slices.Sorted(maps.Keys(plugins)) {
			if v, ok := plugins[key].(map[string]interface{}); ok {
				if id, _ := v["id"].(string); id == "org.springframework.boot" {
					deps = append(deps, dependency{group: id, artifact: "spring-boot", version: version(v)})
				}
			}
		}
	}
	return deps, true
}

// persistenceFromDependencies decides between jakarta.persistence and
// javax.persistence. An explicit persistence API wins over Hibernate, which
// wins over the Spring Boot generation.
func persistenceFromDependencies(deps []dependency) string {
	var hibernate, boot string
	for _, dep := range deps {
		switch {
		case dep.group == "jakarta.persistence" || dep.artifact == "jakarta.persistence-api":
			return JakartaPersistence
		case dep.group == "javax.persistence" || dep.artifact == "javax.persistence-api" ||
			strings.HasPrefix(dep.artifact, "hibernate-jpa-2"):
			return JavaxPersistence
		case dep.group == "org.hibernate.orm":
			hibernate = JakartaPersistence
		case dep.group == "org.hibernate" && dep.artifact == "hibernate-core" && hibernate == "":
			hibernate = generation(dep.version, 6)
		case strings.HasPrefix(dep.group, "org.springframework.boot") && boot == "":
			boot = generation(dep.version, 3)
		}
	}
	if hibernate != "" {
		return hibernate
	}
	return boot
}

// generation maps a version to jakarta when its major is at least
// jakartaMajor. Unknown versions decide nothing.
func generation(version string, jakartaMajor int) string {
	major, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return ""
	}
	if n >= jakartaMajor {
		return JakartaPersistence
	}
	return JavaxPersistence
}

func (i BuildInfo) String() string {
	return fmt.Sprintf("%s outputs=%v persistence=%s", i.Tool, i.OutputDirs, i.PersistencePackage)
}
