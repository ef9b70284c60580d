package commands

import (
	"context"

	"github.com/syntaxpresso/core/internal/catalog"
	"github.com/syntaxpresso/core/internal/jpa"
	"github.com/syntaxpresso/core/internal/parser"
	"github.com/syntaxpresso/core/internal/workspace"
)

// GetFilesRequest lists files by extension
type GetFilesRequest struct {
	Cwd           string `json:"cwd,omitempty"`
	FileExtension string `json:"file_extension"`
}

// FilesData is the answer to get-files
type FilesData struct {
	Files []workspace.FileInfo `json:"files"`
}

func getFilesCommand() Command {
	return Command{
		Name:  "get-files",
		Usage: "List files with an extension under the working directory",
		Params: []Param{
			cwdParam,
			{Name: "file_extension", Type: ParamString, Usage: "extension to match, e.g. java", Required: true},
		},
		Run: handler(GetFiles),
	}
}

// GetFiles enumerates files honoring the scan excludes
func GetFiles(ctx context.Context, req GetFilesRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	files, err := env.Workspace.Files(ctx, req.FileExtension)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []workspace.FileInfo{}
	}
	return FilesData{Files: files}, nil
}

// GetJPAEntitiesRequest scans for entities
type GetJPAEntitiesRequest struct {
	Cwd string `json:"cwd,omitempty"`
}

// EntitySummary is one entity found by a scan
type EntitySummary struct {
	FileType        string `json:"file_type"`
	FilePackageName string `json:"file_package_name"`
	FilePath        string `json:"file_path"`
}

// EntitiesData is the answer to get-jpa-entities
type EntitiesData struct {
	Entities []EntitySummary `json:"entities"`
}

func getJPAEntitiesCommand() Command {
	return Command{
		Name:   "get-jpa-entities",
		Usage:  "List the @Entity classes of the project",
		Params: []Param{cwdParam},
		Run:    handler(GetJPAEntities),
	}
}

// GetJPAEntities parses every Java file and keeps the ones declaring @Entity
func GetJPAEntities(ctx context.Context, req GetJPAEntitiesRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	entities, err := workspace.ScanJava(ctx, env.Workspace, func(file workspace.FileInfo, f *parser.ParsedFile) (EntitySummary, bool) {
		info := jpa.Inspect(f)
		return EntitySummary{
			FileType:        info.EntityType,
			FilePackageName: info.EntityPackageName,
			FilePath:        file.Path,
		}, info.IsJPAEntity
	})
	if err != nil {
		return nil, err
	}
	return EntitiesData{Entities: entities}, nil
}

// GetPackagesRequest lists declared packages
type GetPackagesRequest struct {
	Cwd string `json:"cwd,omitempty"`
}

// PackagesData is the answer to get-packages
type PackagesData struct {
	Packages        []string `json:"packages"`
	RootPackageName string   `json:"root_package_name"`
}

func getPackagesCommand() Command {
	return Command{
		Name:   "get-packages",
		Usage:  "List the packages declared in the project and its root package",
		Params: []Param{cwdParam},
		Run:    handler(GetPackages),
	}
}

// GetPackages collects package declarations across the project
func GetPackages(ctx context.Context, req GetPackagesRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	packages, root, err := env.Workspace.Packages(ctx)
	if err != nil {
		return nil, err
	}
	if packages == nil {
		packages = []string{}
	}
	return PackagesData{Packages: packages, RootPackageName: root}, nil
}

// GetBasicTypesRequest filters the basic type catalog
type GetBasicTypesRequest struct {
	Cwd  string `json:"cwd,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// TypesData is the answer to get-basic-types
type TypesData struct {
	Types []catalog.JavaType `json:"types"`
}

func getBasicTypesCommand() Command {
	kinds := make([]string, len(catalog.Kinds))
	for i, k := range catalog.Kinds {
		kinds[i] = string(k)
	}
	return Command{
		Name:  "get-basic-types",
		Usage: "List the Java types a basic or id field may use",
		Params: []Param{
			cwdParam,
			{Name: "kind", Type: ParamString, Usage: "subset of the catalog; defaults to all", Enum: kinds},
		},
		Run: handler(GetBasicTypes),
	}
}

// GetBasicTypes reads the static catalog; it does not touch the project
func GetBasicTypes(_ context.Context, req GetBasicTypesRequest) (any, error) {
	kind := catalog.KindAll
	if req.Kind != "" {
		kind = catalog.Kind(req.Kind)
	}
	types, err := catalog.Types(kind)
	if err != nil {
		return nil, err
	}
	return TypesData{Types: types}, nil
}

// EntityRef names an entity file on disk, as an editor buffer, or both
type EntityRef struct {
	EntityFilePath string `json:"entity_file_path,omitempty"`
	EntityFileB64  string `json:"entity_file_b64,omitempty"`
}

func (r EntityRef) source() workspace.SourceRef {
	return workspace.SourceRef{Path: r.EntityFilePath, Buffer: r.EntityFileB64}
}

var entityRefParams = []Param{
	{Name: "entity_file_path", Type: ParamString, Usage: "path of the entity file; with a buffer it only names it"},
	{Name: "entity_file_b64", Type: ParamString, Usage: "base64 source of an unsaved editor buffer"},
}

// GetJPAEntityInfoRequest inspects one file
type GetJPAEntityInfoRequest struct {
	Cwd string `json:"cwd,omitempty"`
	EntityRef
}

func getJPAEntityInfoCommand() Command {
	return Command{
		Name:   "get-jpa-entity-info",
		Usage:  "Describe the entity declared in a file",
		Params: append([]Param{cwdParam}, entityRefParams...),
		Run:    handler(GetJPAEntityInfo),
	}
}

// GetJPAEntityInfo reports entity metadata. A file without @Entity is a
// negative answer, not an error.
func GetJPAEntityInfo(_ context.Context, req GetJPAEntityInfoRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	src, err := env.Workspace.Load(req.source())
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return jpa.Inspect(src.File), nil
}
