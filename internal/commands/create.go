package commands

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/syntaxpresso/core/internal/scaffold"
)

// CreatedFile is the answer to the create commands
type CreatedFile struct {
	FileType        string `json:"file_type"`
	FilePackageName string `json:"file_package_name"`
	FilePath        string `json:"file_path"`
}

// CreateJavaFileRequest creates a plain type declaration
type CreateJavaFileRequest struct {
	Cwd             string `json:"cwd,omitempty"`
	PackageName     string `json:"package_name,omitempty"`
	FileName        string `json:"file_name"`
	FileType        string `json:"file_type,omitempty"`
	SourceDirectory string `json:"source_directory,omitempty"`
}

var sourceDirectoryParam = Param{
	Name:  "source_directory",
	Type:  ParamString,
	Usage: "source set to create the file in; defaults to main",
	Enum:  []string{"main", "test"},
}

func createJavaFileCommand() Command {
	kinds := make([]string, len(scaffold.Kinds))
	for i, k := range scaffold.Kinds {
		kinds[i] = string(k)
	}
	return Command{
		Name:  "create-java-file",
		Usage: "Create a class, interface, enum, record or annotation file",
		Params: []Param{
			cwdParam,
			{Name: "package_name", Type: ParamString, Usage: "package of the new type; empty for the default package"},
			{Name: "file_name", Type: ParamString, Usage: "simple name of the new type", Required: true},
			{Name: "file_type", Type: ParamString, Usage: "declaration kind; defaults to class", Enum: kinds},
			sourceDirectoryParam,
		},
		Run: handler(CreateJavaFile),
	}
}

// CreateJavaFile renders and creates a new type file. An existing file is
// never overwritten.
func CreateJavaFile(ctx context.Context, req CreateJavaFileRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	dir, err := env.SourceDirectory(req.SourceDirectory)
	if err != nil {
		return nil, err
	}
	g, err := scaffold.NewGenerator()
	if err != nil {
		return nil, err
	}

	kind := scaffold.KindClass
	if req.FileType != "" {
		kind = scaffold.Kind(req.FileType)
	}
	file, err := g.GenerateFile(dir, scaffold.FileSpec{
		Package: strings.TrimSpace(req.PackageName),
		Name:    strings.TrimSpace(req.FileName),
		Kind:    kind,
	})
	if err != nil {
		return nil, err
	}
	return create(ctx, env, file)
}

// CreateJPAEntityRequest creates an @Entity class
type CreateJPAEntityRequest struct {
	Cwd                   string `json:"cwd,omitempty"`
	PackageName           string `json:"package_name,omitempty"`
	FileName              string `json:"file_name"`
	SuperclassType        string `json:"superclass_type,omitempty"`
	SuperclassPackageName string `json:"superclass_package_name,omitempty"`
	TableName             string `json:"table_name,omitempty"`
	SourceDirectory       string `json:"source_directory,omitempty"`
}

func createJPAEntityCommand() Command {
	return Command{
		Name:  "create-jpa-entity",
		Usage: "Create a JPA entity class",
		Params: []Param{
			cwdParam,
			{Name: "package_name", Type: ParamString, Usage: "package of the entity"},
			{Name: "file_name", Type: ParamString, Usage: "simple name of the entity", Required: true},
			{Name: "superclass_type", Type: ParamString, Usage: "simple name of a superclass to extend"},
			{Name: "superclass_package_name", Type: ParamString, Usage: "package of the superclass"},
			{Name: "table_name", Type: ParamString, Usage: "adds @Table(name = ...) when set"},
			sourceDirectoryParam,
		},
		Run: handler(CreateJPAEntity),
	}
}

// CreateJPAEntity renders an entity using the project's persistence package
func CreateJPAEntity(ctx context.Context, req CreateJPAEntityRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	dir, err := env.SourceDirectory(req.SourceDirectory)
	if err != nil {
		return nil, err
	}
	g, err := scaffold.NewGenerator()
	if err != nil {
		return nil, err
	}

	file, err := g.GenerateEntity(dir, scaffold.EntitySpec{
		Package:            strings.TrimSpace(req.PackageName),
		Name:               strings.TrimSpace(req.FileName),
		PersistencePackage: env.Config.Persistence.Package,
		Table:              strings.TrimSpace(req.TableName),
		Superclass:         strings.TrimSpace(req.SuperclassType),
		SuperclassPackage:  strings.TrimSpace(req.SuperclassPackageName),
	})
	if err != nil {
		return nil, err
	}
	return create(ctx, env, file)
}

func create(ctx context.Context, env *Env, file *scaffold.GeneratedFile) (any, error) {
	path := filepath.Join(env.Workspace.Root(), filepath.FromSlash(file.RelativePath))
	if err := env.Workspace.CreateFile(ctx, path, []byte(file.Source)); err != nil {
		return nil, err
	}
	return CreatedFile{
		FileType:        file.Name,
		FilePackageName: file.Package,
		FilePath:        path,
	}, nil
}
