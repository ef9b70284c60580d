package commands

import (
	"context"
	"encoding/json"
	"strings"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/jpa"
	"github.com/syntaxpresso/core/internal/workspace"
)

// Field kinds accepted by create-entity-field
const (
	FieldKindBasic       = "basic"
	FieldKindId          = "id"
	FieldKindEnum        = "enum"
	FieldKindAssociation = "association"
)

var fieldKinds = []string{FieldKindBasic, FieldKindId, FieldKindEnum, FieldKindAssociation}

// EditedFile is the answer to the single-file edit commands. FileSource is
// the patched source. Written is false for editor buffers, which the caller
// applies itself, and for edits that changed nothing.
type EditedFile struct {
	FileType        string          `json:"file_type"`
	FilePackageName string          `json:"file_package_name"`
	FilePath        string          `json:"file_path,omitempty"`
	FileSource      string          `json:"file_source"`
	SourceHash      string          `json:"source_hash"`
	FieldName       string          `json:"field_name,omitempty"`
	AddedImports    []jpa.ImportRef `json:"added_imports,omitempty"`
	Written         bool            `json:"written"`
}

// CreateEntityFieldRequest adds one member to an entity
type CreateEntityFieldRequest struct {
	Cwd string `json:"cwd,omitempty"`
	EntityRef
	FieldKind   string          `json:"field_kind"`
	FieldConfig json.RawMessage `json:"field_config"`
}

func createEntityFieldCommand() Command {
	return Command{
		Name:  "create-entity-field",
		Usage: "Add a basic, id, enum or association field to an entity",
		Params: append(append([]Param{cwdParam}, entityRefParams...),
			Param{Name: "field_kind", Type: ParamString, Usage: "kind of field to add", Required: true, Enum: fieldKinds},
			Param{Name: "field_config", Type: ParamObject, Usage: "field configuration as a JSON object", Required: true},
		),
		Run: handler(CreateEntityField),
	}
}

// CreateEntityField patches the entity and writes it back unless it came
// from an editor buffer
func CreateEntityField(ctx context.Context, req CreateEntityFieldRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeFieldConfig(req.FieldKind, req.FieldConfig)
	if err != nil {
		return nil, err
	}
	if assoc, ok := cfg.(*jpa.AssociationFieldConfig); ok && assoc.CollectionType == "" &&
		strings.EqualFold(string(assoc.Kind), string(jpa.OneToMany)) {
		assoc.CollectionType = env.Config.Relationships.CollectionType
	}

	src, err := env.Workspace.Load(req.source())
	if err != nil {
		return nil, err
	}
	defer src.Close()

	res, err := jpa.AddField(src.File, cfg, env.JPAOptions())
	if err != nil {
		return nil, err
	}
	return commit(ctx, env, src, res)
}

// decodeFieldConfig picks the config variant for kind and decodes raw into it
func decodeFieldConfig(kind string, raw json.RawMessage) (jpa.FieldConfig, error) {
	var cfg jpa.FieldConfig
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case FieldKindBasic:
		cfg = &jpa.BasicFieldConfig{}
	case FieldKindId:
		cfg = &jpa.IdFieldConfig{}
	case FieldKindEnum:
		cfg = &jpa.EnumFieldConfig{}
	case FieldKindAssociation:
		cfg = &jpa.AssociationFieldConfig{}
	case "":
		return nil, coreerrors.NewValidationError("field_kind", "", "must not be empty")
	default:
		return nil, coreerrors.NewValidationError("field_kind", kind, "must be one of "+strings.Join(fieldKinds, ", "))
	}
	if err := decodeStrict("field_config", raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AnnotateEntityRequest marks an existing class as an entity
type AnnotateEntityRequest struct {
	Cwd string `json:"cwd,omitempty"`
	EntityRef
	TableName string `json:"table_name,omitempty"`
}

func annotateEntityCommand() Command {
	return Command{
		Name:  "annotate-entity",
		Usage: "Add @Entity, and @Table when a table name is given, to an existing class",
		Params: append(append([]Param{cwdParam}, entityRefParams...),
			Param{Name: "table_name", Type: ParamString, Usage: "adds @Table(name = ...) when set"},
		),
		Run: handler(AnnotateEntity),
	}
}

// AnnotateEntity patches the class declaration of the file
func AnnotateEntity(ctx context.Context, req AnnotateEntityRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}
	src, err := env.Workspace.Load(req.source())
	if err != nil {
		return nil, err
	}
	defer src.Close()

	res, err := jpa.AnnotateEntity(src.File, strings.TrimSpace(req.TableName), env.JPAOptions())
	if err != nil {
		return nil, err
	}
	return commit(ctx, env, src, res)
}

// commit writes a changed disk-backed source and reports the edit
func commit(ctx context.Context, env *Env, src workspace.Source, res *jpa.FieldResult) (any, error) {
	write := !src.Buffer && len(res.Edits) > 0
	if write {
		if err := env.Workspace.WriteFile(ctx, src.Path, []byte(res.Source)); err != nil {
			return nil, err
		}
	}
	return EditedFile{
		FileType:        res.FileType,
		FilePackageName: res.FilePackageName,
		FilePath:        src.Path,
		FileSource:      res.Source,
		SourceHash:      res.SourceHash,
		FieldName:       res.FieldName,
		AddedImports:    res.Imports,
		Written:         write,
	}, nil
}
