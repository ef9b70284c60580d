package commands

import (
	"context"
	"encoding/json"
	"strings"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/relationship"
	"github.com/syntaxpresso/core/internal/workspace"
)

// CreateRelationshipRequest wires an association between two entities
type CreateRelationshipRequest struct {
	Cwd                   string          `json:"cwd,omitempty"`
	OwningEntityFilePath  string          `json:"owning_entity_file_path,omitempty"`
	OwningEntityFileB64   string          `json:"owning_entity_file_b64,omitempty"`
	InverseEntityFilePath string          `json:"inverse_entity_file_path,omitempty"`
	InverseEntityFileB64  string          `json:"inverse_entity_file_b64,omitempty"`
	RelationshipConfig    json.RawMessage `json:"relationship_config"`
}

// RelationshipData is the answer to create-relationship. The patched
// source of a buffer side is returned so the editor can apply it.
type RelationshipData struct {
	OwningSideUpdated  bool   `json:"owning_side_updated"`
	InverseSideUpdated bool   `json:"inverse_side_updated"`
	OwningFileSource   string `json:"owning_file_source,omitempty"`
	InverseFileSource  string `json:"inverse_file_source,omitempty"`
	*relationship.Result
}

func createRelationshipCommand() Command {
	return Command{
		Name:  "create-relationship",
		Usage: "Add a many-to-one or one-to-one association between two entities",
		Params: []Param{
			cwdParam,
			{Name: "owning_entity_file_path", Type: ParamString, Usage: "path of the entity holding the join column"},
			{Name: "owning_entity_file_b64", Type: ParamString, Usage: "base64 buffer of the owning entity"},
			{Name: "inverse_entity_file_path", Type: ParamString, Usage: "path of the referenced entity"},
			{Name: "inverse_entity_file_b64", Type: ParamString, Usage: "base64 buffer of the referenced entity"},
			{Name: "relationship_config", Type: ParamObject, Usage: "relationship configuration as a JSON object", Required: true},
		},
		Run: handler(CreateRelationship),
	}
}

// CreateRelationship patches the owning side and, when bidirectional, the
// inverse side. Data is returned with the error so a partial failure still
// reports what was written.
func CreateRelationship(ctx context.Context, req CreateRelationshipRequest) (any, error) {
	env, err := Open(req.Cwd)
	if err != nil {
		return nil, err
	}

	var cfg relationship.Config
	if len(req.RelationshipConfig) == 0 {
		return nil, coreerrors.NewValidationError("relationship_config", "", "must not be empty")
	}
	if err := decodeStrict("relationship_config", req.RelationshipConfig, &cfg); err != nil {
		return nil, err
	}
	if cfg.CollectionType == "" &&
		strings.EqualFold(string(cfg.Direction), string(relationship.Bidirectional)) &&
		strings.EqualFold(string(cfg.Kind), string(relationship.ManyToOne)) {
		cfg.CollectionType = env.Config.Relationships.CollectionType
	}

	owning, err := env.Workspace.Load(workspace.SourceRef{Path: req.OwningEntityFilePath, Buffer: req.OwningEntityFileB64})
	if err != nil {
		return nil, err
	}
	defer owning.Close()
	inverse, err := env.Workspace.Load(workspace.SourceRef{Path: req.InverseEntityFilePath, Buffer: req.InverseEntityFileB64})
	if err != nil {
		return nil, err
	}
	defer inverse.Close()

	res, err := relationship.NewWirer(env.Workspace).Wire(ctx, relationship.Request{
		Config:  cfg,
		Owning:  relationship.Side{Path: owning.Path, File: owning.File, Buffer: owning.Buffer},
		Inverse: relationship.Side{Path: inverse.Path, File: inverse.File, Buffer: inverse.Buffer},
		Options: env.JPAOptions(),
	})
	if res == nil {
		return nil, err
	}

	data := RelationshipData{
		OwningSideUpdated:  res.OwningSide.Updated,
		InverseSideUpdated: res.InverseSide.Updated,
		Result:             res,
	}
	if owning.Buffer {
		data.OwningFileSource = res.OwningSide.Source
	}
	if inverse.Buffer {
		data.InverseFileSource = res.InverseSide.Source
	}
	return data, err
}
