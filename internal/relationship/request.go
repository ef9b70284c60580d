// Package relationship wires a JPA association between two entity files.
//
// The owning side is patched and written first. When the association is
// bidirectional the inverse side follows. The two writes are independent:
// a failure on the inverse side after the owning side was written is
// reported as a partial failure and nothing is undone.
package relationship

import (
	"strings"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/jpa"
	"github.com/syntaxpresso/core/internal/naming"
	"github.com/syntaxpresso/core/internal/parser"
)

// Kind is the association seen from the owning side
type Kind string

const (
	ManyToOne Kind = "ManyToOne"
	OneToOne  Kind = "OneToOne"
)

// Direction says whether the inverse side gets a back-reference
type Direction string

const (
	Unidirectional Direction = "unidirectional"
	Bidirectional  Direction = "bidirectional"
)

// Config is the caller-supplied shape of a relationship
type Config struct {
	Kind             Kind              `json:"kind"`
	Direction        Direction         `json:"direction,omitempty"`
	OwningFieldName  string            `json:"owning_field_name,omitempty"`
	InverseFieldName string            `json:"inverse_field_name,omitempty"`
	Fetch            jpa.FetchType     `json:"fetch,omitempty"`
	OwningCascades   []jpa.CascadeType `json:"owning_cascades,omitempty"`
	InverseCascades  []jpa.CascadeType `json:"inverse_cascades,omitempty"`
	Mandatory        bool              `json:"mandatory,omitempty"`
	OrphanRemoval    bool              `json:"orphan_removal,omitempty"`
	CollectionType   string            `json:"collection_type,omitempty"`
	JoinColumn       string            `json:"join_column,omitempty"`
}

// Side is one resolved entity file. Buffer sides came from unsaved editor
// content: they are patched but never written, and the new source is
// returned to the caller instead.
type Side struct {
	Path   string
	File   *parser.ParsedFile
	Buffer bool
}

// Request is a Config bound to its two files
type Request struct {
	Config
	Owning  Side
	Inverse Side
	Options jpa.Options
}

func (r *Request) bidirectional() bool {
	return r.Direction == Bidirectional
}

// normalize validates the parts of the request the field configs cannot see
func (r *Request) normalize() error {
	switch {
	case r.Kind == "":
		return coreerrors.NewValidationError("kind", "", naming.RuleEmpty)
	case equalFold(r.Kind, ManyToOne):
		r.Kind = ManyToOne
	case equalFold(r.Kind, OneToOne):
		r.Kind = OneToOne
	default:
		return coreerrors.NewValidationError("kind", string(r.Kind), "must be ManyToOne or OneToOne")
	}

	switch {
	case r.Direction == "":
		r.Direction = Unidirectional
	case equalFold(r.Direction, Unidirectional):
		r.Direction = Unidirectional
	case equalFold(r.Direction, Bidirectional):
		r.Direction = Bidirectional
	default:
		return coreerrors.NewValidationError("direction", string(r.Direction), "must be unidirectional or bidirectional")
	}

	if r.Owning.File == nil {
		return coreerrors.NewValidationError("owning_side", "", "no source file")
	}
	if r.Inverse.File == nil {
		return coreerrors.NewValidationError("inverse_side", "", "no source file")
	}

	if !r.bidirectional() {
		switch {
		case r.InverseFieldName != "":
			return coreerrors.NewValidationError("inverse_field_name", r.InverseFieldName, "requires a bidirectional relationship")
		case len(r.InverseCascades) > 0:
			return coreerrors.NewValidationError("inverse_cascades", string(r.InverseCascades[0]), "requires a bidirectional relationship")
		case r.CollectionType != "":
			return coreerrors.NewValidationError("collection_type", r.CollectionType, "requires a bidirectional relationship")
		case r.OrphanRemoval && r.Kind == ManyToOne:
			return coreerrors.NewValidationError("orphan_removal", "true", "requires a bidirectional relationship")
		}
	}
	if r.Kind == OneToOne && r.CollectionType != "" {
		return coreerrors.NewValidationError("collection_type", r.CollectionType, "does not apply to one-to-one")
	}
	return nil
}

func equalFold[T ~string](a, b T) bool {
	return strings.EqualFold(string(a), string(b))
}

// entity is what one side knows about itself
type entity struct {
	typeName string
	pkg      string
}

// owningField builds the mapping for the side that holds the join column
func (r *Request) owningField(target entity) *jpa.AssociationFieldConfig {
	name := r.OwningFieldName
	if name == "" {
		name = naming.ToOneFieldName(target.typeName)
	}
	cfg := &jpa.AssociationFieldConfig{
		FieldName:     name,
		Kind:          jpa.AssociationKind(r.Kind),
		TargetType:    target.typeName,
		TargetPackage: target.pkg,
		Fetch:         r.Fetch,
		Cascades:      r.OwningCascades,
		Mandatory:     r.Mandatory,
		JoinColumn:    r.JoinColumn,
	}
	if r.Kind == OneToOne && !r.bidirectional() {
		cfg.OrphanRemoval = r.OrphanRemoval
	}
	return cfg
}

// inverseField builds the back-reference, mapped by the owning field
func (r *Request) inverseField(owner entity, mappedBy string) *jpa.AssociationFieldConfig {
	cfg := &jpa.AssociationFieldConfig{
		TargetType:    owner.typeName,
		TargetPackage: owner.pkg,
		MappedBy:      mappedBy,
		Cascades:      r.InverseCascades,
		OrphanRemoval: r.OrphanRemoval,
		FieldName:     r.InverseFieldName,
	}
	switch r.Kind {
	case ManyToOne:
		cfg.Kind = jpa.OneToMany
		cfg.CollectionType = r.CollectionType
		if cfg.FieldName == "" {
			cfg.FieldName = naming.ToManyFieldName(owner.typeName)
		}
	case OneToOne:
		cfg.Kind = jpa.OneToOne
		if cfg.FieldName == "" {
			cfg.FieldName = naming.ToOneFieldName(owner.typeName)
		}
	}
	return cfg
}
