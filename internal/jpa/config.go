package jpa

import (
	"fmt"
	"slices"

	"github.com/syntaxpresso/core/internal/catalog"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/naming"
)

// FieldConfig describes a member to add to an entity. The set of variants
// is closed: Basic, Enum, Id and Association.
type FieldConfig interface {
	// Name is the Java field name
	Name() string
	// Validate checks the config and fills in defaults. It must succeed
	// before the config is used.
	Validate() error

	build(ctx buildContext) fieldText
}

var (
	_ FieldConfig = (*BasicFieldConfig)(nil)
	_ FieldConfig = (*EnumFieldConfig)(nil)
	_ FieldConfig = (*IdFieldConfig)(nil)
	_ FieldConfig = (*AssociationFieldConfig)(nil)
)

// BasicFieldConfig is a column-mapped value from the basic type catalog
type BasicFieldConfig struct {
	FieldName       string              `json:"field_name"`
	Type            string              `json:"field_type"`
	ColumnName      string              `json:"column_name,omitempty"`
	Mandatory       bool                `json:"mandatory,omitempty"`
	Unique          bool                `json:"unique,omitempty"`
	Length          int                 `json:"length,omitempty"`
	Precision       int                 `json:"precision,omitempty"`
	Scale           int                 `json:"scale,omitempty"`
	Temporal        TemporalType        `json:"temporal,omitempty"`
	TimeZoneStorage TimeZoneStorageType `json:"time_zone_storage,omitempty"`
	Lob             bool                `json:"lob,omitempty"`

	javaType catalog.JavaType
}

// Name implements FieldConfig
func (c *BasicFieldConfig) Name() string { return c.FieldName }

// Validate implements FieldConfig
func (c *BasicFieldConfig) Validate() error {
	if err := naming.ValidateIdentifier("field_name", c.FieldName); err != nil {
		return err
	}
	t, err := catalog.Resolve("field_type", c.Type)
	if err != nil {
		return err
	}
	c.javaType = t

	if err := nonNegative(map[string]int{"length": c.Length, "precision": c.Precision, "scale": c.Scale}); err != nil {
		return err
	}
	if c.Length > 0 && !t.Length {
		return unsupported("length", c.Length, t)
	}
	if (c.Precision > 0 || c.Scale > 0) && !t.Precision {
		return unsupported("precision", c.Precision, t)
	}
	if c.Precision > 0 && c.Scale > c.Precision {
		return coreerrors.NewValidationError("scale", fmt.Sprint(c.Scale), "must not exceed precision")
	}

	if c.Temporal, err = checkEnum("temporal", c.Temporal, temporalTypes); err != nil {
		return err
	}
	if c.Temporal != "" && !t.Temporal {
		return unsupported("temporal", c.Temporal, t)
	}
	if t.Temporal && c.Temporal == "" {
		c.Temporal = TemporalTimestamp
	}

	if c.TimeZoneStorage, err = checkEnum("time_zone_storage", c.TimeZoneStorage, timeZoneStorageTypes); err != nil {
		return err
	}
	if c.TimeZoneStorage != "" && !t.TimeZone {
		return unsupported("time_zone_storage", c.TimeZoneStorage, t)
	}

	if c.Lob && !t.Lob {
		return unsupported("lob", c.Lob, t)
	}
	return nil
}

// EnumFieldConfig is a column-mapped Java enum
type EnumFieldConfig struct {
	FieldName   string      `json:"field_name"`
	EnumType    string      `json:"enum_type"`
	EnumPackage string      `json:"enum_package,omitempty"`
	Storage     EnumStorage `json:"storage,omitempty"`
	ColumnName  string      `json:"column_name,omitempty"`
	Mandatory   bool        `json:"mandatory,omitempty"`
	Unique      bool        `json:"unique,omitempty"`
	Length      int         `json:"length,omitempty"`
}

// Name implements FieldConfig
func (c *EnumFieldConfig) Name() string { return c.FieldName }

// Validate implements FieldConfig
func (c *EnumFieldConfig) Validate() error {
	if err := naming.ValidateIdentifier("field_name", c.FieldName); err != nil {
		return err
	}
	if err := naming.ValidateClassName("enum_type", c.EnumType); err != nil {
		return err
	}
	if c.EnumPackage != "" {
		if err := naming.ValidatePackageName("enum_package", c.EnumPackage); err != nil {
			return err
		}
	}

	var err error
	if c.Storage, err = checkEnum("storage", c.Storage, enumStorages); err != nil {
		return err
	}
	if c.Storage == "" {
		c.Storage = EnumString
	}

	if err := nonNegative(map[string]int{"length": c.Length}); err != nil {
		return err
	}
	if c.Length > 0 && c.Storage == EnumOrdinal {
		return coreerrors.NewValidationError("length", fmt.Sprint(c.Length), "only applies to STRING storage")
	}
	return nil
}

// IdFieldConfig is the primary key of an entity
type IdFieldConfig struct {
	FieldName      string         `json:"field_name,omitempty"`
	Type           string         `json:"field_type,omitempty"`
	Generation     GenerationType `json:"generation,omitempty"`
	SequenceName   string         `json:"sequence_name,omitempty"`
	InitialValue   int            `json:"initial_value,omitempty"`
	AllocationSize int            `json:"allocation_size,omitempty"`
	ColumnName     string         `json:"column_name,omitempty"`

	javaType catalog.JavaType
}

// Id defaults
const (
	DefaultIdFieldName    = "id"
	DefaultIdType         = "Long"
	DefaultInitialValue   = 1
	DefaultAllocationSize = 50
)

var numericIdTypes = []string{"Long", "Integer", "Short", "long", "int", "short", "BigInteger", "BigDecimal"}

// Name implements FieldConfig
func (c *IdFieldConfig) Name() string { return c.FieldName }

// Validate implements FieldConfig
func (c *IdFieldConfig) Validate() error {
	if c.FieldName == "" {
		c.FieldName = DefaultIdFieldName
	}
	if err := naming.ValidateIdentifier("field_name", c.FieldName); err != nil {
		return err
	}
	if c.Type == "" {
		c.Type = DefaultIdType
	}
	t, err := catalog.Resolve("field_type", c.Type)
	if err != nil {
		return err
	}
	if !t.Id {
		return coreerrors.NewValidationError("field_type", c.Type, "is not a valid identifier type")
	}
	c.javaType = t
	numeric := slices.Contains(numericIdTypes, t.Name)

	if c.Generation, err = checkEnum("generation", c.Generation, generationTypes); err != nil {
		return err
	}
	if c.Generation == "" {
		switch {
		case t.Name == "UUID":
			c.Generation = GenerationUUID
		case numeric:
			c.Generation = GenerationIdentity
		default:
			c.Generation = GenerationNone
		}
	}

	switch c.Generation {
	case GenerationUUID:
		if t.Name != "UUID" && t.Name != "String" {
			return coreerrors.NewValidationError("generation", string(c.Generation), "requires a UUID or String id")
		}
	case GenerationIdentity, GenerationSequence, GenerationTable:
		if !numeric {
			return coreerrors.NewValidationError("generation", string(c.Generation), "requires a numeric id")
		}
	}

	if err := nonNegative(map[string]int{"initial_value": c.InitialValue, "allocation_size": c.AllocationSize}); err != nil {
		return err
	}
	if c.Generation != GenerationSequence && (c.SequenceName != "" || c.InitialValue > 0 || c.AllocationSize > 0) {
		return coreerrors.NewValidationError("generation", string(c.Generation), "sequence settings require SEQUENCE generation")
	}
	if c.Generation == GenerationSequence {
		if c.InitialValue == 0 {
			c.InitialValue = DefaultInitialValue
		}
		if c.AllocationSize == 0 {
			c.AllocationSize = DefaultAllocationSize
		}
	}
	return nil
}

// AssociationFieldConfig is one side of an entity association. A non-empty
// MappedBy makes it the inverse side.
type AssociationFieldConfig struct {
	FieldName      string          `json:"field_name"`
	Kind           AssociationKind `json:"kind"`
	TargetType     string          `json:"target_type"`
	TargetPackage  string          `json:"target_package,omitempty"`
	Fetch          FetchType       `json:"fetch,omitempty"`
	Cascades       []CascadeType   `json:"cascades,omitempty"`
	Mandatory      bool            `json:"mandatory,omitempty"`
	OrphanRemoval  bool            `json:"orphan_removal,omitempty"`
	MappedBy       string          `json:"mapped_by,omitempty"`
	JoinColumn     string          `json:"join_column,omitempty"`
	CollectionType string          `json:"collection_type,omitempty"`

	collection catalog.CollectionType
}

// DefaultCollectionType is used for to-many fields when none is configured
const DefaultCollectionType = "List"

// Name implements FieldConfig
func (c *AssociationFieldConfig) Name() string { return c.FieldName }

// Owning reports whether this side holds the join column
func (c *AssociationFieldConfig) Owning() bool { return c.MappedBy == "" }

// Validate implements FieldConfig
func (c *AssociationFieldConfig) Validate() error {
	if err := naming.ValidateIdentifier("field_name", c.FieldName); err != nil {
		return err
	}
	if err := naming.ValidateClassName("target_type", c.TargetType); err != nil {
		return err
	}
	if c.TargetPackage != "" {
		if err := naming.ValidatePackageName("target_package", c.TargetPackage); err != nil {
			return err
		}
	}

	var err error
	if c.Kind == "" {
		return coreerrors.NewValidationError("kind", "", naming.RuleEmpty)
	}
	if c.Kind, err = checkEnum("kind", c.Kind, associationKinds); err != nil {
		return err
	}
	if c.Fetch, err = checkEnum("fetch", c.Fetch, fetchTypes); err != nil {
		return err
	}
	if c.Cascades, err = checkCascades("cascades", c.Cascades); err != nil {
		return err
	}

	if !c.Owning() {
		if err := naming.ValidateIdentifier("mapped_by", c.MappedBy); err != nil {
			return err
		}
		if c.JoinColumn != "" {
			return coreerrors.NewValidationError("join_column", c.JoinColumn, "the inverse side has no join column")
		}
	}

	switch c.Kind {
	case ManyToOne:
		if !c.Owning() {
			return coreerrors.NewValidationError("mapped_by", c.MappedBy, "a many-to-one side always owns the association")
		}
		if c.OrphanRemoval {
			return coreerrors.NewValidationError("orphan_removal", "true", "does not apply to many-to-one")
		}
	case OneToMany:
		if c.Owning() {
			return coreerrors.NewValidationError("mapped_by", "", "a one-to-many side must be mapped by the owning field")
		}
		if c.Mandatory {
			return coreerrors.NewValidationError("mandatory", "true", "does not apply to collections")
		}
		if c.CollectionType == "" {
			c.CollectionType = DefaultCollectionType
		}
		if c.collection, err = catalog.LookupCollection(c.CollectionType); err != nil {
			return err
		}
	}
	if c.Kind != OneToMany && c.CollectionType != "" {
		return coreerrors.NewValidationError("collection_type", c.CollectionType, "only applies to one-to-many")
	}

	if c.Owning() && c.JoinColumn == "" {
		c.JoinColumn = naming.JoinColumnName(c.FieldName)
	}
	return nil
}

func nonNegative(values map[string]int) error {
	for _, name := range []string{"length", "precision", "scale", "initial_value", "allocation_size"} {
		if v, ok := values[name]; ok && v < 0 {
			return coreerrors.NewValidationError(name, fmt.Sprint(v), "must not be negative")
		}
	}
	return nil
}

func unsupported(field string, value any, t catalog.JavaType) error {
	return coreerrors.NewValidationError(field, fmt.Sprint(value), "does not apply to field type "+t.Name)
}
