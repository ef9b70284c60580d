package jpa

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syntaxpresso/core/internal/catalog"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// Persistence API packages
const (
	JakartaPersistence   = "jakarta.persistence"
	JavaxPersistence     = "javax.persistence"
	HibernateAnnotations = "org.hibernate.annotations"
)

// GenerationType is the @GeneratedValue strategy of an id field
type GenerationType string

const (
	GenerationNone     GenerationType = "NONE"
	GenerationAuto     GenerationType = "AUTO"
	GenerationIdentity GenerationType = "IDENTITY"
	GenerationSequence GenerationType = "SEQUENCE"
	GenerationTable    GenerationType = "TABLE"
	GenerationUUID     GenerationType = "UUID"
)

var generationTypes = []GenerationType{
	GenerationNone, GenerationAuto, GenerationIdentity, GenerationSequence, GenerationTable, GenerationUUID,
}

// TemporalType is the @Temporal precision for java.util.Date and Calendar
type TemporalType string

const (
	TemporalDate      TemporalType = "DATE"
	TemporalTime      TemporalType = "TIME"
	TemporalTimestamp TemporalType = "TIMESTAMP"
)

var temporalTypes = []TemporalType{TemporalDate, TemporalTime, TemporalTimestamp}

// TimeZoneStorageType is Hibernate's storage policy for zoned values
type TimeZoneStorageType string

const (
	TimeZoneNative       TimeZoneStorageType = "NATIVE"
	TimeZoneNormalize    TimeZoneStorageType = "NORMALIZE"
	TimeZoneNormalizeUTC TimeZoneStorageType = "NORMALIZE_UTC"
	TimeZoneColumn       TimeZoneStorageType = "COLUMN"
	TimeZoneAuto         TimeZoneStorageType = "AUTO"
	TimeZoneDefault      TimeZoneStorageType = "DEFAULT"
)

var timeZoneStorageTypes = []TimeZoneStorageType{
	TimeZoneNative, TimeZoneNormalize, TimeZoneNormalizeUTC, TimeZoneColumn, TimeZoneAuto, TimeZoneDefault,
}

// EnumStorage is the @Enumerated mapping
type EnumStorage string

const (
	EnumString  EnumStorage = "STRING"
	EnumOrdinal EnumStorage = "ORDINAL"
)

var enumStorages = []EnumStorage{EnumString, EnumOrdinal}

// FetchType is the association fetch strategy
type FetchType string

const (
	FetchLazy  FetchType = "LAZY"
	FetchEager FetchType = "EAGER"
)

var fetchTypes = []FetchType{FetchLazy, FetchEager}

// CascadeType is one association cascade operation
type CascadeType string

const (
	CascadeAll     CascadeType = "ALL"
	CascadePersist CascadeType = "PERSIST"
	CascadeMerge   CascadeType = "MERGE"
	CascadeRemove  CascadeType = "REMOVE"
	CascadeRefresh CascadeType = "REFRESH"
	CascadeDetach  CascadeType = "DETACH"
)

var cascadeTypes = []CascadeType{CascadeAll, CascadePersist, CascadeMerge, CascadeRemove, CascadeRefresh, CascadeDetach}

// AssociationKind is the JPA association annotation
type AssociationKind string

const (
	ManyToOne AssociationKind = "ManyToOne"
	OneToOne  AssociationKind = "OneToOne"
	OneToMany AssociationKind = "OneToMany"
)

var associationKinds = []AssociationKind{ManyToOne, OneToOne, OneToMany}

// checkEnum validates value against allowed, normalizing case. An empty
// value is allowed and returned unchanged so callers can apply defaults.
func checkEnum[T ~string](field string, value T, allowed []T) (T, error) {
	if value == "" {
		return value, nil
	}
	trimmed := strings.TrimSpace(string(value))
	for _, a := range allowed {
		if strings.EqualFold(string(a), trimmed) {
			return a, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	rule := "must be one of " + strings.Join(names, ", ")
	if suggestion, ok := catalog.Suggest(string(value), names); ok {
		rule += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return value, coreerrors.NewValidationError(field, string(value), rule)
}

func checkCascades(field string, cascades []CascadeType) ([]CascadeType, error) {
	out := make([]CascadeType, 0, len(cascades))
	for _, c := range cascades {
		normalized, err := checkEnum(field, c, cascadeTypes)
		if err != nil {
			return nil, err
		}
		if normalized != "" && !slices.Contains(out, normalized) {
			out = append(out, normalized)
		}
	}
	if slices.Contains(out, CascadeAll) {
		return []CascadeType{CascadeAll}, nil
	}
	return out, nil
}
