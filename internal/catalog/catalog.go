// Package catalog holds the static tables of Java types that entity fields
// may use. The tables are process-wide constants; accessors hand out copies.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// JavaType is a basic (non-entity) field type and what it may be used for
type JavaType struct {
	Name    string `json:"name"`
	Package string `json:"package"`
	// Id types may back an @Id field
	Id bool `json:"id"`
	// Length types accept @Column(length)
	Length bool `json:"length"`
	// Precision types accept @Column(precision, scale)
	Precision bool `json:"precision"`
	// Temporal types are legacy date types that require @Temporal
	Temporal bool `json:"temporal"`
	// TimeZone types carry an offset or zone and accept @TimeZoneStorage
	TimeZone bool `json:"time_zone"`
	// Lob types may be mapped as @Lob
	Lob bool `json:"lob"`
}

// QualifiedName returns package.Name, or Name for implicit types
func (t JavaType) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// NeedsImport reports whether a field of this type requires an import
func (t JavaType) NeedsImport() bool {
	return t.Package != "" && t.Package != "java.lang"
}

var basicTypes = []JavaType{
	{Name: "String", Package: "java.lang", Id: true, Length: true, Lob: true},
	{Name: "Long", Package: "java.lang", Id: true},
	{Name: "Integer", Package: "java.lang", Id: true},
	{Name: "Short", Package: "java.lang", Id: true},
	{Name: "Byte", Package: "java.lang"},
	{Name: "Boolean", Package: "java.lang"},
	{Name: "Character", Package: "java.lang"},
	{Name: "Double", Package: "java.lang"},
	{Name: "Float", Package: "java.lang"},
	{Name: "long", Id: true},
	{Name: "int", Id: true},
	{Name: "short"},
	{Name: "byte"},
	{Name: "boolean"},
	{Name: "char"},
	{Name: "double"},
	{Name: "float"},
	{Name: "byte[]", Length: true, Lob: true},
	{Name: "Byte[]", Length: true, Lob: true},
	{Name: "char[]", Length: true, Lob: true},
	{Name: "Character[]", Length: true, Lob: true},
	{Name: "BigDecimal", Package: "java.math", Id: true, Precision: true},
	{Name: "BigInteger", Package: "java.math", Id: true, Precision: true},
	{Name: "UUID", Package: "java.util", Id: true},
	{Name: "Date", Package: "java.util", Temporal: true},
	{Name: "Calendar", Package: "java.util", Temporal: true},
	{Name: "Currency", Package: "java.util", Length: true},
	{Name: "Locale", Package: "java.util", Length: true},
	{Name: "TimeZone", Package: "java.util", Length: true},
	{Name: "LocalDate", Package: "java.time"},
	{Name: "LocalTime", Package: "java.time"},
	{Name: "LocalDateTime", Package: "java.time"},
	{Name: "Instant", Package: "java.time"},
	{Name: "Duration", Package: "java.time"},
	{Name: "Year", Package: "java.time"},
	{Name: "YearMonth", Package: "java.time"},
	{Name: "ZoneId", Package: "java.time", Length: true},
	{Name: "ZoneOffset", Package: "java.time"},
	{Name: "OffsetDateTime", Package: "java.time", TimeZone: true},
	{Name: "OffsetTime", Package: "java.time", TimeZone: true},
	{Name: "ZonedDateTime", Package: "java.time", TimeZone: true},
	{Name: "Date", Package: "java.sql"},
	{Name: "Time", Package: "java.sql"},
	{Name: "Timestamp", Package: "java.sql"},
	{Name: "Blob", Package: "java.sql", Lob: true},
	{Name: "Clob", Package: "java.sql", Lob: true},
	{Name: "NClob", Package: "java.sql", Lob: true},
	{Name: "URL", Package: "java.net", Length: true},
	{Name: "Class", Package: "java.lang", Length: true},
}

// Kind selects a subset of the basic types
type Kind string

const (
	KindAll       Kind = "all"
	KindId        Kind = "id"
	KindLength    Kind = "length"
	KindPrecision Kind = "precision"
	KindTemporal  Kind = "temporal"
	KindTimeZone  Kind = "time_zone"
	KindLob       Kind = "lob"
)

// Kinds lists every catalog kind
var Kinds = []Kind{KindAll, KindId, KindLength, KindPrecision, KindTemporal, KindTimeZone, KindLob}

func (k Kind) includes(t JavaType) bool {
	switch k {
	case KindAll:
		return true
	case KindId:
		return t.Id
	case KindLength:
		return t.Length
	case KindPrecision:
		return t.Precision
	case KindTemporal:
		return t.Temporal
	case KindTimeZone:
		return t.TimeZone
	case KindLob:
		return t.Lob
	default:
		return false
	}
}

// Types returns the basic types of the given kind in catalog order
func Types(kind Kind) ([]JavaType, error) {
	if !slices.Contains(Kinds, kind) {
		return nil, coreerrors.NewValidationError("kind", string(kind), unknownRule(string(kind), kindNames()))
	}
	out := make([]JavaType, 0, len(basicTypes))
	for _, t := range basicTypes {
		if kind.includes(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Lookup finds a basic type by simple or qualified name. A simple name
// shared by two packages (Date) resolves to the first entry.
func Lookup(name string) (JavaType, bool) {
	name = strings.TrimSpace(name)
	for _, t := range basicTypes {
		if t.Name == name || t.QualifiedName() == name {
			return t, true
		}
	}
	return JavaType{}, false
}

// Resolve is Lookup that reports unknown names as a ValidationError with a
// "did you mean" hint
func Resolve(field, name string) (JavaType, error) {
	if t, ok := Lookup(name); ok {
		return t, nil
	}
	names := make([]string, 0, len(basicTypes))
	for _, t := range basicTypes {
		names = append(names, t.Name)
	}
	return JavaType{}, coreerrors.NewValidationError(field, name, unknownRule(name, names))
}

func kindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return names
}

func unknownRule(value string, candidates []string) string {
	if suggestion, ok := Suggest(value, candidates); ok {
		return fmt.Sprintf("is not a known value (did you mean %q?)", suggestion)
	}
	return "is not a known value"
}

// Suggest returns the candidate closest to input when it is within two edits
func Suggest(input string, candidates []string) (string, bool) {
	if input == "" {
		return "", false
	}
	best, bestDistance := "", 1000
	lower := strings.ToLower(input)
	for _, c := range candidates {
		distance := edlib.LevenshteinDistance(lower, strings.ToLower(c))
		if distance < bestDistance {
			best, bestDistance = c, distance
		}
	}
	if bestDistance > 2 {
		return "", false
	}
	return best, true
}
