package catalog

import (
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// CollectionType is the declared interface of a to-many field plus the
// implementation it is initialized with
type CollectionType struct {
	Name            string `json:"name"`
	Package         string `json:"package"`
	Concrete        string `json:"concrete"`
	ConcretePackage string `json:"concrete_package"`
}

var collectionTypes = []CollectionType{
	{Name: "List", Package: "java.util", Concrete: "ArrayList", ConcretePackage: "java.util"},
	{Name: "Set", Package: "java.util", Concrete: "HashSet", ConcretePackage: "java.util"},
	{Name: "SortedSet", Package: "java.util", Concrete: "TreeSet", ConcretePackage: "java.util"},
	{Name: "Collection", Package: "java.util", Concrete: "ArrayList", ConcretePackage: "java.util"},
}

// CollectionTypes returns the supported to-many collection types
func CollectionTypes() []CollectionType {
	out := make([]CollectionType, len(collectionTypes))
	copy(out, collectionTypes)
	return out
}

// LookupCollection finds a collection type by interface name
func LookupCollection(name string) (CollectionType, error) {
	names := make([]string, 0, len(collectionTypes))
	for _, c := range collectionTypes {
		if c.Name == name {
			return c, nil
		}
		names = append(names, c.Name)
	}
	return CollectionType{}, coreerrors.NewValidationError("collection_type", name, unknownRule(name, names))
}
