package jpa

import (
	"github.com/syntaxpresso/core/internal/catalog"
	"github.com/syntaxpresso/core/internal/locator"
	"github.com/syntaxpresso/core/internal/parser"
)

// EntityInfo answers "is this a JPA entity, and what does it look like".
// A file that is not an entity is a negative answer, not an error.
type EntityInfo struct {
	IsJPAEntity           bool   `json:"is_jpa_entity"`
	EntityType            string `json:"entity_type,omitempty"`
	EntityPackageName     string `json:"entity_package_name,omitempty"`
	TableName             string `json:"table_name,omitempty"`
	SuperclassType        string `json:"superclass_type,omitempty"`
	SuperclassPackageName string `json:"superclass_package_name,omitempty"`
	IdFieldName           string `json:"id_field_name,omitempty"`
	IdFieldType           string `json:"id_field_type,omitempty"`
	IdFieldPackageName    string `json:"id_field_package_name,omitempty"`
}

// Inspect reports entity metadata declared in f. Only f is examined; an id
// inherited from a superclass leaves the id fields empty.
func Inspect(f *parser.ParsedFile) EntityInfo {
	decl := locator.FindPublicTypeDeclaration(f, locator.KindClass)
	if decl == nil {
		return EntityInfo{}
	}

	info := EntityInfo{
		EntityType:        locator.TypeName(f, decl),
		EntityPackageName: locator.PackageName(f),
	}
	info.IsJPAEntity = locator.FindDeclarationAnnotation(f, decl, "Entity") != nil
	if !info.IsJPAEntity {
		return EntityInfo{EntityType: info.EntityType, EntityPackageName: info.EntityPackageName}
	}

	if table := locator.FindDeclarationAnnotation(f, decl, "Table"); table != nil {
		info.TableName = annotationStringArg(f, table, "name")
	}

	if superName := locator.SuperclassName(f, decl); superName != "" {
		info.SuperclassType = parser.SimpleName(superName)
		info.SuperclassPackageName = typePackage(f, superName, info.EntityPackageName)
	}

	if id, ok := locator.FindIdField(f, locator.TypeBody(decl)); ok {
		info.IdFieldName = id.Names[0]
		info.IdFieldType = parser.SimpleName(locator.StripTypeArguments(id.Type))
		info.IdFieldPackageName = typePackage(f, id.Type, info.EntityPackageName)
	}
	return info
}

// typePackage resolves the package of a type reference: imports first, then
// catalog types, then the file's own package
func typePackage(f *parser.ParsedFile, typ, ownPackage string) string {
	if pkg, ok := locator.ResolveImportedType(f, typ); ok {
		return pkg
	}
	if t, ok := catalog.Lookup(locator.StripTypeArguments(typ)); ok {
		return t.Package
	}
	return ownPackage
}
