package locator

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/syntaxpresso/core/internal/parser"
)

// Import is one import declaration
type Import struct {
	Name     string // qualified name without ".*"
	Static   bool
	Wildcard bool
	Node     *tree_sitter.Node
}

// Package returns the qualifier of a single-type import, or the package of a
// wildcard import
func (i Import) Package() string {
	if i.Wildcard {
		return i.Name
	}
	if idx := strings.LastIndexByte(i.Name, '.'); idx >= 0 {
		return i.Name[:idx]
	}
	return ""
}

// Imports describes every import declaration of the file
func Imports(f *parser.ParsedFile) []Import {
	nodes := FindImports(f)
	out := make([]Import, 0, len(nodes))
	for _, n := range nodes {
		imp := Import{Node: n}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "static":
				imp.Static = true
			case "asterisk":
				imp.Wildcard = true
			case "scoped_identifier", "identifier":
				imp.Name = f.TextOf(child)
			}
		}
		out = append(out, imp)
	}
	return out
}

// ImportedNames returns the qualified names imported by the file; wildcard
// imports end in ".*"
func ImportedNames(f *parser.ParsedFile) []string {
	imports := Imports(f)
	names := make([]string, 0, len(imports))
	for _, imp := range imports {
		if imp.Wildcard {
			names = append(names, imp.Name+".*")
			continue
		}
		names = append(names, imp.Name)
	}
	return names
}

// IsImported reports whether pkg.name is already visible through a
// non-static single-type or wildcard import
func IsImported(f *parser.ParsedFile, pkg, name string) bool {
	qualified := pkg + "." + name
	for _, imp := range Imports(f) {
		if imp.Static {
			continue
		}
		if imp.Wildcard && imp.Name == pkg {
			return true
		}
		if !imp.Wildcard && imp.Name == qualified {
			return true
		}
	}
	return false
}

// Superclass returns the type node of decl's extends clause
func Superclass(decl *tree_sitter.Node) *tree_sitter.Node {
	if decl == nil {
		return nil
	}
	ext := decl.ChildByFieldName("superclass")
	if ext == nil {
		return nil
	}
	return ext.NamedChild(0)
}

// SuperclassName returns the superclass name without type arguments
func SuperclassName(f *parser.ParsedFile, decl *tree_sitter.Node) string {
	return StripTypeArguments(f.TextOf(Superclass(decl)))
}

// StripTypeArguments turns "Base<Long>" into "Base"
func StripTypeArguments(typ string) string {
	if idx := strings.IndexByte(typ, '<'); idx >= 0 {
		typ = typ[:idx]
	}
	return strings.TrimSpace(typ)
}

// Field describes a declared field
type Field struct {
	Node  *tree_sitter.Node
	Names []string // one per declarator: "int a, b;" declares two
	Type  string
}

// HasAnnotation reports whether the field carries the named annotation
func (fl Field) HasAnnotation(f *parser.ParsedFile, name string) bool {
	return FindDeclarationAnnotation(f, fl.Node, name) != nil
}

// DescribeFields returns name and type information for fields directly in body
func DescribeFields(f *parser.ParsedFile, body *tree_sitter.Node) []Field {
	nodes := FindFields(f, body)
	out := make([]Field, 0, len(nodes))
	for _, n := range nodes {
		field := Field{Node: n, Type: f.TextOf(n.ChildByFieldName("type"))}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			field.Names = append(field.Names, f.TextOf(child.ChildByFieldName("name")))
		}
		out = append(out, field)
	}
	return out
}

// FieldNames returns every declared field name directly in body
func FieldNames(f *parser.ParsedFile, body *tree_sitter.Node) []string {
	var names []string
	for _, field := range DescribeFields(f, body) {
		names = append(names, field.Names...)
	}
	return names
}

// FindIdField returns the field annotated @Id or @EmbeddedId directly in body
func FindIdField(f *parser.ParsedFile, body *tree_sitter.Node) (Field, bool) {
	for _, field := range DescribeFields(f, body) {
		if field.HasAnnotation(f, "Id") || field.HasAnnotation(f, "EmbeddedId") {
			return field, true
		}
	}
	return Field{}, false
}

// ResolveImportedType finds the package a simple type name was imported
// from. Types in the same package or java.lang need no import and are not
// resolved here.
func ResolveImportedType(f *parser.ParsedFile, simpleName string) (string, bool) {
	simpleName = StripTypeArguments(simpleName)
	if idx := strings.LastIndexByte(simpleName, '.'); idx >= 0 {
		return simpleName[:idx], true
	}
	for _, imp := range Imports(f) {
		if !imp.Wildcard && !imp.Static && parser.SimpleName(imp.Name) == simpleName {
			return imp.Package(), true
		}
	}
	return "", false
}
