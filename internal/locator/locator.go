// Package locator finds domain constructs in a parsed Java file: the package
// declaration, the public type, its annotations, members and imports.
//
// Absence is an expected outcome and is reported as nil or an empty slice.
// Only parsing can fail; the queries here are fixed patterns.
package locator

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/syntaxpresso/core/internal/debug"
	"github.com/syntaxpresso/core/internal/parser"
)

// TypeKind is the kind of a top-level Java type declaration
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindEnum      TypeKind = "enum"
	KindRecord    TypeKind = "record"
	KindInterface TypeKind = "interface"
)

// TypeKinds lists every declaration kind in lookup order
var TypeKinds = []TypeKind{KindClass, KindRecord, KindEnum, KindInterface}

// NodeKind returns the grammar node kind for k
func (k TypeKind) NodeKind() string {
	return string(k) + "_declaration"
}

// ParseTypeKind maps a user-facing name to a TypeKind
func ParseTypeKind(s string) (TypeKind, bool) {
	for _, k := range TypeKinds {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

var (
	packageQuery = parser.Query{
		Name:     "package-declaration",
		Pattern:  `(program (package_declaration) @package)`,
		Captures: []string{"package"},
	}

	packageNameQuery = parser.Query{
		Name:     "package-name",
		Pattern:  `(package_declaration [(scoped_identifier) (identifier)] @name)`,
		Captures: []string{"name"},
	}

	importQuery = parser.Query{
		Name:     "imports",
		Pattern:  `(program (import_declaration) @import)`,
		Captures: []string{"import"},
	}

	annotationQuery = parser.Query{
		Name: "annotation",
		Pattern: `[
			(marker_annotation name: (_) @name)
			(annotation name: (_) @name)
		] @annotation`,
		Captures: []string{"annotation", "name"},
	}

	fieldQuery = parser.Query{
		Name:     "fields",
		Pattern:  `(field_declaration) @field`,
		Captures: []string{"field"},
	}

	methodQuery = parser.Query{
		Name: "methods",
		Pattern: `[
			(method_declaration)
			(constructor_declaration)
			(compact_constructor_declaration)
		] @method`,
		Captures: []string{"method"},
	}
)

// topLevelTypeQuery matches top-level declarations of one kind
func topLevelTypeQuery(kind TypeKind) parser.Query {
	return parser.Query{
		Name:     "top-level-" + string(kind),
		Pattern:  `(program (` + kind.NodeKind() + ` name: (identifier) @name) @decl)`,
		Captures: []string{"decl", "name"},
	}
}

// publicTypeQuery matches top-level declarations of one kind carrying "public"
func publicTypeQuery(kind TypeKind) parser.Query {
	return parser.Query{
		Name:     "public-" + string(kind),
		Pattern:  `(program (` + kind.NodeKind() + ` (modifiers "public") name: (identifier) @name) @decl)`,
		Captures: []string{"decl", "name"},
	}
}

func first(f *parser.ParsedFile, scope *tree_sitter.Node, q parser.Query, capture string) *tree_sitter.Node {
	m, ok, err := f.QueryFirst(scope, q)
	if err != nil {
		debug.Log("LOCATOR", "query %s failed: %v\n", q.Name, err)
		return nil
	}
	if !ok {
		return nil
	}
	return m.Node(capture)
}

func all(f *parser.ParsedFile, scope *tree_sitter.Node, q parser.Query, capture string) []*tree_sitter.Node {
	matches, err := f.QueryAll(scope, q)
	if err != nil {
		debug.Log("LOCATOR", "query %s failed: %v\n", q.Name, err)
		return nil
	}
	nodes := make([]*tree_sitter.Node, 0, len(matches))
	for _, m := range matches {
		if n := m.Node(capture); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// childrenOf keeps only nodes whose parent is scope, so members of nested
// types are not mistaken for members of scope
func childrenOf(scope *tree_sitter.Node, nodes []*tree_sitter.Node) []*tree_sitter.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if p := n.Parent(); p != nil && p.Id() == scope.Id() {
			out = append(out, n)
		}
	}
	return out
}

// FindPackageDeclaration returns the file's package declaration
func FindPackageDeclaration(f *parser.ParsedFile) *tree_sitter.Node {
	return first(f, nil, packageQuery, "package")
}

// FindPackageNameScope returns the dotted-name node of a package declaration,
// whose text is the literal package name
func FindPackageNameScope(f *parser.ParsedFile, packageDecl *tree_sitter.Node) *tree_sitter.Node {
	if packageDecl == nil {
		return nil
	}
	return first(f, packageDecl, packageNameQuery, "name")
}

// PackageName returns the declared package, or "" for the default package
func PackageName(f *parser.ParsedFile) string {
	return f.TextOf(FindPackageNameScope(f, FindPackageDeclaration(f)))
}

// FindPublicTypeDeclaration resolves the file's public type of the given kind:
// the declaration named after the file stem, else the first one marked public.
func FindPublicTypeDeclaration(f *parser.ParsedFile, kind TypeKind) *tree_sitter.Node {
	if stem, ok := f.FileStem(); ok {
		q := topLevelTypeQuery(kind).Where("name", parser.Eq, stem)
		if decl := first(f, nil, q, "decl"); decl != nil {
			return decl
		}
	}
	return first(f, nil, publicTypeQuery(kind), "decl")
}

// FindAnyPublicTypeDeclaration applies FindPublicTypeDeclaration across all
// kinds. A stem match of any kind wins over a public declaration.
func FindAnyPublicTypeDeclaration(f *parser.ParsedFile) (*tree_sitter.Node, TypeKind) {
	if stem, ok := f.FileStem(); ok {
		for _, kind := range TypeKinds {
			q := topLevelTypeQuery(kind).Where("name", parser.Eq, stem)
			if decl := first(f, nil, q, "decl"); decl != nil {
				return decl, kind
			}
		}
	}

	var (
		best     *tree_sitter.Node
		bestKind TypeKind
	)
	for _, kind := range TypeKinds {
		decl := first(f, nil, publicTypeQuery(kind), "decl")
		if decl != nil && (best == nil || decl.StartByte() < best.StartByte()) {
			best, bestKind = decl, kind
		}
	}
	return best, bestKind
}

// TypeName returns the declared name of a type declaration
func TypeName(f *parser.ParsedFile, decl *tree_sitter.Node) string {
	if decl == nil {
		return ""
	}
	return f.TextOf(decl.ChildByFieldName("name"))
}

// TypeBody returns the body of a type declaration
func TypeBody(decl *tree_sitter.Node) *tree_sitter.Node {
	if decl == nil {
		return nil
	}
	return decl.ChildByFieldName("body")
}

// MemberScope returns the node whose direct children are the members of body.
// Enum members other than constants live in a nested enum_body_declarations.
func MemberScope(body *tree_sitter.Node) *tree_sitter.Node {
	if body == nil || body.Kind() != "enum_body" {
		return body
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		if child := body.NamedChild(i); child != nil && child.Kind() == "enum_body_declarations" {
			return child
		}
	}
	return body
}

// Modifiers returns the modifiers node (annotations and keywords) of a declaration
func Modifiers(decl *tree_sitter.Node) *tree_sitter.Node {
	if decl == nil {
		return nil
	}
	for i := uint(0); i < decl.NamedChildCount(); i++ {
		if child := decl.NamedChild(i); child != nil && child.Kind() == "modifiers" {
			return child
		}
	}
	return nil
}

// HasModifier reports whether decl carries the keyword modifier
func HasModifier(decl *tree_sitter.Node, keyword string) bool {
	mods := Modifiers(decl)
	if mods == nil {
		return false
	}
	for i := uint(0); i < mods.ChildCount(); i++ {
		if child := mods.Child(i); child != nil && child.Kind() == keyword {
			return true
		}
	}
	return false
}

// FindAnnotation returns the first annotation named name anywhere within
// scope. Qualified and simple names match each other.
func FindAnnotation(f *parser.ParsedFile, scope *tree_sitter.Node, name string) *tree_sitter.Node {
	if scope == nil {
		return nil
	}
	q := annotationQuery.Where("name", parser.SimpleNameEq, name)
	return first(f, scope, q, "annotation")
}

// FindDeclarationAnnotation looks for name among the annotations applied to
// decl itself, ignoring annotations on its members
func FindDeclarationAnnotation(f *parser.ParsedFile, decl *tree_sitter.Node, name string) *tree_sitter.Node {
	return FindAnnotation(f, Modifiers(decl), name)
}

// FindAnnotations returns the annotations applied to decl in source order
func FindAnnotations(f *parser.ParsedFile, decl *tree_sitter.Node) []*tree_sitter.Node {
	mods := Modifiers(decl)
	if mods == nil {
		return nil
	}
	return childrenOf(mods, all(f, mods, annotationQuery, "annotation"))
}

// AnnotationName returns the simple name of an annotation node
func AnnotationName(f *parser.ParsedFile, annotation *tree_sitter.Node) string {
	if annotation == nil {
		return ""
	}
	return parser.SimpleName(f.TextOf(annotation.ChildByFieldName("name")))
}

// FindFields returns the field declarations directly inside body
func FindFields(f *parser.ParsedFile, body *tree_sitter.Node) []*tree_sitter.Node {
	scope := MemberScope(body)
	if scope == nil {
		return nil
	}
	return childrenOf(scope, all(f, scope, fieldQuery, "field"))
}

// FindMethods returns the methods and constructors directly inside body
func FindMethods(f *parser.ParsedFile, body *tree_sitter.Node) []*tree_sitter.Node {
	scope := MemberScope(body)
	if scope == nil {
		return nil
	}
	return childrenOf(scope, all(f, scope, methodQuery, "method"))
}

// FindImports returns the file's import declarations in source order
func FindImports(f *parser.ParsedFile) []*tree_sitter.Node {
	return all(f, nil, importQuery, "import")
}
