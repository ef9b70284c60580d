package jpa

import (
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/insertion"
	"github.com/syntaxpresso/core/internal/locator"
	"github.com/syntaxpresso/core/internal/parser"
	"github.com/syntaxpresso/core/internal/patch"
)

var annotationArgQuery = parser.Query{
	Name:     "annotation-argument",
	Pattern:  `(element_value_pair key: (identifier) @key value: (string_literal) @value)`,
	Captures: []string{"key", "value"},
}

// annotationStringArg returns the string value of key in an annotation
// such as @Table(name = "orders")
func annotationStringArg(f *parser.ParsedFile, annotation *tree_sitter.Node, key string) string {
	m, ok, err := f.QueryFirst(annotation, annotationArgQuery.Where("key", parser.Eq, key))
	if err != nil || !ok {
		return ""
	}
	literal := f.TextOf(m.Node("value"))
	if unquoted, err := strconv.Unquote(literal); err == nil {
		return unquoted
	}
	return strings.Trim(literal, `"`)
}

// AnnotateEntity turns the public class of f into a JPA entity by adding
// @Entity and, when table is set, @Table. Annotations already present are
// kept; a class that needs nothing returns its source unchanged.
func AnnotateEntity(f *parser.ParsedFile, table string, opts Options) (*FieldResult, error) {
	decl := locator.FindPublicTypeDeclaration(f, locator.KindClass)
	if decl == nil {
		return nil, coreerrors.NewNotFoundError("public class declaration", f.Path())
	}
	table = strings.TrimSpace(table)

	var (
		lines   []string
		imports ProcessedImports
	)
	if locator.FindDeclarationAnnotation(f, decl, "Entity") == nil {
		lines = append(lines, "@Entity")
		imports.Add(opts.persistence(), "Entity")
	}
	if table != "" && locator.FindDeclarationAnnotation(f, decl, "Table") == nil {
		tableAnnotation := annotation{name: "Table"}
		tableAnnotation.arg("name", quote(table))
		lines = append(lines, tableAnnotation.String())
		imports.Add(opts.persistence(), "Table")
	}

	typeName := locator.TypeName(f, decl)
	pkg := locator.PackageName(f)
	if len(lines) == 0 {
		return &FieldResult{
			Source:          f.Text(),
			FileType:        typeName,
			FilePackageName: pkg,
			SourceHash:      f.HashString(),
		}, nil
	}

	var edits []patch.EditOperation
	added := imports.Without(pkg, func(ref ImportRef) bool {
		return locator.IsImported(f, ref.Package, ref.Name)
	})
	if len(added) > 0 {
		point, err := insertion.Calculate(f, nil, insertion.EditImport)
		if err != nil {
			return nil, err
		}
		statements := make([]string, len(added))
		for i, ref := range added {
			statements[i] = ref.Statement()
		}
		edits = append(edits, patch.Insert(point.Offset, insertion.Render(point, statements)))
	}

	point, err := insertion.Calculate(f, decl, insertion.EditAnnotation)
	if err != nil {
		return nil, err
	}
	edits = append(edits, patch.Insert(point.Offset, insertion.Render(point, lines)))

	result, err := applyAndVerify(f, edits)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	debug.LogEdit("annotated %s with %s\n", typeName, strings.Join(lines, " "))
	return &FieldResult{
		Source:          result.Text(),
		FileType:        typeName,
		FilePackageName: pkg,
		SourceHash:      result.HashString(),
		Imports:         added,
		Edits:           edits,
	}, nil
}
