// Package jpa generates JPA-annotated members and applies them to entity
// source files through the insertion and patch engines.
package jpa

import (
	"slices"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/insertion"
	"github.com/syntaxpresso/core/internal/locator"
	"github.com/syntaxpresso/core/internal/parser"
	"github.com/syntaxpresso/core/internal/patch"
)

// Options carries project settings that shape generated code
type Options struct {
	// PersistencePackage is jakarta.persistence or javax.persistence
	PersistencePackage string
	// IndentUnit indents members of a body that has none yet
	IndentUnit string
}

func (o Options) persistence() string {
	if o.PersistencePackage == "" {
		return JakartaPersistence
	}
	return o.PersistencePackage
}

// entityAnnotations mark a class whose fields are persistent
var entityAnnotations = []string{"Entity", "MappedSuperclass", "Embeddable"}

// FieldResult is the outcome of a single-file member edit
type FieldResult struct {
	Source          string                `json:"-"`
	FileType        string                `json:"file_type"`
	FilePackageName string                `json:"file_package_name"`
	FieldName       string                `json:"field_name,omitempty"`
	SourceHash      string                `json:"source_hash"`
	Imports         []ImportRef           `json:"added_imports,omitempty"`
	Edits           []patch.EditOperation `json:"-"`
}

// locateEntity finds the public class of f and checks that it is persistent
func locateEntity(f *parser.ParsedFile) (*tree_sitter.Node, error) {
	decl := locator.FindPublicTypeDeclaration(f, locator.KindClass)
	if decl == nil {
		return nil, coreerrors.NewNotFoundError("public class declaration", f.Path())
	}
	for _, name := range entityAnnotations {
		if locator.FindDeclarationAnnotation(f, decl, name) != nil {
			return decl, nil
		}
	}
	return nil, coreerrors.NewNotFoundError("@Entity annotation on "+locator.TypeName(f, decl), f.Path())
}

// AddField validates cfg and inserts the generated member and its imports
// into the entity declared by f. Both insertion points come from f, the
// edits are applied in one patch, and the result is re-parsed before it is
// returned. f itself is left untouched.
func AddField(f *parser.ParsedFile, cfg FieldConfig, opts Options) (*FieldResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decl, err := locateEntity(f)
	if err != nil {
		return nil, err
	}
	typeName := locator.TypeName(f, decl)
	pkg := locator.PackageName(f)
	body := locator.TypeBody(decl)

	if slices.Contains(locator.FieldNames(f, body), cfg.Name()) {
		return nil, coreerrors.NewValidationError("field_name", cfg.Name(), "is already declared in "+typeName)
	}
	if _, isId := cfg.(*IdFieldConfig); isId {
		if existing, ok := locator.FindIdField(f, body); ok {
			return nil, coreerrors.NewValidationError("field_name", cfg.Name(),
				"entity already has an id field "+existing.Names[0])
		}
	}

	text := cfg.build(buildContext{persistence: opts.persistence(), entityName: typeName})
	edits, added, err := plan(f, decl, text, pkg, opts)
	if err != nil {
		return nil, err
	}

	result, err := applyAndVerify(f, edits)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	debug.LogEdit("added field %s to %s (%d imports)\n", cfg.Name(), typeName, len(added))
	return &FieldResult{
		Source:          result.Text(),
		FileType:        typeName,
		FilePackageName: pkg,
		FieldName:       cfg.Name(),
		SourceHash:      result.HashString(),
		Imports:         added,
		Edits:           edits,
	}, nil
}

// plan turns generated text into edits against the unmodified snapshot f
func plan(f *parser.ParsedFile, decl *tree_sitter.Node, text fieldText, pkg string, opts Options) ([]patch.EditOperation, []ImportRef, error) {
	var edits []patch.EditOperation

	added := text.imports.Without(pkg, func(ref ImportRef) bool {
		return locator.IsImported(f, ref.Package, ref.Name)
	})
	if len(added) > 0 {
		point, err := insertion.Calculate(f, nil, insertion.EditImport)
		if err != nil {
			return nil, nil, err
		}
		lines := make([]string, len(added))
		for i, ref := range added {
			lines[i] = ref.Statement()
		}
		edits = append(edits, patch.Insert(point.Offset, insertion.Render(point, lines)))
	}

	point, err := insertion.CalculateWith(f, decl, insertion.EditField, insertion.Options{IndentUnit: opts.IndentUnit})
	if err != nil {
		return nil, nil, err
	}
	edits = append(edits, patch.Insert(point.Offset, insertion.Render(point, text.lines)))
	return edits, added, nil
}

// applyAndVerify patches f and re-parses the output. A patch that turns a
// clean file into one with syntax errors is rejected.
func applyAndVerify(f *parser.ParsedFile, edits []patch.EditOperation) (*parser.ParsedFile, error) {
	res, err := patch.Apply(f.Text(), edits)
	if err != nil {
		return nil, err
	}
	out, err := f.Reparse([]byte(res.Source))
	if err != nil {
		return nil, err
	}
	if out.HasSyntaxErrors() && !f.HasSyntaxErrors() {
		out.Close()
		return nil, coreerrors.NewParseError(f.Path(), "patched source no longer parses cleanly", nil)
	}
	return out, nil
}
