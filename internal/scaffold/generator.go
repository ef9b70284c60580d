package scaffold

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/syntaxpresso/core/internal/catalog"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/naming"
)

// Generator renders Java files from the embedded templates
type Generator struct {
	templates *template.Template
}

// NewGenerator parses the embedded templates
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("java").Funcs(TemplateFuncs()).ParseFS(javaTemplates, "templates/*.java.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse java templates: %w", err)
	}
	return &Generator{templates: tmpl}, nil
}

// ParseKind maps a user-facing kind name to a Kind
func ParseKind(s string) (Kind, error) {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
		names[i] = string(k)
	}
	rule := "is not a known file kind"
	if suggestion, ok := catalog.Suggest(s, names); ok {
		rule += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return "", coreerrors.NewValidationError("file_type", s, rule)
}

// GenerateFile renders a plain type declaration
func (g *Generator) GenerateFile(sourceDir string, spec FileSpec) (*GeneratedFile, error) {
	if err := validateNames(spec.Package, spec.Name); err != nil {
		return nil, err
	}
	kind, err := ParseKind(string(spec.Kind))
	if err != nil {
		return nil, err
	}

	source, err := g.render(string(kind), templateData{Package: spec.Package, Name: spec.Name})
	if err != nil {
		return nil, err
	}
	return &GeneratedFile{
		RelativePath: RelativePath(sourceDir, spec.Package, spec.Name),
		Package:      spec.Package,
		Name:         spec.Name,
		Source:       source,
	}, nil
}

// GenerateEntity renders an @Entity class with its persistence imports
func (g *Generator) GenerateEntity(sourceDir string, spec EntitySpec) (*GeneratedFile, error) {
	if err := validateNames(spec.Package, spec.Name); err != nil {
		return nil, err
	}
	if spec.PersistencePackage == "" {
		return nil, coreerrors.NewValidationError("persistence_package", "", naming.RuleEmpty)
	}
	if spec.Superclass != "" {
		if err := naming.ValidateClassName("superclass_type", spec.Superclass); err != nil {
			return nil, err
		}
		if spec.SuperclassPackage != "" {
			if err := naming.ValidatePackageName("superclass_package_name", spec.SuperclassPackage); err != nil {
				return nil, err
			}
		}
	}
	if spec.Superclass == spec.Name {
		return nil, coreerrors.NewValidationError("superclass_type", spec.Superclass, "must differ from the entity name")
	}

	imports := []string{spec.PersistencePackage + ".Entity"}
	if spec.Table != "" {
		imports = append(imports, spec.PersistencePackage+".Table")
	}
	if spec.Superclass != "" && spec.SuperclassPackage != "" &&
		spec.SuperclassPackage != spec.Package && spec.SuperclassPackage != "java.lang" {
		imports = append(imports, spec.SuperclassPackage+"."+spec.Superclass)
	}

	source, err := g.render("entity", templateData{
		Package:    spec.Package,
		Imports:    imports,
		Name:       spec.Name,
		Table:      spec.Table,
		Superclass: spec.Superclass,
	})
	if err != nil {
		return nil, err
	}
	return &GeneratedFile{
		RelativePath: RelativePath(sourceDir, spec.Package, spec.Name),
		Package:      spec.Package,
		Name:         spec.Name,
		Source:       source,
	}, nil
}

func (g *Generator) render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := g.templates.ExecuteTemplate(&buf, name+".java.tmpl", data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// RelativePath places a type under sourceDir by package:
// src/main/java + com.shop + Order -> src/main/java/com/shop/Order.java
func RelativePath(sourceDir, pkg, name string) string {
	return path.Join(sourceDir, strings.ReplaceAll(pkg, ".", "/"), name+".java")
}

func validateNames(pkg, name string) error {
	if pkg != "" {
		if err := naming.ValidatePackageName("package_name", pkg); err != nil {
			return err
		}
	}
	return naming.ValidateClassName("file_name", name)
}
