package jpa

import (
	"slices"
)

// ImportRef is one importable type
type ImportRef struct {
	Package string `json:"package"`
	Name    string `json:"name"`
}

// Qualified returns package.Name
func (r ImportRef) Qualified() string {
	if r.Package == "" {
		return r.Name
	}
	return r.Package + "." + r.Name
}

// Statement returns the Java import statement for r
func (r ImportRef) Statement() string {
	return "import " + r.Qualified() + ";"
}

// ProcessedImports is the set of imports one field needs: the class of the
// entity on the other side of an association, and the annotation and
// utility types, in first-use order without duplicates
type ProcessedImports struct {
	EntityClass *ImportRef  `json:"entity_class,omitempty"`
	Imports     []ImportRef `json:"imports"`
}

// Add appends pkg.name unless it is implicit or already present
func (p *ProcessedImports) Add(pkg, name string) {
	if pkg == "" || pkg == "java.lang" || name == "" {
		return
	}
	ref := ImportRef{Package: pkg, Name: name}
	if slices.Contains(p.Imports, ref) || (p.EntityClass != nil && *p.EntityClass == ref) {
		return
	}
	p.Imports = append(p.Imports, ref)
}

// SetEntityClass records the other side's entity class
func (p *ProcessedImports) SetEntityClass(pkg, name string) {
	if pkg == "" || name == "" {
		return
	}
	p.EntityClass = &ImportRef{Package: pkg, Name: name}
	p.Imports = slices.DeleteFunc(p.Imports, func(r ImportRef) bool { return r == *p.EntityClass })
}

// All returns the entity class first, then the other imports
func (p ProcessedImports) All() []ImportRef {
	out := make([]ImportRef, 0, len(p.Imports)+1)
	if p.EntityClass != nil {
		out = append(out, *p.EntityClass)
	}
	return append(out, p.Imports...)
}

// Without drops imports a file does not need: those from its own package
// and those visible already
func (p ProcessedImports) Without(ownPackage string, present func(ImportRef) bool) []ImportRef {
	var out []ImportRef
	for _, ref := range p.All() {
		if ref.Package == ownPackage || present(ref) {
			continue
		}
		out = append(out, ref)
	}
	return out
}
