// Package scaffold renders new Java source files from embedded templates.
package scaffold

import (
	"embed"
	"strconv"
	"text/template"
)

//go:embed templates/*.java.tmpl
var javaTemplates embed.FS

// Kind is the declaration a new file holds
type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindRecord     Kind = "record"
	KindAnnotation Kind = "annotation"
)

// Kinds lists the file kinds create-java-file accepts
var Kinds = []Kind{KindClass, KindInterface, KindEnum, KindRecord, KindAnnotation}

// FileSpec describes a plain Java type file
type FileSpec struct {
	Package string // empty for the default package
	Name    string
	Kind    Kind
}

// EntitySpec describes a JPA entity file
type EntitySpec struct {
	Package            string
	Name               string
	PersistencePackage string // jakarta.persistence or javax.persistence
	Table              string // optional @Table name
	Superclass         string // optional simple name
	SuperclassPackage  string // package of Superclass; empty when it needs no import
}

// GeneratedFile is a rendered file, not yet written
type GeneratedFile struct {
	RelativePath string
	Package      string
	Name         string
	Source       string
}

// templateData is what every template sees
type templateData struct {
	Package    string
	Imports    []string
	Name       string
	Table      string
	Superclass string
}

// TemplateFuncs returns the function map for the Java templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"quote": strconv.Quote,
	}
}
