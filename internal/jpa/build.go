package jpa

import (
	"fmt"
	"strings"

	"github.com/syntaxpresso/core/internal/naming"
)

// buildContext is what text generation needs to know about the target file
type buildContext struct {
	persistence string
	entityName  string
}

func (ctx buildContext) jpa(name string) (string, string) {
	return ctx.persistence, name
}

// fieldText is the generated member: annotation lines, then the declaration
type fieldText struct {
	lines   []string
	imports ProcessedImports
}

type annotation struct {
	name string
	args []string
}

func (a annotation) String() string {
	if len(a.args) == 0 {
		return "@" + a.name
	}
	return "@" + a.name + "(" + strings.Join(a.args, ", ") + ")"
}

func (a *annotation) arg(key, value string) {
	a.args = append(a.args, key+" = "+value)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

type column struct {
	name      string
	mandatory bool
	unique    bool
	length    int
	precision int
	scale     int
}

func (c column) annotation() annotation {
	a := annotation{name: "Column"}
	a.arg("name", quote(c.name))
	if c.mandatory {
		a.arg("nullable", "false")
	}
	if c.unique {
		a.arg("unique", "true")
	}
	if c.length > 0 {
		a.arg("length", fmt.Sprint(c.length))
	}
	if c.precision > 0 {
		a.arg("precision", fmt.Sprint(c.precision))
	}
	if c.scale > 0 {
		a.arg("scale", fmt.Sprint(c.scale))
	}
	return a
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func declaration(typ, name string) string {
	return "private " + typ + " " + name + ";"
}

func (c *BasicFieldConfig) build(ctx buildContext) fieldText {
	var out fieldText
	t := c.javaType
	if t.NeedsImport() {
		out.imports.Add(t.Package, t.Name)
	}

	if c.Lob {
		out.lines = append(out.lines, "@Lob")
		out.imports.Add(ctx.jpa("Lob"))
	}
	if c.Temporal != "" {
		out.lines = append(out.lines, fmt.Sprintf("@Temporal(TemporalType.%s)", c.Temporal))
		out.imports.Add(ctx.jpa("Temporal"))
		out.imports.Add(ctx.jpa("TemporalType"))
	}
	if c.TimeZoneStorage != "" {
		out.lines = append(out.lines, fmt.Sprintf("@TimeZoneStorage(TimeZoneStorageType.%s)", c.TimeZoneStorage))
		out.imports.Add(HibernateAnnotations, "TimeZoneStorage")
		out.imports.Add(HibernateAnnotations, "TimeZoneStorageType")
	}

	col := column{
		name:      orDefault(c.ColumnName, naming.ColumnName(c.FieldName)),
		mandatory: c.Mandatory,
		unique:    c.Unique,
		length:    c.Length,
		precision: c.Precision,
		scale:     c.Scale,
	}
	out.lines = append(out.lines, col.annotation().String(), declaration(t.Name, c.FieldName))
	out.imports.Add(ctx.jpa("Column"))
	return out
}

func (c *EnumFieldConfig) build(ctx buildContext) fieldText {
	var out fieldText
	out.imports.Add(c.EnumPackage, c.EnumType)

	out.lines = append(out.lines, fmt.Sprintf("@Enumerated(EnumType.%s)", c.Storage))
	out.imports.Add(ctx.jpa("Enumerated"))
	out.imports.Add(ctx.jpa("EnumType"))

	col := column{
		name:      orDefault(c.ColumnName, naming.ColumnName(c.FieldName)),
		mandatory: c.Mandatory,
		unique:    c.Unique,
		length:    c.Length,
	}
	out.lines = append(out.lines, col.annotation().String(), declaration(c.EnumType, c.FieldName))
	out.imports.Add(ctx.jpa("Column"))
	return out
}

func (c *IdFieldConfig) build(ctx buildContext) fieldText {
	var out fieldText
	t := c.javaType
	if t.NeedsImport() {
		out.imports.Add(t.Package, t.Name)
	}

	out.lines = append(out.lines, "@Id")
	out.imports.Add(ctx.jpa("Id"))

	if c.Generation != GenerationNone {
		generated := annotation{name: "GeneratedValue"}
		generated.arg("strategy", "GenerationType."+string(c.Generation))
		out.imports.Add(ctx.jpa("GeneratedValue"))
		out.imports.Add(ctx.jpa("GenerationType"))

		if c.Generation == GenerationSequence {
			sequence := orDefault(c.SequenceName, naming.SequenceName(ctx.entityName))
			generated.arg("generator", quote(sequence))
			out.lines = append(out.lines, generated.String())

			generator := annotation{name: "SequenceGenerator"}
			generator.arg("name", quote(sequence))
			generator.arg("sequenceName", quote(sequence))
			generator.arg("initialValue", fmt.Sprint(c.InitialValue))
			generator.arg("allocationSize", fmt.Sprint(c.AllocationSize))
			out.lines = append(out.lines, generator.String())
			out.imports.Add(ctx.jpa("SequenceGenerator"))
		} else {
			out.lines = append(out.lines, generated.String())
		}
	}

	col := column{name: orDefault(c.ColumnName, naming.ColumnName(c.FieldName)), mandatory: true}
	out.lines = append(out.lines, col.annotation().String(), declaration(t.Name, c.FieldName))
	out.imports.Add(ctx.jpa("Column"))
	return out
}

func cascadeValue(cascades []CascadeType) string {
	if len(cascades) == 1 {
		return "CascadeType." + string(cascades[0])
	}
	parts := make([]string, len(cascades))
	for i, c := range cascades {
		parts[i] = "CascadeType." + string(c)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (c *AssociationFieldConfig) build(ctx buildContext) fieldText {
	var out fieldText
	out.imports.SetEntityClass(c.TargetPackage, c.TargetType)

	mapping := annotation{name: string(c.Kind)}
	out.imports.Add(ctx.jpa(string(c.Kind)))
	if !c.Owning() {
		mapping.arg("mappedBy", quote(c.MappedBy))
	}
	if c.Fetch != "" {
		mapping.arg("fetch", "FetchType."+string(c.Fetch))
		out.imports.Add(ctx.jpa("FetchType"))
	}
	if c.Mandatory {
		mapping.arg("optional", "false")
	}
	if len(c.Cascades) > 0 {
		mapping.arg("cascade", cascadeValue(c.Cascades))
		out.imports.Add(ctx.jpa("CascadeType"))
	}
	if c.OrphanRemoval {
		mapping.arg("orphanRemoval", "true")
	}
	out.lines = append(out.lines, mapping.String())

	if c.Owning() {
		join := annotation{name: "JoinColumn"}
		join.arg("name", quote(c.JoinColumn))
		if c.Mandatory {
			join.arg("nullable", "false")
		}
		if c.Kind == OneToOne {
			join.arg("unique", "true")
		}
		out.lines = append(out.lines, join.String())
		out.imports.Add(ctx.jpa("JoinColumn"))
	}

	if c.Kind == OneToMany {
		coll := c.collection
		out.imports.Add(coll.Package, coll.Name)
		out.imports.Add(coll.ConcretePackage, coll.Concrete)
		out.lines = append(out.lines, fmt.Sprintf("private %s<%s> %s = new %s<>();", coll.Name, c.TargetType, c.FieldName, coll.Concrete))
		return out
	}

	out.lines = append(out.lines, declaration(c.TargetType, c.FieldName))
	return out
}
