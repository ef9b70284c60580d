// Package insertion computes where new declarations go in a Java file.
//
// Calculate is a pure function of a parsed snapshot, a scope node and an
// edit kind. Points computed from one snapshot are only valid against that
// snapshot; after any edit the file must be re-parsed and points recomputed.
package insertion

import (
	"bytes"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/syntaxpresso/core/internal/locator"
	"github.com/syntaxpresso/core/internal/parser"
)

// EditKind selects the rule table used by Calculate
type EditKind uint8

const (
	EditImport EditKind = iota + 1
	EditField
	EditAnnotation
)

func (k EditKind) String() string {
	switch k {
	case EditImport:
		return "import"
	case EditField:
		return "field"
	case EditAnnotation:
		return "annotation"
	default:
		return fmt.Sprintf("EditKind(%d)", uint8(k))
	}
}

// Position names the rule that produced an InsertionPoint
type Position string

const (
	BeforeFirstDeclarationOfKind Position = "before_first_declaration_of_kind"
	AfterLastDeclarationOfKind   Position = "after_last_declaration_of_kind"
	AfterScopeHeader             Position = "after_scope_header"
	EndOfScopeBody               Position = "end_of_scope_body"
)

// DefaultIndentUnit is used when the body gives no hint of its indentation
const DefaultIndentUnit = "    "

// InsertionPoint is a byte offset plus the line-break policy around it
type InsertionPoint struct {
	Position        Position
	Offset          int
	BreakLineBefore bool
	BreakLineAfter  bool
	// Indent prefixes every inserted line that starts a new line
	Indent string
	// TrailingIndent follows the trailing break, restoring the indentation
	// of whatever text the insertion pushed down
	TrailingIndent string
	// LineBreak is the file's line ending; empty means "\n"
	LineBreak string
}

func (p InsertionPoint) lineBreak() string {
	if p.LineBreak == "" {
		return "\n"
	}
	return p.LineBreak
}

// lineBreakOf reports the line ending used by src
func lineBreakOf(src []byte) string {
	if bytes.Contains(src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// Options tunes formatting that the source cannot tell us
type Options struct {
	IndentUnit string
}

func (o Options) indentUnit() string {
	if o.IndentUnit == "" {
		return DefaultIndentUnit
	}
	return o.IndentUnit
}

// Calculate returns the insertion point for kind. The scope is the type
// declaration for fields and annotations and is ignored for imports.
func Calculate(f *parser.ParsedFile, scope *tree_sitter.Node, kind EditKind) (InsertionPoint, error) {
	return CalculateWith(f, scope, kind, Options{})
}

// CalculateWith is Calculate with explicit formatting options
func CalculateWith(f *parser.ParsedFile, scope *tree_sitter.Node, kind EditKind, opts Options) (InsertionPoint, error) {
	p, err := calculate(f, scope, kind, opts)
	if err != nil {
		return InsertionPoint{}, err
	}
	p.LineBreak = lineBreakOf(f.Source())
	return p, nil
}

func calculate(f *parser.ParsedFile, scope *tree_sitter.Node, kind EditKind, opts Options) (InsertionPoint, error) {
	switch kind {
	case EditImport:
		return importPoint(f), nil
	case EditField:
		if scope == nil {
			return InsertionPoint{}, fmt.Errorf("field insertion requires a type declaration")
		}
		return fieldPoint(f, scope, opts)
	case EditAnnotation:
		if scope == nil {
			return InsertionPoint{}, fmt.Errorf("annotation insertion requires a declaration")
		}
		return annotationPoint(f, scope), nil
	default:
		return InsertionPoint{}, fmt.Errorf("unknown edit kind %s", kind)
	}
}

// importPoint: after the last import, else after the package declaration
// separated by a blank line, else at file start
func importPoint(f *parser.ParsedFile) InsertionPoint {
	if imports := locator.FindImports(f); len(imports) > 0 {
		last := imports[len(imports)-1]
		offset, unterminated := afterLine(f, int(last.EndByte()))
		return InsertionPoint{
			Position:        AfterLastDeclarationOfKind,
			Offset:          offset,
			BreakLineBefore: unterminated,
			BreakLineAfter:  true,
		}
	}

	if pkg := locator.FindPackageDeclaration(f); pkg != nil {
		offset, _ := afterLine(f, int(pkg.EndByte()))
		return InsertionPoint{
			Position:        AfterScopeHeader,
			Offset:          offset,
			BreakLineBefore: true,
			BreakLineAfter:  true,
		}
	}

	return InsertionPoint{
		Position:       BeforeFirstDeclarationOfKind,
		Offset:         0,
		BreakLineAfter: true,
	}
}

// fieldPoint: after the last field, else before the first method, else just
// before the closing brace of the body
func fieldPoint(f *parser.ParsedFile, decl *tree_sitter.Node, opts Options) (InsertionPoint, error) {
	body := locator.TypeBody(decl)
	if body == nil {
		return InsertionPoint{}, fmt.Errorf("%s has no body", decl.Kind())
	}

	if fields := locator.FindFields(f, body); len(fields) > 0 {
		last := fields[len(fields)-1]
		offset, _ := afterLine(f, int(last.EndByte()))
		return InsertionPoint{
			Position:        AfterLastDeclarationOfKind,
			Offset:          offset,
			BreakLineBefore: true,
			BreakLineAfter:  true,
			Indent:          f.IndentAt(int(last.StartByte())),
		}, nil
	}

	if methods := locator.FindMethods(f, body); len(methods) > 0 {
		start := leadingCommentStart(f, methods[0])
		lineStart := f.LineStart(start)
		if lineStart > 0 && f.OnlyWhitespaceBefore(start) {
			return InsertionPoint{
				Position:        BeforeFirstDeclarationOfKind,
				Offset:          lineStart - 1,
				BreakLineBefore: true,
				BreakLineAfter:  true,
				Indent:          f.IndentAt(start),
			}, nil
		}
		// The method shares its line with other text, e.g. "{ void run() {} }"
		return InsertionPoint{
			Position:       BeforeFirstDeclarationOfKind,
			Offset:         start,
			BreakLineAfter: true,
			Indent:         f.IndentAt(start),
			TrailingIndent: f.IndentAt(start),
		}, nil
	}

	return endOfBodyPoint(f, decl, body, opts), nil
}

func endOfBodyPoint(f *parser.ParsedFile, decl, body *tree_sitter.Node, opts Options) InsertionPoint {
	closing := int(body.EndByte()) - 1
	declIndent := f.IndentAt(int(decl.StartByte()))

	if f.OnlyWhitespaceBefore(closing) && f.LineStart(closing) > int(body.StartByte()) {
		braceIndent := f.IndentAt(closing)
		return InsertionPoint{
			Position:        EndOfScopeBody,
			Offset:          f.LineStart(closing) - 1,
			BreakLineBefore: true,
			Indent:          braceIndent + opts.indentUnit(),
		}
	}

	// "{}" or "{ }" on the declaration line: open the body up
	return InsertionPoint{
		Position:        EndOfScopeBody,
		Offset:          closing,
		BreakLineBefore: true,
		BreakLineAfter:  true,
		Indent:          declIndent + opts.indentUnit(),
		TrailingIndent:  declIndent,
	}
}

// annotationPoint: before the first existing annotation, else directly above
// the declaration
func annotationPoint(f *parser.ParsedFile, decl *tree_sitter.Node) InsertionPoint {
	anchor := int(decl.StartByte())
	if annotations := locator.FindAnnotations(f, decl); len(annotations) > 0 {
		anchor = int(annotations[0].StartByte())
		return InsertionPoint{
			Position:       BeforeFirstDeclarationOfKind,
			Offset:         anchor,
			BreakLineAfter: true,
			Indent:         f.IndentAt(anchor),
			TrailingIndent: f.IndentAt(anchor),
		}
	}
	return InsertionPoint{
		Position:       AfterScopeHeader,
		Offset:         anchor,
		BreakLineAfter: true,
		Indent:         f.IndentAt(anchor),
		TrailingIndent: f.IndentAt(anchor),
	}
}

// afterLine returns the start of the line following end. When end sits on
// the last line and the file has no final newline, the offset is the end of
// the file and the caller must open a new line itself.
func afterLine(f *parser.ParsedFile, end int) (offset int, unterminated bool) {
	offset = f.NextLineStart(end)
	src := f.Source()
	return offset, offset == len(src) && (len(src) == 0 || src[len(src)-1] != '\n')
}

// leadingCommentStart walks back over comments that sit directly above a
// member so new text lands above its documentation, not between the two
func leadingCommentStart(f *parser.ParsedFile, member *tree_sitter.Node) int {
	start := int(member.StartByte())
	for prev := member.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Kind() != "line_comment" && prev.Kind() != "block_comment" {
			break
		}
		if blankLineBetween(f.Source(), int(prev.EndByte()), start) {
			break
		}
		start = int(prev.StartByte())
	}
	return start
}

func blankLineBetween(src []byte, from, to int) bool {
	if from >= to {
		return false
	}
	return strings.Count(string(src[from:to]), "\n") > 1
}

// Render builds the literal text to splice in at p. Each element of lines is
// one source line without indentation.
func Render(p InsertionPoint, lines []string) string {
	nl := p.lineBreak()
	var b strings.Builder
	if p.BreakLineBefore {
		b.WriteString(nl)
		if len(lines) > 0 {
			b.WriteString(p.Indent)
		}
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString(nl)
			b.WriteString(p.Indent)
		}
		b.WriteString(line)
	}
	if p.BreakLineAfter {
		b.WriteString(nl)
		b.WriteString(p.TrailingIndent)
	}
	return b.String()
}
