package parser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// JavaExtension is the only extension this parser handles
const JavaExtension = ".java"

// javaLanguage is loaded once; *tree_sitter.Language is immutable and safe to share
var javaLanguage = sync.OnceValue(func() *tree_sitter.Language {
	return tree_sitter.NewLanguage(tree_sitter_java.Language())
})

// Parsers are not safe for concurrent use, so each request borrows one from the pool
var parserPool = sync.Pool{
	New: func() any {
		p := tree_sitter.NewParser()
		if err := p.SetLanguage(javaLanguage()); err != nil {
			debug.CatastrophicError("failed to set Java language: %v", err)
			return nil
		}
		return p
	},
}

// ParsedFile owns a Java file's source bytes and its syntax tree.
// It is never mutated after construction: an edit produces a new ParsedFile
// through Reparse because offsets captured before an edit are stale afterwards.
type ParsedFile struct {
	path   string
	source []byte
	tree   *tree_sitter.Tree
	hash   uint64
}

// Parse parses an in-memory Java source that has no file path
func Parse(source []byte) (*ParsedFile, error) {
	return ParseNamed("", source)
}

// ParseNamed parses source and remembers path for stem-based name resolution.
// The grammar is error tolerant, so malformed Java still yields a tree; only
// empty input or a missing tree is a ParseError.
func ParseNamed(path string, source []byte) (f *ParsedFile, err error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, coreerrors.NewParseError(path, "source is empty", nil)
	}

	p, _ := parserPool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, coreerrors.NewParseError(path, "java grammar unavailable", nil)
	}
	defer parserPool.Put(p)

	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("TREE-SITTER PANIC in %s: %v\n", path, r)
			f = nil
			err = coreerrors.NewParseError(path, "parser panicked", fmt.Errorf("%v", r))
		}
	}()

	// The tree references the buffer it was parsed from; keep a private copy
	buffer := make([]byte, len(source))
	copy(buffer, source)

	tree := p.Parse(buffer, nil)
	if tree == nil {
		return nil, coreerrors.NewParseError(path, "grammar produced no tree", nil)
	}
	if tree.RootNode().NamedChildCount() == 0 {
		tree.Close()
		return nil, coreerrors.NewParseError(path, "source contains no Java constructs", nil)
	}

	f = &ParsedFile{
		path:   path,
		source: buffer,
		tree:   tree,
		hash:   xxhash.Sum64(buffer),
	}
	debug.LogParse("parsed %s (%d bytes, errors=%t)\n", f.displayName(), len(buffer), f.HasSyntaxErrors())
	return f, nil
}

// ParseEncoded parses a base64-encoded editor buffer. path only identifies
// the buffer and is never read.
func ParseEncoded(path, encoded string) (*ParsedFile, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, coreerrors.NewParseError(path, "buffer is not valid base64", err)
	}
	return ParseNamed(path, decoded)
}

// ParseFile reads path from disk and parses it
func ParseFile(path string) (*ParsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, coreerrors.NewFileError("read", path, err)
	}
	return ParseNamed(path, content)
}

// Reparse builds a new ParsedFile for the same path from edited source
func (f *ParsedFile) Reparse(source []byte) (*ParsedFile, error) {
	return ParseNamed(f.path, source)
}

// Close releases the syntax tree
func (f *ParsedFile) Close() {
	if f != nil && f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Path returns the file path, or "" for an anonymous buffer
func (f *ParsedFile) Path() string { return f.path }

// Source returns the bytes the tree was built from. Callers must not modify it.
func (f *ParsedFile) Source() []byte { return f.source }

// Text returns the source as a string
func (f *ParsedFile) Text() string { return string(f.source) }

// Len returns the source length in bytes
func (f *ParsedFile) Len() int { return len(f.source) }

// Hash returns the xxhash of the source so callers can detect stale buffers
func (f *ParsedFile) Hash() uint64 { return f.hash }

// HashString returns Hash formatted as fixed-width hex
func (f *ParsedFile) HashString() string { return fmt.Sprintf("%016x", f.hash) }

// Root returns the program node
func (f *ParsedFile) Root() *tree_sitter.Node { return f.tree.RootNode() }

// HasSyntaxErrors reports whether the tolerant parse recovered from errors
func (f *ParsedFile) HasSyntaxErrors() bool { return f.tree.RootNode().HasError() }

// TextOf slices the source by the node's byte range
func (f *ParsedFile) TextOf(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.source[n.StartByte():n.EndByte()])
}

// FileStem derives the logical type name from the file name.
// A public Java type is named after its file.
func (f *ParsedFile) FileStem() (string, bool) {
	if f.path == "" {
		return "", false
	}
	base := filepath.Base(f.path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		return "", false
	}
	return stem, true
}

func (f *ParsedFile) displayName() string {
	if f.path == "" {
		return "<buffer>"
	}
	return f.path
}

// LineStart returns the offset of the first byte of the line containing offset
func (f *ParsedFile) LineStart(offset int) int {
	if offset > len(f.source) {
		offset = len(f.source)
	}
	return bytes.LastIndexByte(f.source[:offset], '\n') + 1
}

// NextLineStart returns the offset just past the first line break at or after
// offset, or the end of the source when there is none.
func (f *ParsedFile) NextLineStart(offset int) int {
	if offset >= len(f.source) {
		return len(f.source)
	}
	idx := bytes.IndexByte(f.source[offset:], '\n')
	if idx < 0 {
		return len(f.source)
	}
	return offset + idx + 1
}

// IndentAt returns the leading whitespace of the line containing offset
func (f *ParsedFile) IndentAt(offset int) string {
	start := f.LineStart(offset)
	end := start
	for end < len(f.source) && (f.source[end] == ' ' || f.source[end] == '\t') {
		end++
	}
	return string(f.source[start:end])
}

// OnlyWhitespaceBefore reports whether offset is preceded on its line by
// whitespace only
func (f *ParsedFile) OnlyWhitespaceBefore(offset int) bool {
	start := f.LineStart(offset)
	return len(bytes.TrimSpace(f.source[start:offset])) == 0
}
