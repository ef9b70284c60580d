// Package patch applies insertion edits to source text.
//
// All offsets in one call must come from the same unmodified source. Edits
// are applied back to front so that inserting at a later offset never moves
// an earlier one that has not been applied yet.
package patch

import (
	"slices"
	"strings"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// OpKind is the primitive an EditOperation performs
type OpKind uint8

const (
	// OpNone is a placeholder edit that changes nothing
	OpNone OpKind = iota
	// OpInsert splices Text in at Offset
	OpInsert
)

// EditOperation is a single insertion at a byte offset of the original source
type EditOperation struct {
	Offset int
	Kind   OpKind
	Text   string
}

// Insert builds an OpInsert edit
func Insert(offset int, text string) EditOperation {
	return EditOperation{Offset: offset, Kind: OpInsert, Text: text}
}

// PatchResult is the patched source plus the edits that changed it, reported
// with their original offsets in the order they were given
type PatchResult struct {
	Source  string
	Applied []EditOperation
	Success bool
}

// Apply splices edits into source. Edits sharing an offset keep their input
// order in the output. An offset outside [0, len(source)] is a defect in
// the caller and fails the whole patch with InvalidOffsetError; source is
// never partially patched.
func Apply(source string, edits []EditOperation) (PatchResult, error) {
	for _, e := range edits {
		if e.Offset < 0 || e.Offset > len(source) {
			debug.LogEdit("rejecting edit at %d for source of %d bytes\n", e.Offset, len(source))
			return PatchResult{Source: source}, coreerrors.NewInvalidOffsetError(e.Offset, len(source))
		}
	}

	type indexed struct {
		EditOperation
		order int
	}
	pending := make([]indexed, 0, len(edits))
	applied := make([]EditOperation, 0, len(edits))
	growth := 0
	for i, e := range edits {
		if e.Kind != OpInsert || e.Text == "" {
			continue
		}
		pending = append(pending, indexed{EditOperation: e, order: i})
		applied = append(applied, e)
		growth += len(e.Text)
	}

	// Descending offset; for equal offsets the later-listed edit goes in
	// first so the earlier-listed one ends up in front of it
	slices.SortStableFunc(pending, func(a, b indexed) int {
		if a.Offset != b.Offset {
			return b.Offset - a.Offset
		}
		return b.order - a.order
	})

	var out strings.Builder
	out.Grow(len(source) + growth)

	// Walking back to front and emitting front to back: collect the slices
	// between edits, then write them in source order
	segments := make([]string, 0, 2*len(pending)+1)
	end := len(source)
	for _, e := range pending {
		segments = append(segments, source[e.Offset:end], e.Text)
		end = e.Offset
	}
	segments = append(segments, source[:end])
	for i := len(segments) - 1; i >= 0; i-- {
		out.WriteString(segments[i])
	}

	debug.LogEdit("applied %d edits, %d -> %d bytes\n", len(applied), len(source), out.Len())
	return PatchResult{Source: out.String(), Applied: applied, Success: true}, nil
}
