package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/parser"
)

const source = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJ"

func TestApplyIsOrderIndependent(t *testing.T) {
	first := []EditOperation{Insert(10, "<ten>"), Insert(40, "<forty>")}
	second := []EditOperation{Insert(40, "<forty>"), Insert(10, "<ten>")}

	a, err := Apply(source, first)
	require.NoError(t, err)
	b, err := Apply(source, second)
	require.NoError(t, err)

	assert.Equal(t, a.Source, b.Source)
	assert.Equal(t, source[:10]+"<ten>"+source[10:40]+"<forty>"+source[40:], a.Source)
	assert.True(t, a.Success)
}

func TestApplyReportsOriginalOffsets(t *testing.T) {
	edits := []EditOperation{Insert(40, "X"), {Offset: 5, Kind: OpNone}, Insert(10, "Y")}

	res, err := Apply(source, edits)
	require.NoError(t, err)
	require.Len(t, res.Applied, 2)
	assert.Equal(t, 40, res.Applied[0].Offset)
	assert.Equal(t, 10, res.Applied[1].Offset)
}

func TestApplySameOffsetKeepsInputOrder(t *testing.T) {
	res, err := Apply("ab", []EditOperation{Insert(1, "1"), Insert(1, "2"), Insert(1, "3")})
	require.NoError(t, err)
	assert.Equal(t, "a123b", res.Source)
}

func TestApplyBoundaries(t *testing.T) {
	res, err := Apply("body", []EditOperation{Insert(0, "<"), Insert(4, ">")})
	require.NoError(t, err)
	assert.Equal(t, "<body>", res.Source)
}

func TestApplyNoEdits(t *testing.T) {
	res, err := Apply(source, nil)
	require.NoError(t, err)
	assert.Equal(t, source, res.Source)
	assert.Empty(t, res.Applied)
	assert.True(t, res.Success)
}

func TestApplyInvalidOffset(t *testing.T) {
	for _, offset := range []int{-1, len(source) + 1} {
		res, err := Apply(source, []EditOperation{Insert(3, "ok"), Insert(offset, "bad")})
		require.Error(t, err)
		assert.Equal(t, coreerrors.ErrorTypeInvalidOffset, coreerrors.KindOf(err))
		assert.False(t, res.Success)
		assert.Equal(t, source, res.Source, "source is never partially patched")
	}
}

func TestApplyInsertsNoExtraWhitespace(t *testing.T) {
	res, err := Apply("a\n  b", []EditOperation{Insert(2, "x")})
	require.NoError(t, err)
	assert.Equal(t, "a\nx  b", res.Source)
}

func TestPatchedJavaStillParses(t *testing.T) {
	src := "package p;\n\npublic class Order {\n}\n"
	importAt := strings.Index(src, "\npublic")
	fieldAt := strings.Index(src, "\n}")

	res, err := Apply(src, []EditOperation{
		Insert(fieldAt, "\n    private Integer totalCents;"),
		Insert(importAt, "\nimport java.util.List;\n"),
	})
	require.NoError(t, err)

	f, err := parser.Parse([]byte(res.Source))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, f.HasSyntaxErrors())
	assert.Contains(t, res.Source, "import java.util.List;\n\npublic class Order {\n    private Integer totalCents;\n}")
}
