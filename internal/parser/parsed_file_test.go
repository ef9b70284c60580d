package parser

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

const orderSource = `package com.shop.order;

import jakarta.persistence.Entity;

@Entity
public class Order {
    private Long id;
}
`

func TestParseNamed(t *testing.T) {
	f, err := ParseNamed("src/main/java/com/shop/order/Order.java", []byte(orderSource))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "program", f.Root().Kind())
	assert.False(t, f.HasSyntaxErrors())
	assert.Equal(t, orderSource, f.Text())
	assert.Equal(t, len(orderSource), f.Len())
	assert.Len(t, f.HashString(), 16)

	stem, ok := f.FileStem()
	require.True(t, ok)
	assert.Equal(t, "Order", stem)
}

func TestParseRejectsEmptySource(t *testing.T) {
	for _, src := range []string{"", "   \n\t  "} {
		_, err := Parse([]byte(src))
		require.Error(t, err)
		assert.Equal(t, coreerrors.ErrorTypeParse, coreerrors.KindOf(err))
	}
}

func TestParseToleratesMalformedJava(t *testing.T) {
	f, err := Parse([]byte("public class Broken { private int x = ; }"))
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, f.HasSyntaxErrors())
}

func TestParseCopiesBuffer(t *testing.T) {
	src := []byte(orderSource)
	f, err := Parse(src)
	require.NoError(t, err)
	defer f.Close()

	src[0] = 'X'
	assert.Equal(t, orderSource, f.Text())
}

func TestParseEncoded(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(orderSource))

	f, err := ParseEncoded("Order.java", encoded)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, orderSource, f.Text())

	_, err = ParseEncoded("Order.java", "%%%not-base64%%%")
	require.Error(t, err)
	assert.Equal(t, coreerrors.ErrorTypeParse, coreerrors.KindOf(err))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Order.java")
	require.NoError(t, os.WriteFile(path, []byte(orderSource), 0o644))

	f, err := ParseFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.Path())

	_, err = ParseFile(filepath.Join(dir, "Missing.java"))
	require.Error(t, err)
	assert.Equal(t, coreerrors.ErrorTypeFile, coreerrors.KindOf(err))
}

func TestReparseProducesNewFile(t *testing.T) {
	f, err := ParseNamed("Order.java", []byte(orderSource))
	require.NoError(t, err)
	defer f.Close()

	edited := orderSource + "\n// trailing\n"
	g, err := f.Reparse([]byte(edited))
	require.NoError(t, err)
	defer g.Close()

	assert.Equal(t, "Order.java", g.Path())
	assert.Equal(t, orderSource, f.Text())
	assert.NotEqual(t, f.Hash(), g.Hash())
}

func TestFileStemWithoutPath(t *testing.T) {
	f, err := Parse([]byte(orderSource))
	require.NoError(t, err)
	defer f.Close()

	_, ok := f.FileStem()
	assert.False(t, ok)
}

func TestLineHelpers(t *testing.T) {
	f, err := Parse([]byte(orderSource))
	require.NoError(t, err)
	defer f.Close()

	src := f.Text()
	fieldAt := strings.Index(src, "private Long id;")
	require.Positive(t, fieldAt)

	assert.Equal(t, fieldAt-4, f.LineStart(fieldAt))
	assert.Equal(t, "    ", f.IndentAt(fieldAt))
	assert.True(t, f.OnlyWhitespaceBefore(fieldAt))
	assert.False(t, f.OnlyWhitespaceBefore(fieldAt+8))

	next := f.NextLineStart(fieldAt)
	assert.Equal(t, "}\n", src[next:])
	assert.Equal(t, f.Len(), f.NextLineStart(f.Len()))
	assert.Equal(t, 0, f.LineStart(0))
}
