package workspace

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeTree creates files (relative path -> content) under a temp root
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func open(t *testing.T, root string, opts Options) *Workspace {
	t.Helper()
	w, err := New(root, opts)
	require.NoError(t, err)
	return w
}

func TestNew(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x"})

	w := open(t, root, Options{})
	assert.Equal(t, root, w.Root())
	assert.Positive(t, w.opts.MaxWorkers)
	assert.EqualValues(t, DefaultMaxFileSize, w.opts.MaxFileSize)

	_, err := New(filepath.Join(root, "missing"), Options{})
	assert.Equal(t, coreerrors.ErrorTypeFile, coreerrors.KindOf(err))

	_, err = New(filepath.Join(root, "a.txt"), Options{})
	assert.Equal(t, coreerrors.ErrorTypeValidation, coreerrors.KindOf(err))

	_, err = New("", Options{})
	assert.Error(t, err)
}

func TestResolveRejectsEscapes(t *testing.T) {
	w := open(t, t.TempDir(), Options{})
	outside := writeTree(t, map[string]string{"Secret.java": "package evil;\n"})
	require.NoError(t, os.Mkdir(filepath.Join(w.Root(), "src"), 0o755))
	require.NoError(t, os.Symlink(outside, filepath.Join(w.Root(), "link")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "Secret.java"), filepath.Join(w.Root(), "src", "Secret.java")))
	require.NoError(t, os.Symlink(filepath.Join(w.Root(), "src"), filepath.Join(w.Root(), "alias")))

	tests := []struct {
		path string
		ok   bool
	}{
		{path: "src/Order.java", ok: true},
		{path: filepath.Join(w.Root(), "src", "Order.java"), ok: true},
		{path: "src/../Order.java", ok: true},
		{path: "../Order.java", ok: false},
		{path: "src/../../etc/passwd", ok: false},
		{path: "/etc/passwd", ok: false},
		{path: w.Root() + "-other/Order.java", ok: false},
		{path: "alias/Order.java", ok: true},
		{path: "link/Secret.java", ok: false},
		{path: "link/new/Order.java", ok: false},
		{path: "src/Secret.java", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			abs, err := w.Resolve(tt.path)
			if tt.ok {
				require.NoError(t, err)
				assert.True(t, filepath.IsAbs(abs))
				return
			}
			require.Error(t, err)
			assert.Equal(t, coreerrors.ErrorTypePathSecurity, coreerrors.KindOf(err))
		})
	}
}

const orderJava = "package com.shop.order;\n\n@Entity\npublic class Order {\n}\n"

func TestLoad(t *testing.T) {
	root := writeTree(t, map[string]string{"src/Order.java": orderJava})
	outside := writeTree(t, map[string]string{"Evil.java": orderJava})

	t.Run("disk path", func(t *testing.T) {
		w := open(t, root, Options{})
		src, err := w.Load(SourceRef{Path: "src/Order.java"})
		require.NoError(t, err)
		defer src.Close()
		assert.False(t, src.Buffer)
		assert.Equal(t, filepath.Join(root, "src", "Order.java"), src.Path)
		assert.Equal(t, orderJava, src.File.Text())
	})

	t.Run("disk path outside root is never read", func(t *testing.T) {
		w := open(t, root, Options{})
		_, err := w.Load(SourceRef{Path: filepath.Join(outside, "Evil.java")})
		assert.Equal(t, coreerrors.ErrorTypePathSecurity, coreerrors.KindOf(err))
	})

	t.Run("symlink out of the root is never read", func(t *testing.T) {
		linked := writeTree(t, map[string]string{"src/Order.java": orderJava})
		require.NoError(t, os.Symlink(outside, filepath.Join(linked, "link")))
		w := open(t, linked, Options{})
		_, err := w.Load(SourceRef{Path: "link/Evil.java"})
		assert.Equal(t, coreerrors.ErrorTypePathSecurity, coreerrors.KindOf(err))
	})

	t.Run("missing file", func(t *testing.T) {
		w := open(t, root, Options{})
		_, err := w.Load(SourceRef{Path: "src/Missing.java"})
		assert.Equal(t, coreerrors.ErrorTypeFile, coreerrors.KindOf(err))
	})

	t.Run("nothing to load", func(t *testing.T) {
		w := open(t, root, Options{})
		_, err := w.Load(SourceRef{})
		assert.Equal(t, coreerrors.ErrorTypeValidation, coreerrors.KindOf(err))
	})

	buffer := base64.StdEncoding.EncodeToString([]byte(orderJava + "// unsaved\n"))

	t.Run("buffer wins over disk", func(t *testing.T) {
		w := open(t, root, Options{})
		src, err := w.Load(SourceRef{Path: "src/Order.java", Buffer: buffer})
		require.NoError(t, err)
		defer src.Close()
		assert.True(t, src.Buffer)
		assert.Contains(t, src.File.Text(), "// unsaved")
		stem, ok := src.File.FileStem()
		assert.True(t, ok)
		assert.Equal(t, "Order", stem)
	})

	t.Run("buffer path outside root is trusted by default", func(t *testing.T) {
		w := open(t, root, Options{})
		src, err := w.Load(SourceRef{Path: "/elsewhere/Order.java", Buffer: buffer})
		require.NoError(t, err)
		src.Close()
	})

	t.Run("buffer path checked when configured", func(t *testing.T) {
		w := open(t, root, Options{ValidateBufferPaths: true})
		_, err := w.Load(SourceRef{Path: "/elsewhere/Order.java", Buffer: buffer})
		assert.Equal(t, coreerrors.ErrorTypePathSecurity, coreerrors.KindOf(err))
	})

	t.Run("bad buffer", func(t *testing.T) {
		w := open(t, root, Options{})
		_, err := w.Load(SourceRef{Buffer: "not base64!"})
		assert.Equal(t, coreerrors.ErrorTypeParse, coreerrors.KindOf(err))
	})
}

func TestWriteFile(t *testing.T) {
	root := writeTree(t, map[string]string{"src/Order.java": orderJava})
	w := open(t, root, Options{})
	ctx := context.Background()

	require.NoError(t, w.WriteFile(ctx, "src/Order.java", []byte("package x;\n")))
	content, err := os.ReadFile(filepath.Join(root, "src", "Order.java"))
	require.NoError(t, err)
	assert.Equal(t, "package x;\n", string(content))

	entries, err := os.ReadDir(filepath.Join(root, "src"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	err = w.WriteFile(ctx, "../Order.java", []byte("x"))
	assert.Equal(t, coreerrors.ErrorTypePathSecurity, coreerrors.KindOf(err))

	outside := writeTree(t, map[string]string{"Order.java": orderJava})
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))
	err = w.WriteFile(ctx, "link/Order.java", []byte("x"))
	assert.Equal(t, coreerrors.ErrorTypePathSecurity, coreerrors.KindOf(err))
	content, err = os.ReadFile(filepath.Join(outside, "Order.java"))
	require.NoError(t, err)
	assert.Equal(t, orderJava, string(content))

	readOnly := filepath.Join(root, "src", "Order.java")
	require.NoError(t, os.Chmod(readOnly, 0o444))
	err = w.WriteFile(ctx, "src/Order.java", []byte("changed"))
	assert.Equal(t, coreerrors.ErrorTypePermission, coreerrors.KindOf(err))
	content, _ = os.ReadFile(readOnly)
	assert.Equal(t, "package x;\n", string(content))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, w.WriteFile(cancelled, "src/Other.java", []byte("x")), context.Canceled)
}

func TestCreateFile(t *testing.T) {
	root := t.TempDir()
	w := open(t, root, Options{})
	ctx := context.Background()

	require.NoError(t, w.CreateFile(ctx, "src/main/java/com/shop/Order.java", []byte(orderJava)))
	content, err := os.ReadFile(filepath.Join(root, "src", "main", "java", "com", "shop", "Order.java"))
	require.NoError(t, err)
	assert.Equal(t, orderJava, string(content))

	err = w.CreateFile(ctx, "src/main/java/com/shop/Order.java", []byte("again"))
	require.Error(t, err)
	assert.Equal(t, coreerrors.ErrorTypeFile, coreerrors.KindOf(err))
}

func TestValidator(t *testing.T) {
	large := bytes.Repeat([]byte("    // padding\n"), 10)
	root := writeTree(t, map[string]string{
		"Small.java":  "x",
		"Big.java":    "package a;\n" + string(large),
		"Binary.java": string(bytes.Repeat([]byte{0, 1, 2, 3}, 64)),
		"Class.java":  string(append([]byte{0xCA, 0xFE, 0xBA, 0xBE}, large...)),
		"Prose.java":  string(bytes.Repeat([]byte("lorem ipsum\n"), 20)),
	})
	fv := NewFileValidator(32, 1024)

	assert.NoError(t, fv.Validate(filepath.Join(root, "Small.java")))
	assert.NoError(t, fv.Validate(filepath.Join(root, "Big.java")))
	assert.ErrorContains(t, fv.Validate(filepath.Join(root, "Binary.java")), "binary")
	assert.ErrorContains(t, fv.Validate(filepath.Join(root, "Class.java")), "class file")
	assert.ErrorContains(t, fv.Validate(filepath.Join(root, "Prose.java")), "no Java constructs")
	assert.ErrorContains(t, NewFileValidator(32, 16).Validate(filepath.Join(root, "Big.java")), "exceeds")
	assert.Error(t, fv.Validate(root))
}
