package insertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/syntaxpresso/core/internal/locator"
	"github.com/syntaxpresso/core/internal/parser"
)

func parse(t *testing.T, src string) *parser.ParsedFile {
	t.Helper()
	f, err := parser.ParseNamed("Order.java", []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func classDecl(t *testing.T, f *parser.ParsedFile) *tree_sitter.Node {
	t.Helper()
	decl := locator.FindPublicTypeDeclaration(f, locator.KindClass)
	require.NotNil(t, decl)
	return decl
}

func splice(src string, p InsertionPoint, lines ...string) string {
	return src[:p.Offset] + Render(p, lines) + src[p.Offset:]
}

func TestImportAfterLastImport(t *testing.T) {
	src := `package com.shop.order;

import java.util.List;
import jakarta.persistence.Entity;

public class Order {}
`
	f := parse(t, src)
	p, err := Calculate(f, nil, EditImport)
	require.NoError(t, err)
	assert.Equal(t, AfterLastDeclarationOfKind, p.Position)
	assert.False(t, p.BreakLineBefore)
	assert.True(t, p.BreakLineAfter)

	want := `package com.shop.order;

import java.util.List;
import jakarta.persistence.Entity;
import jakarta.persistence.Column;

public class Order {}
`
	assert.Equal(t, want, splice(src, p, "import jakarta.persistence.Column;"))
}

func TestImportAfterPackage(t *testing.T) {
	src := "package com.shop.order;\n\npublic class Order {}\n"
	f := parse(t, src)

	p, err := Calculate(f, nil, EditImport)
	require.NoError(t, err)
	assert.Equal(t, AfterScopeHeader, p.Position)

	want := "package com.shop.order;\n\nimport java.util.List;\n\npublic class Order {}\n"
	assert.Equal(t, want, splice(src, p, "import java.util.List;"))
}

func TestImportAtFileStart(t *testing.T) {
	src := "public class Order {}\n"
	f := parse(t, src)

	p, err := Calculate(f, nil, EditImport)
	require.NoError(t, err)
	assert.Equal(t, BeforeFirstDeclarationOfKind, p.Position)
	assert.Equal(t, 0, p.Offset)

	assert.Equal(t, "import java.util.List;\npublic class Order {}\n", splice(src, p, "import java.util.List;"))
}

func TestImportAfterUnterminatedLastLine(t *testing.T) {
	src := "package p;\nimport java.util.List;"
	f := parse(t, src)

	p, err := Calculate(f, nil, EditImport)
	require.NoError(t, err)
	assert.True(t, p.BreakLineBefore)
	assert.Equal(t, src+"\nimport java.util.Set;\n", splice(src, p, "import java.util.Set;"))
}

func TestFieldIntoEmptyBody(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "brace on own line",
			src:  "public class Order {\n}\n",
			want: "public class Order {\n    private Integer totalCents;\n}\n",
		},
		{
			name: "braces on declaration line",
			src:  "public class Order {}\n",
			want: "public class Order {\n    private Integer totalCents;\n}\n",
		},
		{
			name: "nested indentation is kept",
			src:  "public class Order {\n  }\n",
			want: "public class Order {\n      private Integer totalCents;\n  }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)
			p, err := Calculate(f, classDecl(t, f), EditField)
			require.NoError(t, err)
			assert.Equal(t, EndOfScopeBody, p.Position)

			out := splice(tt.src, p, "private Integer totalCents;")
			assert.Equal(t, tt.want, out)

			g := parse(t, out)
			assert.False(t, g.HasSyntaxErrors())
			body := locator.TypeBody(classDecl(t, g))
			assert.Equal(t, []string{"totalCents"}, locator.FieldNames(g, body))
		})
	}
}

func TestFieldAfterLastField(t *testing.T) {
	src := `public class Order {
    private Long id;
    private String code;
}
`
	f := parse(t, src)
	p, err := Calculate(f, classDecl(t, f), EditField)
	require.NoError(t, err)
	assert.Equal(t, AfterLastDeclarationOfKind, p.Position)
	assert.Equal(t, "    ", p.Indent)

	out := splice(src, p, "@Column(name = \"total_cents\")", "private Integer totalCents;")
	want := `public class Order {
    private Long id;
    private String code;

    @Column(name = "total_cents")
    private Integer totalCents;
}
`
	assert.Equal(t, want, out)
}

func TestFieldInsertionIsRepeatable(t *testing.T) {
	src := "public class Order {\n    private Long id;\n}\n"

	for n := 1; n <= 3; n++ {
		f := parse(t, src)
		decl := classDecl(t, f)
		require.Len(t, locator.FindFields(f, locator.TypeBody(decl)), n)

		p, err := Calculate(f, decl, EditField)
		require.NoError(t, err)
		require.Equal(t, AfterLastDeclarationOfKind, p.Position)

		fields := locator.FindFields(f, locator.TypeBody(decl))
		assert.Greater(t, p.Offset, int(fields[n-1].EndByte()))

		src = splice(src, p, "private int extra"+string(rune('A'+n))+";")
	}

	f := parse(t, src)
	assert.Len(t, locator.FindFields(f, locator.TypeBody(classDecl(t, f))), 4)
}

func TestFieldBeforeFirstMethod(t *testing.T) {
	src := `public class Order {
    /** Creates an order. */
    public Order() {
    }

    public void close() {
    }
}
`
	f := parse(t, src)
	p, err := Calculate(f, classDecl(t, f), EditField)
	require.NoError(t, err)
	assert.Equal(t, BeforeFirstDeclarationOfKind, p.Position)

	want := `public class Order {
    private Integer totalCents;

    /** Creates an order. */
    public Order() {
    }

    public void close() {
    }
}
`
	assert.Equal(t, want, splice(src, p, "private Integer totalCents;"))
}

func TestFieldIgnoresNestedTypes(t *testing.T) {
	src := `public class Order {
    static class Line {
        private String sku;
    }
}
`
	f := parse(t, src)
	p, err := Calculate(f, classDecl(t, f), EditField)
	require.NoError(t, err)
	assert.Equal(t, EndOfScopeBody, p.Position)
}

func TestAnnotationPoints(t *testing.T) {
	t.Run("before existing annotations", func(t *testing.T) {
		src := "package p;\n\n@Table(name = \"orders\")\npublic class Order {}\n"
		f := parse(t, src)
		p, err := Calculate(f, classDecl(t, f), EditAnnotation)
		require.NoError(t, err)
		assert.Equal(t, BeforeFirstDeclarationOfKind, p.Position)

		want := "package p;\n\n@Entity\n@Table(name = \"orders\")\npublic class Order {}\n"
		assert.Equal(t, want, splice(src, p, "@Entity"))
	})

	t.Run("above bare declaration", func(t *testing.T) {
		src := "package p;\n\npublic class Order {}\n"
		f := parse(t, src)
		p, err := Calculate(f, classDecl(t, f), EditAnnotation)
		require.NoError(t, err)

		want := "package p;\n\n@Entity\n@Table(name = \"orders\")\npublic class Order {}\n"
		assert.Equal(t, want, splice(src, p, "@Entity", "@Table(name = \"orders\")"))
	})

	t.Run("indented field declaration", func(t *testing.T) {
		src := "public class Order {\n    private Long id;\n}\n"
		f := parse(t, src)
		field := locator.FindFields(f, locator.TypeBody(classDecl(t, f)))[0]
		p, err := Calculate(f, field, EditAnnotation)
		require.NoError(t, err)

		want := "public class Order {\n    @Id\n    private Long id;\n}\n"
		assert.Equal(t, want, splice(src, p, "@Id"))
	})
}

func TestCalculateRejectsMissingScope(t *testing.T) {
	f := parse(t, "public class Order {}\n")

	_, err := Calculate(f, nil, EditField)
	assert.Error(t, err)
	_, err = Calculate(f, nil, EditAnnotation)
	assert.Error(t, err)
	_, err = Calculate(f, nil, EditKind(42))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		point InsertionPoint
		lines []string
		want  string
	}{
		{"no breaks", InsertionPoint{}, []string{"a"}, "a"},
		{"break after", InsertionPoint{BreakLineAfter: true}, []string{"a", "b"}, "a\nb\n"},
		{
			"indented block",
			InsertionPoint{BreakLineBefore: true, BreakLineAfter: true, Indent: "  ", TrailingIndent: "\t"},
			[]string{"a", "b"},
			"\n  a\n  b\n\t",
		},
		{"break only", InsertionPoint{BreakLineBefore: true, Indent: "  "}, nil, "\n"},
		{
			"crlf",
			InsertionPoint{BreakLineBefore: true, BreakLineAfter: true, Indent: "  ", LineBreak: "\r\n"},
			[]string{"a", "b"},
			"\r\n  a\r\n  b\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.point, tt.lines))
		})
	}
}

func TestLineBreakFollowsSource(t *testing.T) {
	src := "package com.shop.order;\r\n\r\nimport java.util.List;\r\n\r\npublic class Order {\r\n    private Long id;\r\n}\r\n"
	f := parse(t, src)

	p, err := Calculate(f, nil, EditImport)
	require.NoError(t, err)
	assert.Equal(t, "\r\n", p.LineBreak)
	assert.Equal(t,
		"package com.shop.order;\r\n\r\nimport java.util.List;\r\nimport java.util.Set;\r\n\r\npublic class Order {\r\n    private Long id;\r\n}\r\n",
		splice(src, p, "import java.util.Set;"))

	p, err = Calculate(parse(t, "public class Order {}\n"), nil, EditImport)
	require.NoError(t, err)
	assert.Equal(t, "\n", p.LineBreak)
}

func TestEditKindString(t *testing.T) {
	assert.Equal(t, "import", EditImport.String())
	assert.Equal(t, "field", EditField.String())
	assert.Equal(t, "annotation", EditAnnotation.String())
	assert.Equal(t, "EditKind(9)", EditKind(9).String())
}
