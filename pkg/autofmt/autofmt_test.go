package autofmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flisky/dioxus/pkg/rsx"
)

func TestFormatBlock(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "element with attribute and text child",
			source: `div { class: "box", "hi" }`,
			want: `div {
    class: "box",
    "hi"
}
`,
		},
		{
			name:   "empty body keeps the two-line brace shape",
			source: `div {}`,
			want: `div {
}
`,
		},
		{
			name:   "attribute order is preserved",
			source: `input { name: "q", class: "field", id: "search" }`,
			want: `input {
    name: "q",
    class: "field",
    id: "search",
}
`,
		},
		{
			name:   "key renders first with a comma before attributes",
			source: `li { class: "row", key: "item-1" }`,
			want: `li {
    key: "item-1",
    class: "row",
}
`,
		},
		{
			name:   "key alone has no trailing comma",
			source: `li { key: "item-1" }`,
			want: `li {
    key: "item-1"
}
`,
		},
		{
			name:   "key followed only by meta attributes has no trailing comma",
			source: `li { key: "item-1", #[note] }`,
			want: `li {
    key: "item-1"
}
`,
		},
		{
			name: "nested children indent one level per depth",
			source: `ul { li { "a" } li { span { "b" } } }`,
			want: `ul {
    li {
        "a"
    }
    li {
        span {
            "b"
        }
    }
}
`,
		},
		{
			name:   "dynamic expression renders canonically on one line",
			source: `div { width: size*2 }`,
			want: `div {
    width: size * 2,
}
`,
		},
		{
			name:   "single-line event handler still gets a trailing comma",
			source: `button { onclick: submit }`,
			want: `button {
    onclick: submit,
}
`,
		},
		{
			name: "multi-line event handler is re-based to the attribute depth",
			source: `button {
    onclick: func() {
        save()
    },
}
`,
			want: `button {
    onclick: func() {
        save()
    },
}
`,
		},
		{
			name:   "component fields then spread then children",
			source: `Counter { label: "Clicks", count: initial, ..rest, div { "inner" } }`,
			want: `Counter {
    label: "Clicks",
    count: initial,
    ..rest
    div {
        "inner"
    }
}
`,
		},
		{
			name:   "meta attribute contributes no output",
			source: `div { #[serde] class: "a" }`,
			want: `div {
    class: "a",
}
`,
		},
		{
			name:   "meta node renders its literal form",
			source: `#[deprecated]`,
			want: `#[deprecated]
`,
		},
		{
			name:   "escapes in literals survive untouched",
			source: `div { title: "say \"hi\"" }`,
			want: `div {
    title: "say \"hi\"",
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatBlock(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Formatting already-formatted output must change nothing.
func TestFormatBlockIdempotent(t *testing.T) {
	sources := []string{
		`div { class: "box", "hi" }`,
		`li { key: "1", class: "row", onclick: func() {
			choose(1)
			highlight(1)
		} }`,
		`Dialog { title: "Hello", width: w + 2*pad, ..defaults, p { "body" } }`,
		`ul { li { "a" } li { "b" } #[note] }`,
		`li { key: "item-1", #[note] }`,
		`div { {count} "after" }`,
	}

	for _, source := range sources {
		first, err := FormatBlock(source)
		require.NoError(t, err, "source: %s", source)

		second, err := FormatBlock(first)
		require.NoError(t, err, "formatted: %s", first)
		assert.Equal(t, first, second, "source: %s", source)
	}
}

// Raw expression children deliberately emit nothing. Pinned here so a
// change to that behavior is a conscious one.
func TestRawExprChildrenEmitNothing(t *testing.T) {
	got, err := FormatBlock(`div { {itemCount} }`)
	require.NoError(t, err)
	assert.Equal(t, "div {\n}\n", got)
}

func TestFormatUnsupportedConstruct(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"custom static attribute", `div { "data-id": "42" }`},
		{"custom dynamic attribute", `div { "data-id": id }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatBlock(tt.source)
			require.Error(t, err)

			var uerr *UnsupportedError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, "data-id", uerr.Name)
		})
	}
}

func TestFormatBlockParseFailure(t *testing.T) {
	_, err := FormatBlock(`div { class: `)
	require.Error(t, err)

	var perr *rsx.ParseError
	assert.ErrorAs(t, err, &perr)
}

// stubRenderer returns a fixed rendering regardless of input, letting the
// re-indentation rule be tested in isolation from the Go renderer.
type stubRenderer struct {
	out string
}

func (s stubRenderer) Render(string) (string, error) {
	return s.out, nil
}

func TestMultilineReindentation(t *testing.T) {
	f := New()
	f.Expr = stubRenderer{out: "foo(\n  bar,\n)"}

	got, err := f.FormatBlock(`div { width: x }`)
	require.NoError(t, err)

	// The first rendered line follows the name; every further line is
	// shifted to the attribute's depth with its own indentation kept.
	want := `div {
    width: foo(
      bar,
    ),
}
`
	assert.Equal(t, want, got)
}

func TestSpreadMultiline(t *testing.T) {
	f := New()
	f.Expr = stubRenderer{out: "merge(\n  a,\n  b,\n)"}

	got, err := f.FormatBlock(`Dialog { ..props }`)
	require.NoError(t, err)

	// Spread keeps the handler splitting rule but takes no name and no
	// trailing comma.
	want := `Dialog {
    ..merge(
      a,
      b,
    )
}
`
	assert.Equal(t, want, got)
}

func TestIndentWidthOption(t *testing.T) {
	f := New()
	f.IndentWidth = 2

	got, err := f.FormatBlock(`div { span { "x" } }`)
	require.NoError(t, err)
	assert.Equal(t, "div {\n  span {\n    \"x\"\n  }\n}\n", got)
}

func TestFormatBaseIndent(t *testing.T) {
	nodes, err := rsx.Parse("", `div { "hi" }`)
	require.NoError(t, err)

	got, err := New().Format(nodes, 1)
	require.NoError(t, err)
	assert.Equal(t, "    div {\n        \"hi\"\n    }\n", got)
}

// failWriter fails after a fixed byte budget.
type failWriter struct {
	budget int
}

var errSinkFull = errors.New("sink full")

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) > w.budget {
		n := w.budget
		w.budget = 0
		return n, errSinkFull
	}
	w.budget -= len(p)
	return len(p), nil
}

func TestFprintWriteFailure(t *testing.T) {
	nodes, err := rsx.Parse("", `div { class: "box" }`)
	require.NoError(t, err)

	err = New().Fprint(&failWriter{budget: 8}, nodes, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSinkFull)
}

func TestGoRendererDeterministic(t *testing.T) {
	r := GoRenderer{IndentWidth: 4}

	first, err := r.Render("func() {\n  a()\n  b()\n}")
	require.NoError(t, err)
	second, err := r.Render("func() {\n  a()\n  b()\n}")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Indentation is recomputed, so the rendering starts at column zero
	// and uses the configured width.
	assert.Equal(t, "func() {\n    a()\n    b()\n}", first)
}

func TestGoRendererInvalidExpression(t *testing.T) {
	_, err := GoRenderer{}.Render("func() {")
	require.Error(t, err)
}

func BenchmarkFormatBlock(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("section {\n")
	for i := 0; i < 50; i++ {
		sb.WriteString(`    article { class: "card", h1 { "title" } p { "body text" } }` + "\n")
	}
	sb.WriteString("}\n")
	source := sb.String()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := FormatBlock(source); err != nil {
			b.Fatal(err)
		}
	}
}
