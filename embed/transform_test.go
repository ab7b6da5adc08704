package embed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

func youtubeRules(t *testing.T) *RuleSet {
	t.Helper()

	rs, err := NewRuleSet(Rule{
		Component:  "YouTube",
		Argument:   "id",
		Match:      YouTube,
		Directives: []string{"youtube", "yt"},
	})
	require.NoError(t, err)

	return rs
}

func render(t *testing.T, rules *RuleSet, source string, opts ...Option) string {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(New(rules, opts...)))
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte(source), &buf))
	return buf.String()
}

func TestBareURLParagraphIsReplaced(t *testing.T) {
	out := render(t, youtubeRules(t), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Equal(t, "<embed-component component=\"YouTube\" source=\"~/components\" id=\"dQw4w9WgXcQ\"></embed-component>\n", out)
}

func TestBareURLWithSurroundingWhitespace(t *testing.T) {
	out := render(t, youtubeRules(t), "  https://youtu.be/dQw4w9WgXcQ  ")
	assert.Contains(t, out, `id="dQw4w9WgXcQ"`)
	assert.NotContains(t, out, "<p>")
}

func TestLinkParagraphIsReplaced(t *testing.T) {
	out := render(t, youtubeRules(t), "[watch this](https://youtu.be/dQw4w9WgXcQ)")
	assert.Equal(t, "<embed-component component=\"YouTube\" source=\"~/components\" id=\"dQw4w9WgXcQ\"></embed-component>\n", out)
}

func TestAutoLinkParagraphIsReplaced(t *testing.T) {
	out := render(t, youtubeRules(t), "<https://youtu.be/dQw4w9WgXcQ>")
	assert.Contains(t, out, `id="dQw4w9WgXcQ"`)
	assert.NotContains(t, out, "<p>")
}

func TestLinkifiedURLIsReplaced(t *testing.T) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, New(youtubeRules(t))),
	)
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("https://youtu.be/dQw4w9WgXcQ"), &buf))
	assert.Contains(t, buf.String(), `id="dQw4w9WgXcQ"`)
	assert.NotContains(t, buf.String(), "<p>")
}

func TestURLInProseIsNotTouched(t *testing.T) {
	out := render(t, youtubeRules(t), "See https://www.youtube.com/watch?v=dQw4w9WgXcQ for details")
	assert.NotContains(t, out, "embed-component")
	assert.Contains(t, out, "<p>See")
}

func TestParagraphWithTwoLinksIsNotTouched(t *testing.T) {
	out := render(t, youtubeRules(t), "[a](https://youtu.be/dQw4w9WgXcQ) [b](https://youtu.be/dQw4w9WgXcQ)")
	assert.NotContains(t, out, "embed-component")
}

func TestLinkWithFormattedLabelIsNotTouched(t *testing.T) {
	out := render(t, youtubeRules(t), "[*watch*](https://youtu.be/dQw4w9WgXcQ)")
	assert.NotContains(t, out, "embed-component")
	assert.Contains(t, out, "<em>watch</em>")
}

func TestNonMatchingURLIsNotTouched(t *testing.T) {
	out := render(t, youtubeRules(t), "https://example.com/page")
	assert.NotContains(t, out, "embed-component")
	assert.Contains(t, out, "<p>")
}

func TestFirstMatchingRuleWins(t *testing.T) {
	rs, err := NewRuleSet(
		Rule{Component: "First", Match: AnyURL},
		Rule{Component: "Second", Match: AnyURL},
	)
	require.NoError(t, err)

	out := render(t, rs, "https://example.com/page")
	assert.Contains(t, out, `component="First"`)
	assert.NotContains(t, out, `component="Second"`)
}

func TestDirectiveIsReplacedInline(t *testing.T) {
	out := render(t, youtubeRules(t), "Watch :youtube[https://www.youtube.com/watch?v=dQw4w9WgXcQ] today")
	assert.Contains(t, out, "<p>Watch <embed-component")
	// The directive argument passes through verbatim, bypassing the matcher.
	assert.Contains(t, out, `id="https://www.youtube.com/watch?v=dQw4w9WgXcQ"`)
	assert.Contains(t, out, "</embed-component> today</p>")
}

func TestDirectiveAliasMatches(t *testing.T) {
	out := render(t, youtubeRules(t), ":yt[dQw4w9WgXcQ]")
	assert.Contains(t, out, `id="dQw4w9WgXcQ"`)
}

func TestUnknownDirectiveIsLeftAlone(t *testing.T) {
	out := render(t, youtubeRules(t), "A :vimeo[12345] directive")
	assert.NotContains(t, out, "embed-component")
	assert.Contains(t, out, ":vimeo[12345]")
}

func TestJSXFormat(t *testing.T) {
	out := render(t, youtubeRules(t), "https://youtu.be/dQw4w9WgXcQ", WithFormat(FormatJSX))
	assert.Equal(t, "<YouTube id=\"dQw4w9WgXcQ\" />\n", out)
}

func TestPropertyValueIsEscaped(t *testing.T) {
	rs, err := NewRuleSet(Rule{Component: "Card", Match: AnyURL})
	require.NoError(t, err)

	out := render(t, rs, "https://example.com/page?a=1&b=2")
	assert.Contains(t, out, `href="https://example.com/page?a=1&amp;b=2"`)
}

func TestImportsRegisteredPerDocument(t *testing.T) {
	rs, err := NewRuleSet(
		Rule{Component: "YouTube", Import: "~/embeds", Match: YouTube},
		Rule{Component: "Vimeo", Import: "~/embeds", Match: Vimeo},
	)
	require.NoError(t, err)

	md := goldmark.New(goldmark.WithExtensions(New(rs)))
	pc := parser.NewContext()
	var buf bytes.Buffer
	// No rule matches anything in this document; registration is still the
	// full rule set.
	require.NoError(t, md.Convert([]byte("plain text"), &buf, parser.WithContext(pc)))

	assert.Equal(t, []Import{
		{Component: "YouTube", Source: "~/embeds"},
		{Component: "Vimeo", Source: "~/embeds"},
	}, ImportsFromContext(pc))
}

func TestImportsFromContextWithoutTransform(t *testing.T) {
	assert.Nil(t, ImportsFromContext(parser.NewContext()))
}

func TestSecondTransformIsNoOp(t *testing.T) {
	rs := youtubeRules(t)
	source := []byte("https://youtu.be/dQw4w9WgXcQ\n\n:youtube[dQw4w9WgXcQ]\n")

	md := goldmark.New(goldmark.WithExtensions(New(rs)))

	var once bytes.Buffer
	require.NoError(t, md.Convert(source, &once))

	// Parse (which runs the transformer), then run it again by hand.
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)
	NewTransformer(rs).Transform(doc.(*ast.Document), reader, parser.NewContext())

	var twice bytes.Buffer
	require.NoError(t, md.Renderer().Render(&twice, source, doc))

	assert.Equal(t, once.String(), twice.String())
}

func TestDocumentOrderPreserved(t *testing.T) {
	rs := youtubeRules(t)
	source := "before\n\nhttps://youtu.be/aaaaaa111\n\nbetween\n\nhttps://youtu.be/bbbbbb222\n\nafter"

	out := render(t, rs, source)
	first := bytes.Index([]byte(out), []byte(`id="aaaaaa111"`))
	second := bytes.Index([]byte(out), []byte(`id="bbbbbb222"`))
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
	assert.Contains(t, out, "<p>before</p>")
	assert.Contains(t, out, "<p>between</p>")
	assert.Contains(t, out, "<p>after</p>")
}

func TestBareURLInsideBlockquote(t *testing.T) {
	out := render(t, youtubeRules(t), "> https://youtu.be/dQw4w9WgXcQ")
	assert.Contains(t, out, "<blockquote>")
	assert.Contains(t, out, `id="dQw4w9WgXcQ"`)
}
