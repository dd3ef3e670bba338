package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCitations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"function style",
			"Approved in 2001. Citation: turn0search1(ema.europa.eu) More text.",
			"Approved in 2001.  More text.",
		},
		{
			"bracket reference",
			"See the EPAR [web reference #42] for details.",
			"See the EPAR  for details.",
		},
		{
			"dotted bracket reference",
			"Guidance text [turn0.search2#7] continues.",
			"Guidance text  continues.",
		},
		{"untouched", "Plain text with [brackets] and (parens).", "Plain text with [brackets] and (parens)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCitations(tt.in)
			assert.Equal(t, tt.want, got)
			// Re-scanning the cleaned text finds no remaining matches.
			assert.Equal(t, got, StripCitations(got))
		})
	}
}

func TestRenderRawMode(t *testing.T) {
	doc := Render("# Heading\n\n| a | b |\nCitation: fn(x)", true)

	require.Len(t, doc.Blocks, 1)
	b := doc.Blocks[0]
	assert.Equal(t, KindRaw, b.Kind)
	assert.Equal(t, "# Heading\n\n| a | b |\n", b.Text)
}

func TestRenderHeadingAndParagraph(t *testing.T) {
	doc := Render("# Ibuprofen\n\nApproved 2001-01-01.", false)

	require.Len(t, doc.Blocks, 3)
	h := doc.Blocks[0]
	assert.Equal(t, KindHeading, h.Kind)
	assert.Equal(t, 2, h.Level)
	require.Len(t, h.Spans, 1)
	assert.Equal(t, "Ibuprofen", h.Spans[0].Text)

	assert.Equal(t, KindLineBreak, doc.Blocks[1].Kind)

	p := doc.Blocks[2]
	assert.Equal(t, KindParagraph, p.Kind)
	require.Len(t, p.Spans, 1)
	assert.Equal(t, "Approved 2001-01-01.", p.Spans[0].Text)
}

func TestRenderHeadingRankIsCapped(t *testing.T) {
	doc := Render("###### deep heading", false)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, KindHeading, doc.Blocks[0].Kind)
	assert.Equal(t, 6, doc.Blocks[0].Level)
}

func TestRenderTable(t *testing.T) {
	doc := Render("| A | B |\n|---|---|\n| 1 | 2 |", false)

	require.Len(t, doc.Blocks, 1)
	tb := doc.Blocks[0]
	assert.Equal(t, KindTable, tb.Kind)
	assert.Equal(t, []string{"A", "B"}, tb.Header)
	require.Len(t, tb.Rows, 1)
	assert.Equal(t, []string{"1", "2"}, tb.Rows[0])
}

func TestRenderTableWithoutBodyRendersNothing(t *testing.T) {
	doc := Render("| A | B |\n|---|---|", false)
	assert.Empty(t, doc.Blocks)
}

func TestRenderTableEndsAtNonTableLine(t *testing.T) {
	doc := Render("| A | B |\n| 1 | 2 |\nafterword", false)

	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, KindTable, doc.Blocks[0].Kind)
	assert.Equal(t, KindParagraph, doc.Blocks[1].Kind)
}

func TestRenderURLTrimsTrailingPunctuation(t *testing.T) {
	doc := Render("See (https://example.com/a).", false)

	require.Len(t, doc.Blocks, 1)
	spans := doc.Blocks[0].Spans
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Kind: SpanText, Text: "See ("}, spans[0])
	assert.Equal(t, Span{Kind: SpanLink, Text: "https://example.com/a", URL: "https://example.com/a"}, spans[1])
	assert.Equal(t, Span{Kind: SpanText, Text: ")."}, spans[2])
}

func TestRenderBoldAndItalic(t *testing.T) {
	doc := Render("**x** and *y*", false)

	require.Len(t, doc.Blocks, 1)
	spans := doc.Blocks[0].Spans
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Kind: SpanBold, Text: "x"}, spans[0])
	assert.Equal(t, Span{Kind: SpanText, Text: " and "}, spans[1])
	assert.Equal(t, Span{Kind: SpanItalic, Text: "y"}, spans[2])
}

func TestRenderUnmatchedMarkersStayLiteral(t *testing.T) {
	doc := Render("a ** dangling marker", false)

	require.Len(t, doc.Blocks, 1)
	spans := doc.Blocks[0].Spans
	require.Len(t, spans, 1)
	assert.Equal(t, "a ** dangling marker", spans[0].Text)
}

func TestRenderBullets(t *testing.T) {
	doc := Render("• first\n– second\n•• doubled", false)

	require.Len(t, doc.Blocks, 3)
	for i, want := range []string{"first", "second", "doubled"} {
		b := doc.Blocks[i]
		assert.Equal(t, KindBullet, b.Kind)
		require.Len(t, b.Spans, 1)
		assert.Equal(t, want, b.Spans[0].Text)
	}
}

func TestRenderOrderedItem(t *testing.T) {
	doc := Render("1. first step", false)

	require.Len(t, doc.Blocks, 1)
	b := doc.Blocks[0]
	assert.Equal(t, KindOrdered, b.Kind)
	require.Len(t, b.Spans, 1)
	assert.Equal(t, "1. first step", b.Spans[0].Text)
}

func TestRenderCollapsesBlankRuns(t *testing.T) {
	doc := Render("one\n\n\n\ntwo", false)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, KindParagraph, doc.Blocks[0].Kind)
	assert.Equal(t, KindLineBreak, doc.Blocks[1].Kind)
	assert.Equal(t, KindParagraph, doc.Blocks[2].Kind)
}

func TestRenderLeadingBlankEmitsNothing(t *testing.T) {
	doc := Render("\n\nfirst", false)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, KindParagraph, doc.Blocks[0].Kind)
}

func TestRenderIsDeterministic(t *testing.T) {
	const text = "# T\n\n| A | B |\n|---|---|\n| 1 | 2 |\n\n• bullet with **bold** and https://x.test/p."
	first := Render(text, false)
	second := Render(text, false)
	assert.Equal(t, first, second)
}
