package render

import (
	"regexp"
	"strings"
)

var (
	urlRe = regexp.MustCompile(`https?://[^\s<>()]+`)
	// Bold before italic so ** wins over * at the same position; matches are
	// taken left to right and never nested. Unmatched markers stay literal.
	emphasisRe = regexp.MustCompile(`\*\*(.+?)\*\*|\*([^*]+?)\*`)
)

// parseInline converts one line of text into spans: hyperlinks are extracted
// first, then bold/italic markers are resolved in the remaining segments.
func parseInline(text string) []Span {
	loc := urlRe.FindStringIndex(text)
	if loc == nil {
		return parseEmphasis(text)
	}
	url := strings.TrimRight(text[loc[0]:loc[1]], ".,;:!?)")
	spans := parseEmphasis(text[:loc[0]])
	spans = append(spans, Span{Kind: SpanLink, Text: url, URL: url})
	// Trailing punctuation trimmed off the URL stays visible as text.
	return append(spans, parseInline(text[loc[0]+len(url):])...)
}

// parseEmphasis resolves **bold** and *italic* runs, first match wins left
// to right.
func parseEmphasis(text string) []Span {
	var spans []Span
	for {
		m := emphasisRe.FindStringSubmatchIndex(text)
		if m == nil {
			break
		}
		if m[0] > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: text[:m[0]]})
		}
		if m[2] >= 0 {
			spans = append(spans, Span{Kind: SpanBold, Text: text[m[2]:m[3]]})
		} else {
			spans = append(spans, Span{Kind: SpanItalic, Text: text[m[4]:m[5]]})
		}
		text = text[m[1]:]
	}
	if text != "" {
		spans = append(spans, Span{Kind: SpanText, Text: text})
	}
	return spans
}
