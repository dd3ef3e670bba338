// Package render converts the raw markdown-ish text returned by the research
// model into an ordered sequence of display blocks. The input is unstructured
// model output, so the classifier is deliberately line-by-line and heuristic;
// everything here is a pure function of its input.
package render

import (
	"regexp"
	"strings"
)

// BlockKind identifies one kind of display block.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindBullet
	KindOrdered
	KindTable
	KindLineBreak
	KindRaw
)

// SpanKind identifies one kind of inline span.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanLink
	SpanBold
	SpanItalic
)

// Span is a run of inline content within a non-table block.
type Span struct {
	Kind SpanKind
	Text string
	URL  string // set for SpanLink; equals Text
}

// Block is one element of the rendered document.
type Block struct {
	Kind   BlockKind
	Level  int    // heading rank, 2..6
	Spans  []Span // paragraph, heading, bullet, ordered
	Header []string
	Rows   [][]string
	Text   string // raw block only
}

// Document is the ordered block sequence produced for one render call.
type Document struct {
	Blocks []Block
}

// Citation artifacts the provider embeds in responses.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Citation:\s*\w+\([^)]*\)`),
	regexp.MustCompile(`\[\w+ reference #\d+\]`),
	regexp.MustCompile(`\[\w+\.\w+#\d+\]`),
}

var (
	tableSeparatorRe = regexp.MustCompile(`^\s*\|[\s\-\|]*\|\s*$`)
	orderedRe        = regexp.MustCompile(`^\d+\.`)
	headingRe        = regexp.MustCompile(`^(#{1,6})\s`)
)

// StripCitations removes known provider citation artifacts. The patterns are
// disjoint, so removal order does not matter.
func StripCitations(text string) string {
	for _, re := range citationPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// Render parses text into a Document. In raw mode the cleaned text is
// returned verbatim as a single block so users can inspect output the
// heuristic parser might mangle.
func Render(text string, raw bool) Document {
	cleaned := StripCitations(text)
	if raw {
		return Document{Blocks: []Block{{Kind: KindRaw, Text: cleaned}}}
	}

	lines := strings.Split(cleaned, "\n")
	var blocks []Block
	prevBlank := true // leading blank lines emit nothing

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if isTableRow(trimmed) {
			j := i
			var rows []string
			for j < len(lines) && isTableRow(strings.TrimSpace(lines[j])) {
				rows = append(rows, strings.TrimSpace(lines[j]))
				j++
			}
			if tb, ok := assembleTable(rows); ok {
				blocks = append(blocks, tb)
			}
			i = j - 1
			prevBlank = false
			continue
		}

		switch {
		case trimmed == "":
			if !prevBlank {
				blocks = append(blocks, Block{Kind: KindLineBreak})
			}
			prevBlank = true
			continue
		case strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "–"):
			blocks = append(blocks, Block{Kind: KindBullet, Spans: parseInline(bulletContent(trimmed))})
		case orderedRe.MatchString(trimmed):
			blocks = append(blocks, Block{Kind: KindOrdered, Spans: parseInline(trimmed)})
		case headingRe.MatchString(trimmed):
			level := len(headingRe.FindStringSubmatch(trimmed)[1])
			rank := level + 1
			if rank > 6 {
				rank = 6
			}
			content := strings.TrimSpace(trimmed[level:])
			blocks = append(blocks, Block{Kind: KindHeading, Level: rank, Spans: parseInline(content)})
		default:
			blocks = append(blocks, Block{Kind: KindParagraph, Spans: parseInline(trimmed)})
		}
		prevBlank = false
	}

	return Document{Blocks: blocks}
}

// isTableRow reports whether a trimmed line starts with a pipe and contains
// at least one more.
func isTableRow(trimmed string) bool {
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

// bulletContent strips the leading bullet marker, normalizing a doubled
// marker (a model quirk) to a single one first.
func bulletContent(trimmed string) string {
	content := strings.TrimSpace(strings.TrimLeft(trimmed, "•–"))
	content = strings.TrimSpace(strings.TrimLeft(content, "•–"))
	return content
}

// assembleTable builds a table block from a contiguous run of table-row
// lines. Separator rows are discarded; the first remaining row is the
// header. A table without body rows renders nothing.
func assembleTable(rows []string) (Block, bool) {
	var content [][]string
	for _, row := range rows {
		if tableSeparatorRe.MatchString(row) {
			continue
		}
		content = append(content, splitCells(row))
	}
	if len(content) < 2 {
		return Block{}, false
	}
	return Block{Kind: KindTable, Header: content[0], Rows: content[1:]}, true
}

// splitCells splits a row on pipes, trims each cell, and drops the empty
// leading/trailing cells produced by the surrounding pipes.
func splitCells(row string) []string {
	parts := strings.Split(row, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}
