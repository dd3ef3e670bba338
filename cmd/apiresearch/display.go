package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dougal-McGuire/api-research/internal/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("45"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	italicStyle  = lipgloss.NewStyle().Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	emptyStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	tableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// formatDocument turns a rendered document into styled terminal text.
func formatDocument(doc render.Document) string {
	var b strings.Builder
	for i, block := range doc.Blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case render.KindLineBreak:
			// the separating newline above already covers it
		case render.KindRaw:
			b.WriteString(block.Text)
			b.WriteString("\n")
		case render.KindHeading:
			b.WriteString(headingStyle.Render(formatSpans(block.Spans)))
			b.WriteString("\n")
		case render.KindBullet:
			b.WriteString("• " + formatSpans(block.Spans))
			b.WriteString("\n")
		case render.KindOrdered:
			b.WriteString(formatSpans(block.Spans))
			b.WriteString("\n")
		case render.KindTable:
			b.WriteString(formatTable(block))
		default:
			b.WriteString(formatSpans(block.Spans))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSpans(spans []render.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case render.SpanLink:
			b.WriteString(linkStyle.Render(s.URL))
		case render.SpanBold:
			b.WriteString(boldStyle.Render(s.Text))
		case render.SpanItalic:
			b.WriteString(italicStyle.Render(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// formatTable pads each column to its widest cell and styles the header row.
func formatTable(block render.Block) string {
	widths := make([]int, len(block.Header))
	for i, h := range block.Header {
		widths[i] = len(h)
	}
	for _, row := range block.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render(formatRow(block.Header, widths)))
	b.WriteString("\n")
	for _, row := range block.Rows {
		b.WriteString(tableStyle.Render(formatRow(row, widths)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		w := len(cell)
		if i < len(widths) {
			w = widths[i]
		}
		padded[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.Join(padded, "  ")
}
