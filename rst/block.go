package rst

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Text outputs plain text.
func (f *Formatter) Text(s string) string { return f.output(s) }

// NoWikiWord outputs text that looks like a page name but is none.
func (f *Formatter) NoWikiWord(s string) string { return f.Text(s) }

// Paragraph toggles a paragraph.
func (f *Formatter) Paragraph(on bool) string {
	if on {
		return f.output("")
	}
	return f.outputEOLBlock("")
}

// LineBreak ends the current line without ending the block.
func (f *Formatter) LineBreak() string { return f.output("\n") }

// Rule outputs a transition.
func (f *Formatter) Rule() string { return f.outputEOLBlock(strings.Repeat("-", 25)) }

// headingDecoration holds the title underline character per heading depth.
const headingDecoration = "=-~:,."

// Heading toggles a section title of depth 1 (top) to 6. Titles are never
// indented.
func (f *Formatter) Heading(on bool, depth int) string {
	if on {
		f.pushCollector("heading")
		return f.output("")
	}
	heading := f.popCollector("Heading", "heading")
	switch {
	case depth < 1:
		depth = 1
	case depth > len(headingDecoration):
		depth = len(headingDecoration)
	}
	decoration := strings.Repeat(headingDecoration[depth-1:depth], runewidth.StringWidth(heading))

	indentation := f.indentation
	f.indentation = 0
	result := f.outputEOL(heading)
	result += f.outputEOLBlock(decoration)
	f.indentation = indentation
	return result
}

const literalIndent = 3

// Preformatted toggles a literal block.
func (f *Formatter) Preformatted(on bool) string {
	if on {
		result := f.outputEOLBlock("::")
		f.indentation += literalIndent
		return result
	}
	f.indentation -= literalIndent
	return f.outputEOLBlock("")
}

// CodeArea toggles a block of highlighted source code, rendered as a
// literal block.
func (f *Formatter) CodeArea(on bool) string { return f.Preformatted(on) }

// CodeLine toggles a line of a code area.
func (f *Formatter) CodeLine(on bool) string {
	if on {
		return f.output("")
	}
	return f.outputEOL("")
}

// CodeToken marks a highlighted token of a code line. Its text arrives
// through Text; literal blocks carry no highlighting.
func (f *Formatter) CodeToken(text string) string { return f.output("") }

// RawHTML passes markup through as a raw HTML directive.
func (f *Formatter) RawHTML(markup string) string {
	result := f.outputEOLBlock(".. raw:: html")
	f.indentation += literalIndent
	result += f.Text(markup)
	f.indentation -= literalIndent
	result += f.outputEOLBlock("")
	return result
}

// Comment outputs a "##" wiki comment as a reStructuredText comment. Other
// processing instructions found within the content are dropped.
func (f *Formatter) Comment(text string) string {
	m := headerLinePattern.FindStringSubmatch(text)
	if m == nil || m[1] != "#" {
		return f.output("")
	}
	result := f.output(".. ")
	f.indentation += literalIndent
	result += f.Text(m[2])
	f.indentation -= literalIndent
	result += f.outputEOLBlock("")
	return result
}

// Processor outputs a block handed to a named processor. lines starts with
// the "#!" line selecting the processor; the rest is kept as a literal
// block.
func (f *Formatter) Processor(name string, lines []string) string {
	if len(lines) == 0 {
		return f.output("")
	}
	result := f.Comment(lines[0])
	result += f.Preformatted(true)
	result += f.Text(strings.Join(lines[1:], "\n"))
	result += f.Preformatted(false)
	return result
}

// SysMsg toggles a system message, rendered as a strong paragraph.
func (f *Formatter) SysMsg(on bool) string {
	if on {
		return f.outputEOLBlock("") + f.Strong(true)
	}
	return f.Strong(false) + f.outputEOLBlock("")
}

// Table toggles a table. Tables are not converted; their content is
// swallowed and replaced by a placeholder.
func (f *Formatter) Table(on bool) string {
	if on {
		f.pushCollector("table")
		return f.output("")
	}
	content := f.popCollector("Table", "table")
	f.log.Debug().
		Str("page", f.pageName).
		Int("dropped", len(content)).
		Msg("table not converted")
	return f.outputEOLBlock("[Table not converted]")
}

// TableRow toggles a table row.
func (f *Formatter) TableRow(on bool) string { return "" }

// TableCell toggles a table cell.
func (f *Formatter) TableCell(on bool) string { return "" }

// Lang toggles content in another language.
func (f *Formatter) Lang(on bool, name string) string { return f.output("") }

func (f *Formatter) Div(on bool) string         { return "" }
func (f *Formatter) Span(on bool) string        { return "" }
func (f *Formatter) EscapedText(on bool) string { return f.output("") }
