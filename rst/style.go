package rst

import "strings"

// Markup renders captured inline content with its reStructuredText markup.
type Markup interface {
	Markup(content string) string
}

// Style is an inline markup kind delimited by Start and End. A Style without
// delimiters renders as the interpreted text role called Name.
type Style struct {
	Name  string
	Start string
	End   string
}

// Role returns a Style rendered as the interpreted text role name.
func Role(name string) Style { return Style{Name: name} }

// Markup wraps content in the style's delimiters.
func (st Style) Markup(content string) string {
	start, end := st.Start, st.End
	if start == "" {
		start = ":" + st.Name + ":`"
	}
	if end == "" {
		end = "`"
	}
	return start + content + end
}

func (st Style) String() string { return st.Name }

var (
	strongStyle    = Style{Name: "strong", Start: "**", End: "**"}
	emphasisStyle  = Style{Name: "emphasis", Start: "*", End: "*"}
	literalStyle   = Style{Name: "literal", Start: "``", End: "``"}
	underlineStyle = Role("underline")
	highlightStyle = Role("highlight")
	supStyle       = Role("superscript")
	subStyle       = Role("subscript")
	strikeStyle    = Role("strike")
	smallStyle     = Role("small")
	bigStyle       = Role("big")
	iconStyle      = Role("icon")
)

// activeStyle links an open style to the one it suspended.
type activeStyle struct {
	Markup
	previous *activeStyle
}

// OpenStyle starts capturing inline content for m. At most one style renders
// at a time: a style that is already open gets its markup closed now, and
// resumed by the matching CloseStyle.
func (f *Formatter) OpenStyle(m Markup) string {
	st := &activeStyle{Markup: m, previous: f.style}
	var result string
	if st.previous != nil {
		result += f.inlineEnd("OpenStyle", st.previous)
	}
	result += f.inlineBegin()
	f.style = st
	return result
}

// CloseStyle ends the innermost open style and resumes the style it
// suspended, if any.
func (f *Formatter) CloseStyle() string {
	st := f.style
	if st == nil {
		f.violation("CloseStyle", "no inline style open")
	}
	result := f.inlineEnd("CloseStyle", st)
	f.style = st.previous
	if f.style != nil {
		result += f.inlineBegin()
	}
	return result
}

func (f *Formatter) inlineBegin() string {
	f.pushCollector("style")
	return f.output("")
}

// inlineEnd renders the captured content of st. Surrounding white space stays
// outside of the markup; there is no markup for empty content.
func (f *Formatter) inlineEnd(op string, st *activeStyle) string {
	pre, content, post := splitSpace(f.popCollector(op, "style"))
	if content == "" {
		return f.output(pre + post)
	}
	return f.output(pre + st.Markup.Markup(content) + post)
}

const asciiSpace = " \t\n\r\f\v"

func splitSpace(s string) (pre, content, post string) {
	content = strings.TrimLeft(s, asciiSpace)
	pre = s[:len(s)-len(content)]
	trimmed := strings.TrimRight(content, asciiSpace)
	post = content[len(trimmed):]
	return pre, trimmed, post
}

func (f *Formatter) inline(on bool, m Markup) string {
	if on {
		return f.OpenStyle(m)
	}
	return f.CloseStyle()
}

// Strong toggles strong emphasis.
func (f *Formatter) Strong(on bool) string { return f.inline(on, strongStyle) }

// Emphasis toggles emphasis.
func (f *Formatter) Emphasis(on bool) string { return f.inline(on, emphasisStyle) }

// Code toggles inline literals.
func (f *Formatter) Code(on bool) string { return f.inline(on, literalStyle) }

// The following styles have no reStructuredText markup of their own and
// render as interpreted text roles.

func (f *Formatter) Underline(on bool) string { return f.inline(on, underlineStyle) }
func (f *Formatter) Highlight(on bool) string { return f.inline(on, highlightStyle) }
func (f *Formatter) Sup(on bool) string       { return f.inline(on, supStyle) }
func (f *Formatter) Sub(on bool) string       { return f.inline(on, subStyle) }
func (f *Formatter) Strike(on bool) string    { return f.inline(on, strikeStyle) }
func (f *Formatter) Small(on bool) string     { return f.inline(on, smallStyle) }
func (f *Formatter) Big(on bool) string       { return f.inline(on, bigStyle) }

// Icon renders the named icon as an icon role.
func (f *Formatter) Icon(name string) string {
	result := f.OpenStyle(iconStyle)
	result += f.Text(name)
	result += f.CloseStyle()
	return result
}
