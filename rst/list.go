package rst

import (
	"fmt"
	"strings"
)

type listKind int

const (
	bulletList listKind = iota + 1
	numberList
	definitionList
)

// NumberType selects the ordinals of a numbered list.
type NumberType string

// Ordinal kinds; the zero NumberType means Arabic.
const (
	Arabic     NumberType = "1"
	UpperRoman NumberType = "I"
	LowerRoman NumberType = "i"
	UpperAlpha NumberType = "A"
	LowerAlpha NumberType = "a"
)

type listFrame struct {
	kind      listKind
	numbering NumberType
	start     int
	first     bool

	// open holds the indentation added by each open item or description.
	open []int
}

func (l *listFrame) prefix() string {
	if l.kind == bulletList {
		return "* "
	}
	if l.first {
		l.first = false
		// TODO use start for the first marker once enumerators other than
		// the first ordinal can be rendered.
		return string(l.numbering) + ". "
	}
	return "#. "
}

func (f *Formatter) openList(l *listFrame) string {
	f.lists = append(f.lists, l)
	return f.outputEOLBlock("")
}

func (f *Formatter) closeList(op string, kind listKind) string {
	i := len(f.lists) - 1
	if i < 0 {
		f.violation(op, "no list open")
	}
	if l := f.lists[i]; l.kind != kind {
		f.violation(op, "innermost list is a "+fmt.Sprint(l))
	}
	f.lists[i] = nil
	f.lists = f.lists[:i]
	return f.output("")
}

func (f *Formatter) innerList(op string) *listFrame {
	i := len(f.lists) - 1
	if i < 0 {
		f.violation(op, "no list open")
	}
	return f.lists[i]
}

// BulletList toggles an unordered list.
func (f *Formatter) BulletList(on bool) string {
	if on {
		return f.openList(&listFrame{kind: bulletList})
	}
	return f.closeList("BulletList", bulletList)
}

// NumberList toggles an ordered list with ordinals of type typ. The start
// ordinal is recorded but the first item is always numbered with the first
// ordinal of typ, later items use auto numbering.
func (f *Formatter) NumberList(on bool, typ NumberType, start int) string {
	if !on {
		return f.closeList("NumberList", numberList)
	}
	if typ == "" {
		typ = Arabic
	}
	if start == 0 {
		start = 1
	}
	return f.openList(&listFrame{
		kind:      numberList,
		numbering: typ,
		start:     start,
		first:     true,
	})
}

// DefinitionList toggles a list of terms and their descriptions.
func (f *Formatter) DefinitionList(on bool) string {
	if on {
		return f.openList(&listFrame{kind: definitionList})
	}
	return f.closeList("DefinitionList", definitionList)
}

// ListItem toggles an item of the innermost bullet or numbered list. A
// normal item is an unmarked paragraph inside the list, indented like the
// items.
func (f *Formatter) ListItem(on, normal bool) string {
	l := f.innerList("ListItem")
	if l.kind == definitionList {
		f.violation("ListItem", "definition lists have no items")
	}
	if on {
		prefix := l.prefix()
		if normal {
			prefix = strings.Repeat(" ", len(prefix))
		}
		result := f.output(prefix)
		f.indentation += len(prefix)
		l.open = append(l.open, len(prefix))
		return result
	}
	f.indentation -= l.closeItem(f, "ListItem")
	return f.outputEOLBlock("")
}

func (l *listFrame) closeItem(f *Formatter, op string) int {
	i := len(l.open) - 1
	if i < 0 {
		f.violation(op, "no item open")
	}
	width := l.open[i]
	l.open = l.open[:i]
	return width
}

// DefinitionTerm toggles the term of a definition list entry.
func (f *Formatter) DefinitionTerm(on bool) string {
	l := f.innerList("DefinitionTerm")
	if l.kind != definitionList {
		f.violation("DefinitionTerm", "innermost list is a "+fmt.Sprint(l))
	}
	if on {
		return f.output("")
	}
	return f.outputEOL("")
}

const definitionIndent = 2

// DefinitionDesc toggles the indented description of a definition list
// entry.
func (f *Formatter) DefinitionDesc(on bool) string {
	l := f.innerList("DefinitionDesc")
	if l.kind != definitionList {
		f.violation("DefinitionDesc", "innermost list is a "+fmt.Sprint(l))
	}
	if on {
		f.indentation += definitionIndent
		l.open = append(l.open, definitionIndent)
		return f.output("")
	}
	f.indentation -= l.closeItem(f, "DefinitionDesc")
	return f.outputEOLBlock("")
}
