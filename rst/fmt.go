package rst

import (
	"fmt"
	"io"
)

// Format writes a textual representation of the formatter cursor, providing
// improved fmt.Printf display. Produces a multi-line verbose form when
// formatted with "%+v".
func (f *Formatter) Format(s fmt.State, _ rune) {
	if s.Flag('+') {
		fmt.Fprintf(s, "indentation: %v", f.indentation)
		fmt.Fprintf(s, "\nlast line complete: %v", f.lastLineComplete)
		fmt.Fprintf(s, "\nspace pending: %v", f.spacePending)
		for i, c := range f.collectors {
			fmt.Fprintf(s, "\ncollector %v. %v %q", i+1, c.owner, c.buf.String())
		}
		for i, st := 1, f.style; st != nil; i, st = i+1, st.previous {
			fmt.Fprintf(s, "\nstyle %v. %v", i, st.Markup)
		}
		for i, l := range f.lists {
			fmt.Fprintf(s, "\nlist %v. %+v", i+1, l)
		}
		return
	}

	fmt.Fprintf(s, "indent=%v", f.indentation)
	if n := len(f.collectors); n > 0 {
		fmt.Fprintf(s, " collectors=%v", n)
	}
	if f.style != nil {
		n := 0
		for st := f.style; st != nil; st = st.previous {
			n++
		}
		fmt.Fprintf(s, " styles=%v", n)
	}
	if len(f.lists) > 0 {
		io.WriteString(s, " lists=")
		for i, l := range f.lists {
			if i > 0 {
				io.WriteString(s, "/")
			}
			fmt.Fprint(s, l)
		}
	}
}

// Format writes a terse "Kind" form of the list frame, or a verbose
// "Kind attr=value" form when formatted with "%+v".
func (l *listFrame) Format(s fmt.State, _ rune) {
	switch l.kind {
	case bulletList:
		io.WriteString(s, "BulletList")
	case numberList:
		io.WriteString(s, "NumberList")
	case definitionList:
		io.WriteString(s, "DefinitionList")
	default:
		fmt.Fprintf(s, "InvalidList%v", int(l.kind))
	}
	if s.Flag('+') {
		if l.kind == numberList {
			fmt.Fprintf(s, " type=%q start=%v first=%v", string(l.numbering), l.start, l.first)
		}
		if len(l.open) > 0 {
			fmt.Fprintf(s, " open=%v", l.open)
		}
	}
}
