package rst

import "strings"

// Linefeed policy: every block can expect to start in a fresh context, on a
// blank line, with indentation applied automatically.
//
// Indentation policy: a block that needs its children indented raises the
// indentation before they are emitted and lowers it again afterwards.

// collector captures output while the markup wrapping it is undecided.
type collector struct {
	owner string
	buf   strings.Builder
}

func (f *Formatter) pushCollector(owner string) {
	f.collectors = append(f.collectors, &collector{owner: owner})
}

func (f *Formatter) popCollector(op, owner string) string {
	i := len(f.collectors) - 1
	if i < 0 {
		f.violation(op, "no output collector open")
	}
	if f.collectors[i].owner != owner {
		f.violation(op, "innermost output collector belongs to "+f.collectors[i].owner)
	}
	content := f.collectors[i].buf.String()
	f.collectors[i] = nil
	f.collectors = f.collectors[:i]
	return content
}

// indent returns s with every newly started, non-empty line prefixed by the
// current indentation. The last line of s never gets a linefeed so that later
// output may continue it.
//
// The wiki paragraph renderer appends a single space to every paragraph. A
// trailing space is therefore held back and prepended to the next string
// instead.
func (f *Formatter) indent(s string) string {
	if f.spacePending {
		s = " " + s
		f.spacePending = false
	}
	if strings.HasSuffix(s, " ") {
		s = s[:len(s)-1]
		f.spacePending = true
	}

	var b strings.Builder
	lines := strings.Split(s, "\n")
	last := lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimSuffix(line, " ")
		if f.lastLineComplete && line != "" {
			f.writeIndentation(&b)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		f.lastLineComplete = true
	}
	if last != "" {
		if f.lastLineComplete {
			f.writeIndentation(&b)
		}
		b.WriteString(last)
		f.lastLineComplete = false
	}
	return b.String()
}

func (f *Formatter) writeIndentation(b *strings.Builder) {
	for i := 0; i < f.indentation; i++ {
		b.WriteByte(' ')
	}
}

// output routes s into the innermost collector, or returns it indented when
// no collector is open.
func (f *Formatter) output(s string) string {
	if s != "" {
		f.sinceEOL = true
		f.sinceBlock = true
	}
	if i := len(f.collectors) - 1; i >= 0 {
		f.collectors[i].buf.WriteString(s)
		return ""
	}
	return f.indent(s)
}

// outputEOL outputs s and ends the line, unless nothing was output since the
// last line end.
func (f *Formatter) outputEOL(s string) string {
	result := f.output(s)
	if f.sinceEOL {
		result += f.output("\n")
	}
	f.sinceEOL = false
	return result
}

// outputEOLBlock outputs s, ends the line and the block, unless nothing was
// output since the last block end.
func (f *Formatter) outputEOLBlock(s string) string {
	result := f.outputEOL(s)
	if f.sinceBlock {
		result += f.output("\n")
	}
	f.sinceEOL = false
	f.sinceBlock = false
	return result
}
