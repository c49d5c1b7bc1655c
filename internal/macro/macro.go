// Package macro handles wiki macro calls like [[TableOfContents]] or
// [[FootNote(some text)]] within page text.
//
// Markdown parsers would mangle macro calls (the brackets look like link
// syntax, the arguments may contain emphasis markers), so Protect swaps every
// call for an opaque placeholder token before parsing. Text coming out of the
// parser is then split back into plain runs and calls by Table.Split, or has
// the original call source put back by Table.Restore.
package macro

import (
	"regexp"
	"strconv"
	"strings"
)

// Call is a single macro call.
type Call struct {
	Name string

	// Args is the unparsed argument string; HasArgs tells [[Name()]] from
	// [[Name]].
	Args    string
	HasArgs bool
}

// String returns the wiki source of the call.
func (c Call) String() string {
	if c.HasArgs {
		return "[[" + c.Name + "(" + c.Args + ")]]"
	}
	return "[[" + c.Name + "]]"
}

// Arg returns the i-th argument of the call, unquoted, or "" if there is no
// such argument.
func (c Call) Arg(i int) string {
	args := SplitArgs(c.Args)
	if i < len(args) {
		return args[i]
	}
	return ""
}

var callPattern = regexp.MustCompile(`\[\[(\w+)(?:\((.*?)\))?\]\]`)

// Placeholder tokens use private use code points that neither markdown
// parser treats specially.
const (
	tokenStart = '\uE000'
	tokenEnd   = '\uE001'
)

var tokenPattern = regexp.MustCompile("\uE000([0-9]+)\uE001")

// Table holds the calls replaced by Protect.
type Table struct {
	calls []Call
}

// Len returns the number of protected calls.
func (t *Table) Len() int { return len(t.calls) }

// Protect replaces every macro call in text by a placeholder token recorded
// in the returned table.
func Protect(text string) (string, *Table) {
	t := &Table{}
	protected := callPattern.ReplaceAllStringFunc(text, func(src string) string {
		m := callPattern.FindStringSubmatchIndex(src)
		c := Call{Name: src[m[2]:m[3]]}
		if m[4] >= 0 {
			c.Args = src[m[4]:m[5]]
			c.HasArgs = true
		}
		t.calls = append(t.calls, c)
		return token(len(t.calls) - 1)
	})
	return protected, t
}

func token(i int) string {
	return string(tokenStart) + strconv.Itoa(i) + string(tokenEnd)
}

func (t *Table) lookup(index string) (Call, bool) {
	i, err := strconv.Atoi(index)
	if err != nil || i >= len(t.calls) {
		return Call{}, false
	}
	return t.calls[i], true
}

// Split passes the plain text runs of s to text and the protected calls to
// call, in order. Empty text runs are skipped.
func (t *Table) Split(s string, text func(string), call func(Call)) {
	for s != "" {
		loc := tokenPattern.FindStringSubmatchIndex(s)
		if loc == nil {
			text(s)
			return
		}
		if loc[0] > 0 {
			text(s[:loc[0]])
		}
		if c, ok := t.lookup(s[loc[2]:loc[3]]); ok {
			call(c)
		} else {
			text(s[loc[0]:loc[1]])
		}
		s = s[loc[1]:]
	}
}

// Restore puts the source of every protected call in s back.
func (t *Table) Restore(s string) string {
	if !strings.ContainsRune(s, tokenStart) {
		return s
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		if c, ok := t.lookup(tok[len(string(tokenStart)) : len(tok)-len(string(tokenEnd))]); ok {
			return c.String()
		}
		return tok
	})
}
