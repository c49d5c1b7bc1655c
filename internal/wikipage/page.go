// Package wikipage loads wiki pages from the places they are kept.
package wikipage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotExist is wrapped by the errors of stores that have no page (or page
// revision) under the requested name.
var ErrNotExist = errors.New("page does not exist")

func notExist(name string, rev int) error {
	if rev > 0 {
		return fmt.Errorf("no revision %d of page named %q: %w", rev, name, ErrNotExist)
	}
	return fmt.Errorf("no page named %q: %w", name, ErrNotExist)
}

// Store provides pages by name. Revision 0 is the current revision; older
// revisions count from 1.
type Store interface {
	Open(name string, rev int) (*Page, error)
}

// Page is a page revision split into its header of processing instructions
// and its body.
type Page struct {
	Name     string
	Revision int
	Header   []string
	Body     string
}

// Parse returns the page called name with the given text.
func Parse(name string, rev int, text string) *Page {
	header, body := SplitHeader(text)
	return &Page{
		Name:     name,
		Revision: rev,
		Header:   header,
		Body:     body,
	}
}

var (
	instructionLine = regexp.MustCompile(`^#\w`)
	commentLine     = regexp.MustCompile(`^##`)
)

// SplitHeader splits the leading processing instructions off text. The
// header starts with an instruction line like "#acl All:read"; later header
// lines may also be "##" comments. The first line of any other form, blank
// lines included, starts the body.
func SplitHeader(text string) (header []string, body string) {
	text = strings.TrimPrefix(text, "\uFEFF")
	for text != "" {
		line, rest := text, ""
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, rest = text[:i], text[i+1:]
		}
		line = strings.TrimSuffix(line, "\r")
		switch {
		case instructionLine.MatchString(line):
		case len(header) > 0 && commentLine.MatchString(line):
		default:
			return header, text
		}
		header = append(header, line)
		text = rest
	}
	return header, ""
}
