/* Package rst re-emits document formatting events as reStructuredText.

A Formatter is driven by an event source through paired open/close calls
(paragraphs, lists, list items, inline styles, headings, ...) and leaf calls
(text, line breaks, images, macros, ...). Every call returns the
reStructuredText produced by it. Output that cannot be decided yet, such as
the content of an inline style, is buffered and surfaces from a later call.

Link targets, image substitutions and footnotes are collected during the pass
and written out by EndContent.

A typical pass looks like:

	f := rst.New()
	out := f.StartDocument("SomePage", header)
	out += f.StartContent()
	out += f.Paragraph(true) + f.Strong(true) + f.Text("hi") + f.Strong(false) + f.Paragraph(false)
	out += f.EndContent()
	out += f.EndDocument()

Calls must be balanced; closing something that was never opened panics with a
*ContractError.
*/
package rst

import (
	"strings"

	"github.com/rs/zerolog"
)

// Formatter holds the state of one rendering pass. It is not safe for
// concurrent use; render each document with its own Formatter.
type Formatter struct {
	log     zerolog.Logger
	schemes []string

	indentation      int
	lastLineComplete bool
	spacePending     bool
	sinceEOL         bool
	sinceBlock       bool

	collectors []*collector
	style      *activeStyle
	lists      []*listFrame

	targets   linkTargets
	images    substitutions
	footnotes footnotes

	pageName     string
	sectionDepth int
}

// noSectionNumbers is the sectionDepth while section numbering is off; a
// depth of 0 means unlimited.
const noSectionNumbers = -1

// Option customizes a Formatter built by New.
type Option func(*Formatter)

// WithLogger sets the logger that receives notes about degraded constructs.
// The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Formatter) { f.log = log }
}

// WithURLSchemes adds URL schemes recognized for bare links, in addition to
// the built in ones.
func WithURLSchemes(schemes ...string) Option {
	return func(f *Formatter) {
		for _, scheme := range schemes {
			if scheme = strings.TrimSpace(scheme); scheme != "" {
				f.schemes = append(f.schemes, scheme)
			}
		}
	}
}

// New returns a Formatter ready for StartDocument.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		log:              zerolog.Nop(),
		lastLineComplete: true,
		sectionDepth:     noSectionNumbers,
	}
	f.schemes = append(f.schemes, urlSchemes...)
	f.schemes = append(f.schemes, attachmentSchemes...)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PageName returns the name given to StartDocument.
func (f *Formatter) PageName() string { return f.pageName }

// SectionNumbering returns the section numbering depth requested by the page
// header; ok is false if numbering is off. A depth of 0 means unlimited.
func (f *Formatter) SectionNumbering() (depth int, ok bool) {
	if f.sectionDepth == noSectionNumbers {
		return 0, false
	}
	return f.sectionDepth, true
}
