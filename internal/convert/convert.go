// Package convert replays markdown wiki pages as rst.Formatter events,
// streaming the produced reStructuredText to a writer.
package convert

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jcorbin/moin2rst/internal/macro"
	"github.com/jcorbin/moin2rst/internal/textio"
	"github.com/jcorbin/moin2rst/internal/wikipage"
	"github.com/jcorbin/moin2rst/rst"
)

// Parser names.
const (
	Blackfriday = "blackfriday"
	Goldmark    = "goldmark"
)

// Parsers lists the supported parser names, the default first.
func Parsers() []string { return []string{Blackfriday, Goldmark} }

// ValidParser checks that name is a supported parser; "" selects the
// default.
func ValidParser(name string) error {
	_, err := walkerFor(name)
	return err
}

// Options control a conversion.
type Options struct {
	// Parser names the markdown parser reading the page body; "" means
	// Blackfriday.
	Parser string

	// URLSchemes are extra schemes recognized for bare links.
	URLSchemes []string

	// Logger receives notes about constructs that were not converted; nil
	// discards them.
	Logger *zerolog.Logger
}

func (opts Options) logger() zerolog.Logger {
	if opts.Logger == nil {
		return zerolog.Nop()
	}
	return *opts.Logger
}

// walker replays the parsed body of a page through em.
type walker func(em *emitter, body []byte)

var walkers = map[string]walker{
	Blackfriday: walkBlackfriday,
	Goldmark:    walkGoldmark,
}

func walkerFor(parser string) (walker, error) {
	if parser == "" {
		parser = Blackfriday
	}
	if walk, ok := walkers[parser]; ok {
		return walk, nil
	}
	return nil, fmt.Errorf("unknown parser %q, want one of %s", parser, strings.Join(Parsers(), ", "))
}

// Convert writes page to w as reStructuredText.
func Convert(w io.Writer, page *wikipage.Page, opts Options) (err error) {
	walk, err := walkerFor(opts.Parser)
	if err != nil {
		return err
	}

	log := opts.logger().With().Str("page", page.Name).Logger()
	body, macros := macro.Protect(page.Body)
	em := &emitter{
		f: rst.New(
			rst.WithLogger(log),
			rst.WithURLSchemes(opts.URLSchemes...),
		),
		out:    textio.NewFragments(w),
		macros: macros,
	}

	defer func() {
		if e := recover(); e != nil {
			cerr, ok := e.(*rst.ContractError)
			if !ok {
				panic(e)
			}
			err = fmt.Errorf("converting page %q: %w", page.Name, cerr)
		}
		if cerr := em.out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("writing page %q: %w", page.Name, cerr)
		}
	}()

	em.emit(em.f.StartDocument(page.Name, page.Header))
	em.emit(em.f.StartContent())
	walk(em, []byte(body))
	em.emit(em.f.EndContent())
	em.emit(em.f.EndDocument())
	log.Debug().Int("macros", macros.Len()).Msg("converted")
	return nil
}

// emitter holds what both walkers share: the formatter, the output, and the
// macro calls hidden from the parser.
type emitter struct {
	f      *rst.Formatter
	out    *textio.Fragments
	macros *macro.Table
}

func (em *emitter) emit(s string) {
	if s != "" {
		em.out.WriteString(s)
	}
}

// failed tells walkers to stop early after a write error.
func (em *emitter) failed() bool { return em.out.Err() != nil }

// text outputs s, replaying any protected macro calls within it.
func (em *emitter) text(s string) {
	em.macros.Split(s, func(s string) {
		em.emit(em.f.Text(s))
	}, em.call)
}

func (em *emitter) call(c macro.Call) {
	switch {
	case !c.HasArgs:
		em.emit(em.f.Macro(c.Name))
	case c.Name == "FootNote":
		em.emit(em.f.MacroArgs(c.Name, c.Args))
	case c.Name == "Anchor", c.Name == "Icon", c.Name == "TableOfContents":
		em.emit(em.f.MacroArgs(c.Name, c.Arg(0)))
	default:
		em.emit(em.f.MacroArgs(c.Name, c.Args))
	}
}

// code outputs an inline literal; macro calls within it stay source.
func (em *emitter) code(s string) {
	em.emit(em.f.Code(true))
	em.emit(em.f.Text(em.macros.Restore(s)))
	em.emit(em.f.Code(false))
}

// literal outputs a code block. Blocks with an info string become code
// areas; a "#!name" info string hands the block to a processor.
func (em *emitter) literal(info, body string) {
	info = strings.TrimSpace(info)
	body = strings.TrimSuffix(em.macros.Restore(body), "\n")
	lines := strings.Split(body, "\n")
	switch {
	case strings.HasPrefix(info, "#!"):
		name := strings.TrimPrefix(info, "#!")
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}
		em.emit(em.f.Processor(name, append([]string{info}, lines...)))

	case info != "":
		em.emit(em.f.CodeArea(true))
		for _, line := range lines {
			em.emit(em.f.CodeLine(true))
			em.emit(em.f.CodeToken(line))
			em.emit(em.f.Text(line))
			em.emit(em.f.CodeLine(false))
		}
		em.emit(em.f.CodeArea(false))

	default:
		em.emit(em.f.Preformatted(true))
		em.emit(em.f.Text(body))
		em.emit(em.f.Preformatted(false))
	}
}

// blockQuote renders a quotation as an unmarked item, which indents it.
func (em *emitter) blockQuote(on bool) {
	if on {
		em.emit(em.f.BulletList(true))
		em.emit(em.f.ListItem(true, true))
		return
	}
	em.emit(em.f.ListItem(false, true))
	em.emit(em.f.BulletList(false))
}

var schemePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.-]*):(.*)$`)

func splitScheme(dest string) (scheme, rest string) {
	if m := schemePattern.FindStringSubmatch(dest); m != nil {
		return m[1], m[2]
	}
	return "", dest
}

// isAttachment reports whether links to dest are rendered whole by
// attachmentLink rather than as a link around their children.
func isAttachment(dest string) bool {
	switch scheme, _ := splitScheme(dest); scheme {
	case "attachment", "drawing", "inline":
		return true
	}
	return false
}

// attachmentLink outputs a link to an attachment, labeled by label.
func (em *emitter) attachmentLink(dest, label string) {
	scheme, rest := splitScheme(dest)
	switch scheme {
	case "drawing":
		em.emit(em.f.AttachmentDrawing(rest, label))
	case "inline":
		em.emit(em.f.AttachmentInlined(rest, label))
	default:
		em.emit(em.f.AttachmentLink(rest, label))
	}
}

// link toggles a link. Destinations without a scheme name wiki pages,
// "wiki:Wiki:Page" another wiki's pages.
func (em *emitter) link(on bool, dest string) {
	if !on {
		em.emit(em.f.URL(false, ""))
		return
	}
	dest = em.macros.Restore(dest)
	scheme, rest := splitScheme(dest)
	switch {
	case scheme == "wiki":
		if wiki, page, ok := strings.Cut(rest, ":"); ok {
			em.emit(em.f.InterwikiLink(true, wiki, page))
			return
		}
	case scheme == "" && dest != "" && !strings.HasPrefix(dest, "#"):
		page, anchor, _ := strings.Cut(dest, "#")
		if unescaped, err := url.PathUnescape(page); err == nil {
			page = unescaped
		}
		em.emit(em.f.PageLink(true, page, anchor))
		return
	}
	em.emit(em.f.URL(true, dest))
}

func (em *emitter) image(src, title, alt string) {
	src = em.macros.Restore(src)
	if scheme, rest := splitScheme(src); scheme == "attachment" {
		em.emit(em.f.AttachmentImage(rest))
		return
	}
	em.emit(em.f.Image(src, title, em.macros.Restore(alt)))
}

// footnote places a footnote; ref names it when its text is empty.
func (em *emitter) footnote(text, ref string) {
	text = strings.TrimSpace(em.macros.Restore(text))
	if text == "" {
		text = ref
	}
	em.emit(em.f.MacroArgs("FootNote", text))
}

// rawHTML outputs markup as a raw block, or as a raw role when inline.
func (em *emitter) rawHTML(markup string, inline bool) {
	markup = em.macros.Restore(markup)
	if !inline {
		em.emit(em.f.RawHTML(strings.TrimRight(markup, "\n")))
		return
	}
	em.emit(em.f.OpenStyle(rst.Role("raw-html")))
	em.emit(em.f.Text(markup))
	em.emit(em.f.CloseStyle())
}

// heading toggles a heading, placing a target for its explicit id first.
func (em *emitter) heading(on bool, level int, id string) {
	if on && id != "" {
		em.emit(em.f.AnchorDef(id))
	}
	em.emit(em.f.Heading(on, level))
}
