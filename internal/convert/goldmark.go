package convert

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/jcorbin/moin2rst/rst"
)

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.DefinitionList,
			extension.Footnote,
		),
		goldmark.WithParserOptions(parser.WithHeadingAttribute()),
	)
}

func walkGoldmark(em *emitter, body []byte) {
	doc := newGoldmark().Parser().Parse(text.NewReader(body))
	gw := goldmarkWalker{
		emitter:   em,
		source:    body,
		footnotes: goldmarkFootnotes(doc, body),
	}
	_ = ast.Walk(doc, gw.node)
}

type goldmarkWalker struct {
	*emitter
	source []byte

	// footnotes holds the text of each footnote by index.
	footnotes map[int]string
}

// goldmarkFootnotes collects footnote texts, which the parser moves to the
// end of the document.
func goldmarkFootnotes(doc ast.Node, source []byte) map[int]string {
	texts := make(map[int]string)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			texts[fn.Index] = goldmarkText(fn, source)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return texts
}

// node replays a single step of the walk. Unlike blackfriday, goldmark also
// leaves the nodes whose children were skipped.
func (gw goldmarkWalker) node(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if gw.failed() {
		return ast.WalkStop, nil
	}
	f := gw.f
	switch n := n.(type) {
	case *ast.Document:

	case *ast.Heading:
		var id string
		if v, ok := n.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		gw.heading(entering, n.Level, id)

	case *ast.Paragraph, *ast.TextBlock:
		if _, term := n.Parent().(*east.DefinitionTerm); !term {
			gw.emit(f.Paragraph(entering))
		}

	case *ast.Blockquote:
		gw.blockQuote(entering)

	case *ast.List:
		if n.IsOrdered() {
			gw.emit(f.NumberList(entering, rst.Arabic, n.Start))
		} else {
			gw.emit(f.BulletList(entering))
		}
	case *ast.ListItem:
		gw.emit(f.ListItem(entering, false))

	case *east.DefinitionList:
		gw.emit(f.DefinitionList(entering))
	case *east.DefinitionTerm:
		gw.emit(f.DefinitionTerm(entering))
	case *east.DefinitionDescription:
		gw.emit(f.DefinitionDesc(entering))

	case *ast.ThematicBreak:
		if entering {
			gw.emit(f.Rule())
		}

	case *ast.Emphasis:
		if n.Level >= 2 {
			gw.emit(f.Strong(entering))
		} else {
			gw.emit(f.Emphasis(entering))
		}
	case *east.Strikethrough:
		gw.emit(f.Strike(entering))

	case *ast.CodeSpan:
		if entering {
			gw.code(goldmarkText(n, gw.source))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Link:
		dest := string(n.Destination)
		if isAttachment(dest) {
			if entering {
				gw.attachmentLink(dest, gw.macros.Restore(goldmarkText(n, gw.source)))
			}
			return ast.WalkSkipChildren, nil
		}
		gw.link(entering, dest)

	case *ast.AutoLink:
		if entering {
			url := string(n.URL(gw.source))
			if n.AutoLinkType == ast.AutoLinkEmail {
				url = "mailto:" + url
			}
			gw.emit(f.URL(true, url))
			gw.emit(f.Text(string(n.Label(gw.source))))
			gw.emit(f.URL(false, ""))
		}

	case *ast.Image:
		if entering {
			gw.image(string(n.Destination), string(n.Title), goldmarkText(n, gw.source))
		}
		return ast.WalkSkipChildren, nil

	case *east.FootnoteLink:
		if entering {
			gw.footnote(gw.footnotes[n.Index], strconv.Itoa(n.Index))
		}
	case *east.FootnoteBacklink:
	case *east.FootnoteList:
		// footnote texts were placed at their references
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		if entering {
			gw.text(string(n.Segment.Value(gw.source)))
			switch {
			case n.HardLineBreak():
				gw.emit(f.LineBreak())
			case n.SoftLineBreak() && n.NextSibling() != nil:
				gw.emit(f.Text("\n"))
			}
		}
	case *ast.String:
		if entering {
			gw.text(string(n.Value))
		}

	case *ast.CodeBlock:
		if entering {
			gw.literal("", string(goldmarkLines(n, gw.source)))
		}
	case *ast.FencedCodeBlock:
		if entering {
			var info []byte
			if n.Info != nil {
				info = n.Info.Segment.Value(gw.source)
			}
			gw.literal(string(info), string(goldmarkLines(n, gw.source)))
		}

	case *ast.HTMLBlock:
		if entering {
			markup := goldmarkLines(n, gw.source)
			if n.HasClosure() {
				markup = append(markup, n.ClosureLine.Value(gw.source)...)
			}
			gw.rawHTML(string(markup), false)
		}
	case *ast.RawHTML:
		if entering {
			var markup bytes.Buffer
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				markup.Write(seg.Value(gw.source))
			}
			gw.rawHTML(markup.String(), true)
		}
		return ast.WalkSkipChildren, nil

	case *east.Table:
		gw.emit(f.Table(entering))
	case *east.TableHeader, *east.TableRow:
		gw.emit(f.TableRow(entering))
	case *east.TableCell:
		gw.emit(f.TableCell(entering))
	}
	return ast.WalkContinue, nil
}

// goldmarkLines returns the raw lines of a block node.
func goldmarkLines(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// goldmarkText returns the plain text below n.
func goldmarkText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.Paragraph, *ast.TextBlock:
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(buf.Bytes()))
}
