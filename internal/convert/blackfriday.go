package convert

import (
	"bytes"
	"strings"

	"github.com/russross/blackfriday"

	"github.com/jcorbin/moin2rst/rst"
)

const blackfridayExtensions = blackfriday.CommonExtensions |
	blackfriday.DefinitionLists |
	blackfriday.Footnotes |
	blackfriday.Tables |
	blackfriday.HeadingIDs

func walkBlackfriday(em *emitter, body []byte) {
	md := blackfriday.New(blackfriday.WithExtensions(blackfridayExtensions))
	doc := md.Parse(body)
	doc.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		status := em.blackfridayNode(n, entering)
		if em.failed() {
			return blackfriday.Terminate
		}
		return status
	})
}

// blackfridayNode replays a single step of the walk. Leaf nodes are only
// entered. Nodes whose children get skipped are handled completely on
// entering; the walk does not revisit them.
func (em *emitter) blackfridayNode(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	f := em.f
	switch n.Type {
	case blackfriday.Document:

	case blackfriday.Heading:
		level := n.Level
		if n.IsTitleblock {
			level = 1
		}
		em.heading(entering, level, n.HeadingID)

	case blackfriday.Paragraph:
		if !inTerm(n) {
			em.emit(f.Paragraph(entering))
		}

	case blackfriday.BlockQuote:
		em.blockQuote(entering)

	case blackfriday.List:
		switch {
		case n.IsFootnotesList:
			// footnote texts were placed at their references
			return blackfriday.SkipChildren
		case n.ListFlags&blackfriday.ListTypeDefinition != 0:
			em.emit(f.DefinitionList(entering))
		case n.ListFlags&blackfriday.ListTypeOrdered != 0:
			em.emit(f.NumberList(entering, rst.Arabic, 1))
		default:
			em.emit(f.BulletList(entering))
		}

	case blackfriday.Item:
		switch {
		case n.ListFlags&blackfriday.ListTypeTerm != 0:
			em.emit(f.DefinitionTerm(entering))
		case n.ListFlags&blackfriday.ListTypeDefinition != 0:
			em.emit(f.DefinitionDesc(entering))
		default:
			em.emit(f.ListItem(entering, false))
		}

	case blackfriday.HorizontalRule:
		if entering {
			em.emit(f.Rule())
		}

	case blackfriday.Emph:
		em.emit(f.Emphasis(entering))
	case blackfriday.Strong:
		em.emit(f.Strong(entering))
	case blackfriday.Del:
		em.emit(f.Strike(entering))

	case blackfriday.Link:
		dest := string(n.Destination)
		switch {
		case n.NoteID != 0:
			if entering {
				em.footnote(blackfridayText(n.Footnote), dest)
			}
			return blackfriday.SkipChildren
		case isAttachment(dest):
			if entering {
				em.attachmentLink(dest, em.macros.Restore(blackfridayText(n)))
			}
			return blackfriday.SkipChildren
		}
		em.link(entering, dest)

	case blackfriday.Image:
		if entering {
			em.image(string(n.Destination), string(n.Title), blackfridayText(n))
		}
		return blackfriday.SkipChildren

	case blackfriday.Text:
		if entering {
			text := string(n.Literal)
			if n.Next == nil {
				// list item paragraphs keep their final line end
				text = strings.TrimRight(text, "\n")
			}
			em.text(text)
		}

	case blackfriday.Code:
		if entering {
			em.code(string(n.Literal))
		}

	case blackfriday.CodeBlock:
		if entering {
			em.literal(string(n.Info), string(n.Literal))
		}

	case blackfriday.Softbreak:
		if entering && n.Next != nil {
			em.emit(f.Text("\n"))
		}
	case blackfriday.Hardbreak:
		if entering {
			em.emit(f.LineBreak())
		}

	case blackfriday.HTMLBlock:
		if entering {
			em.rawHTML(string(n.Literal), false)
		}
	case blackfriday.HTMLSpan:
		if entering {
			em.rawHTML(string(n.Literal), true)
		}

	case blackfriday.Table:
		em.emit(f.Table(entering))
	case blackfriday.TableRow:
		em.emit(f.TableRow(entering))
	case blackfriday.TableCell:
		em.emit(f.TableCell(entering))
	case blackfriday.TableHead, blackfriday.TableBody:
	}
	return blackfriday.GoToNext
}

// inTerm reports whether n sits directly in a definition list term, which
// must stay on a single line.
func inTerm(n *blackfriday.Node) bool {
	p := n.Parent
	return p != nil && p.Type == blackfriday.Item && p.ListFlags&blackfriday.ListTypeTerm != 0
}

// blackfridayText returns the plain text below n.
func blackfridayText(n *blackfriday.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			return blackfriday.GoToNext
		}
		switch c.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.HTMLSpan:
			buf.Write(c.Literal)
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			buf.WriteByte(' ')
		case blackfriday.Paragraph:
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
		}
		return blackfriday.GoToNext
	})
	return strings.TrimSpace(buf.String())
}
