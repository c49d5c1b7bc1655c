package rst

import (
	"regexp"
	"strings"
)

var (
	urlSchemes        = []string{"http", "https", "ftp", "nntp", "news", "mailto", "telnet", "wiki", "file", "irc"}
	attachmentSchemes = []string{"attachment", "inline", "drawing"}
)

var linkWordPattern = regexp.MustCompile(`^[-\w]+$`)

// LinkStyle is the Markup of a hyperlink to URL. Its content becomes the link
// description; descriptions that differ from the URL are registered as link
// targets with the Formatter that created the style.
type LinkStyle struct {
	URL string
	f   *Formatter
}

func (ls *LinkStyle) String() string { return "link " + ls.URL }

// Markup renders description as a reference to the link's URL.
func (ls *LinkStyle) Markup(description string) string {
	url := ls.URL
	if strings.HasPrefix(url, "#") {
		url = url[1:]
		description = strings.TrimPrefix(description, "#")
	}
	if description == url {
		if scheme, ok := urlScheme(url); ok &&
			ls.f.knownScheme(scheme) && !isAttachmentScheme(scheme) {
			return url
		}
	} else if ls.f.targets.add(description, url) == targetCollision {
		ls.f.log.Debug().
			Str("description", description).
			Str("url", url).
			Msg("link description already targets another url, rendering inline")
		return "`" + description + " <" + url + ">`__"
	}
	if linkWordPattern.MatchString(description) {
		return description + "_"
	}
	return "`" + description + "`_"
}

func urlScheme(url string) (string, bool) {
	i := strings.IndexByte(url, ':')
	if i <= 0 {
		return "", false
	}
	return url[:i], true
}

func (f *Formatter) knownScheme(scheme string) bool {
	for _, known := range f.schemes {
		if scheme == known {
			return true
		}
	}
	return false
}

func isAttachmentScheme(scheme string) bool {
	for _, known := range attachmentSchemes {
		if scheme == known {
			return true
		}
	}
	return false
}

// quoteLinkDescription makes description usable as a hyperlink target name.
func quoteLinkDescription(description string) string {
	if !strings.Contains(description, ":") {
		return description
	}
	if !strings.Contains(description, "`") {
		return "`" + description + "`"
	}
	return strings.ReplaceAll(description, ":", `\:`)
}

func (f *Formatter) link(on bool, url string) string {
	if on {
		return f.OpenStyle(&LinkStyle{URL: url, f: f})
	}
	return f.CloseStyle()
}

// URL toggles a link to url; url is only used when on.
func (f *Formatter) URL(on bool, url string) string { return f.link(on, url) }

// PageLink toggles a link to another wiki page, optionally to an anchor in
// it. The link is made relative to the current page.
func (f *Formatter) PageLink(on bool, page, anchor string) string {
	if !on {
		return f.link(false, "")
	}
	url := RelativePageURL(f.pageName, page)
	if anchor != "" {
		url += "#" + anchor
	}
	return f.link(true, url)
}

// InterwikiLink toggles a link to page in another wiki.
func (f *Formatter) InterwikiLink(on bool, wiki, page string) string {
	if !on {
		return f.link(false, "")
	}
	return f.link(true, "wiki:"+wiki+":"+page)
}

// RelativePageURL returns the address of page as seen from the page named
// from: siblings (and their children) get a "../" prefix, children of from
// a "/" prefix. Other pages are addressed by their normalized name.
func RelativePageURL(from, page string) string {
	url := NormalizePageName(page)
	if from == "" {
		return url
	}
	urlPath := strings.Split(url, "/")
	thisPath := strings.Split(NormalizePageName(from), "/")
	for len(urlPath) > 0 && len(thisPath) > 0 && urlPath[0] == thisPath[0] {
		urlPath, thisPath = urlPath[1:], thisPath[1:]
	}
	switch {
	case len(thisPath) == 1 && len(urlPath) >= 1:
		return "../" + strings.Join(urlPath, "/")
	case len(thisPath) == 0 && len(urlPath) > 0:
		return "/" + strings.Join(urlPath, "/")
	}
	return url
}

// NormalizePageName collapses white space runs in page name to single
// spaces and drops empty path elements.
func NormalizePageName(name string) string {
	parts := strings.Split(name, "/")
	keep := parts[:0]
	for _, part := range parts {
		if part = strings.Join(strings.Fields(part), " "); part != "" {
			keep = append(keep, part)
		}
	}
	return strings.Join(keep, "/")
}

func (f *Formatter) attachment(typ, url, text string) string {
	link := typ + ":" + url
	if text == "" {
		text = link
	}
	result := f.link(true, link)
	result += f.Text(text)
	result += f.link(false, "")
	return result
}

// AttachmentLink links to an attached file.
func (f *Formatter) AttachmentLink(url, text string) string {
	return f.attachment("attachment", url, text)
}

// AttachmentImage links to an attached image.
func (f *Formatter) AttachmentImage(url string) string {
	return f.attachment("attachment", url, "")
}

// AttachmentDrawing links to an attached drawing.
func (f *Formatter) AttachmentDrawing(url, text string) string {
	return f.attachment("drawing", url, text)
}

// AttachmentInlined links to an attachment shown inline in the wiki.
func (f *Formatter) AttachmentInlined(url, text string) string {
	return f.attachment("inline", url, text)
}

// AnchorDef places an invisible hyperlink target called name.
func (f *Formatter) AnchorDef(name string) string {
	return f.outputEOLBlock(".. _" + quoteLinkDescription(name) + ":")
}

// AnchorLink would link to an anchor on the same page. Its only users are
// the table of contents and footnotes, both expressed by their own
// constructs, so it produces nothing.
func (f *Formatter) AnchorLink(on bool, name string) string {
	return f.output("")
}

// Image places an inline image. An image named like its source is part of
// an explicit link and renders as plain text; any other image becomes a
// substitution reference defined by EndContent.
func (f *Formatter) Image(src, title, alt string) string {
	name := src
	switch {
	case title != "":
		name = title
	case alt != "":
		name = alt
	}
	if name == src {
		return f.output(src)
	}
	f.images.set(name, src)
	return f.output("|" + name + "|")
}

// Smiley places a smiley as a substitution reference.
func (f *Formatter) Smiley(text string) string {
	if strings.HasSuffix(text, `\`) {
		text = text[:len(text)-1] + "/"
	}
	return f.output("|" + text + "|")
}
