package rst

import (
	"sort"
	"strconv"
	"strings"
)

type descriptionURL struct {
	description string
	url         string
}

// linkTargets holds the hyperlink targets referenced so far, in first seen
// order.
type linkTargets []descriptionURL

type targetResult int

const (
	targetNew targetResult = iota
	targetDuplicate
	targetCollision
)

func (lt *linkTargets) add(description, url string) targetResult {
	for _, t := range *lt {
		if t.description == description {
			if t.url == url {
				return targetDuplicate
			}
			return targetCollision
		}
	}
	*lt = append(*lt, descriptionURL{description, url})
	return targetNew
}

// groups partitions the targets by url, ordered by the first occurrence of
// each url.
func (lt linkTargets) groups() [][]descriptionURL {
	var groups [][]descriptionURL
	index := make(map[string]int)
	for _, t := range lt {
		i, ok := index[t.url]
		if !ok {
			i = len(groups)
			index[t.url] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}

// substitutions maps image substitution names to image urls, remembering
// the order names were first defined in.
type substitutions struct {
	names []string
	urls  map[string]string
}

func (s *substitutions) set(name, url string) {
	if s.urls == nil {
		s.urls = make(map[string]string)
	}
	if _, defined := s.urls[name]; !defined {
		s.names = append(s.names, name)
	}
	s.urls[name] = url
}

type footnotes struct {
	last  int
	texts map[int]string
}

func (fn *footnotes) add(text string) int {
	if fn.texts == nil {
		fn.texts = make(map[int]string)
	}
	fn.last++
	fn.texts[fn.last] = text
	return fn.last
}

// footnote registers text as the next footnote and references it. Without
// text, all pending footnotes are written instead.
func (f *Formatter) footnote(text string) string {
	if text != "" {
		n := f.footnotes.add(text)
		return f.output("[" + strconv.Itoa(n) + "]_")
	}
	numbers := make([]int, 0, len(f.footnotes.texts))
	for n := range f.footnotes.texts {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	var result string
	for _, n := range numbers {
		result += f.outputEOLBlock(".. [" + strconv.Itoa(n) + "] " + f.footnotes.texts[n])
		delete(f.footnotes.texts, n)
	}
	return result
}

// EndContent writes out everything deferred during the pass: pending
// footnotes, hyperlink targets and image substitution definitions. The
// block is introduced by a separator comment if it is not empty.
func (f *Formatter) EndContent() string {
	result := f.footnote("")

	for _, group := range f.targets.groups() {
		last := group[len(group)-1]
		for _, t := range group[:len(group)-1] {
			result += f.outputEOL(".. _" + quoteLinkDescription(t.description) + ":")
		}
		result += f.outputEOLBlock(".. _" + quoteLinkDescription(last.description) + ": " + last.url)
	}
	f.targets = nil

	for _, name := range f.images.names {
		result += f.outputEOLBlock(".. |" + name + "| image:: " + f.images.urls[name])
	}
	f.images = substitutions{}

	if result != "" {
		result = f.Comment("## "+strings.Repeat("#", 76)) + result
	}
	return result
}
