package rst

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	headerLinePattern = regexp.MustCompile(`^#(#|\w+)\s*(.*)$`)
	pragmaPattern     = regexp.MustCompile(`(\S+)\s*(.*)$`)
)

// Processing instructions kept unchanged in the header.
var keptInstructions = map[string]bool{
	"refresh":    true,
	"redirect":   true,
	"deprecated": true,
	"acl":        true,
	"language":   true,
	"#":          true,
}

// StartDocument begins the document for the page called pageName. The page
// header lines are translated into processing instructions for a
// reStructuredText page: the format becomes "rst", the section-numbers
// pragma is deferred to StartContent and everything else is kept.
func (f *Formatter) StartDocument(pageName string, header []string) string {
	f.pageName = pageName
	result := f.header("format", "rst", true)
	for _, line := range header {
		if line == "" {
			continue
		}
		m := headerLinePattern.FindStringSubmatch(line)
		if m == nil {
			f.log.Debug().Str("line", line).Msg("keeping unparsable header line")
			result += f.outputEOL(line)
			continue
		}
		result += f.header(m[1], m[2], false)
	}
	if result != "" {
		result += f.outputEOLBlock("")
	}
	return result
}

func (f *Formatter) header(instruction, args string, force bool) string {
	if !force {
		switch {
		case instruction == "format":
			return f.output("")
		case keptInstructions[instruction]:
		case instruction == "pragma":
			if m := pragmaPattern.FindStringSubmatch(args); m != nil && m[1] == "section-numbers" {
				f.sectionDepth = parseSectionDepth(m[2])
				return f.output("")
			}
		}
	}
	return f.outputEOL("#" + instruction + " " + args)
}

// parseSectionDepth interprets the section-numbers pragma: "on" or 1 number
// all levels, "off", 0 or anything unparsable switch numbering off and
// other numbers limit the depth.
func parseSectionDepth(arg string) int {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "on":
		return 0
	case "off":
		return noSectionNumbers
	}
	depth, err := strconv.Atoi(arg)
	switch {
	case err != nil, depth <= 0:
		return noSectionNumbers
	case depth == 1:
		return 0
	}
	return depth
}

// StartContent begins the page content, numbering sections if the header
// asked for it.
func (f *Formatter) StartContent() string {
	result := f.output("")
	if f.sectionDepth == noSectionNumbers {
		return result
	}
	result += f.outputEOL(".. sectnum::")
	if f.sectionDepth > 0 {
		f.indentation += 3
		result += f.output(":depth: " + strconv.Itoa(f.sectionDepth))
		f.indentation -= 3
	}
	result += f.outputEOLBlock("")
	return result
}

// EndDocument ends the document.
func (f *Formatter) EndDocument() string { return f.output("") }
