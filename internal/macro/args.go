package macro

import (
	"bufio"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitArgs splits a macro argument string at commas. Arguments may be
// quoted with double or single quotes to contain commas; quotes are removed
// and backslash escapes inside them resolved.
func SplitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	sc := bufio.NewScanner(strings.NewReader(args))
	sc.Split(ScanArgs)
	var out []string
	for sc.Scan() {
		out = append(out, unquoteArg(sc.Text()))
	}
	return out
}

// ScanArgs implements a bufio.SplitFunc that will scan comma separated,
// optionally quoted, argument tokens. Surrounding white space is not part
// of a token.
func ScanArgs(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// Skip leading spaces.
	start := 0
	var r rune
	for width := 0; start < len(data); start += width {
		r, width = utf8.DecodeRune(data[start:])
		if !unicode.IsSpace(r) {
			break
		}
	}

	if start < len(data) && (r == '"' || r == '\'') {
		// Scan until end quote, skipping escaped quotes, then on to the
		// next comma.
		q := r
		esc := false
		for width, i := 0, start+1; i < len(data); i += width {
			r, width = utf8.DecodeRune(data[i:])
			if esc {
				esc = false
			} else if r == '\\' {
				esc = true
			} else if r == q {
				end := i + width
				if j, ok := nextComma(data, end, atEOF); ok {
					return j, data[start:end], nil
				}
				break
			}
		}
	} else {
		// Scan until comma.
		for i := start; i < len(data); i++ {
			if data[i] == ',' {
				return i + 1, trimRightSpace(data[start:i]), nil
			}
		}
	}

	// If we're at EOF, we have a final, non-terminated arg. Return it.
	if atEOF && len(data) > 0 {
		return len(data), trimRightSpace(data[start:]), nil
	}
	// Request more data.
	return 0, nil, nil
}

// nextComma returns the offset after the comma ending the argument at i, or
// the end of data at EOF.
func nextComma(data []byte, i int, atEOF bool) (int, bool) {
	for ; i < len(data); i++ {
		if data[i] == ',' {
			return i + 1, true
		}
	}
	return len(data), atEOF
}

func trimRightSpace(b []byte) []byte {
	for len(b) > 0 {
		r, width := utf8.DecodeLastRune(b)
		if !unicode.IsSpace(r) {
			break
		}
		b = b[:len(b)-width]
	}
	return b
}

func unquoteArg(arg string) string {
	if len(arg) < 2 {
		return arg
	}
	q := arg[0]
	if (q != '"' && q != '\'') || arg[len(arg)-1] != q {
		return arg
	}
	var sb strings.Builder
	esc := false
	for _, r := range arg[1 : len(arg)-1] {
		if !esc && r == '\\' {
			esc = true
			continue
		}
		esc = false
		sb.WriteRune(r)
	}
	return sb.String()
}
