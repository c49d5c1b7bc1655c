package rst

// Macro outputs a call of the wiki macro name without arguments.
func (f *Formatter) Macro(name string) string { return f.macro(name, "", false) }

// MacroArgs outputs a call of the wiki macro name with its unparsed
// argument string.
func (f *Formatter) MacroArgs(name, args string) string { return f.macro(name, args, true) }

func (f *Formatter) macro(name, args string, hasArgs bool) string {
	switch name {
	case "TableOfContents":
		result := f.output(".. contents::")
		if args != "" {
			result += f.outputEOL("")
			f.indentation += literalIndent
			result += f.output(":depth: " + args)
			f.indentation -= literalIndent
		}
		return result

	case "FootNote":
		return f.footnote(args)

	case "Anchor":
		return f.AnchorDef(args)

	case "BR":
		return f.LineBreak()

	case "Icon":
		return f.Icon(args)
	}

	f.log.Debug().Str("macro", name).Msg("macro not converted")
	call := "[[" + name
	if hasArgs {
		call += "(" + args + ")"
	}
	return f.output("`" + call + "]]`_")
}
