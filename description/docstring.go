package description

import (
	"regexp"
	"strings"
)

// headingRe matches a DESCRIPTION section heading, optionally prefixed with
// '#' and optionally followed by a colon and inline text.
var headingRe = regexp.MustCompile(`(?i)^#*\s*description\s*(?::\s*(.*))?$`)

var underlineRe = regexp.MustCompile(`^[-=]+\s*$`)

// FromDoc derives a description from documentation text. If the text has a
// DESCRIPTION section it is returned on its own, otherwise the whole dedented
// text is. Recognised headings:
//
//	DESCRIPTION: text
//	DESCRIPTION
//	-----------
//	text
//	Description:
//	    indented text
//
// A section body runs from its first line through every following line that
// is blank or indented.
func FromDoc(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}
	lines := dedent(strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n"))

	for i, line := range lines {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var body []string
		inline := strings.TrimSpace(m[1])
		j := i + 1
		if inline == "" {
			if j < len(lines) && underlineRe.MatchString(lines[j]) {
				j++
			}
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j >= len(lines) {
				continue
			}
			body = append(body, lines[j])
			j++
		}
		for ; j < len(lines); j++ {
			l := lines[j]
			if strings.TrimSpace(l) != "" && !startsWithSpace(l) {
				break
			}
			body = append(body, l)
		}
		text := strings.Join(dedent(body), "\n")
		if inline != "" {
			text = inline + "\n" + text
		}
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t')
}

// dedent removes the whitespace prefix shared by every non-blank line.
func dedent(lines []string) []string {
	prefix := ""
	first := true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ws := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			prefix, first = ws, false
			continue
		}
		for !strings.HasPrefix(ws, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			out[i] = ""
			continue
		}
		out[i] = strings.TrimPrefix(l, prefix)
	}
	return out
}
