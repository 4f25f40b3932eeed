package manifest

import "strings"

// Position is a 0-based line/column location in manifest text.
type Position struct {
	Line   int
	Column int
}

// Range spans the matched dependency line, from the first character of the
// package name to the end of the line.
type Range struct {
	Start Position
	End   Position
}

// FindPackageRange locates the line declaring name inside the given section
// of raw manifest text. It scans lines rather than the parse tree: after the
// section header, the first deeper-indented line starting with `name:` wins,
// and the scan stops once a line at or above the header's indentation ends
// in a colon. That is exact for the flat maps pubspec dependency sections
// are, and intentionally no smarter.
func FindPackageRange(doc []byte, name, section string) (Range, bool) {
	lines := strings.Split(string(doc), "\n")

	headerIndent := -1
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		indent := len(line) - len(strings.TrimLeft(line, " "))

		if headerIndent < 0 {
			if trimmed == section+":" {
				headerIndent = indent
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		if indent > headerIndent && strings.HasPrefix(trimmed, name+":") {
			return Range{
				Start: Position{Line: i, Column: indent},
				End:   Position{Line: i, Column: len(line)},
			}, true
		}

		// A same-or-lower-indented key line means the section ended.
		if indent <= headerIndent && strings.HasSuffix(trimmed, ":") {
			break
		}
	}

	return Range{}, false
}
