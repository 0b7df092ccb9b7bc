package reveal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Markers in mypy's note stream.
const (
	revealedTypeNote   = "note: Revealed type is "
	revealedLocalsHead = "Revealed local types are:"
	errorMarker        = ": error: "
)

// LocalsFailure is shown when no local variable could be revealed.
const LocalsFailure = "reveal_locals error"

// HasError reports whether checker output carries an error diagnostic.
func HasError(out string) bool {
	return strings.Contains(out, errorMarker)
}

// ParseType extracts the revealed type reported on line from checker output
// as an emphasised HTML fragment. Without a revealed type note, whatever the
// last line reports for that line is returned instead, or "" if nothing.
func ParseType(out string, line int) string {
	search := fmt.Sprintf("%d: %s", line, revealedTypeNote)
	lines := splitLines(out)
	for _, l := range lines {
		if rest, ok := cutNote(l, search); ok {
			// Generic types carry angle brackets that would read as tags in the popup.
			return Emphasize(EscapeAngles(unquote(strings.TrimSpace(rest))))
		}
	}

	// no revealed type found
	if len(lines) == 0 {
		return ""
	}
	last := lines[len(lines)-1]
	parts := strings.Split(last, fmt.Sprintf("%d: ", line))
	if len(parts) < 2 {
		return ""
	}
	return EscapeAngles(parts[1]) // same popup HTML as above
}

// ParseLocals renders the local variable types reported on line as aligned
// "name type" rows joined by <br>. It returns LocalsFailure when the output
// holds no locals for that line.
func ParseLocals(out string, line int) string {
	search := fmt.Sprintf("%d: note: ", line)

	type local struct{ name, typ string }
	var locals []local
	for _, l := range splitLines(out) {
		rest, ok := cutNote(l, search)
		if !ok || strings.Contains(l, revealedLocalsHead) {
			continue
		}
		name, typ, _ := strings.Cut(strings.TrimSpace(rest), ": ")
		locals = append(locals, local{name, typ})
	}
	if len(locals) == 0 {
		return LocalsFailure
	}

	width := 0
	for _, v := range locals {
		width = max(width, utf8.RuneCountInString(v.name))
	}
	rows := make([]string, 0, len(locals))
	for _, v := range locals {
		pad := strings.Repeat(nbsp, width-utf8.RuneCountInString(v.name))
		rows = append(rows, Emphasize(v.name+pad)+" "+EscapeAngles(v.typ))
	}
	return strings.Join(rows, lineBreak)
}

// cutNote returns the text after the first occurrence of search in line that
// is not the tail of a longer line number, so line 3 never matches "13: ".
func cutNote(line, search string) (string, bool) {
	for from := 0; ; {
		i := strings.Index(line[from:], search)
		if i < 0 {
			return "", false
		}
		i += from
		if i == 0 || line[i-1] < '0' || line[i-1] > '9' {
			return line[i+len(search):], true
		}
		from = i + 1
	}
}

// unquote drops the quote marks mypy puts around revealed types.
func unquote(s string) string {
	if utf8.RuneCountInString(s) < 2 {
		return ""
	}
	_, first := utf8.DecodeRuneInString(s)
	_, last := utf8.DecodeLastRuneInString(s)
	return s[first : len(s)-last]
}

// splitLines splits output into lines without their terminators.
func splitLines(out string) []string {
	out = strings.TrimRight(out, "\r\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
