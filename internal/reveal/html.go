package reveal

import "strings"

const (
	nbsp      = "&nbsp;"
	lineBreak = "<br>"
)

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// EscapeAngles escapes the angle brackets mypy prints in types such as
// <nothing> or def (x: int) -> str.
func EscapeAngles(s string) string {
	return angleEscaper.Replace(s)
}

// Emphasize marks s as emphasised popup text.
func Emphasize(s string) string {
	return "<b>" + s + "</b>"
}

// Quote renders the revealed expression above its type.
func Quote(selection string) string {
	return `<p>"` + EscapeAngles(selection) + `"</p>`
}
