// Package render turns popup HTML fragments into the forms the hosts show:
// a full popup document, plain text for the clipboard, and styled terminal
// text.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CopyHref is the link target of the popup's copy affordance.
const CopyHref = "copy"

// PopupMinHeight is the popup's minimum height in pixels.
const PopupMinHeight = 100

// CopiedStatus is shown after the popup content is put on the clipboard.
const CopiedStatus = "MypyReveal: type info copied to clipboard"

// Popup wraps content in the popup document.
func Popup(content string, minHeight int) string {
	return fmt.Sprintf(`<style>body { min-height: %dpx }</style><p>%s</p><a href="%s">Copy</a>`,
		minHeight, content, CopyHref)
}

// Emphasis styles an emphasised run of text.
type Emphasis func(string) string

// Plain leaves emphasised text as is.
func Plain(s string) string { return s }

// Strip returns the text of an HTML fragment: tags removed, entities decoded,
// line breaks and paragraphs turned into newlines.
func Strip(fragment string) string {
	return Terminal(fragment, Plain)
}

// Terminal renders an HTML fragment as terminal text, passing bold runs
// through em. Non-breaking spaces become plain spaces so padding survives.
func Terminal(fragment string, em Emphasis) string {
	var out strings.Builder
	var run strings.Builder
	bold, inStyle := 0, false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if bold > 0 {
			out.WriteString(em(run.String()))
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}
	newline := func() {
		flush()
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteString("\n")
		}
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return strings.TrimRight(out.String(), "\n")
		case html.TextToken:
			if inStyle {
				continue
			}
			run.WriteString(strings.ReplaceAll(string(z.Text()), "\u00a0", " "))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				flush()
				bold++
			case "br":
				flush()
				out.WriteString("\n")
			case "p", "div":
				newline()
			case "style":
				inStyle = tt == html.StartTagToken
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				flush()
				if bold > 0 {
					bold--
				}
			case "p", "div":
				newline()
			case "style":
				inStyle = false
			}
		}
	}
}
