package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopup(t *testing.T) {
	got := Popup("<b>int</b>", 100)
	assert.Equal(t, `<style>body { min-height: 100px }</style><p><b>int</b></p><a href="copy">Copy</a>`, got)
}

func TestStrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"emphasis", "<b>builtins.int</b>", "builtins.int"},
		{"quoted selection", `<p>"xs"</p><b>builtins.list[builtins.int]</b>`, "\"xs\"\nbuiltins.list[builtins.int]"},
		{"locals", "<b>x&nbsp;&nbsp;&nbsp;</b> int<br><b>name</b> str", "x    int\nname str"},
		{"entities", "def (x: int) -&gt; &lt;nothing&gt;", "def (x: int) -> <nothing>"},
		{"sentinel", "reveal_locals error", "reveal_locals error"},
		{"empty", "", ""},
		{"whole popup", Popup("<b>str</b>", 100), "str\nCopy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Strip(tc.in))
		})
	}
}

func TestTerminalEmphasis(t *testing.T) {
	em := func(s string) string { return "[" + s + "]" }
	got := Terminal(`<p>"v"</p><b>builtins.str</b>`, em)
	assert.Equal(t, "\"v\"\n[builtins.str]", got)

	got = Terminal("<b>k&nbsp;</b> int<br><b>xs</b> list", em)
	assert.Equal(t, "[k ] int\n[xs] list", got)
}
