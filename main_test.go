package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mypyreveal/internal/model"
)

func TestRevealOptionsSpan(t *testing.T) {
	buf := model.NewBuffer("import os\nvalue = os.getcwd()\n")
	cases := []struct {
		name string
		opts revealOptions
		want model.Span
	}{
		{"line and column", revealOptions{offset: -1, end: -1, line: 2, col: 3}, model.Span{Start: 12, End: 12}},
		{"column past line end", revealOptions{offset: -1, end: -1, line: 1, col: 99}, model.Span{Start: 9, End: 9}},
		{"cursor offset", revealOptions{offset: 14, end: -1}, model.Span{Start: 14, End: 14}},
		{"selection", revealOptions{offset: 18, end: 29}, model.Span{Start: 18, End: 29}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.opts.span(buf)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRevealOptionsSpanErrors(t *testing.T) {
	buf := model.NewBuffer("x = 1\n")
	_, err := revealOptions{offset: -1, end: -1}.span(buf)
	assert.Error(t, err)
	_, err = revealOptions{offset: 4, end: 2}.span(buf)
	assert.Error(t, err)
}

func TestTimeoutFlag(t *testing.T) {
	var f timeoutFlag
	assert.Equal(t, "", f.String())
	require.NoError(t, f.Set("45s"))
	assert.Equal(t, 45*time.Second, f.Duration)
	assert.Equal(t, "45s", f.String())
	assert.Error(t, f.Set("0s"))
	assert.Error(t, f.Set("soon"))
	assert.Equal(t, "duration", f.Type())
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["reveal"])
	assert.True(t, names["serve"])
	assert.True(t, names["version"])
	assert.Nil(t, revealCmd.Flags().Lookup("failed"), "the retry state is never a caller flag")
}
