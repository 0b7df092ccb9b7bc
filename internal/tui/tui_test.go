package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mypyreveal/internal/model"
	"mypyreveal/internal/render"
	"mypyreveal/internal/reveal"
)

type scriptedRunner struct {
	outputs []string
	calls   int
}

func (s *scriptedRunner) Run(context.Context, reveal.Invocation) (string, error) {
	out := s.outputs[min(s.calls, len(s.outputs)-1)]
	s.calls++
	return out, nil
}

const source = "def f(n: int) -> str:\n    return str(n)\n"

func newPopup(t *testing.T, runner reveal.Runner, copied *string) AppModel {
	t.Helper()
	cursor := model.NewBuffer(source).Offset(2, 16) // inside "n" of str(n)
	req := reveal.Request{Source: source, Span: model.Span{Start: cursor, End: cursor}}
	return InitialModel(context.Background(), reveal.New(runner, nil), req, Options{
		MaxWidth:  60,
		MinHeight: 3,
		Copy: func(s string) error {
			*copied = s
			return nil
		},
	})
}

func step(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func TestPopupRetryFlow(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{
		"<string>:2: error: invalid syntax\n",
		"<string>:3: note: Revealed type is \"builtins.int\"\n",
	}}
	var copied string
	m := newPopup(t, runner, &copied)
	assert.True(t, m.Loading)
	assert.Equal(t, 2, m.Context.LineNumber)

	msg := RevealCmd(m.ctx, m.revealer, m.Request)()
	retry, ok := msg.(MsgRetry)
	require.True(t, ok, "first attempt asks for a retry")
	assert.Equal(t, model.RetryAfterError, reveal.Request(retry).Attempt())

	m, cmd := step(t, m, msg)
	require.NotNil(t, cmd)
	assert.Equal(t, model.RetryAfterError, m.Attempt)

	msg = cmd()
	ready, ok := msg.(MsgRevealReady)
	require.True(t, ok)
	assert.Equal(t, 2, runner.calls)

	m, _ = step(t, m, ready)
	assert.False(t, m.Loading)
	assert.Equal(t, `<p>"n"</p><b>builtins.int</b>`, m.Result.Content)
	assert.Contains(t, m.View(), "builtins.int")

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.NotNil(t, cmd, "popup closes after copying")
	assert.True(t, m.Closing)
	assert.Equal(t, "\"n\"\nbuiltins.int", copied)
	assert.Contains(t, m.Status, render.CopiedStatus)
}

func TestPopupError(t *testing.T) {
	var copied string
	m := newPopup(t, &scriptedRunner{outputs: []string{""}}, &copied)

	m, _ = step(t, m, MsgError(errors.New("mypy after 1s: type checker timed out")))
	assert.False(t, m.Loading)
	assert.Contains(t, m.View(), "timed out")

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Nil(t, cmd)
	assert.Empty(t, copied)
	assert.False(t, m.Closing)
}

func TestPopupPadsToMinHeight(t *testing.T) {
	var copied string
	m := newPopup(t, &scriptedRunner{outputs: []string{""}}, &copied)
	m, _ = step(t, m, MsgRevealReady(model.Result{Content: "<b>int</b>"}))
	assert.Equal(t, 3, len(strings.Split(m.renderBody(), "\n")))
}
