package tui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mypyreveal/internal/model"
	"mypyreveal/internal/render"
	"mypyreveal/internal/reveal"
)

// closeDelay keeps the copied status visible before the popup closes.
const closeDelay = 800 * time.Millisecond

// MsgRevealReady carries the parsed result of the final attempt.
type MsgRevealReady model.Result

// MsgRetry asks for the request to be re-issued with the retry strategy.
type MsgRetry reveal.Request

// MsgError indicates the checker could not be run.
type MsgError error

type msgClose struct{}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.Viewport.Width = m.bodyWidth()
		m.Viewport.Height = m.bodyHeight()
		return m, nil

	case MsgRetry:
		m.Attempt = model.RetryAfterError
		log.Printf("retrying with %s", m.Attempt)
		return m, RevealCmd(m.ctx, m.revealer, reveal.Request(msg))

	case MsgRevealReady:
		m.Loading = false
		m.Result = model.Result(msg)
		m.Viewport.Height = m.bodyHeight()
		m.Viewport.SetContent(m.renderBody())
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case msgClose:
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "c", "y":
			if m.Loading || m.Err != nil || m.Closing {
				return m, nil
			}
			if err := m.copy(render.Strip(m.Result.Content)); err != nil {
				m.Status = model.IconFailure + " " + err.Error()
				return m, nil
			}
			m.Status = model.IconCopied + " " + render.CopiedStatus
			m.Closing = true
			return m, tea.Tick(closeDelay, func(time.Time) tea.Msg { return msgClose{} })
		}
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	return m, cmd
}

// RevealCmd runs one attempt in the background and posts its outcome back.
func RevealCmd(ctx context.Context, r *reveal.Revealer, req reveal.Request) tea.Cmd {
	return func() tea.Msg {
		outcome, err := r.Attempt(ctx, req)
		if err != nil {
			return MsgError(err)
		}
		if outcome.Retry {
			return MsgRetry(req.Retry())
		}
		return MsgRevealReady(outcome.Result)
	}
}
