package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mypyreveal/internal/model"
	"mypyreveal/internal/reveal"
)

// AppModel holds the popup state.
type AppModel struct {
	// Data
	Request  reveal.Request
	Result   model.Result
	Context  model.LineContext
	Attempt  model.Attempt
	Loading  bool
	Err      error
	Status   string
	Closing  bool
	revealer *reveal.Revealer
	ctx      context.Context

	// UI State
	WindowSize tea.WindowSizeMsg
	MaxWidth   int // Popup width cap in columns
	MinHeight  int // Popup body height floor in lines

	// Components
	Spinner  spinner.Model
	Viewport viewport.Model

	// copy puts text on the system clipboard
	copy func(string) error
}

// Options configures the popup.
type Options struct {
	MaxWidth  int
	MinHeight int
	// Copy replaces the system clipboard writer.
	Copy func(string) error
}

// InitialModel returns the popup for req, revealed through r.
func InitialModel(ctx context.Context, r *reveal.Revealer, req reveal.Request, opts Options) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	buf := model.NewBuffer(req.Source)
	return AppModel{
		Request:   req,
		Context:   model.GetLineContext(buf, buf.Row(req.Span.Start)+1),
		Attempt:   model.Initial,
		Loading:   true,
		revealer:  r,
		ctx:       ctx,
		MaxWidth:  opts.MaxWidth,
		MinHeight: opts.MinHeight,
		Spinner:   sp,
		Viewport:  viewport.New(opts.MaxWidth-4, opts.MinHeight),
		copy:      copyFn,
	}
}
