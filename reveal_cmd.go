package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mypyreveal/internal/config"
	"mypyreveal/internal/model"
	"mypyreveal/internal/render"
	"mypyreveal/internal/reveal"
	"mypyreveal/internal/tui"
)

// revealOptions are the flags of the reveal command.
type revealOptions struct {
	offset  int
	end     int
	line    int
	col     int
	locals  bool
	project string
	tui     bool
	html    bool
	json    bool
	copy    bool
}

var revealOpts revealOptions

var revealCmd = &cobra.Command{
	Use:   "reveal [FILE|-]",
	Short: "Reveal the type of an expression, or of all locals at a line",
	Long: `Reveal the type mypy infers for the expression selected by --offset/--end,
or for the identifier under the cursor when the selection is empty.
With --locals, reveal every local variable at the cursor line instead.

The buffer is read from FILE, or from stdin when FILE is "-" or omitted.`,
	Example: `  mypyreveal reveal app.py --line 12 --col 9
  mypyreveal reveal app.py --offset 310 --end 324 --tui
  mypyreveal reveal --locals --line 12 - < app.py
  mypyreveal reveal app.py -l 12 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReveal,
}

func init() {
	addRevealFlags(revealCmd.Flags(), &revealOpts)
	revealCmd.MarkFlagsMutuallyExclusive("tui", "html", "json")
	revealCmd.MarkFlagsMutuallyExclusive("offset", "line")
}

func addRevealFlags(fs *pflag.FlagSet, o *revealOptions) {
	fs.IntVarP(&o.offset, "offset", "o", -1, "selection start as a character offset")
	fs.IntVarP(&o.end, "end", "e", -1, "selection end as a character offset (default: --offset)")
	fs.IntVarP(&o.line, "line", "l", 0, "cursor line (1-based)")
	fs.IntVar(&o.col, "col", 1, "cursor column (1-based, with --line)")
	fs.BoolVarP(&o.locals, "locals", "L", false, "reveal all local variables at the cursor line")
	fs.StringVarP(&o.project, "project", "p", "", "project file (default: nearest *.sublime-project)")
	fs.BoolVarP(&o.tui, "tui", "T", false, "show the result in an interactive popup")
	fs.BoolVar(&o.html, "html", false, "print the popup HTML")
	fs.BoolVarP(&o.json, "json", "j", false, "print the result as JSON")
	fs.BoolVar(&o.copy, "copy", false, "copy the revealed type to the clipboard")
}

// span resolves the selection flags against buf.
func (o revealOptions) span(buf model.Buffer) (model.Span, error) {
	if o.line > 0 {
		off := buf.Offset(o.line, o.col)
		return model.Span{Start: off, End: off}, nil
	}
	if o.offset < 0 {
		return model.Span{}, errors.New("one of --offset or --line is required")
	}
	end := o.end
	if end < 0 {
		end = o.offset
	}
	if end < o.offset {
		return model.Span{}, fmt.Errorf("--end %d is before --offset %d", end, o.offset)
	}
	return model.Span{Start: o.offset, End: end}, nil
}

func runReveal(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	source, err := model.ReadSource(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	span, err := revealOpts.span(model.NewBuffer(source))
	if err != nil {
		return err
	}

	logger := globals.logger()
	opts := globals.configOptions()
	opts.BufferPath = path
	opts.ProjectPath = revealOpts.project
	resolved := config.Resolve(opts, logger)
	logger.Printf("executable %q, working directory %q, timeout %s", resolved.Executable, resolved.Dir, resolved.Timeout)

	req := reveal.Request{
		Source:     source,
		Span:       span,
		Locals:     revealOpts.locals,
		Executable: resolved.Executable,
		Dir:        resolved.Dir,
		Timeout:    resolved.Timeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if revealOpts.tui {
		return runTuiMode(ctx, req, resolved)
	}

	r := reveal.New(reveal.NewExecutor(logger), logger)
	res, err := r.Reveal(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case revealOpts.json:
		err = runJsonMode(res, resolved)
	case revealOpts.html:
		fmt.Println(render.Popup(res.Content, render.PopupMinHeight))
	default:
		runPlainMode(res)
	}
	if err != nil {
		return err
	}

	if revealOpts.copy {
		if err := clipboard.WriteAll(render.Strip(res.Content)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, render.CopiedStatus)
	}
	return nil
}

func runPlainMode(res model.Result) {
	if !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	em := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Println(render.Terminal(res.Content, func(s string) string { return em(s) }))
}

func runJsonMode(res model.Result, resolved config.Resolved) error {
	out := struct {
		model.Result
		Popup      string `json:"popup"`
		Text       string `json:"text"`
		Executable string `json:"executable"`
		Dir        string `json:"dir,omitempty"`
	}{
		Result:     res,
		Popup:      render.Popup(res.Content, render.PopupMinHeight),
		Text:       render.Strip(res.Content),
		Executable: resolved.Executable,
		Dir:        resolved.Dir,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runTuiMode(ctx context.Context, req reveal.Request, resolved config.Resolved) error {
	// The popup owns the terminal; logs go to a file or nowhere.
	logger := log.New(io.Discard, "", 0)
	if globals.verbose {
		f, err := tea.LogToFile("mypyreveal.log", "mypyreveal")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.New(f, "mypyreveal: ", log.LstdFlags)
	} else {
		log.SetOutput(io.Discard)
	}

	r := reveal.New(reveal.NewExecutor(logger), logger)
	m := tui.InitialModel(ctx, r, req, tui.Options{
		MaxWidth:  resolved.MaxWidth,
		MinHeight: resolved.MinHeight,
	})
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("popup: %w", err)
	}
	return nil
}
