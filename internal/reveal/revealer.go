package reveal

import (
	"context"
	"io"
	"log"
	"time"

	"mypyreveal/internal/model"
)

// Request is one reveal action over a buffer.
type Request struct {
	Source     string     // Buffer text; never modified
	Span       model.Span // Selection, or a zero-width cursor
	Locals     bool       // Reveal all locals at the cursor line
	Executable string
	Dir        string
	Timeout    time.Duration

	// failed marks the retry after an error diagnostic. Only Retry sets it.
	failed bool
}

// Retry returns the request re-issued after an error diagnostic.
func (req Request) Retry() Request {
	req.failed = true
	return req
}

// Attempt returns the retry state the request is in.
func (req Request) Attempt() model.Attempt {
	if req.failed {
		return model.RetryAfterError
	}
	return model.Initial
}

// Outcome is the result of one checker invocation.
type Outcome struct {
	Result model.Result
	// Retry is set when the output should be discarded and the request
	// re-issued with req.Retry().
	Retry bool
}

// Revealer drives probe injection, the checker and output parsing.
type Revealer struct {
	runner Runner
	logger *log.Logger
}

// New returns a Revealer running the checker through runner.
func New(runner Runner, logger *log.Logger) *Revealer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Revealer{runner: runner, logger: logger}
}

// Attempt performs a single invocation. In expression mode an initial attempt
// whose output carries an error diagnostic asks for a retry instead of
// parsing; a retry attempt always parses.
func (r *Revealer) Attempt(ctx context.Context, req Request) (Outcome, error) {
	buf := model.NewBuffer(req.Source)
	span := ExpandSelection(buf, req.Span)
	probe := Inject(buf, span, req.Locals, req.Attempt())
	r.logger.Printf("mypy_reveal: %s probe on line %d (%s)", probeKind(probe), probe.Line, probe.Attempt)

	out, err := r.runner.Run(ctx, Invocation{
		Executable: req.Executable,
		Source:     probe.Source,
		Dir:        req.Dir,
		Timeout:    req.Timeout,
	})
	if err != nil {
		return Outcome{}, err
	}

	result := model.Result{
		Selection: probe.Selection,
		Line:      probe.Line,
		Locals:    probe.Locals,
		Attempts:  int(probe.Attempt) + 1,
		Output:    out,
	}
	if probe.Locals {
		result.Content = ParseLocals(out, probe.Line)
		return Outcome{Result: result}, nil
	}
	if probe.Attempt == model.Initial && HasError(out) {
		r.logger.Printf("mypy_reveal: error diagnostic on first attempt, retrying")
		return Outcome{Result: result, Retry: true}, nil
	}
	result.Content = ParseType(out, probe.Line)
	if probe.Selection != "" {
		result.Content = Quote(probe.Selection) + result.Content
	}
	return Outcome{Result: result}, nil
}

// Reveal runs attempts until one yields a result. At most two invocations
// are made.
func (r *Revealer) Reveal(ctx context.Context, req Request) (model.Result, error) {
	for {
		outcome, err := r.Attempt(ctx, req)
		if err != nil {
			return model.Result{}, err
		}
		if !outcome.Retry {
			return outcome.Result, nil
		}
		req = req.Retry()
	}
}

func probeKind(p model.Probe) string {
	if p.Locals {
		return "reveal_locals"
	}
	return "reveal_type"
}
