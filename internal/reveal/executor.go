package reveal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// ErrTimeout is returned when the checker outlives its invocation timeout.
var ErrTimeout = errors.New("type checker timed out")

// waitDelay bounds how long Run waits for output pipes after the checker is
// killed, in case it left children holding them open.
const waitDelay = 2 * time.Second

// Invocation is one run of the checker over a probe.
type Invocation struct {
	Executable string
	Source     string        // Program text passed by value with -c
	Dir        string        // Working directory; empty inherits ours
	Timeout    time.Duration // Zero disables the bound
}

// Runner runs the checker and returns its decoded standard output.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (string, error)
}

// Executor runs the checker as a child process.
type Executor struct {
	Logger *log.Logger
}

// NewExecutor returns an Executor logging to logger, or nowhere if nil.
func NewExecutor(logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Executor{Logger: logger}
}

// Run executes `<executable> -c <source>`. A non-zero exit status is how type
// checkers report findings, so it is not treated as a failure.
func (e *Executor) Run(ctx context.Context, inv Invocation) (string, error) {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Executable, "-c", inv.Source)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	e.Logger.Printf("%s -c <%d bytes> in %q finished in %s", inv.Executable, len(inv.Source), inv.Dir, time.Since(start).Round(time.Millisecond))

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", fmt.Errorf("%s after %s: %w", inv.Executable, inv.Timeout, ErrTimeout)
		}
		return "", ctxErr
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", fmt.Errorf("run %s: %w", inv.Executable, err)
	}
	if stderr.Len() > 0 {
		e.Logger.Printf("checker stderr: %s", strings.TrimSpace(stderr.String()))
	}
	return decodeOutput(stdout.Bytes()), nil
}

// decodeOutput decodes checker output as UTF-8, replacing invalid sequences.
func decodeOutput(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}
