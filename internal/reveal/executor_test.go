package reveal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker writes an executable shell script standing in for mypy.
func fakeChecker(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script checker requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "mypy")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestExecutorPassesSourceByValue(t *testing.T) {
	// Echo back the flag and the program text, the way mypy would see them.
	exe := fakeChecker(t, `printf '%s|%s|%s\n' "$1" "$2" "$(pwd)"; echo "warning" >&2; exit 1`)
	dir := t.TempDir()

	out, err := NewExecutor(nil).Run(context.Background(), Invocation{
		Executable: exe,
		Source:     "x = reveal_type(1)",
		Dir:        dir,
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err, "non-zero exit is not a failure")

	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(out[len("-c|x = reveal_type(1)|") : len(out)-1])
	require.NoError(t, err)
	assert.Equal(t, "-c|x = reveal_type(1)|", out[:len("-c|x = reveal_type(1)|")])
	assert.Equal(t, wantDir, gotDir)
	assert.NotContains(t, out, "warning")
}

func TestExecutorTimeout(t *testing.T) {
	exe := fakeChecker(t, `exec sleep 5`)

	start := time.Now()
	_, err := NewExecutor(nil).Run(context.Background(), Invocation{
		Executable: exe,
		Source:     "pass",
		Timeout:    100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecutorMissingExecutable(t *testing.T) {
	_, err := NewExecutor(nil).Run(context.Background(), Invocation{
		Executable: filepath.Join(t.TempDir(), "does-not-exist"),
		Source:     "pass",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestDecodeOutputReplacesInvalidUTF8(t *testing.T) {
	assert.Equal(t, "a�b", decodeOutput([]byte{'a', 0xff, 'b'}))
	assert.Equal(t, "héllo", decodeOutput([]byte("héllo")))
}
