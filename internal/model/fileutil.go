package model

import (
	"fmt"
	"io"
	"os"
)

// LineContext represents a line of the buffer with surrounding context
type LineContext struct {
	Before1    string // Line before the target
	Target     string // The actual target line
	After1     string // Line after the target
	LineNumber int    // Line number of the target
	HasBefore1 bool   // Whether there's a line before
	HasAfter1  bool   // Whether there's a line after
	ErrorMsg   string // Set when the line number is outside the buffer
}

// GetLineContext returns the target line of buf with one line of context on
// each side. lineNumber is 1-based.
func GetLineContext(buf Buffer, lineNumber int) LineContext {
	result := LineContext{
		LineNumber: lineNumber,
	}

	lines := buf.Lines()

	// Check if line number is valid
	if lineNumber < 1 || lineNumber > len(lines) {
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (buffer has %d lines)", lineNumber, len(lines))
		return result
	}

	// Get the target line (convert to 0-indexed)
	result.Target = lines[lineNumber-1]

	if lineNumber > 1 {
		result.Before1 = lines[lineNumber-2]
		result.HasBefore1 = true
	}
	if lineNumber < len(lines) {
		result.After1 = lines[lineNumber]
		result.HasAfter1 = true
	}

	return result
}

// ReadSource loads buffer text from path, or from stdin when path is "-".
func ReadSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read file: %w", err)
	}
	return string(data), nil
}
