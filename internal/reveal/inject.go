package reveal

import (
	"strings"

	"mypyreveal/internal/model"
)

// Probe calls understood by mypy.
const (
	RevealTypeFunc   = "reveal_type"
	RevealLocalsCall = "reveal_locals()"
)

// indentUnit is added below a line that opens a block. Tab-indented lines get
// a tab instead.
const indentUnit = "    "

// Inject builds the probe for a request. span must already be expanded.
func Inject(buf model.Buffer, span model.Span, locals bool, attempt model.Attempt) model.Probe {
	switch {
	case locals:
		return AppendLocals(buf, span.End)
	case attempt == model.RetryAfterError:
		return AppendExpression(buf, span)
	default:
		return WrapExpression(buf, span)
	}
}

// WrapExpression replaces the selected text with reveal_type(<text>) in place.
// The line count is unchanged, so the probe reports on the selection's line.
func WrapExpression(buf model.Buffer, span model.Span) model.Probe {
	selection := buf.Slice(span)
	var b strings.Builder
	b.WriteString(buf.Slice(model.Span{Start: 0, End: span.Start}))
	b.WriteString(RevealTypeFunc + "(" + selection + ")")
	b.WriteString(buf.Slice(model.Span{Start: span.End, End: buf.Size()}))
	return model.Probe{
		Source:    b.String(),
		Line:      buf.Row(span.Start) + 1,
		Selection: selection,
		Attempt:   model.Initial,
	}
}

// AppendExpression inserts reveal_type(<text>) as a new line after the line
// holding the end of the selection.
func AppendExpression(buf model.Buffer, span model.Span) model.Probe {
	selection := buf.Slice(span)
	return model.Probe{
		Source:    insertAfterLine(buf, span.End, RevealTypeFunc+"("+selection+")"),
		Line:      buf.Row(span.End) + 2,
		Selection: selection,
		Attempt:   model.RetryAfterError,
	}
}

// AppendLocals inserts reveal_locals() as a new line after the line holding
// cursor.
func AppendLocals(buf model.Buffer, cursor int) model.Probe {
	return model.Probe{
		Source:  insertAfterLine(buf, cursor, RevealLocalsCall),
		Line:    buf.Row(cursor) + 2,
		Attempt: model.Initial,
		Locals:  true,
	}
}

func insertAfterLine(buf model.Buffer, offset int, stmt string) string {
	eol := buf.LineEnd(offset)
	var b strings.Builder
	b.WriteString(buf.Slice(model.Span{Start: 0, End: eol}))
	b.WriteString("\n")
	b.WriteString(probeIndent(buf.Line(offset)))
	b.WriteString(stmt)
	b.WriteString(buf.Slice(model.Span{Start: eol, End: buf.Size()}))
	return b.String()
}

// probeIndent returns the indentation for a statement following line.
func probeIndent(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	if strings.HasSuffix(strings.TrimRight(line, " \t\r"), ":") {
		if strings.HasPrefix(indent, "\t") {
			return indent + "\t"
		}
		return indent + indentUnit
	}
	return indent
}
