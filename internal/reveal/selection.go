package reveal

import "mypyreveal/internal/model"

// isIdentChar reports whether r may appear in an identifier the expander
// grows a cursor over: ASCII letters, digits and underscore.
func isIdentChar(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}

// ExpandSelection returns span unchanged when it selects something. A
// zero-width cursor is grown over the identifier run surrounding it; with no
// identifier neighbour the cursor span comes back as is.
func ExpandSelection(buf model.Buffer, span model.Span) model.Span {
	start := buf.Clamp(span.Start)
	end := buf.Clamp(span.End)
	if start > end {
		start, end = end, start
	}
	if start != end {
		return model.Span{Start: start, End: end}
	}

	// move selection backwards
	for start > 0 && isIdentChar(buf.At(start-1)) {
		start--
	}
	// move selection forwards
	for end < buf.Size() && isIdentChar(buf.At(end)) {
		end++
	}
	return model.Span{Start: start, End: end}
}
