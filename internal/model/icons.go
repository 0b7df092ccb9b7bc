package model

// Glyphs used by the popup footer and status line.
// Using simple single-width characters for consistent terminal rendering
const (
	IconType    = "τ" // Revealed type
	IconLocals  = "λ" // Local variable listing
	IconRetry   = "↻" // Answer came from the retry attempt
	IconCopied  = "✓" // Clipboard copy succeeded
	IconFailure = "✗" // Nothing could be revealed
)
