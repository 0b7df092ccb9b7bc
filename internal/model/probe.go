package model

// Attempt is the retry state of a reveal request.
type Attempt int

const (
	// Initial is the first invocation of the checker.
	Initial Attempt = iota
	// RetryAfterError follows an Initial attempt whose output carried an
	// error diagnostic. It is terminal.
	RetryAfterError
)

func (a Attempt) String() string {
	switch a {
	case Initial:
		return "initial"
	case RetryAfterError:
		return "retry-after-error"
	default:
		return "unknown"
	}
}

// Probe is a copy of the buffer text with a reveal call injected.
type Probe struct {
	Source    string  // Full text handed to the checker
	Line      int     // 1-based line the checker reports the probe on
	Selection string  // Expression being revealed, empty in locals mode
	Attempt   Attempt // Strategy that produced this probe
	Locals    bool    // reveal_locals() rather than reveal_type()
}

// Result is the outcome of a reveal request.
type Result struct {
	Selection string `json:"selection,omitempty"` // Revealed expression
	Line      int    `json:"line"`                // Probe line of the final attempt
	Locals    bool   `json:"locals"`
	Attempts  int    `json:"attempts"` // Number of checker invocations
	Output    string `json:"output"`   // Raw checker output of the final attempt
	Content   string `json:"content"`  // Popup body as an HTML fragment
}
