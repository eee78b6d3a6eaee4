package parsing

import "fmt"

// Parse failure reasons. Stable strings so callers can branch on them.
const (
	ReasonInvalidJSON       = "invalid JSON"
	ReasonMissingBranches   = "missing branches array"
	ReasonInvalidBranch     = "invalid branch structure"
	ReasonInvalidSubTopic   = "invalid subtopic structure"
)

// ParseError represents a failure to turn raw generator output into a
// valid branch list.
type ParseError struct {
	Reason string
	Detail string
	Cause  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Detail != "" && e.Cause != nil:
		return fmt.Sprintf("parse error: %s: %s: %v", e.Reason, e.Detail, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("parse error: %s: %s", e.Reason, e.Detail)
	case e.Cause != nil:
		return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Cause)
	default:
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
