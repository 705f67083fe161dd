package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIndex marks a mutation that referenced a stale offer
	// position. The caller must reload offers from the remote history
	// before retrying.
	ErrInvalidIndex = errors.New("offer index out of range")

	// ErrBankMismatch marks an update that would change an offer's bank
	// identity, which negotiation never does.
	ErrBankMismatch = errors.New("offer bank identity changed")

	// ErrNegotiationInProgress is returned when an offer position already
	// has an in-flight negotiation. The second attempt is refused, not
	// queued.
	ErrNegotiationInProgress = errors.New("negotiation already in progress for this offer")
)

// IncompleteRequestError blocks submission until the user clarifies the
// missing fields.
type IncompleteRequestError struct {
	Missing []string
}

func (e *IncompleteRequestError) Error() string {
	return fmt.Sprintf("loan request is missing: %s", strings.Join(e.Missing, ", "))
}

// SubmissionError carries the detail message the lender pool returned for a
// failed evaluation.
type SubmissionError struct {
	StatusCode int
	Detail     string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("loan submission failed (status %d): %s", e.StatusCode, e.Detail)
}
