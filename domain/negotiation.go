package domain

// NegotiationRequest asks a specific lender to improve an offer's rate.
type NegotiationRequest struct {
	BankID       string  `json:"bank_id"`
	CurrentOffer Offer   `json:"current_offer"`
	TargetRate   float64 `json:"target_rate"`
}

// NegotiationResponse is the lender's answer. UpdatedOffer and NewRate are
// only present when the lender agreed; Error is a bank-side tool failure.
type NegotiationResponse struct {
	Agreed       bool     `json:"agreed"`
	UpdatedOffer *Offer   `json:"updated_offer,omitempty"`
	NewRate      *float64 `json:"new_rate,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// OutcomeKind classifies how a negotiation attempt ended.
type OutcomeKind string

const (
	// OutcomeUpdated means the lender agreed and the stored offer changed.
	OutcomeUpdated OutcomeKind = "updated"
	// OutcomeRejected means the lender declined the target rate. Not an
	// error, just a negative answer.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeFailed means the attempt itself broke (transport failure or an
	// unusable response) and the offer is untouched.
	OutcomeFailed OutcomeKind = "failed"
)

// NegotiationOutcome reports a single attempt against one offer position.
type NegotiationOutcome struct {
	Kind    OutcomeKind `json:"kind"`
	BankID  string      `json:"bank_id"`
	NewRate float64     `json:"new_rate,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}
