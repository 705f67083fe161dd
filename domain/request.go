package domain

// ExtractedRequest is the best-effort result of interpreting free text.
// Fields the interpreter could not recover stay nil so the caller can ask
// for clarification instead of submitting a partial request.
type ExtractedRequest struct {
	Amount         *float64 `json:"amount"`
	Duration       *int     `json:"duration"`
	Purpose        *string  `json:"purpose"`
	ExpectedIncome float64  `json:"expected_income"`
}

// IsComplete reports whether the request can be submitted. Expected income
// is never required.
func (r ExtractedRequest) IsComplete() bool {
	return r.Amount != nil && r.Duration != nil && r.Purpose != nil && *r.Purpose != ""
}

// MissingFields lists the required fields that are still empty.
func (r ExtractedRequest) MissingFields() []string {
	var missing []string
	if r.Amount == nil {
		missing = append(missing, "amount")
	}
	if r.Duration == nil {
		missing = append(missing, "duration")
	}
	if r.Purpose == nil || *r.Purpose == "" {
		missing = append(missing, "purpose")
	}
	return missing
}

// ToLoanRequest converts a complete extraction into a submittable request.
// Returns an IncompleteRequestError when required fields are missing.
func (r ExtractedRequest) ToLoanRequest() (LoanRequest, error) {
	if !r.IsComplete() {
		return LoanRequest{}, &IncompleteRequestError{Missing: r.MissingFields()}
	}
	return LoanRequest{
		Amount:         *r.Amount,
		Duration:       *r.Duration,
		Purpose:        *r.Purpose,
		ExpectedIncome: r.ExpectedIncome,
	}, nil
}

// LoanRequest is the structured application sent to the lender pool.
// Immutable once submitted; duration is in months as entered by the user
// (a value like "2 years" arrives as 2, the unit word is not converted).
type LoanRequest struct {
	Amount         float64 `json:"amount"`
	Duration       int     `json:"duration"`
	Purpose        string  `json:"purpose"`
	ExpectedIncome float64 `json:"expected_income"`
}
