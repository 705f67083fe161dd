package domain

// Offer is the mutable, negotiable part of a lender's response. Rates are
// fractions (0.065 means 6.5%).
type Offer struct {
	AmountApproved     float64 `json:"amount_approved"`
	InterestRate       float64 `json:"interest_rate"`
	CarbonAdjustedRate float64 `json:"carbon_adjusted_rate"`
	RepaymentPeriod    int     `json:"repayment_period"`
	ESGSummary         string  `json:"esg_summary"`
}

// Rejected reports whether the lender declined the request. A rejected offer
// carries the reason in ESGSummary instead of an ESG narrative.
func (o Offer) Rejected() bool {
	return o.AmountApproved == 0
}

// BankOffer pairs an offer with the lender that issued it. Offers are keyed
// by their position in the current list, not by bank id.
type BankOffer struct {
	BankID   string `json:"bank_id"`
	BankName string `json:"bank_name"`
	Offer    Offer  `json:"offer"`
}

// RankedOffer is a display candidate produced by the ranker.
type RankedOffer struct {
	BankOffer
	Recommended bool `json:"recommended"`
}

// RequestHistoryEntry is one submitted request with every offer it drew,
// rejected ones included. The remote service keeps these oldest to newest.
type RequestHistoryEntry struct {
	Timestamp string      `json:"timestamp"`
	Request   LoanRequest `json:"request"`
	Offers    []BankOffer `json:"offers"`
}

// EvaluationResult is the lender pool's verdict on a submitted request.
type EvaluationResult struct {
	SelectedBank        string         `json:"selected_bank"`
	TotalScore          float64        `json:"total_score"`
	CarbonAdjustedRate  float64        `json:"carbon_adjusted_rate"`
	AmountApproved      float64        `json:"amount_approved"`
	InterestRate        float64        `json:"interest_rate"`
	RepaymentPeriod     int            `json:"repayment_period"`
	ScoreBreakdown      map[string]any `json:"score_breakdown"`
	Reasoning           string         `json:"reasoning"`
	AllOffersComparison []map[string]any `json:"all_offers_comparison"`
}

// SessionResult is what a caller gets back after a request went through the
// full interpret-submit-rank pipeline.
type SessionResult struct {
	Request      LoanRequest   `json:"request"`
	SelectedBank string        `json:"selected_bank"`
	TotalScore   float64       `json:"total_score"`
	Reasoning    string        `json:"reasoning"`
	TopOffers    []RankedOffer `json:"top_offers"`
}
