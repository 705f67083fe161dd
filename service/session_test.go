package service

import (
	"context"
	"errors"
	"testing"

	"credit-negotiator/domain"
	"credit-negotiator/repository"
)

// scriptedPool answers the full pipeline with canned data and records call
// order so the ordering guarantee can be asserted.
type scriptedPool struct {
	evaluation *domain.EvaluationResult
	submitErr  error
	history    []domain.RequestHistoryEntry
	historyErr error
	calls      []string
}

func (p *scriptedPool) SubmitRequest(_ context.Context, _ domain.LoanRequest) (*domain.EvaluationResult, error) {
	p.calls = append(p.calls, "submit")
	return p.evaluation, p.submitErr
}

func (p *scriptedPool) FetchHistory(_ context.Context) ([]domain.RequestHistoryEntry, error) {
	p.calls = append(p.calls, "history")
	return p.history, p.historyErr
}

func (p *scriptedPool) NegotiateOffer(_ context.Context, _ domain.NegotiationRequest) (*domain.NegotiationResponse, error) {
	p.calls = append(p.calls, "negotiate")
	return &domain.NegotiationResponse{Agreed: false, Reason: "no"}, nil
}

func failingInterpreter() *Interpreter {
	// unreachable model endpoint, so every call takes the fallback path
	return NewInterpreter("http://127.0.0.1:1", "test", NewFieldExtractor(), repository.NewMockCache())
}

func TestProcessText_FullPipeline(t *testing.T) {
	request := domain.LoanRequest{Amount: 250000, Duration: 24, Purpose: "open a bakery", ExpectedIncome: 80000}
	offers := []domain.BankOffer{
		{BankID: "bank_1", Offer: domain.Offer{AmountApproved: 250000, InterestRate: 0.06}},
		{BankID: "bank_2", Offer: domain.Offer{AmountApproved: 200000, InterestRate: 0.05}},
		{BankID: "bank_3", Offer: domain.Offer{AmountApproved: 0, ESGSummary: "industry excluded"}},
	}
	pool := &scriptedPool{
		evaluation: &domain.EvaluationResult{SelectedBank: "bank_1", TotalScore: 0.8, Reasoning: "best terms"},
		history:    []domain.RequestHistoryEntry{{Timestamp: "2025-03-01T00:00:00", Request: request, Offers: offers}},
	}
	agg := repository.NewOfferAggregator()
	session := NewSession(failingInterpreter(), pool, agg)

	result, err := session.ProcessText(context.Background(),
		"I need $250,000 for 24 months to open a bakery with expected income of $80,000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pool.calls) != 2 || pool.calls[0] != "submit" || pool.calls[1] != "history" {
		t.Errorf("offers must be refreshed only after submission, got calls %v", pool.calls)
	}

	if result.SelectedBank != "bank_1" {
		t.Errorf("selected bank = %s, want bank_1", result.SelectedBank)
	}
	if result.Request.Purpose != "open a bakery" {
		t.Errorf("request purpose = %q, want open a bakery", result.Request.Purpose)
	}
	if len(result.TopOffers) != 2 {
		t.Fatalf("expected 2 top offers (rejected excluded), got %d", len(result.TopOffers))
	}
	if result.TopOffers[0].BankID != "bank_1" || !result.TopOffers[0].Recommended {
		t.Errorf("top offer should be the recommended bank_1, got %+v", result.TopOffers[0])
	}

	if got := len(session.History()); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
	if got := len(agg.CurrentOffers()); got != 3 {
		t.Errorf("current offers = %d, want 3 (rejected kept in state)", got)
	}
}

func TestProcessText_IncompleteBlocksSubmission(t *testing.T) {
	pool := &scriptedPool{}
	session := NewSession(failingInterpreter(), pool, repository.NewOfferAggregator())

	_, err := session.ProcessText(context.Background(), "I need some money to keep the shop running")

	var incomplete *domain.IncompleteRequestError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteRequestError, got %v", err)
	}
	if len(pool.calls) != 0 {
		t.Errorf("incomplete request must not reach the pool, got calls %v", pool.calls)
	}
}

func TestProcessText_SubmissionFailureLeavesStateUntouched(t *testing.T) {
	pool := &scriptedPool{
		submitErr: &domain.SubmissionError{StatusCode: 400, Detail: "No valid offers received from any bank"},
	}
	agg := repository.NewOfferAggregator()
	session := NewSession(failingInterpreter(), pool, agg)

	_, err := session.ProcessText(context.Background(),
		"I need a loan for $9,000 for 6 months to fix the roof")

	var submission *domain.SubmissionError
	if !errors.As(err, &submission) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if len(agg.CurrentOffers()) != 0 {
		t.Error("failed submission must not update offers")
	}
}

func TestRefreshOffers_ReloadsFromRemote(t *testing.T) {
	pool := &scriptedPool{
		history: []domain.RequestHistoryEntry{
			{Timestamp: "a", Offers: []domain.BankOffer{{BankID: "bank_1"}}},
			{Timestamp: "b", Offers: []domain.BankOffer{{BankID: "bank_2"}, {BankID: "bank_3"}}},
		},
	}
	agg := repository.NewOfferAggregator()
	session := NewSession(failingInterpreter(), pool, agg)

	if err := session.RefreshOffers(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current := agg.CurrentOffers()
	if len(current) != 2 || current[0].BankID != "bank_2" {
		t.Errorf("current offers should mirror the newest entry, got %+v", current)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	pool := &scriptedPool{}
	a := NewSession(failingInterpreter(), pool, repository.NewOfferAggregator())
	b := NewSession(failingInterpreter(), pool, repository.NewOfferAggregator())
	if a.ID() == b.ID() || a.ID() == "" {
		t.Errorf("session ids must be unique and non-empty: %q, %q", a.ID(), b.ID())
	}
}
