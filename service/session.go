package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"credit-negotiator/domain"
	"credit-negotiator/repository"
)

// Session owns the current request and its offers for one user. It is the
// only component that mutates that state, and it does so exclusively through
// the aggregator's operations.
type Session struct {
	id          string
	interpreter *Interpreter
	pool        LenderPool
	aggregator  *repository.OfferAggregator
	engine      *NegotiationEngine
}

func NewSession(interpreter *Interpreter, pool LenderPool, aggregator *repository.OfferAggregator) *Session {
	return &Session{
		id:          uuid.NewString(),
		interpreter: interpreter,
		pool:        pool,
		aggregator:  aggregator,
		engine:      NewNegotiationEngine(pool, aggregator),
	}
}

func (s *Session) ID() string {
	return s.id
}

// ProcessText runs the full pipeline: interpret the raw text, refuse to
// submit an incomplete request, submit, refresh the offer view from the
// remote log, and rank the result. The offers are only refreshed after the
// evaluation has been observed, so a ranked view never shows up for a
// request the pool has not answered yet.
func (s *Session) ProcessText(ctx context.Context, text string) (*domain.SessionResult, error) {
	extracted := s.interpreter.Interpret(ctx, text)

	request, err := extracted.ToLoanRequest()
	if err != nil {
		return nil, err
	}
	log.Infof("session %s: submitting request amount=%.2f duration=%d purpose=%q",
		s.id, request.Amount, request.Duration, request.Purpose)

	evaluation, err := s.pool.SubmitRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	if err := s.RefreshOffers(ctx); err != nil {
		return nil, fmt.Errorf("evaluation succeeded but offers could not be refreshed: %w", err)
	}

	return &domain.SessionResult{
		Request:      request,
		SelectedBank: evaluation.SelectedBank,
		TotalScore:   evaluation.TotalScore,
		Reasoning:    evaluation.Reasoning,
		TopOffers:    RankOffers(s.aggregator.CurrentOffers(), evaluation.SelectedBank),
	}, nil
}

// Negotiate runs one attempt against the offer at the given position. A
// stale index surfaces domain.ErrInvalidIndex; reload via RefreshOffers
// before retrying.
func (s *Session) Negotiate(ctx context.Context, index int) (domain.NegotiationOutcome, error) {
	return s.engine.Negotiate(ctx, index)
}

// RefreshOffers overwrites the local view from the remote source of truth.
func (s *Session) RefreshOffers(ctx context.Context) error {
	entries, err := s.pool.FetchHistory(ctx)
	if err != nil {
		return err
	}
	s.aggregator.ReloadHistory(entries)
	return nil
}

// History returns all past requests with their offers, oldest first.
func (s *Session) History() []domain.RequestHistoryEntry {
	return s.aggregator.History()
}
