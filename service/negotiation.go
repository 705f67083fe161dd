package service

import (
	"context"
	"sync"

	"github.com/labstack/gommon/log"

	"credit-negotiator/domain"
	"credit-negotiator/repository"
)

// NegotiationEngine drives one rate-improvement attempt per offer position.
// Each position carries its own in-flight flag, so unrelated offers can be
// negotiated concurrently while a second attempt on a busy position is
// refused immediately rather than queued.
type NegotiationEngine struct {
	pool       LenderPool
	aggregator *repository.OfferAggregator

	mu       sync.Mutex
	inFlight map[int]bool
}

func NewNegotiationEngine(pool LenderPool, aggregator *repository.OfferAggregator) *NegotiationEngine {
	return &NegotiationEngine{
		pool:       pool,
		aggregator: aggregator,
		inFlight:   make(map[int]bool),
	}
}

// Negotiate asks the lender at the given offer position to cut its rate by
// RateReductionStep. On agreement the stored offer is updated in place; on
// rejection or failure it is left untouched. The outcome kind tells the
// caller which of the three it was.
func (e *NegotiationEngine) Negotiate(ctx context.Context, index int) (domain.NegotiationOutcome, error) {
	offer, err := e.aggregator.OfferAt(index)
	if err != nil {
		return domain.NegotiationOutcome{}, err
	}

	if !e.begin(index) {
		return domain.NegotiationOutcome{}, domain.ErrNegotiationInProgress
	}
	defer e.end(index)

	target := offer.Offer.InterestRate - RateReductionStep
	log.Infof("negotiating with %s: %.4f -> %.4f", offer.BankID, offer.Offer.InterestRate, target)

	resp, err := e.pool.NegotiateOffer(ctx, domain.NegotiationRequest{
		BankID:       offer.BankID,
		CurrentOffer: offer.Offer,
		TargetRate:   target,
	})
	if err != nil {
		log.Errorf("negotiation with %s failed: %v", offer.BankID, err)
		return domain.NegotiationOutcome{
			Kind:   domain.OutcomeFailed,
			BankID: offer.BankID,
			Reason: "negotiation request failed",
		}, nil
	}
	if resp.Error != "" {
		return domain.NegotiationOutcome{
			Kind:   domain.OutcomeFailed,
			BankID: offer.BankID,
			Reason: resp.Error,
		}, nil
	}

	if !resp.Agreed {
		return domain.NegotiationOutcome{
			Kind:   domain.OutcomeRejected,
			BankID: offer.BankID,
			Reason: resp.Reason,
		}, nil
	}

	updated := offer.Offer
	switch {
	case resp.UpdatedOffer != nil:
		updated = *resp.UpdatedOffer
	case resp.NewRate != nil:
		updated.InterestRate = *resp.NewRate
	default:
		return domain.NegotiationOutcome{
			Kind:   domain.OutcomeFailed,
			BankID: offer.BankID,
			Reason: "lender agreed but sent no updated terms",
		}, nil
	}

	if err := e.aggregator.UpdateOfferAt(index, offer.BankID, updated); err != nil {
		return domain.NegotiationOutcome{}, err
	}

	newRate := updated.InterestRate
	if resp.NewRate != nil {
		newRate = *resp.NewRate
	}
	return domain.NegotiationOutcome{
		Kind:    domain.OutcomeUpdated,
		BankID:  offer.BankID,
		NewRate: newRate,
		Reason:  resp.Reason,
	}, nil
}

func (e *NegotiationEngine) begin(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight[index] {
		return false
	}
	e.inFlight[index] = true
	return true
}

func (e *NegotiationEngine) end(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, index)
}
