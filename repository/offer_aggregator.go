package repository

import (
	"sync"

	"credit-negotiator/domain"
)

// OfferAggregator holds the offers for the active request and the full
// history of past requests. The remote service owns the durable copy; this
// is the session's working view. All mutations go through its methods and
// all accessors return copies, so the last history entry always mirrors the
// current offers after a submission or negotiation.
type OfferAggregator struct {
	mu      sync.RWMutex
	current []domain.BankOffer
	history []domain.RequestHistoryEntry
}

func NewOfferAggregator() *OfferAggregator {
	return &OfferAggregator{}
}

// ReplaceCurrent sets the current offers wholesale after a fresh submission.
// History is not touched here; it is reloaded from the remote log.
func (a *OfferAggregator) ReplaceCurrent(offers []domain.BankOffer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = copyOffers(offers)
}

// ReloadHistory overwrites the history from the remote source of truth and
// derives the current offers from the newest entry.
func (a *OfferAggregator) ReloadHistory(entries []domain.RequestHistoryEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = make([]domain.RequestHistoryEntry, len(entries))
	for i, e := range entries {
		a.history[i] = e
		a.history[i].Offers = copyOffers(e.Offers)
	}

	if len(a.history) > 0 {
		a.current = copyOffers(a.history[len(a.history)-1].Offers)
	} else {
		a.current = nil
	}
}

// UpdateOfferAt replaces the negotiable part of one offer after a lender
// agreed to new terms. The position must still exist and the bank identity
// must be unchanged; a stale index fails with domain.ErrInvalidIndex so the
// caller reloads before retrying.
func (a *OfferAggregator) UpdateOfferAt(index int, bankID string, updated domain.Offer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index < 0 || index >= len(a.current) {
		return domain.ErrInvalidIndex
	}
	if a.current[index].BankID != bankID {
		return domain.ErrBankMismatch
	}

	a.current[index].Offer = updated

	// keep the newest history entry in step with the live offers
	if n := len(a.history); n > 0 && index < len(a.history[n-1].Offers) {
		a.history[n-1].Offers[index].Offer = updated
	}
	return nil
}

// OfferAt returns the offer at the given position.
func (a *OfferAggregator) OfferAt(index int) (domain.BankOffer, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.current) {
		return domain.BankOffer{}, domain.ErrInvalidIndex
	}
	return a.current[index], nil
}

// CurrentOffers returns a copy of the offers for the active request.
func (a *OfferAggregator) CurrentOffers() []domain.BankOffer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyOffers(a.current)
}

// History returns a copy of all past requests with their offers, oldest
// first.
func (a *OfferAggregator) History() []domain.RequestHistoryEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entries := make([]domain.RequestHistoryEntry, len(a.history))
	for i, e := range a.history {
		entries[i] = e
		entries[i].Offers = copyOffers(e.Offers)
	}
	return entries
}

func copyOffers(offers []domain.BankOffer) []domain.BankOffer {
	if offers == nil {
		return nil
	}
	out := make([]domain.BankOffer, len(offers))
	copy(out, offers)
	return out
}
