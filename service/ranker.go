package service

import (
	"sort"

	"credit-negotiator/domain"
)

// RankOffers selects and orders the top candidates for display: rejected
// offers are dropped, the rest sort by approved amount descending with the
// lower interest rate winning ties, and at most TopOfferCount survive. The
// tie-break plus stable sort make the order a total one, so identical input
// sets always rank identically. The offer matching selectedBankID is flagged
// as recommended.
func RankOffers(offers []domain.BankOffer, selectedBankID string) []domain.RankedOffer {
	viable := make([]domain.BankOffer, 0, len(offers))
	for _, o := range offers {
		if o.Offer.Rejected() {
			continue
		}
		viable = append(viable, o)
	}

	sort.SliceStable(viable, func(i, j int) bool {
		a, b := viable[i].Offer, viable[j].Offer
		if a.AmountApproved != b.AmountApproved {
			return a.AmountApproved > b.AmountApproved
		}
		return a.InterestRate < b.InterestRate
	})

	if len(viable) > TopOfferCount {
		viable = viable[:TopOfferCount]
	}

	ranked := make([]domain.RankedOffer, len(viable))
	for i, o := range viable {
		ranked[i] = domain.RankedOffer{
			BankOffer:   o,
			Recommended: o.BankID == selectedBankID,
		}
	}
	return ranked
}
