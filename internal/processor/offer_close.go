package processor

import (
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// applyCloseOffer closes an open offer. Only an owner of the offer may
// close it, and closing a missing or already-closed offer is rejected
// rather than silently materializing a CLOSED record.
func applyCloseOffer(st *state.MarketState, signer string, tx payload.CloseOffer) error {
	offer, err := st.GetOffer(tx.ID)
	if err != nil {
		return err
	}
	if offer == nil {
		return invalidf("failed to close Offer, Offer %s does not exist", tx.ID)
	}
	if offer.Status != domain.OfferOpen {
		return invalidf("failed to close Offer, Offer %s is not open", tx.ID)
	}
	if !offer.OwnedBy(signer) {
		return invalidf("failed to close Offer, signer %s is not an owner of Offer %s", signer, tx.ID)
	}

	return st.CloseOffer(tx.ID)
}
