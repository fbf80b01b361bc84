package processor

import (
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// participant binds one side of an exchange: the assets it draws from and
// pays into, with their resources. Either asset may be absent.
type participant struct {
	source         *domain.Asset
	target         *domain.Asset
	sourceResource *domain.Resource
	targetResource *domain.Resource
}

// applyAcceptOffer exchanges against an open offer. The offerer's bindings
// come from the offer record, the receiver's from the accept payload;
// receiver.target is mandatory, receiver.source optional (an accept without
// a source is a pure claim). Every guard runs before any quantity moves.
func applyAcceptOffer(st *state.MarketState, signer string, tx payload.AcceptOffer) error {
	offer, err := st.GetOffer(tx.ID)
	if err != nil {
		return err
	}
	if offer == nil {
		return invalidf("failed to accept Offer, Offer %s does not exist", tx.ID)
	}
	if offer.Status != domain.OfferOpen {
		return invalidf("failed to accept Offer, Offer %s is not open", tx.ID)
	}

	offerer, err := resolveOfferer(st, *offer)
	if err != nil {
		return err
	}
	receiver, err := resolveReceiver(st, tx)
	if err != nil {
		return err
	}

	// Exchange-cardinality rules.
	if offer.HasRule(domain.RuleExchangeOnce) {
		exchanged, err := st.OfferReceiptExists(offer.ID)
		if err != nil {
			return err
		}
		if exchanged {
			return invalidf("failed to accept Offer %s, EXCHANGE_ONCE is set and the offer has already been accepted", offer.ID)
		}
	}
	if offer.HasRule(domain.RuleExchangeOncePerAccount) {
		exchanged, err := st.AccountReceiptExists(offer.ID, signer)
		if err != nil {
			return err
		}
		if exchanged {
			return invalidf(
				"failed to accept Offer %s, EXCHANGE_ONCE_PER_ACCOUNT is set and account %s has already accepted",
				offer.ID, signer)
		}
	}
	if !offer.AccountAllowed(signer) {
		return invalidf("failed to accept Offer %s, account %s is not in the allowed accounts", offer.ID, signer)
	}

	// The asset ids reference existing Assets.
	if tx.Source != "" && receiver.source == nil {
		return invalidf("failed to accept Offer, asset %s specified as source does not exist", tx.Source)
	}
	if receiver.target == nil {
		return invalidf("failed to accept Offer, asset %s specified as target does not exist", tx.Target)
	}
	if offerer.source == nil {
		return invalidf("failed to accept Offer, offer source asset %s does not exist", offer.Source)
	}
	if offer.Target != "" && offerer.target == nil {
		return invalidf("failed to accept Offer, offer target asset %s does not exist", offer.Target)
	}

	// The resources match across the exchange.
	if offerer.source.Resource != receiver.target.Resource {
		return invalidf("failed to accept Offer, expected resource %s, got resource %s",
			offerer.source.Resource, receiver.target.Resource)
	}
	if offer.Target != "" {
		if receiver.source == nil || offerer.target.Resource != receiver.source.Resource {
			return invalidf("failed to accept Offer, offer target resource %s has no matching source asset",
				offerer.target.Resource)
		}
	}

	input, output, err := exchangeQuantities(*offer, tx.Count)
	if err != nil {
		return err
	}

	// Each side holds enough, unless its resource grants an infinite
	// exemption to the asset's owner.
	receiverSourceInfinite := tx.Source != "" &&
		resourceInfinite(receiver.sourceResource, receiver.source.Account)
	offererSourceInfinite := resourceInfinite(offerer.sourceResource, offerer.source.Account)

	if tx.Source != "" && !receiverSourceInfinite && output > receiver.source.Quantity {
		return invalidf("failed to accept Offer, needed quantity %d, but only had %d of %s",
			output, receiver.source.Quantity, receiver.source.Resource)
	}
	if !offererSourceInfinite && input > offerer.source.Quantity {
		return invalidf("failed to accept Offer, needed quantity %d, but only had %d of %s",
			input, offerer.source.Quantity, offerer.source.Resource)
	}

	// The credited balances must not wrap either.
	if receiver.target.Quantity+input < receiver.target.Quantity {
		return invalidf("failed to accept Offer, quantity %d overflows asset %s",
			input, receiver.target.ID)
	}
	if offer.Target != "" && offerer.target.Quantity+output < offerer.target.Quantity {
		return invalidf("failed to accept Offer, quantity %d overflows asset %s",
			output, offerer.target.ID)
	}

	// All guards passed; apply unconditionally.
	if !offererSourceInfinite {
		if err := st.ChangeAssetQuantity(offerer.source.ID, offerer.source.Quantity-input); err != nil {
			return err
		}
	}
	if offer.Target != "" {
		if err := st.ChangeAssetQuantity(offerer.target.ID, offerer.target.Quantity+output); err != nil {
			return err
		}
	}
	if tx.Source != "" && !receiverSourceInfinite {
		if err := st.ChangeAssetQuantity(receiver.source.ID, receiver.source.Quantity-output); err != nil {
			return err
		}
	}
	if err := st.ChangeAssetQuantity(receiver.target.ID, receiver.target.Quantity+input); err != nil {
		return err
	}

	if offer.HasRule(domain.RuleExchangeOncePerAccount) {
		if err := st.SaveAccountReceipt(offer.ID, signer); err != nil {
			return err
		}
	}
	if offer.HasRule(domain.RuleExchangeOnce) {
		if err := st.SaveOfferReceipt(offer.ID); err != nil {
			return err
		}
	}
	return nil
}

// resolveOfferer binds the offer creator's side from the offer record.
func resolveOfferer(st *state.MarketState, offer domain.Offer) (participant, error) {
	var p participant
	var err error

	p.source, err = st.GetAsset(offer.Source)
	if err != nil {
		return participant{}, err
	}
	if p.source != nil {
		p.sourceResource, err = st.GetResource(p.source.Resource)
		if err != nil {
			return participant{}, err
		}
	}

	if offer.Target != "" {
		p.target, err = st.GetAsset(offer.Target)
		if err != nil {
			return participant{}, err
		}
		if p.target != nil {
			p.targetResource, err = st.GetResource(p.target.Resource)
			if err != nil {
				return participant{}, err
			}
		}
	}
	return p, nil
}

// resolveReceiver binds the accepting side from the accept payload.
func resolveReceiver(st *state.MarketState, tx payload.AcceptOffer) (participant, error) {
	var p participant
	var err error

	if tx.Source != "" {
		p.source, err = st.GetAsset(tx.Source)
		if err != nil {
			return participant{}, err
		}
		if p.source != nil {
			p.sourceResource, err = st.GetResource(p.source.Resource)
			if err != nil {
				return participant{}, err
			}
		}
	}

	p.target, err = st.GetAsset(tx.Target)
	if err != nil {
		return participant{}, err
	}
	if p.target != nil {
		p.targetResource, err = st.GetResource(p.target.Resource)
		if err != nil {
			return participant{}, err
		}
	}
	return p, nil
}

// resourceInfinite reports whether the resource exempts the owning account
// from sufficiency checks and debits.
func resourceInfinite(resource *domain.Resource, owner string) bool {
	return resource != nil && resource.InfiniteFor(owner)
}
