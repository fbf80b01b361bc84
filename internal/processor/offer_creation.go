package processor

import (
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// applyCreateOffer opens a standing exchange offer. The stored offer
// carries the declared rules plus the exchange-cardinality rules inherited
// from the source resource and, when present, the target resource.
func applyCreateOffer(st *state.MarketState, signer string, tx payload.CreateOffer) error {
	existing, err := st.GetOffer(tx.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return invalidf("failed to create Offer, id %s already exists", tx.ID)
	}

	account, err := st.GetAccount(signer)
	if err != nil {
		return err
	}
	if account == nil {
		return invalidf("failed to create Offer, signer %s does not have an Account", signer)
	}

	if tx.Source == "" {
		return invalidf("failed to create Offer, source is not specified")
	}
	if tx.SourceQuantity == 0 {
		return invalidf("failed to create Offer, source_quantity was unset or 0")
	}

	sourceAsset, err := st.GetAsset(tx.Source)
	if err != nil {
		return err
	}
	if sourceAsset == nil {
		return invalidf("failed to create Offer, id %s listed as source does not refer to an Asset", tx.Source)
	}
	if sourceAsset.Account != signer {
		return invalidf("failed to create Offer, source Asset account %s is not the signer %s",
			sourceAsset.Account, signer)
	}

	sourceResource, err := st.GetResource(sourceAsset.Resource)
	if err != nil {
		return err
	}
	if sourceResource == nil {
		return invalidf("failed to create Offer, resource %s does not exist", sourceAsset.Resource)
	}
	if !sourceResource.TransferableBy(signer) {
		return invalidf("failed to create Offer, source resource %s is not transferable", sourceResource.Name)
	}

	if (tx.Target == "") != (tx.TargetQuantity == 0) {
		return invalidf("failed to create Offer, target and target_quantity must both be set or both unset")
	}

	rules := append([]domain.Rule(nil), tx.Rules...)
	rules = append(rules, domain.OfferRules(sourceResource.Rules)...)

	if tx.Target != "" {
		targetAsset, err := st.GetAsset(tx.Target)
		if err != nil {
			return err
		}
		if targetAsset == nil {
			return invalidf("failed to create Offer, id %s listed as target does not refer to an Asset", tx.Target)
		}
		if targetAsset.Account != signer {
			return invalidf("failed to create Offer, target Asset account %s is not the signer %s",
				targetAsset.Account, signer)
		}

		targetResource, err := st.GetResource(targetAsset.Resource)
		if err != nil {
			return err
		}
		if targetResource == nil {
			return invalidf("failed to create Offer, resource %s does not exist", targetAsset.Resource)
		}
		if !targetResource.TransferableBy(signer) {
			return invalidf("failed to create Offer, target resource %s is not transferable", targetResource.Name)
		}

		rules = append(rules, domain.OfferRules(targetResource.Rules)...)
	}

	return st.SetOffer(domain.Offer{
		ID:             tx.ID,
		Label:          tx.Label,
		Description:    tx.Description,
		Owners:         []string{signer},
		Source:         tx.Source,
		SourceQuantity: tx.SourceQuantity,
		Target:         tx.Target,
		TargetQuantity: tx.TargetQuantity,
		Rules:          rules,
		Status:         domain.OfferOpen,
	})
}
