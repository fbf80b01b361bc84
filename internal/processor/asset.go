package processor

import (
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// applyCreateAsset creates a holding of a resource for the signer's account
// and appends it to the account's asset list. A non-zero starting quantity
// is only allowed for resource owners.
func applyCreateAsset(st *state.MarketState, signer string, tx payload.CreateAsset) error {
	existing, err := st.GetAsset(tx.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return invalidf("failed to create Asset, id %s already exists", tx.ID)
	}

	account, err := st.GetAccount(signer)
	if err != nil {
		return err
	}
	if account == nil {
		return invalidf("failed to create Asset, signer %s does not have an Account", signer)
	}

	resource, err := st.GetResource(tx.Resource)
	if err != nil {
		return err
	}
	if resource == nil {
		return invalidf("failed to create Asset, resource %s does not exist", tx.Resource)
	}

	if tx.Quantity > 0 && !resource.OwnedBy(signer) {
		return invalidf(
			"failed to create Asset, quantity %d is non-zero and signer %s is not an owner of resource %s",
			tx.Quantity, signer, resource.Name)
	}

	if err := st.SetAsset(domain.Asset{
		ID:          tx.ID,
		Label:       tx.Label,
		Description: tx.Description,
		Account:     signer,
		Resource:    tx.Resource,
		Quantity:    tx.Quantity,
	}); err != nil {
		return err
	}

	return st.AddAssetToAccount(signer, tx.ID)
}
