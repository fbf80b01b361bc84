package processor

import (
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// applyCreateResource declares a named resource owned by the signer. It
// rejects when the signer has no account or the name is taken.
func applyCreateResource(st *state.MarketState, signer string, tx payload.CreateResource) error {
	account, err := st.GetAccount(signer)
	if err != nil {
		return err
	}
	if account == nil {
		return invalidf("failed to create Resource, signer %s does not have an Account", signer)
	}

	existing, err := st.GetResource(tx.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return invalidf("failed to create Resource, name %s already exists", tx.Name)
	}

	return st.SetResource(domain.Resource{
		Name:        tx.Name,
		Description: tx.Description,
		Owners:      []string{signer},
		Rules:       tx.Rules,
	})
}
