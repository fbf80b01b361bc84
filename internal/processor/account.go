package processor

import (
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// applyCreateAccount registers an account for the signer. It rejects when
// the signer already owns one.
func applyCreateAccount(st *state.MarketState, signer string, tx payload.CreateAccount) error {
	existing, err := st.GetAccount(signer)
	if err != nil {
		return err
	}
	if existing != nil {
		return invalidf("failed to create Account, signer %s already has an account", signer)
	}

	return st.SetAccount(domain.Account{
		PublicKey:   signer,
		Label:       tx.Label,
		Description: tx.Description,
	})
}
