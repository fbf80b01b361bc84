package processor

import (
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
)

// applyTransferAsset consumes the pre-staged transfer intent keyed by
// (transfer id, signer) and moves its amount from the source asset to the
// target asset. Unlike offer acceptance, no infinite exemption applies: the
// source asset must hold the full amount.
func applyTransferAsset(st *state.MarketState, signer string, tx payload.TransferAsset) error {
	transfer, err := st.GetTransfer(tx.ID, signer)
	if err != nil {
		return err
	}
	if transfer == nil {
		return invalidf("failed to transfer, Transfer %s does not exist for account %s", tx.ID, signer)
	}

	source, err := st.GetAsset(transfer.Source)
	if err != nil {
		return err
	}
	if source == nil {
		return invalidf("failed to transfer, source asset %s does not exist", transfer.Source)
	}

	target, err := st.GetAsset(transfer.Target)
	if err != nil {
		return err
	}
	if target == nil {
		return invalidf("failed to transfer, target asset %s does not exist", transfer.Target)
	}

	if source.Resource != target.Resource {
		return invalidf("failed to transfer, expected resource %s, got resource %s",
			source.Resource, target.Resource)
	}
	if transfer.Amount > source.Quantity {
		return invalidf("failed to transfer, needed quantity %d, but only had %d of %s",
			transfer.Amount, source.Quantity, source.Resource)
	}
	if target.Quantity+transfer.Amount < target.Quantity {
		return invalidf("failed to transfer, quantity %d overflows asset %s",
			transfer.Amount, target.ID)
	}

	if err := st.ChangeAssetQuantity(source.ID, source.Quantity-transfer.Amount); err != nil {
		return err
	}
	return st.ChangeAssetQuantity(target.ID, target.Quantity+transfer.Amount)
}
