// Package transaction builds marketplace transactions for submission: the
// payload for each kind together with the declared input and output address
// sets. The execution engine schedules transactions by those sets
// (non-intersecting sets may run in parallel), so every address a handler
// may read appears in Inputs and every address it may write appears in
// Outputs. An under-declared set breaks the engine's concurrency guarantee.
package transaction

import (
	"github.com/google/uuid"

	"github.com/noay-network/marketplace-processor/internal/addressing"
	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
)

// Txn is a transaction ready for enveloping: its payload and the address
// sets the engine uses for conflict detection.
type Txn struct {
	Payload payload.Payload
	Inputs  []string
	Outputs []string
}

// NewID generates an identifier for a new asset, offer, or transfer.
func NewID() string {
	return uuid.New().String()
}

// OfferAsset describes one side of an offer when building it: the asset
// drawn from or paid into, its per-count quantity, and its resource name
// (needed to declare the resource address).
type OfferAsset struct {
	AssetID  string
	Quantity uint64
	Resource string
}

// Participant describes one party's bindings when accepting an offer.
// Source and SourceResource may be empty for the receiver of a one-sided
// offer, and Target and TargetResource may be empty for the offerer of one.
type Participant struct {
	Source         string
	SourceResource string
	Target         string
	TargetResource string
}

// CreateAccount builds the transaction registering an account for the
// signer.
func CreateAccount(signer, label, description string) Txn {
	account := addressing.AccountAddress(signer)
	return Txn{
		Payload: payload.CreateAccount{Label: label, Description: description},
		Inputs:  []string{account},
		Outputs: []string{account},
	}
}

// CreateResource builds the transaction declaring a named resource.
func CreateResource(signer, name, description string, rules []domain.Rule) Txn {
	resource := addressing.ResourceAddress(name)
	return Txn{
		Payload: payload.CreateResource{Name: name, Description: description, Rules: rules},
		Inputs:  []string{resource, addressing.AccountAddress(signer)},
		Outputs: []string{resource},
	}
}

// CreateAsset builds the transaction creating a holding of a resource for
// the signer's account.
func CreateAsset(signer, assetID, label, description, resource string, quantity uint64) Txn {
	asset := addressing.AssetAddress(assetID)
	account := addressing.AccountAddress(signer)
	return Txn{
		Payload: payload.CreateAsset{
			ID:          assetID,
			Label:       label,
			Description: description,
			Resource:    resource,
			Quantity:    quantity,
		},
		Inputs:  []string{account, addressing.ResourceAddress(resource), asset},
		Outputs: []string{asset, account},
	}
}

// CreateOffer builds the transaction opening an exchange offer. Pass a zero
// OfferAsset as target for a one-sided offer.
func CreateOffer(signer, offerID, label, description string, source, target OfferAsset, rules []domain.Rule) Txn {
	offer := addressing.OfferAddress(offerID)

	inputs := []string{
		addressing.AccountAddress(signer),
		addressing.AssetAddress(source.AssetID),
		offer,
		addressing.ResourceAddress(source.Resource),
	}
	if target.AssetID != "" {
		inputs = append(inputs,
			addressing.AssetAddress(target.AssetID),
			addressing.ResourceAddress(target.Resource))
	}

	return Txn{
		Payload: payload.CreateOffer{
			ID:             offerID,
			Label:          label,
			Description:    description,
			Source:         source.AssetID,
			SourceQuantity: source.Quantity,
			Target:         target.AssetID,
			TargetQuantity: target.Quantity,
			Rules:          rules,
		},
		Inputs:  inputs,
		Outputs: []string{offer},
	}
}

// AcceptOffer builds the transaction exchanging against an open offer. The
// offerer bindings mirror the offer record; the receiver bindings are the
// signer's own assets.
func AcceptOffer(signer, offerID string, offerer, receiver Participant, count uint64) Txn {
	inputs := []string{
		addressing.AssetAddress(receiver.Target),
		addressing.AssetAddress(offerer.Source),
		addressing.ResourceAddress(receiver.TargetResource),
		addressing.ResourceAddress(offerer.SourceResource),
		addressing.OfferReceiptAddress(offerID),
		addressing.OfferAccountReceiptAddress(offerID, signer),
		addressing.OfferAddress(offerID),
	}
	outputs := []string{
		addressing.AssetAddress(receiver.Target),
		addressing.AssetAddress(offerer.Source),
		addressing.OfferReceiptAddress(offerID),
		addressing.OfferAccountReceiptAddress(offerID, signer),
	}

	if receiver.Source != "" {
		inputs = append(inputs,
			addressing.AssetAddress(receiver.Source),
			addressing.ResourceAddress(receiver.SourceResource))
		outputs = append(outputs, addressing.AssetAddress(receiver.Source))
	}
	if offerer.Target != "" {
		inputs = append(inputs,
			addressing.AssetAddress(offerer.Target),
			addressing.ResourceAddress(offerer.TargetResource))
		outputs = append(outputs, addressing.AssetAddress(offerer.Target))
	}

	return Txn{
		Payload: payload.AcceptOffer{
			ID:     offerID,
			Source: receiver.Source,
			Target: receiver.Target,
			Count:  count,
		},
		Inputs:  inputs,
		Outputs: outputs,
	}
}

// CloseOffer builds the transaction closing an offer owned by the signer.
func CloseOffer(signer, offerID string) Txn {
	offer := addressing.OfferAddress(offerID)
	return Txn{
		Payload: payload.CloseOffer{ID: offerID},
		Inputs:  []string{offer},
		Outputs: []string{offer},
	}
}

// TransferAsset builds the transaction consuming the staged transfer intent
// keyed by (transferID, signer). Source, target, and resource identify the
// assets the staged intent moves between, so their addresses land in the
// declared working set.
func TransferAsset(signer, transferID, source, target, resource string) Txn {
	sourceAddress := addressing.AssetAddress(source)
	targetAddress := addressing.AssetAddress(target)
	return Txn{
		Payload: payload.TransferAsset{ID: transferID},
		Inputs: []string{
			addressing.TransferAddress(transferID, signer),
			sourceAddress,
			targetAddress,
			addressing.ResourceAddress(resource),
		},
		Outputs: []string{sourceAddress, targetAddress},
	}
}
