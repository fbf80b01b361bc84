// Package payload defines the closed set of transaction payloads the
// marketplace processor accepts. Each transaction kind is its own type
// implementing Payload; the processor matches the union exhaustively at its
// dispatch boundary, so an unknown kind is a validation failure rather than
// a silent no-op.
package payload

import "github.com/noay-network/marketplace-processor/internal/domain"

// Kind names a transaction kind for dispatch, logging, and metrics labels.
type Kind string

const (
	KindCreateAccount  Kind = "create_account"
	KindCreateResource Kind = "create_resource"
	KindCreateAsset    Kind = "create_asset"
	KindCreateOffer    Kind = "create_offer"
	KindAcceptOffer    Kind = "accept_offer"
	KindCloseOffer     Kind = "close_offer"
	KindTransferAsset  Kind = "transfer_asset"
)

// Payload is the sealed union over the seven transaction kinds. Only types
// in this package implement it.
type Payload interface {
	Kind() Kind
	sealed()
}

// CreateAccount registers an Account for the transaction signer.
type CreateAccount struct {
	Label       string
	Description string
}

// CreateResource declares a named resource with exchange rules.
type CreateResource struct {
	Name        string
	Description string
	Rules       []domain.Rule
}

// CreateAsset creates a quantity-bearing holding of a resource for the
// signer's account.
type CreateAsset struct {
	ID          string
	Label       string
	Description string
	Resource    string
	Quantity    uint64
}

// CreateOffer opens a standing resource-for-resource exchange proposal.
// Target and TargetQuantity must be both set or both unset.
type CreateOffer struct {
	ID             string
	Label          string
	Description    string
	Source         string
	SourceQuantity uint64
	Target         string
	TargetQuantity uint64
	Rules          []domain.Rule
}

// AcceptOffer exchanges against an open offer. Target names the accepting
// account's asset to be credited; Source, optional, names the asset debited
// in return. An accept without a source models a pure claim. Count scales
// the offer's fixed rate.
type AcceptOffer struct {
	ID     string
	Source string
	Target string
	Count  uint64
}

// CloseOffer closes an open offer owned by the signer.
type CloseOffer struct {
	ID string
}

// TransferAsset consumes the pre-staged transfer intent keyed by (ID,
// signer) and moves the staged amount between its assets.
type TransferAsset struct {
	ID string
}

// Kind implementations.

func (CreateAccount) Kind() Kind  { return KindCreateAccount }
func (CreateResource) Kind() Kind { return KindCreateResource }
func (CreateAsset) Kind() Kind    { return KindCreateAsset }
func (CreateOffer) Kind() Kind    { return KindCreateOffer }
func (AcceptOffer) Kind() Kind    { return KindAcceptOffer }
func (CloseOffer) Kind() Kind     { return KindCloseOffer }
func (TransferAsset) Kind() Kind  { return KindTransferAsset }

func (CreateAccount) sealed()  {}
func (CreateResource) sealed() {}
func (CreateAsset) sealed()    {}
func (CreateOffer) sealed()    {}
func (AcceptOffer) sealed()    {}
func (CloseOffer) sealed()     {}
func (TransferAsset) sealed()  {}
