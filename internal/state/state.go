package state

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/noay-network/marketplace-processor/internal/addressing"
	"github.com/noay-network/marketplace-processor/internal/domain"
)

// DefaultTimeout bounds each context call when no other timeout is
// configured.
const DefaultTimeout = 2 * time.Second

// MarketState is the per-invocation view over the state context. It caches
// decoded containers by address so a handler that reads the same address
// for validation and again for mutation pays one context round-trip, and it
// is discarded with the invocation. Getters return (nil, nil) for absent
// records: absence is a normal business outcome, never an error. Errors
// returned from this layer are engine faults.
//
// MarketState is not safe for concurrent use; each transaction invocation
// owns exactly one.
type MarketState struct {
	ctx     context.Context
	context StateContext
	timeout time.Duration
	cache   map[string]any
}

// New creates the working state view for one transaction invocation. A
// non-positive timeout falls back to DefaultTimeout.
func New(ctx context.Context, sc StateContext, timeout time.Duration) *MarketState {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MarketState{
		ctx:     ctx,
		context: sc,
		timeout: timeout,
		cache:   make(map[string]any),
	}
}

// loadContainer returns the decoded container at address, fetching it from
// the context on first access. Absence of a stored value yields an empty
// container.
func loadContainer[T any](s *MarketState, address string) (*T, error) {
	if cached, ok := s.cache[address]; ok {
		return cached.(*T), nil
	}

	callCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	entries, err := s.context.GetState(callCtx, []string{address})
	if err != nil {
		return nil, fmt.Errorf("get state %s: %w", address, err)
	}

	container := new(T)
	if raw, ok := entries[address]; ok && len(raw) > 0 {
		if err := msgpack.Unmarshal(raw, container); err != nil {
			return nil, fmt.Errorf("decode container %s: %w", address, err)
		}
	}

	s.cache[address] = container
	return container, nil
}

// storeContainer serializes the whole container and writes it back to its
// one address.
func (s *MarketState) storeContainer(address string, container any) error {
	raw, err := msgpack.Marshal(container)
	if err != nil {
		return fmt.Errorf("encode container %s: %w", address, err)
	}

	callCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	committed, err := s.context.SetState(callCtx, map[string][]byte{address: raw})
	if err != nil {
		return fmt.Errorf("set state %s: %w", address, err)
	}
	for _, a := range committed {
		if a == address {
			return nil
		}
	}
	return fmt.Errorf("set state %s: address not committed", address)
}

// Account operations --------------------------------------------------------

// GetAccount returns the account owned by the given public key, or nil if
// none exists.
func (s *MarketState) GetAccount(publicKey string) (*domain.Account, error) {
	container, err := loadContainer[accountContainer](s, addressing.AccountAddress(publicKey))
	if err != nil {
		return nil, err
	}
	for i := range container.Entries {
		if container.Entries[i].PublicKey == publicKey {
			return &container.Entries[i], nil
		}
	}
	return nil, nil
}

// SetAccount creates or overwrites the account record for its public key.
func (s *MarketState) SetAccount(account domain.Account) error {
	address := addressing.AccountAddress(account.PublicKey)
	container, err := loadContainer[accountContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].PublicKey == account.PublicKey {
			container.Entries[i] = account
			return s.storeContainer(address, container)
		}
	}
	container.Entries = append(container.Entries, account)
	return s.storeContainer(address, container)
}

// AddAssetToAccount appends an asset id to the account's asset list. The
// list is append-only and not deduplicated here.
func (s *MarketState) AddAssetToAccount(publicKey, assetID string) error {
	address := addressing.AccountAddress(publicKey)
	container, err := loadContainer[accountContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].PublicKey == publicKey {
			container.Entries[i].Assets = append(container.Entries[i].Assets, assetID)
			return s.storeContainer(address, container)
		}
	}
	container.Entries = append(container.Entries, domain.Account{
		PublicKey: publicKey,
		Assets:    []string{assetID},
	})
	return s.storeContainer(address, container)
}

// Resource operations --------------------------------------------------------

// GetResource returns the resource with the given name, or nil if none
// exists.
func (s *MarketState) GetResource(name string) (*domain.Resource, error) {
	container, err := loadContainer[resourceContainer](s, addressing.ResourceAddress(name))
	if err != nil {
		return nil, err
	}
	for i := range container.Entries {
		if container.Entries[i].Name == name {
			return &container.Entries[i], nil
		}
	}
	return nil, nil
}

// SetResource creates or overwrites the resource record for its name.
func (s *MarketState) SetResource(resource domain.Resource) error {
	address := addressing.ResourceAddress(resource.Name)
	container, err := loadContainer[resourceContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].Name == resource.Name {
			container.Entries[i] = resource
			return s.storeContainer(address, container)
		}
	}
	container.Entries = append(container.Entries, resource)
	return s.storeContainer(address, container)
}

// Asset operations -----------------------------------------------------------

// GetAsset returns the asset with the given id, or nil if none exists.
func (s *MarketState) GetAsset(assetID string) (*domain.Asset, error) {
	container, err := loadContainer[assetContainer](s, addressing.AssetAddress(assetID))
	if err != nil {
		return nil, err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == assetID {
			return &container.Entries[i], nil
		}
	}
	return nil, nil
}

// SetAsset creates or overwrites the asset record for its id.
func (s *MarketState) SetAsset(asset domain.Asset) error {
	address := addressing.AssetAddress(asset.ID)
	container, err := loadContainer[assetContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == asset.ID {
			container.Entries[i] = asset
			return s.storeContainer(address, container)
		}
	}
	container.Entries = append(container.Entries, asset)
	return s.storeContainer(address, container)
}

// ChangeAssetQuantity sets the quantity of an existing asset. The asset
// must exist; handlers validate existence before mutating, so a miss here
// is an engine fault, not a rejection.
func (s *MarketState) ChangeAssetQuantity(assetID string, quantity uint64) error {
	address := addressing.AssetAddress(assetID)
	container, err := loadContainer[assetContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == assetID {
			container.Entries[i].Quantity = quantity
			return s.storeContainer(address, container)
		}
	}
	return fmt.Errorf("change quantity: asset %s not in container %s", assetID, address)
}

// Offer operations -----------------------------------------------------------

// GetOffer returns the offer with the given id, or nil if none exists.
func (s *MarketState) GetOffer(offerID string) (*domain.Offer, error) {
	container, err := loadContainer[offerContainer](s, addressing.OfferAddress(offerID))
	if err != nil {
		return nil, err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == offerID {
			return &container.Entries[i], nil
		}
	}
	return nil, nil
}

// SetOffer creates or overwrites the offer record for its id.
func (s *MarketState) SetOffer(offer domain.Offer) error {
	address := addressing.OfferAddress(offer.ID)
	container, err := loadContainer[offerContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == offer.ID {
			container.Entries[i] = offer
			return s.storeContainer(address, container)
		}
	}
	container.Entries = append(container.Entries, offer)
	return s.storeContainer(address, container)
}

// CloseOffer marks an existing offer CLOSED. The transition is one-way and
// the offer must exist.
func (s *MarketState) CloseOffer(offerID string) error {
	address := addressing.OfferAddress(offerID)
	container, err := loadContainer[offerContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == offerID {
			container.Entries[i].Status = domain.OfferClosed
			return s.storeContainer(address, container)
		}
	}
	return fmt.Errorf("close offer: offer %s not in container %s", offerID, address)
}

// Receipt operations ---------------------------------------------------------

// OfferReceiptExists reports whether the global exchange receipt for the
// offer has been written.
func (s *MarketState) OfferReceiptExists(offerID string) (bool, error) {
	container, err := loadContainer[receiptContainer](s, addressing.OfferReceiptAddress(offerID))
	if err != nil {
		return false, err
	}
	for _, receipt := range container.Entries {
		if receipt.OfferID == offerID && receipt.AccountID == "" {
			return true, nil
		}
	}
	return false, nil
}

// AccountReceiptExists reports whether the per-account exchange receipt for
// (offer, account) has been written.
func (s *MarketState) AccountReceiptExists(offerID, account string) (bool, error) {
	address := addressing.OfferAccountReceiptAddress(offerID, account)
	container, err := loadContainer[receiptContainer](s, address)
	if err != nil {
		return false, err
	}
	for _, receipt := range container.Entries {
		if receipt.OfferID == offerID && receipt.AccountID == account {
			return true, nil
		}
	}
	return false, nil
}

// SaveOfferReceipt writes the global exchange receipt for the offer.
// Receipts are write-once; the acceptance guard runs before this.
func (s *MarketState) SaveOfferReceipt(offerID string) error {
	address := addressing.OfferReceiptAddress(offerID)
	container, err := loadContainer[receiptContainer](s, address)
	if err != nil {
		return err
	}
	container.Entries = append(container.Entries, domain.OfferReceipt{OfferID: offerID})
	return s.storeContainer(address, container)
}

// SaveAccountReceipt writes the per-account exchange receipt for (offer,
// account).
func (s *MarketState) SaveAccountReceipt(offerID, account string) error {
	address := addressing.OfferAccountReceiptAddress(offerID, account)
	container, err := loadContainer[receiptContainer](s, address)
	if err != nil {
		return err
	}
	container.Entries = append(container.Entries, domain.OfferReceipt{
		OfferID:   offerID,
		AccountID: account,
	})
	return s.storeContainer(address, container)
}

// Transfer operations --------------------------------------------------------

// GetTransfer returns the staged transfer intent keyed by (transfer id,
// initiating account), or nil if none exists.
func (s *MarketState) GetTransfer(transferID, account string) (*domain.Transfer, error) {
	address := addressing.TransferAddress(transferID, account)
	container, err := loadContainer[transferContainer](s, address)
	if err != nil {
		return nil, err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == transferID && container.Entries[i].Account == account {
			return &container.Entries[i], nil
		}
	}
	return nil, nil
}

// SetTransfer stages a transfer intent for later consumption by the
// transfer handler.
func (s *MarketState) SetTransfer(transfer domain.Transfer) error {
	address := addressing.TransferAddress(transfer.ID, transfer.Account)
	container, err := loadContainer[transferContainer](s, address)
	if err != nil {
		return err
	}
	for i := range container.Entries {
		if container.Entries[i].ID == transfer.ID && container.Entries[i].Account == transfer.Account {
			container.Entries[i] = transfer
			return s.storeContainer(address, container)
		}
	}
	container.Entries = append(container.Entries, transfer)
	return s.storeContainer(address, container)
}
