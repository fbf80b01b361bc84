package domain

// OfferReceipt is a write-once marker recording that an offer has been
// exchanged. With AccountID empty it is the global "already exchanged once"
// receipt; with AccountID set it records that the named account has already
// exchanged against the offer. Receipts are never cleared.
type OfferReceipt struct {
	OfferID   string `msgpack:"offer_id"`
	AccountID string `msgpack:"account_id,omitempty"`
}
