package state

import "github.com/noay-network/marketplace-processor/internal/domain"

// Containers are the unit persisted at one address: the ordered list of
// records whose identifiers hash into that address's bucket. They are
// append-only at this layer; nothing is ever deleted from a container.

type accountContainer struct {
	Entries []domain.Account `msgpack:"entries"`
}

type resourceContainer struct {
	Entries []domain.Resource `msgpack:"entries"`
}

type assetContainer struct {
	Entries []domain.Asset `msgpack:"entries"`
}

type offerContainer struct {
	Entries []domain.Offer `msgpack:"entries"`
}

type receiptContainer struct {
	Entries []domain.OfferReceipt `msgpack:"entries"`
}

type transferContainer struct {
	Entries []domain.Transfer `msgpack:"entries"`
}
