// Package domain defines the entity records persisted by the marketplace
// transaction family: accounts, resources, assets, offers, exchange
// receipts, and staged transfers, together with the typed exchange rules
// attached to resources and offers.
package domain
