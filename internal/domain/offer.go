package domain

// OfferStatus is the lifecycle status of an offer. The only transition is
// OPEN to CLOSED, one-way.
type OfferStatus int

const (
	// OfferOpen means the offer may still be accepted.
	OfferOpen OfferStatus = iota
	// OfferClosed means the offer is closed and rejects all acceptances.
	OfferClosed
)

// String returns the status's wire name.
func (s OfferStatus) String() string {
	if s == OfferClosed {
		return "CLOSED"
	}
	return "OPEN"
}

// Offer is a standing proposal by its owners to exchange SourceQuantity
// units drawn from the Source asset for TargetQuantity units paid into the
// Target asset, per acceptance count. Target and TargetQuantity are unset
// together for one-sided offers. Rules holds the creator's declared rules
// plus the exchange-cardinality subset inherited from the source and target
// resources at creation.
type Offer struct {
	ID             string      `msgpack:"id"`
	Label          string      `msgpack:"label"`
	Description    string      `msgpack:"description"`
	Owners         []string    `msgpack:"owners"`
	Source         string      `msgpack:"source"`
	SourceQuantity uint64      `msgpack:"source_quantity"`
	Target         string      `msgpack:"target,omitempty"`
	TargetQuantity uint64      `msgpack:"target_quantity,omitempty"`
	Rules          []Rule      `msgpack:"rules"`
	Status         OfferStatus `msgpack:"status"`
}

// OwnedBy reports whether the given public key is among the offer's owners.
func (o Offer) OwnedBy(publicKey string) bool {
	for _, owner := range o.Owners {
		if owner == publicKey {
			return true
		}
	}
	return false
}

// HasRule reports whether the offer carries a rule of the given type.
func (o Offer) HasRule(t RuleType) bool {
	return HasRule(o.Rules, t)
}

// AccountAllowed reports whether the given account may accept the offer
// under its EXCHANGE_LIMITED_TO_ACCOUNTS rules. The account must appear in
// the allow-set of every such rule; with no such rule present every account
// is allowed.
func (o Offer) AccountAllowed(publicKey string) bool {
	for _, rule := range o.Rules {
		if rule.Type != RuleExchangeLimitedToAccounts {
			continue
		}
		allowed := false
		for _, account := range rule.Accounts {
			if account == publicKey {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}
