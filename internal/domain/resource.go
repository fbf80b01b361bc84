package domain

// Resource is a named currency or commodity type. Its name is unique across
// the marketplace; owners and rules are the only fields ever extended after
// creation.
type Resource struct {
	Name        string   `msgpack:"name"`
	Description string   `msgpack:"description"`
	Owners      []string `msgpack:"owners"`
	Rules       []Rule   `msgpack:"rules"`
}

// OwnedBy reports whether the given public key is among the resource's
// owners.
func (r Resource) OwnedBy(publicKey string) bool {
	for _, owner := range r.Owners {
		if owner == publicKey {
			return true
		}
	}
	return false
}

// TransferableBy reports whether assets of this resource may be offered by
// the given signer. A NOT_TRANSFERABLE rule blocks everyone except the
// resource's owners.
func (r Resource) TransferableBy(publicKey string) bool {
	if HasRule(r.Rules, RuleNotTransferable) && !r.OwnedBy(publicKey) {
		return false
	}
	return true
}

// InfiniteFor reports whether an asset of this resource owned by the given
// account is exempt from quantity sufficiency checks and debits:
// ALL_ASSETS_INFINITE exempts unconditionally, OWNER_ASSETS_INFINITE only
// when the owning account is a resource owner.
func (r Resource) InfiniteFor(owner string) bool {
	if HasRule(r.Rules, RuleAllAssetsInfinite) {
		return true
	}
	return HasRule(r.Rules, RuleOwnerAssetsInfinite) && r.OwnedBy(owner)
}
