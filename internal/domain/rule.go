package domain

import "fmt"

// RuleType discriminates the closed set of exchange rule variants.
type RuleType int

const (
	// RuleUnset is the zero value and matches no rule.
	RuleUnset RuleType = iota
	// RuleAllAssetsInfinite exempts every asset of the resource from
	// quantity sufficiency checks and debits.
	RuleAllAssetsInfinite
	// RuleOwnerAssetsInfinite exempts assets whose owning account is among
	// the resource's owners.
	RuleOwnerAssetsInfinite
	// RuleNotTransferable forbids offering assets of the resource unless
	// the signer is a resource owner.
	RuleNotTransferable
	// RuleExchangeOnce allows an offer to be accepted exactly once,
	// globally.
	RuleExchangeOnce
	// RuleExchangeOncePerAccount allows each account to accept an offer
	// exactly once.
	RuleExchangeOncePerAccount
	// RuleExchangeLimitedToAccounts restricts offer acceptance to an
	// explicit allow-set of account public keys.
	RuleExchangeLimitedToAccounts
)

// String returns the rule type's wire name.
func (t RuleType) String() string {
	switch t {
	case RuleUnset:
		return "RULE_UNSET"
	case RuleAllAssetsInfinite:
		return "ALL_ASSETS_INFINITE"
	case RuleOwnerAssetsInfinite:
		return "OWNER_ASSETS_INFINITE"
	case RuleNotTransferable:
		return "NOT_TRANSFERABLE"
	case RuleExchangeOnce:
		return "EXCHANGE_ONCE"
	case RuleExchangeOncePerAccount:
		return "EXCHANGE_ONCE_PER_ACCOUNT"
	case RuleExchangeLimitedToAccounts:
		return "EXCHANGE_LIMITED_TO_ACCOUNTS"
	default:
		return fmt.Sprintf("rule(%d)", int(t))
	}
}

// Rule is a typed constraint attached to a Resource and, for the exchange
// cardinality subset, propagated onto Offers created against it. Accounts
// is populated only for RuleExchangeLimitedToAccounts.
type Rule struct {
	Type     RuleType `msgpack:"type"`
	Accounts []string `msgpack:"accounts,omitempty"`
}

// OfferRuleTypes is the subset of resource rules an offer inherits at
// creation: the rules governing exchange cardinality.
var OfferRuleTypes = []RuleType{
	RuleExchangeOncePerAccount,
	RuleExchangeOnce,
	RuleExchangeLimitedToAccounts,
}

// HasRule reports whether any rule in the slice has the given type.
func HasRule(rules []Rule, t RuleType) bool {
	for _, rule := range rules {
		if rule.Type == t {
			return true
		}
	}
	return false
}

// OfferRules filters the exchange-cardinality subset of a resource's rules,
// preserving order.
func OfferRules(rules []Rule) []Rule {
	var inherited []Rule
	for _, rule := range rules {
		for _, t := range OfferRuleTypes {
			if rule.Type == t {
				inherited = append(inherited, rule)
				break
			}
		}
	}
	return inherited
}
