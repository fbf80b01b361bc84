package processor

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noay-network/marketplace-processor/internal/domain"
	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state"
	"github.com/noay-network/marketplace-processor/internal/state/memory"
)

const (
	aliceKey = "alice-pub-key"
	bobKey   = "bob-pub-key"
	carolKey = "carol-pub-key"
)

type fixture struct {
	t       *testing.T
	context *memory.Context
	proc    *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := memory.New()
	return &fixture{
		t:       t,
		context: ctx,
		proc:    New(ctx),
	}
}

func (f *fixture) apply(signer string, pl payload.Payload) error {
	f.t.Helper()
	return f.proc.Apply(context.Background(), signer, pl)
}

func (f *fixture) mustApply(signer string, pl payload.Payload) {
	f.t.Helper()
	require.NoError(f.t, f.apply(signer, pl))
}

// view returns a fresh state view, bypassing any prior invocation's cache.
func (f *fixture) view() *state.MarketState {
	return state.New(context.Background(), f.context, 0)
}

func (f *fixture) asset(id string) domain.Asset {
	f.t.Helper()
	asset, err := f.view().GetAsset(id)
	require.NoError(f.t, err)
	require.NotNil(f.t, asset, "asset %s not found", id)
	return *asset
}

func (f *fixture) rejects(signer string, pl payload.Payload, fragment string) {
	f.t.Helper()
	err := f.apply(signer, pl)
	require.Error(f.t, err)
	require.True(f.t, IsInvalidTransaction(err), "expected validation rejection, got %v", err)
	assert.Contains(f.t, err.Error(), fragment)
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)

	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice", Description: "first"})

	account, err := f.view().GetAccount(aliceKey)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "Alice", account.Label)
	assert.Empty(t, account.Assets)

	f.rejects(aliceKey, payload.CreateAccount{Label: "Alice again"}, "already has an account")
}

func TestCreateResource(t *testing.T) {
	f := newFixture(t)

	f.rejects(aliceKey, payload.CreateResource{Name: "Suzebuck"}, "does not have an Account")

	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(aliceKey, payload.CreateResource{
		Name:        "Suzebuck",
		Description: "the local scrip",
		Rules:       []domain.Rule{{Type: domain.RuleExchangeOnce}},
	})

	resource, err := f.view().GetResource("Suzebuck")
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, []string{aliceKey}, resource.Owners)
	assert.Equal(t, []domain.Rule{{Type: domain.RuleExchangeOnce}}, resource.Rules)

	f.rejects(aliceKey, payload.CreateResource{Name: "Suzebuck"}, "already exists")
}

func TestCreateAsset(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(bobKey, payload.CreateAccount{Label: "Bob"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Suzebuck"})

	f.rejects(carolKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck"}, "does not have an Account")
	f.rejects(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Nothing"}, "does not exist")

	// Only resource owners may mint a non-zero starting quantity.
	f.rejects(bobKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 5}, "not an owner")

	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Label: "wallet", Resource: "Suzebuck", Quantity: 1000})
	f.mustApply(bobKey, payload.CreateAsset{ID: "a2", Resource: "Suzebuck"})

	asset := f.asset("a1")
	assert.Equal(t, aliceKey, asset.Account)
	assert.Equal(t, uint64(1000), asset.Quantity)

	account, err := f.view().GetAccount(aliceKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, account.Assets)

	f.rejects(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck"}, "already exists")
}

func TestCreateOfferValidation(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(bobKey, payload.CreateAccount{Label: "Bob"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Suzebuck"})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 100})
	f.mustApply(bobKey, payload.CreateAsset{ID: "b1", Resource: "Suzebuck"})

	f.rejects(carolKey, payload.CreateOffer{ID: "o1", Source: "a1", SourceQuantity: 1}, "does not have an Account")
	f.rejects(aliceKey, payload.CreateOffer{ID: "o1", SourceQuantity: 1}, "source is not specified")
	f.rejects(aliceKey, payload.CreateOffer{ID: "o1", Source: "a1"}, "source_quantity was unset or 0")
	f.rejects(aliceKey, payload.CreateOffer{ID: "o1", Source: "ghost", SourceQuantity: 1}, "does not refer to an Asset")
	f.rejects(aliceKey, payload.CreateOffer{ID: "o1", Source: "b1", SourceQuantity: 1}, "is not the signer")

	// Target and target_quantity must be both set or both unset.
	f.rejects(aliceKey, payload.CreateOffer{
		ID: "o1", Source: "a1", SourceQuantity: 1, Target: "a1",
	}, "both set or both unset")
	f.rejects(aliceKey, payload.CreateOffer{
		ID: "o1", Source: "a1", SourceQuantity: 1, TargetQuantity: 2,
	}, "both set or both unset")

	f.mustApply(aliceKey, payload.CreateOffer{ID: "o1", Source: "a1", SourceQuantity: 1})
	f.rejects(aliceKey, payload.CreateOffer{ID: "o1", Source: "a1", SourceQuantity: 1}, "already exists")

	offer, err := f.view().GetOffer("o1")
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, domain.OfferOpen, offer.Status)
	assert.Equal(t, []string{aliceKey}, offer.Owners)
}

func TestCreateOfferNotTransferable(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(bobKey, payload.CreateAccount{Label: "Bob"})
	f.mustApply(aliceKey, payload.CreateResource{
		Name:  "Bound",
		Rules: []domain.Rule{{Type: domain.RuleNotTransferable}},
	})
	f.mustApply(bobKey, payload.CreateAsset{ID: "b1", Resource: "Bound"})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Bound", Quantity: 10})

	// Non-owners cannot offer assets of a NOT_TRANSFERABLE resource.
	f.rejects(bobKey, payload.CreateOffer{ID: "o1", Source: "b1", SourceQuantity: 1}, "not transferable")

	// Resource owners can.
	f.mustApply(aliceKey, payload.CreateOffer{ID: "o2", Source: "a1", SourceQuantity: 1})
}

func TestCreateOfferInheritsCardinalityRules(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(aliceKey, payload.CreateResource{
		Name: "Suzebuck",
		Rules: []domain.Rule{
			{Type: domain.RuleExchangeOnce},
			{Type: domain.RuleNotTransferable},
		},
	})
	f.mustApply(aliceKey, payload.CreateResource{
		Name:  "Bux",
		Rules: []domain.Rule{{Type: domain.RuleExchangeLimitedToAccounts, Accounts: []string{bobKey}}},
	})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 100})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a2", Resource: "Bux", Quantity: 0})

	f.mustApply(aliceKey, payload.CreateOffer{
		ID:             "o1",
		Source:         "a1",
		SourceQuantity: 2,
		Target:         "a2",
		TargetQuantity: 3,
		Rules:          []domain.Rule{{Type: domain.RuleExchangeOncePerAccount}},
	})

	offer, err := f.view().GetOffer("o1")
	require.NoError(t, err)
	require.NotNil(t, offer)

	// Declared rules come first, then the source resource's cardinality
	// subset, then the target's. NOT_TRANSFERABLE is not inherited.
	assert.Equal(t, []domain.Rule{
		{Type: domain.RuleExchangeOncePerAccount},
		{Type: domain.RuleExchangeOnce},
		{Type: domain.RuleExchangeLimitedToAccounts, Accounts: []string{bobKey}},
	}, offer.Rules)
}

func TestCloseOffer(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(bobKey, payload.CreateAccount{Label: "Bob"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Suzebuck"})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 10})
	f.mustApply(aliceKey, payload.CreateOffer{ID: "o1", Source: "a1", SourceQuantity: 1})

	f.rejects(aliceKey, payload.CloseOffer{ID: "ghost"}, "does not exist")
	f.rejects(bobKey, payload.CloseOffer{ID: "o1"}, "not an owner")

	f.mustApply(aliceKey, payload.CloseOffer{ID: "o1"})

	offer, err := f.view().GetOffer("o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OfferClosed, offer.Status)

	f.rejects(aliceKey, payload.CloseOffer{ID: "o1"}, "is not open")
}

func TestTransferAsset(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(bobKey, payload.CreateAccount{Label: "Bob"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Suzebuck"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Bux"})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 100})
	f.mustApply(bobKey, payload.CreateAsset{ID: "b1", Resource: "Suzebuck"})
	f.mustApply(bobKey, payload.CreateAsset{ID: "b2", Resource: "Bux"})

	f.rejects(aliceKey, payload.TransferAsset{ID: "t1"}, "does not exist")

	stage := func(transfer domain.Transfer) {
		require.NoError(t, f.view().SetTransfer(transfer))
	}

	// Resources must match between source and target assets.
	stage(domain.Transfer{ID: "t1", Account: aliceKey, Source: "a1", Target: "b2", Amount: 10})
	f.rejects(aliceKey, payload.TransferAsset{ID: "t1"}, "expected resource")

	// No infinite exemption on the transfer path: the source must hold the
	// full amount.
	stage(domain.Transfer{ID: "t2", Account: aliceKey, Source: "a1", Target: "b1", Amount: 500})
	f.rejects(aliceKey, payload.TransferAsset{ID: "t2"}, "only had")

	// A transfer staged for another account is invisible to the signer.
	stage(domain.Transfer{ID: "t3", Account: bobKey, Source: "a1", Target: "b1", Amount: 10})
	f.rejects(aliceKey, payload.TransferAsset{ID: "t3"}, "does not exist")

	stage(domain.Transfer{ID: "t4", Account: aliceKey, Source: "a1", Target: "b1", Amount: 40})
	f.mustApply(aliceKey, payload.TransferAsset{ID: "t4"})

	assert.Equal(t, uint64(60), f.asset("a1").Quantity)
	assert.Equal(t, uint64(40), f.asset("b1").Quantity)
}

func TestTransferAssetRejectsCreditOverflow(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Suzebuck"})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 100})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a2", Resource: "Suzebuck", Quantity: math.MaxUint64})

	require.NoError(t, f.view().SetTransfer(domain.Transfer{
		ID: "t1", Account: aliceKey, Source: "a1", Target: "a2", Amount: 100,
	}))

	// Crediting into a max balance would wrap it; the transfer must reject
	// with both assets untouched.
	f.rejects(aliceKey, payload.TransferAsset{ID: "t1"}, "overflows asset")
	assert.Equal(t, uint64(100), f.asset("a1").Quantity)
	assert.Equal(t, uint64(math.MaxUint64), f.asset("a2").Quantity)
}

func TestRejectionLeavesNoPartialEffects(t *testing.T) {
	f := newFixture(t)
	f.mustApply(aliceKey, payload.CreateAccount{Label: "Alice"})
	f.mustApply(aliceKey, payload.CreateResource{Name: "Suzebuck"})
	f.mustApply(aliceKey, payload.CreateAsset{ID: "a1", Resource: "Suzebuck", Quantity: 100})

	before := f.context.Len()
	f.rejects(aliceKey, payload.CreateOffer{ID: "o1", Source: "a1", SourceQuantity: 0}, "source_quantity")
	assert.Equal(t, before, f.context.Len(), "a rejected transaction must write nothing")
}
