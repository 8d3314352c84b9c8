package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state/mem"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
	"go.dedis.ch/nemval/internal/testing/fake"
)

func TestMosaicDefinitionCreation_Validate(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	alice, bob := accs[0], accs[1]

	snap := makeMosaicSnapshot(alice, bob)
	rule := NewMosaicDefinitionCreation(snap, testnet)
	ctx := makeContext(snap, height)

	def := func(ns model.NamespaceID, name string) model.MosaicDefinition {
		return makeMosaic(alice, ns, name, 2, 1000, nil).Definition
	}

	require.Equal(t, validation.Success, rule.Validate(makeCreation(alice, def("foo", "new")), ctx))
	require.Equal(t, validation.FailureMosaicCreatorConflict, rule.Validate(makeCreation(bob, def("foo", "new")), ctx))
	require.Equal(t, validation.FailureNamespaceUnknown, rule.Validate(makeCreation(alice, def("nope", "new")), ctx))
	require.Equal(t, validation.FailureNamespaceExpired, rule.Validate(makeCreation(alice, def("old", "new")), ctx))
	require.Equal(t, validation.FailureNamespaceOwnerConflict,
		rule.Validate(makeCreation(alice, def("bob", "new")), ctx))

	tx := makeCreation(alice, def("foo", "new"))
	tx.CreationFeeSink = bob.Address
	require.Equal(t, validation.FailureMosaicInvalidCreationFeeSink, rule.Validate(tx, ctx))

	tx = makeCreation(alice, def("foo", "new"))
	tx.CreationFee--
	require.Equal(t, validation.FailureMosaicInvalidCreationFee, rule.Validate(tx, ctx))

	require.Equal(t, validation.Success, rule.Validate(txn.Transfer{}, ctx))
}

func TestMosaicDefinitionCreation_Redefinition(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	alice, bob := accs[0], accs[1]

	snap := makeMosaicSnapshot(alice, bob)
	rule := NewMosaicDefinitionCreation(snap, testnet)
	ctx := makeContext(snap, height)

	existing, found := snap.Mosaic(model.MosaicID{Namespace: "foo", Name: "coin"})
	require.True(t, found)

	def := existing.Definition
	require.Equal(t, validation.FailureMosaicAlreadyExists, rule.Validate(makeCreation(alice, def), ctx))

	def.Description = "new description"
	require.Equal(t, validation.Success, rule.Validate(makeCreation(alice, def), ctx))

	def = existing.Definition
	def.Properties.Transferable = false
	require.Equal(t, validation.FailureMosaicModificationNotAllowed, rule.Validate(makeCreation(alice, def), ctx))

	// The creator owns the entire supply.
	def = existing.Definition
	def.Properties.Divisibility = 3
	require.Equal(t, validation.Success, rule.Validate(makeCreation(alice, def), ctx))

	snap.SetMosaicBalance(alice.Address, def.ID, 99_999)
	require.Equal(t, validation.FailureMosaicModificationNotAllowed, rule.Validate(makeCreation(alice, def), ctx))

	def = existing.Definition
	def.Levy = &model.MosaicLevy{Kind: model.LevyAbsolute, Recipient: alice.Address, Mosaic: model.XemID, Fee: 1}
	require.Equal(t, validation.FailureMosaicModificationNotAllowed, rule.Validate(makeCreation(alice, def), ctx))
}

func TestMosaicDefinitionCreation_Levy(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	alice, bob := accs[0], accs[1]

	snap := makeMosaicSnapshot(alice, bob)
	rule := NewMosaicDefinitionCreation(snap, testnet)
	ctx := makeContext(snap, height)

	def := makeMosaic(alice, "foo", "new", 0, 10, nil).Definition

	levy := func(id model.MosaicID) *model.MosaicLevy {
		return &model.MosaicLevy{Kind: model.LevyAbsolute, Recipient: alice.Address, Mosaic: id, Fee: 1}
	}

	def.Levy = levy(model.XemID)
	require.Equal(t, validation.Success, rule.Validate(makeCreation(alice, def), ctx))

	def.Levy = levy(def.ID)
	require.Equal(t, validation.Success, rule.Validate(makeCreation(alice, def), ctx))

	def.Properties.Transferable = false
	require.Equal(t, validation.FailureMosaicLevyNotTransferable, rule.Validate(makeCreation(alice, def), ctx))

	def.Properties.Transferable = true
	def.Levy = levy(model.MosaicID{Namespace: "foo", Name: "unknown"})
	require.Equal(t, validation.FailureMosaicUnknown, rule.Validate(makeCreation(alice, def), ctx))

	def.Levy = levy(model.MosaicID{Namespace: "foo", Name: "locked"})
	require.Equal(t, validation.FailureMosaicLevyNotTransferable, rule.Validate(makeCreation(alice, def), ctx))
}

func TestMosaicSupplyChange_Validate(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	alice, bob := accs[0], accs[1]

	snap := makeMosaicSnapshot(alice, bob)
	rule := NewMosaicSupplyChange(snap)
	ctx := makeContext(snap, height)

	id := func(ns model.NamespaceID, name string) model.MosaicID {
		return model.MosaicID{Namespace: ns, Name: name}
	}

	// The supply of foo:coin is 1000 with a divisibility of 2.
	maxDelta := model.Supply(model.MaxQuantity/100 - 1000)

	cases := []struct {
		tx  txn.MosaicSupplyChange
		res validation.Verdict
	}{
		{makeSupplyChange(alice, id("foo", "coin"), txn.SupplyCreate, 10), validation.Success},
		{makeSupplyChange(alice, id("foo", "coin"), txn.SupplyCreate, maxDelta), validation.Success},
		{makeSupplyChange(alice, id("foo", "coin"), txn.SupplyCreate, maxDelta+1), validation.FailureMosaicMaxSupplyExceeded},
		{makeSupplyChange(alice, id("foo", "coin"), txn.SupplyDelete, 1000), validation.Success},
		{makeSupplyChange(alice, id("foo", "coin"), txn.SupplyDelete, 1001), validation.FailureMosaicSupplyNegative},
		{makeSupplyChange(alice, id("foo", "coin"), txn.SupplyType(9), 1), validation.FailureUnknown},
		{makeSupplyChange(alice, id("foo", "unknown"), txn.SupplyCreate, 1), validation.FailureMosaicUnknown},
		{makeSupplyChange(alice, id("baz", "orphan"), txn.SupplyCreate, 1), validation.FailureMosaicUnknown},
		{makeSupplyChange(alice, id("old", "coin"), txn.SupplyCreate, 1), validation.FailureNamespaceExpired},
		{makeSupplyChange(bob, id("foo", "coin"), txn.SupplyCreate, 1), validation.FailureNamespaceOwnerConflict},
		{makeSupplyChange(alice, id("foo", "bobs"), txn.SupplyCreate, 1), validation.FailureMosaicCreatorConflict},
		{makeSupplyChange(alice, id("foo", "fixed"), txn.SupplyCreate, 1), validation.FailureMosaicSupplyImmutable},
	}

	for i, c := range cases {
		require.Equal(t, c.res, rule.Validate(c.tx, ctx), "case #%d", i)
	}

	// The creator must own the deleted units.
	snap.SetMosaicBalance(alice.Address, id("foo", "coin"), 99_999)

	tx := makeSupplyChange(alice, id("foo", "coin"), txn.SupplyDelete, 1000)
	require.Equal(t, validation.FailureMosaicSupplyNegative, rule.Validate(tx, ctx))

	tx.Delta = 999
	require.Equal(t, validation.Success, rule.Validate(tx, ctx))

	require.Equal(t, validation.Success, rule.Validate(txn.Transfer{}, ctx))
}

// -----------------------------------------------------------------------------
// Utility functions

// makeMosaicSnapshot returns a snapshot where alice owns the active namespace
// foo and the entire supply of foo:coin.
func makeMosaicSnapshot(alice, bob fake.Account) *mem.Snapshot {
	snap := mem.NewSnapshot()
	snap.PutNamespace(model.NamespaceEntry{ID: "foo", Owner: alice.Address, Height: 1, Expiry: height + 100})
	snap.PutNamespace(model.NamespaceEntry{ID: "old", Owner: alice.Address, Height: 1, Expiry: 10})
	snap.PutNamespace(model.NamespaceEntry{ID: "bob", Owner: bob.Address, Height: 1, Expiry: height + 100})

	coin := makeMosaic(alice, "foo", "coin", 2, 1000, nil)
	snap.PutMosaic(coin)
	snap.SetMosaicBalance(alice.Address, coin.Definition.ID, 100_000)

	snap.PutMosaic(makeMosaic(alice, "old", "coin", 2, 1000, nil))
	snap.PutMosaic(makeMosaic(alice, "baz", "orphan", 0, 1000, nil))
	snap.PutMosaic(makeMosaic(bob, "foo", "bobs", 0, 1000, nil))

	fixed := makeMosaic(alice, "foo", "fixed", 0, 1000, nil)
	fixed.Definition.Properties.SupplyMutable = false
	snap.PutMosaic(fixed)

	locked := makeMosaic(alice, "foo", "locked", 0, 1000, nil)
	locked.Definition.Properties.Transferable = false
	snap.PutMosaic(locked)

	return snap
}

func makeCreation(signer fake.Account, def model.MosaicDefinition) txn.MosaicDefinitionCreation {
	return txn.MosaicDefinitionCreation{
		Header:          makeHeader(signer, 1),
		Definition:      def,
		CreationFeeSink: testnet.Accounts.MosaicCreationFeeSink,
		CreationFee:     fee.MinimumCreationFee(testnet.Forks, height),
	}
}

func makeSupplyChange(signer fake.Account, id model.MosaicID, kind txn.SupplyType,
	delta model.Supply) txn.MosaicSupplyChange {

	return txn.MosaicSupplyChange{
		Header: makeHeader(signer, 1),
		Mosaic: id,
		Type:   kind,
		Delta:  delta,
	}
}
