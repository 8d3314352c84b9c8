package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/ledger"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/state/mem"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
	"go.dedis.ch/nemval/internal/testing/fake"
)

var testnet = config.Testnet()

// height is after every fork of the test network.
const height = model.Height(2_000_000)

func TestRegistry_Validate(t *testing.T) {
	calls := &fake.Call{}

	reg := NewRegistry(
		Rule{Validator: fakeRule{verdict: validation.Success, calls: calls}},
		Rule{
			Validator: fakeRule{verdict: validation.FailureMessageTooLarge, calls: calls},
			Kinds:     []txn.Kind{txn.KindTransfer},
		},
	)

	require.Equal(t, 2, reg.Len(txn.KindTransfer))
	require.Equal(t, 1, reg.Len(txn.KindProvisionNamespace))

	acc := fake.NewAccount(0)
	ctx := makeContext(mem.NewSnapshot(), height)

	res := reg.Validate(txn.Transfer{Header: makeHeader(acc, 1)}, ctx)
	require.Equal(t, validation.FailureMessageTooLarge, res)
	require.Equal(t, 2, calls.Len())

	res = reg.Validate(txn.ProvisionNamespace{Header: makeHeader(acc, 1)}, ctx)
	require.Equal(t, validation.Success, res)
	require.Equal(t, 3, calls.Len())

	res = reg.Validate(unknownTx{Transfer: txn.Transfer{Header: makeHeader(acc, 1)}}, ctx)
	require.Equal(t, validation.FailureUnknown, res)
	require.Equal(t, 3, calls.Len())
}

func TestLevies(t *testing.T) {
	acc := fake.NewAccount(0)
	levy := &model.MosaicLevy{Kind: model.LevyAbsolute, Recipient: acc.Address, Mosaic: model.XemID, Fee: 1}

	snap := mem.NewSnapshot()
	snap.PutMosaic(makeMosaic(acc, "foo", "bar", 0, 10, levy))
	snap.PutMosaic(makeMosaic(acc, "foo", "baz", 0, 10, nil))

	levies := Levies(snap)
	require.Equal(t, levy, levies(model.MosaicID{Namespace: "foo", Name: "bar"}))
	require.Nil(t, levies(model.MosaicID{Namespace: "foo", Name: "baz"}))
	require.Nil(t, levies(model.MosaicID{Namespace: "foo", Name: "unknown"}))
}

func TestNewTransactionValidator_Transfer(t *testing.T) {
	accs := fake.NewAccounts(0, 2)

	snap := mem.NewSnapshot()
	snap.SetBalance(accs[0].Address, model.AmountFromNem(1000))

	logger, check := fake.CheckLog("transaction validator ready")

	v := NewTransactionValidator(testnet, snap, WithClock(fixedClock(1000)), WithLogger(logger))
	require.Equal(t, 9, v.Len())
	check(t)

	tx := makeValidTransfer(t, snap, accs[0], accs[1], model.AmountFromNem(10))

	res := v.Validate(tx, makeContext(snap, height))
	require.Equal(t, validation.Success, res)

	// Validating again yields the same verdict.
	res = v.Validate(tx, makeContext(snap, height))
	require.Equal(t, validation.Success, res)

	tx.Amount = model.AmountFromNem(2000)
	tx.Fee, _ = fee.NewCalculator(testnet.Forks, snap).MinimumFee(tx, height)

	for i := 0; i < 2; i++ {
		res = v.Validate(tx, makeContext(snap, height))
		require.Equal(t, validation.FailureInsufficientBalance, res)
	}
}

func TestNewTransactionValidator_Multisig(t *testing.T) {
	accs := fake.NewAccounts(0, 4)
	multisig, signer, other, recipient := accs[0], accs[1], accs[2], accs[3]

	snap := mem.NewSnapshot()
	snap.SetBalance(multisig.Address, model.AmountFromNem(1000))
	snap.AddCosigner(multisig.Address, signer.Address)
	snap.AddCosigner(multisig.Address, other.Address)
	snap.SetMinCosignatories(multisig.Address, 1)

	v := NewTransactionValidator(testnet, snap, WithClock(fixedClock(1000)))

	inner := makeValidTransfer(t, snap, multisig, recipient, model.AmountFromNem(10))

	wrapper := txn.Multisig{
		Header: makeHeader(signer, 0),
		Inner:  inner,
	}
	wrapper.Timestamp = inner.Timestamp
	wrapper.Deadline = inner.Deadline
	wrapper.Fee, _ = fee.NewCalculator(testnet.Forks, snap).MinimumFee(wrapper, height)

	res := v.Validate(wrapper, makeContext(snap, height))
	require.Equal(t, validation.Success, res)

	// The multisig account cannot sign for itself.
	res = v.Validate(inner, makeContext(snap, height))
	require.Equal(t, validation.FailureTransactionNotAllowedForMultisig, res)

	// The inner transaction goes through the nested rules.
	wrapper.Inner = withNetwork(inner, model.MainNet)
	res = v.Validate(wrapper, makeContext(snap, height))
	require.Equal(t, validation.FailureWrongNetwork, res)
}

func TestNewTransactionValidator_Idempotence(t *testing.T) {
	accs := fake.NewAccounts(0, 4)
	multisig, signer, other, recipient := accs[0], accs[1], accs[2], accs[3]

	snap := mem.NewSnapshot()
	snap.SetBalance(multisig.Address, model.AmountFromNem(1000))
	snap.AddCosigner(multisig.Address, signer.Address)
	snap.AddCosigner(multisig.Address, other.Address)
	snap.SetMinCosignatories(multisig.Address, 2)

	v := NewTransactionValidator(testnet, snap, WithClock(fixedClock(1000)))
	batch := NewBatchValidator(testnet, snap)

	inner := makeValidTransfer(t, snap, multisig, recipient, model.AmountFromNem(10))

	wrapper := txn.Multisig{
		Header: makeHeader(signer, 0),
		Inner:  inner,
	}
	wrapper.Timestamp = inner.Timestamp
	wrapper.Deadline = inner.Deadline
	wrapper.Fee, _ = fee.NewCalculator(testnet.Forks, snap).MinimumFee(wrapper, height)

	l := ledger.New(snap)

	// The quorum of two is not reached without the other cosigner.
	first := v.Validate(wrapper, l.Context(validation.WithHeight(height)))
	require.True(t, first.IsFailure())

	second := v.Validate(wrapper, l.Context(validation.WithHeight(height)))
	require.Equal(t, first, second)
	require.Empty(t, l.Touched())

	group := validation.Group{
		Context:      l.Context(validation.WithHeight(height)),
		Transactions: []txn.Transaction{wrapper, inner},
	}

	first = batch.ValidateBatch([]validation.Group{group})
	second = batch.ValidateBatch([]validation.Group{group})
	require.Equal(t, first, second)
	require.Empty(t, l.Touched())
}

func TestNewTransactionValidator_Signatures(t *testing.T) {
	accs := fake.NewAccounts(0, 2)

	snap := mem.NewSnapshot()
	snap.SetBalance(accs[0].Address, model.AmountFromNem(1000))

	verifier := &fakeVerifier{err: fake.GetError()}

	v := NewTransactionValidator(testnet, snap, WithClock(fixedClock(1000)), WithVerifier(verifier))

	tx := makeValidTransfer(t, snap, accs[0], accs[1], model.AmountFromNem(10))

	res := v.Validate(tx, makeContext(snap, height))
	require.Equal(t, validation.FailureSignatureNotVerifiable, res)
	require.Equal(t, 1, verifier.calls.Len())
}

func TestNewBatchValidator(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	snap := mem.NewSnapshot()

	v := NewBatchValidator(testnet, snap)
	require.Equal(t, 6, v.Len())

	tx := txn.Transfer{Header: makeHeader(accs[0], 1), Recipient: accs[1].Address}
	ctx := makeContext(snap, height)

	res := v.ValidateBatch([]validation.Group{{Context: ctx, Transactions: []txn.Transaction{tx}}})
	require.Equal(t, validation.Success, res)

	res = v.ValidateBatch([]validation.Group{{Context: ctx, Transactions: []txn.Transaction{tx, tx}}})
	require.Equal(t, validation.FailureHashExists, res)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeHeader(acc fake.Account, fee model.Amount) txn.Header {
	return txn.Header{
		Signer:    acc.Key,
		Network:   model.TestNet,
		Version:   1,
		Fee:       fee,
		Timestamp: 100,
		Deadline:  200,
	}
}

func makeContext(s state.Snapshot, h model.Height) validation.Context {
	return ledger.New(s).Context(validation.WithHeight(h))
}

func makeMosaic(creator fake.Account, ns model.NamespaceID, name string, div uint8, supply model.Supply,
	levy *model.MosaicLevy) model.MosaicEntry {

	return model.MosaicEntry{
		Definition: model.MosaicDefinition{
			Creator: creator.Address,
			ID:      model.MosaicID{Namespace: ns, Name: name},
			Properties: model.MosaicProperties{
				Divisibility:  div,
				InitialSupply: supply,
				SupplyMutable: true,
				Transferable:  true,
			},
			Levy: levy,
		},
		Supply: supply,
	}
}

func makeValidTransfer(t *testing.T, s state.Snapshot, from, to fake.Account, amount model.Amount) txn.Transfer {
	tx := txn.Transfer{
		Header:    makeHeader(from, 0),
		Recipient: to.Address,
		Amount:    amount,
	}

	tx.Timestamp = 900
	tx.Deadline = 900 + 3600

	minimum, err := fee.NewCalculator(testnet.Forks, s).MinimumFee(tx, height)
	require.NoError(t, err)

	tx.Fee = minimum

	return tx
}

func withNetwork(tx txn.Transfer, network model.NetworkID) txn.Transfer {
	tx.Network = network
	return tx
}

func fixedClock(secs int) Clock {
	return func() time.Time {
		return model.Epoch.Add(time.Duration(secs) * time.Second)
	}
}

type fakeRule struct {
	verdict validation.Verdict
	calls   *fake.Call
}

func (r fakeRule) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	r.calls.Add(tx)
	return r.verdict
}

type unknownTx struct {
	txn.Transfer
}

func (unknownTx) GetKind() txn.Kind {
	return txn.Kind(99)
}

type fakeVerifier struct {
	err   error
	calls fake.Call
}

func (v *fakeVerifier) Verify(pk model.PublicKey, msg, sig []byte) error {
	v.calls.Add(pk, msg, sig)
	return v.err
}
