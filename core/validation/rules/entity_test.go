package rules

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state/mem"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
	"go.dedis.ch/nemval/internal/testing/fake"
)

func TestDeadline_Validate(t *testing.T) {
	acc := fake.NewAccount(0)
	ctx := makeContext(mem.NewSnapshot(), height)
	rule := NewDeadline()

	cases := []struct {
		timestamp model.TimeInstant
		deadline  model.TimeInstant
		res       validation.Verdict
	}{
		{100, 101, validation.Success},
		{100, 100 + model.SecondsPerDay, validation.Success},
		{100, 100, validation.FailurePastDeadline},
		{100, 99, validation.FailurePastDeadline},
		{100, 101 + model.SecondsPerDay, validation.FailureFutureDeadline},
	}

	for _, c := range cases {
		tx := txn.Transfer{Header: makeHeader(acc, 1)}
		tx.Timestamp = c.timestamp
		tx.Deadline = c.deadline

		require.Equal(t, c.res, rule.Validate(tx, ctx), "%d -> %d", c.timestamp, c.deadline)
	}
}

func TestNonFutureEntity_Validate(t *testing.T) {
	acc := fake.NewAccount(0)
	ctx := makeContext(mem.NewSnapshot(), height)
	rule := NewNonFutureEntity(fixedClock(1000), 10*time.Second)

	tx := txn.Transfer{Header: makeHeader(acc, 1)}

	tx.Timestamp = 1010
	require.Equal(t, validation.Success, rule.Validate(tx, ctx))

	tx.Timestamp = 1011
	require.Equal(t, validation.FailureTimestampTooFarInFuture, rule.Validate(tx, ctx))
}

func TestSignature_Validate(t *testing.T) {
	accs := fake.NewAccounts(0, 3)
	ctx := makeContext(mem.NewSnapshot(), height)

	verifier := &fakeVerifier{}
	rule := NewSignature(verifier)

	tx := txn.Multisig{
		Header:       makeHeader(accs[0], 1),
		Inner:        txn.Transfer{Header: makeHeader(accs[1], 1)},
		Cosignatures: []txn.Cosignature{{Header: makeHeader(accs[2], 1)}},
	}
	tx.Signature = []byte{0xaa}

	require.Equal(t, validation.Success, rule.Validate(tx, ctx))
	require.Equal(t, 2, verifier.calls.Len())
	require.Equal(t, accs[0].Key, verifier.calls.Get(0, 0))
	require.Equal(t, []byte{0xaa}, verifier.calls.Get(0, 2))
	require.Equal(t, accs[2].Key, verifier.calls.Get(1, 0))

	expected, err := txn.SigningBytes(tx)
	require.NoError(t, err)
	require.Equal(t, expected, verifier.calls.Get(0, 1))

	verifier.err = fake.GetError()
	require.Equal(t, validation.FailureSignatureNotVerifiable, rule.Validate(tx, ctx))

	require.Equal(t, validation.FailureSignatureNotVerifiable,
		NewSignature(&fakeVerifier{}).Validate(badTx{Transfer: txn.Transfer{Header: makeHeader(accs[0], 1)}}, ctx))
}

func TestCosigningBytes(t *testing.T) {
	cosig := txn.Cosignature{Header: makeHeader(fake.NewAccount(0), 1)}

	data, err := cosigningBytes(cosig)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	cosig.Signature = []byte{1}

	again, err := cosigningBytes(cosig)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestVersion_Validate(t *testing.T) {
	acc := fake.NewAccount(0)
	forks := testnet.Forks
	rule := NewVersion(forks)

	header := func(version uint8) txn.Header {
		h := makeHeader(acc, 1)
		h.Version = version
		return h
	}

	cases := []struct {
		tx  txn.Transaction
		h   model.Height
		res validation.Verdict
	}{
		{txn.Transfer{Header: header(1)}, 1, validation.Success},
		{txn.Transfer{Header: header(2)}, forks.Mosaics - 1, validation.FailureTransactionBeforeSecondFork},
		{txn.Transfer{Header: header(2)}, forks.Mosaics, validation.Success},
		{txn.Transfer{Header: header(3)}, height, validation.FailureEntityInvalidVersion},
		{txn.Transfer{Header: header(0)}, height, validation.FailureEntityInvalidVersion},
		{txn.MultisigAggregateModification{Header: header(1)}, 1, validation.Success},
		{
			txn.MultisigAggregateModification{Header: header(2)},
			forks.MultisigMOfN - 1,
			validation.FailureMultisigV2AggregateModificationBeforeFork,
		},
		{txn.MultisigAggregateModification{Header: header(2)}, forks.MultisigMOfN, validation.Success},
		{txn.ProvisionNamespace{Header: header(1)}, forks.Mosaics - 1, validation.FailureTransactionBeforeSecondFork},
		{txn.ProvisionNamespace{Header: header(1)}, forks.Mosaics, validation.Success},
		{txn.MosaicSupplyChange{Header: header(2)}, height, validation.FailureEntityInvalidVersion},
		{txn.ImportanceTransfer{Header: header(1)}, 1, validation.Success},
		{txn.ImportanceTransfer{Header: header(2)}, height, validation.FailureEntityInvalidVersion},
	}

	for i, c := range cases {
		res := rule.Validate(c.tx, makeContext(mem.NewSnapshot(), c.h))
		require.Equal(t, c.res, res, "case #%d", i)
	}
}

func TestNetwork_Validate(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	ctx := makeContext(mem.NewSnapshot(), height)
	rule := NewNetwork(model.TestNet)

	tx := txn.Transfer{Header: makeHeader(accs[0], 1), Recipient: accs[1].Address}
	require.Equal(t, validation.Success, rule.Validate(tx, ctx))

	tx.Recipient = model.NewAddress(model.MainNet, accs[1].Key)
	require.Equal(t, validation.FailureWrongNetwork, rule.Validate(tx, ctx))

	tx.Recipient = "not an address"
	require.Equal(t, validation.FailureWrongNetwork, rule.Validate(tx, ctx))

	tx.Recipient = accs[1].Address
	tx.Network = model.MainNet
	require.Equal(t, validation.FailureWrongNetwork, rule.Validate(tx, ctx))
}

func TestNemesisSink_Validate(t *testing.T) {
	acc := fake.NewAccount(0)
	rule := NewNemesisSink(acc.Address)
	tx := txn.Transfer{Header: makeHeader(acc, 1)}

	require.Equal(t, validation.Success, rule.Validate(tx, makeContext(mem.NewSnapshot(), 1)))
	require.Equal(t, validation.FailureNemesisAfterNemesisBlock, rule.Validate(tx, makeContext(mem.NewSnapshot(), 2)))

	rule = NewNemesisSink(fake.NewAccount(1).Address)
	require.Equal(t, validation.Success, rule.Validate(tx, makeContext(mem.NewSnapshot(), 2)))
}

func TestFeeSinkSigner_Validate(t *testing.T) {
	acc := fake.NewAccount(0)
	ctx := makeContext(mem.NewSnapshot(), height)

	cfg := testnet
	rule := NewFeeSinkSigner(cfg)
	tx := txn.Transfer{Header: makeHeader(acc, 1)}

	require.Equal(t, validation.Success, rule.Validate(tx, ctx))

	cfg.Accounts.NamespaceLessor = acc.Address
	rule = NewFeeSinkSigner(cfg)
	require.Equal(t, validation.FailureTransactionNotAllowedForMultisig, rule.Validate(tx, ctx))
}

func TestMinimumFee_Validate(t *testing.T) {
	accs := fake.NewAccounts(0, 2)
	snap := mem.NewSnapshot()
	ctx := makeContext(snap, height)

	fees := fee.NewCalculator(testnet.Forks, snap)
	rule := NewMinimumFee(fees)

	tx := txn.Transfer{Header: makeHeader(accs[0], 0), Recipient: accs[1].Address, Amount: 10}

	minimum, err := fees.MinimumFee(tx, height)
	require.NoError(t, err)

	tx.Fee = minimum
	require.Equal(t, validation.Success, rule.Validate(tx, ctx))

	tx.Fee = minimum - 1
	require.Equal(t, validation.FailureInsufficientFee, rule.Validate(tx, ctx))

	tx.Mosaics = []model.MosaicTransfer{{ID: model.MosaicID{Namespace: "foo", Name: "bar"}, Quantity: 1}}
	require.Equal(t, validation.FailureMosaicUnknown, rule.Validate(tx, ctx))
}

// -----------------------------------------------------------------------------
// Utility functions

type badTx struct {
	txn.Transfer
}

func (badTx) Fingerprint(io.Writer) error {
	return fake.GetError()
}
