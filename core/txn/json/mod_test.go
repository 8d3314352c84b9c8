package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/internal/testing/fake"
)

func TestEncodeDecode_AllKinds(t *testing.T) {
	accs := fake.NewAccounts(0, 3)
	min := 2

	fooBar := model.MosaicID{Namespace: "foo", Name: "bar"}

	inner := txn.Transfer{
		Header:    makeHeader(accs[0]),
		Recipient: accs[1].Address,
		Amount:    10,
		Message:   []byte("hello"),
		Mosaics:   []model.MosaicTransfer{{ID: fooBar, Quantity: 3}},
	}

	txs := []txn.Transaction{
		inner,
		txn.ImportanceTransfer{
			Header: makeHeader(accs[0]),
			Remote: accs[1].Key,
			Mode:   model.LinkActivate,
		},
		txn.MultisigAggregateModification{
			Header: makeHeader(accs[0]),
			Modifications: []txn.CosignatoryModification{
				{Kind: txn.ModificationAdd, Cosignatory: accs[1].Key},
				{Kind: txn.ModificationDel, Cosignatory: accs[2].Key},
			},
			MinCosignatories: &min,
		},
		txn.Multisig{
			Header: makeHeader(accs[1]),
			Inner:  inner,
			Cosignatures: []txn.Cosignature{{
				Header:    makeHeader(accs[2]),
				OtherHash: model.Hash{1, 2, 3},
				Multisig:  accs[0].Address,
			}},
		},
		txn.ProvisionNamespace{
			Header:        makeHeader(accs[0]),
			RentalFeeSink: accs[2].Address,
			RentalFee:     100,
			NewPart:       "bar",
			Parent:        "foo",
		},
		txn.MosaicDefinitionCreation{
			Header: makeHeader(accs[0]),
			Definition: model.MosaicDefinition{
				Creator:     accs[0].Address,
				ID:          fooBar,
				Description: "a mosaic",
				Properties: model.MosaicProperties{
					Divisibility:  3,
					InitialSupply: 1000,
					SupplyMutable: true,
					Transferable:  true,
				},
				Levy: &model.MosaicLevy{
					Kind:      model.LevyAbsolute,
					Recipient: accs[1].Address,
					Mosaic:    model.XemID,
					Fee:       5,
				},
			},
			CreationFeeSink: accs[2].Address,
			CreationFee:     10,
		},
		txn.MosaicSupplyChange{
			Header: makeHeader(accs[0]),
			Mosaic: fooBar,
			Type:   txn.SupplyDelete,
			Delta:  7,
		},
	}

	for _, tx := range txs {
		data, err := Encode(tx)
		require.NoError(t, err)

		res, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, tx, res)

		h1, err := txn.Hash(tx)
		require.NoError(t, err)

		h2, err := txn.Hash(res)
		require.NoError(t, err)
		require.Equal(t, h1, h2)
	}

	data, err := EncodeBatch(txs)
	require.NoError(t, err)

	res, err := DecodeBatch(data)
	require.NoError(t, err)
	require.Equal(t, txs, res)
}

func TestDecode_Document(t *testing.T) {
	accs := fake.NewAccounts(0, 2)

	data := `{
		"signer": "` + accs[0].Key.String() + `",
		"network": 152,
		"version": 1,
		"fee": 50000,
		"timestamp": 100,
		"deadline": 200,
		"signature": "0a0b",
		"type": "transfer",
		"body": {"recipient": "` + string(accs[1].Address) + `", "amount": 42}
	}`

	tx, err := Decode([]byte(data))
	require.NoError(t, err)

	transfer, ok := tx.(txn.Transfer)
	require.True(t, ok)
	require.Equal(t, accs[0].Key, transfer.Signer)
	require.Equal(t, model.TestNet, transfer.Network)
	require.Equal(t, model.Amount(50000), transfer.Fee)
	require.Equal(t, []byte{0xa, 0xb}, transfer.Signature)
	require.Equal(t, model.Amount(42), transfer.Amount)
	require.Equal(t, accs[1].Address, transfer.Recipient)
}

func TestDecode_Failures(t *testing.T) {
	_, err := Decode([]byte("{"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to unmarshal")

	_, err = Decode([]byte(`{"type": "unknown"}`))
	require.EqualError(t, err, "invalid type: unknown transaction kind 'unknown'")

	_, err = Decode([]byte(`{"type": "transfer"}`))
	require.EqualError(t, err, "missing body")

	_, err = Decode([]byte(`{"type": "multisig-signature", "body": {}}`))
	require.EqualError(t, err, "unsupported type 'multisig-signature'")

	_, err = Decode([]byte(`{"type": "transfer", "body": {"amount": "abc"}}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to unmarshal body")

	_, err = Decode([]byte(`{"type": "transfer", "signature": "zz", "body": {}}`))
	require.Error(t, err)

	_, err = Decode([]byte(`{"type": "multisig", "body": {"inner": {"type": "multisig", "body": {}}}}`))
	require.EqualError(t, err, "nested multisig transaction")

	_, err = Decode([]byte(`{"type": "multisig", "body": {"inner": {"type": "transfer"}}}`))
	require.EqualError(t, err, "failed to decode inner: missing body")

	_, err = DecodeBatch([]byte(`[{"type": "transfer", "body": {}}, {"type": "nope"}]`))
	require.EqualError(t, err, "tx #1: invalid type: unknown transaction kind 'nope'")

	_, err = DecodeBatch([]byte(`{}`))
	require.Error(t, err)
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode(fakeTx{})
	require.EqualError(t, err, "unsupported transaction of type 'json.fakeTx'")

	_, err = EncodeBatch([]txn.Transaction{fakeTx{}})
	require.EqualError(t, err, "tx #0: unsupported transaction of type 'json.fakeTx'")

	_, err = Encode(txn.Multisig{Inner: fakeTx{}})
	require.EqualError(t, err,
		"failed to encode inner: unsupported transaction of type 'json.fakeTx'")
}

func TestHexBytes_UnmarshalText(t *testing.T) {
	var b HexBytes

	require.NoError(t, b.UnmarshalText([]byte("ff00")))
	require.Equal(t, HexBytes{0xff, 0x00}, b)

	text, err := b.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "ff00", string(text))

	require.Error(t, b.UnmarshalText([]byte("z")))
}

// -----------------------------------------------------------------------------
// Utility functions

func makeHeader(acc fake.Account) txn.Header {
	return txn.Header{
		Signer:    acc.Key,
		Network:   model.TestNet,
		Version:   1,
		Fee:       50_000,
		Timestamp: 100,
		Deadline:  200,
		Signature: []byte{1, 2, 3},
	}
}

type fakeTx struct {
	txn.Transfer
}
