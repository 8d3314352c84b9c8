// Package json implements the JSON format of the transactions.
//
// A transaction is an envelope made of the common header and the name of its
// kind, and a body specific to the kind. Binary fields are written in
// hexadecimal.
package json

import (
	"encoding/hex"
	"encoding/json"

	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"golang.org/x/xerrors"
)

// HexBytes is a slice of bytes written in hexadecimal.
type HexBytes []byte

// MarshalText implements encoding.TextMarshaler.
func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *HexBytes) UnmarshalText(text []byte) error {
	buffer, err := hex.DecodeString(string(text))
	if err != nil {
		return xerrors.Errorf("malformed hex: %v", err)
	}

	*b = buffer

	return nil
}

// HeaderJSON is the JSON message of the common header.
type HeaderJSON struct {
	Signer    model.PublicKey   `json:"signer"`
	Network   uint8             `json:"network"`
	Version   uint8             `json:"version"`
	Fee       model.Amount      `json:"fee"`
	Timestamp model.TimeInstant `json:"timestamp"`
	Deadline  model.TimeInstant `json:"deadline"`
	Signature HexBytes          `json:"signature,omitempty"`
}

// TransactionJSON is the JSON message of a transaction.
type TransactionJSON struct {
	HeaderJSON

	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

// TransferJSON is the JSON message of the body of a transfer.
type TransferJSON struct {
	Recipient model.Address          `json:"recipient"`
	Amount    model.Amount           `json:"amount"`
	Message   HexBytes               `json:"message,omitempty"`
	Mosaics   []model.MosaicTransfer `json:"mosaics,omitempty"`
}

// ImportanceTransferJSON is the JSON message of the body of an importance
// transfer.
type ImportanceTransferJSON struct {
	Remote model.PublicKey `json:"remote"`
	Mode   model.LinkMode  `json:"mode"`
}

// ModificationJSON is the JSON message of a cosignatory modification.
type ModificationJSON struct {
	Kind        txn.ModificationKind `json:"kind"`
	Cosignatory model.PublicKey      `json:"cosignatory"`
}

// AggregateModificationJSON is the JSON message of the body of a multisig
// aggregate modification.
type AggregateModificationJSON struct {
	Modifications    []ModificationJSON `json:"modifications"`
	MinCosignatories *int               `json:"minCosignatories,omitempty"`
}

// CosignatureJSON is the JSON message of a cosignature.
type CosignatureJSON struct {
	HeaderJSON

	OtherHash model.Hash    `json:"otherHash"`
	Multisig  model.Address `json:"multisig"`
}

// MultisigJSON is the JSON message of the body of a multisig transaction.
type MultisigJSON struct {
	Inner        TransactionJSON   `json:"inner"`
	Cosignatures []CosignatureJSON `json:"cosignatures,omitempty"`
}

// ProvisionNamespaceJSON is the JSON message of the body of a namespace
// provisioning.
type ProvisionNamespaceJSON struct {
	RentalFeeSink model.Address     `json:"rentalFeeSink"`
	RentalFee     model.Amount      `json:"rentalFee"`
	NewPart       string            `json:"newPart"`
	Parent        model.NamespaceID `json:"parent,omitempty"`
}

// MosaicDefinitionCreationJSON is the JSON message of the body of a mosaic
// definition creation.
type MosaicDefinitionCreationJSON struct {
	Definition      model.MosaicDefinition `json:"definition"`
	CreationFeeSink model.Address          `json:"creationFeeSink"`
	CreationFee     model.Amount           `json:"creationFee"`
}

// MosaicSupplyChangeJSON is the JSON message of the body of a mosaic supply
// change.
type MosaicSupplyChangeJSON struct {
	Mosaic model.MosaicID `json:"mosaic"`
	Type   txn.SupplyType `json:"type"`
	Delta  model.Supply   `json:"delta"`
}

// Encode returns the JSON data of the transaction.
func Encode(tx txn.Transaction) ([]byte, error) {
	m, err := toJSON(tx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// EncodeBatch returns the JSON array of the transactions.
func EncodeBatch(txs []txn.Transaction) ([]byte, error) {
	msgs := make([]TransactionJSON, len(txs))

	for i, tx := range txs {
		m, err := toJSON(tx)
		if err != nil {
			return nil, xerrors.Errorf("tx #%d: %v", i, err)
		}

		msgs[i] = m
	}

	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode returns the transaction of the JSON data.
func Decode(data []byte) (txn.Transaction, error) {
	var m TransactionJSON

	err := json.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	return fromJSON(m)
}

// DecodeBatch returns the transactions of a JSON array.
func DecodeBatch(data []byte) ([]txn.Transaction, error) {
	var msgs []TransactionJSON

	err := json.Unmarshal(data, &msgs)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	txs := make([]txn.Transaction, len(msgs))

	for i, m := range msgs {
		txs[i], err = fromJSON(m)
		if err != nil {
			return nil, xerrors.Errorf("tx #%d: %v", i, err)
		}
	}

	return txs, nil
}

func toJSON(tx txn.Transaction) (TransactionJSON, error) {
	var body interface{}

	switch t := tx.(type) {
	case txn.Transfer:
		body = TransferJSON{
			Recipient: t.Recipient,
			Amount:    t.Amount,
			Message:   t.Message,
			Mosaics:   t.Mosaics,
		}
	case txn.ImportanceTransfer:
		body = ImportanceTransferJSON{
			Remote: t.Remote,
			Mode:   t.Mode,
		}
	case txn.MultisigAggregateModification:
		mods := make([]ModificationJSON, len(t.Modifications))
		for i, mod := range t.Modifications {
			mods[i] = ModificationJSON{Kind: mod.Kind, Cosignatory: mod.Cosignatory}
		}

		body = AggregateModificationJSON{
			Modifications:    mods,
			MinCosignatories: t.MinCosignatories,
		}
	case txn.Multisig:
		inner, err := toJSON(t.Inner)
		if err != nil {
			return TransactionJSON{}, xerrors.Errorf("failed to encode inner: %v", err)
		}

		cosigs := make([]CosignatureJSON, len(t.Cosignatures))
		for i, cosig := range t.Cosignatures {
			cosigs[i] = CosignatureJSON{
				HeaderJSON: headerToJSON(cosig.Header),
				OtherHash:  cosig.OtherHash,
				Multisig:   cosig.Multisig,
			}
		}

		body = MultisigJSON{
			Inner:        inner,
			Cosignatures: cosigs,
		}
	case txn.ProvisionNamespace:
		body = ProvisionNamespaceJSON{
			RentalFeeSink: t.RentalFeeSink,
			RentalFee:     t.RentalFee,
			NewPart:       t.NewPart,
			Parent:        t.Parent,
		}
	case txn.MosaicDefinitionCreation:
		body = MosaicDefinitionCreationJSON{
			Definition:      t.Definition,
			CreationFeeSink: t.CreationFeeSink,
			CreationFee:     t.CreationFee,
		}
	case txn.MosaicSupplyChange:
		body = MosaicSupplyChangeJSON{
			Mosaic: t.Mosaic,
			Type:   t.Type,
			Delta:  t.Delta,
		}
	default:
		return TransactionJSON{}, xerrors.Errorf("unsupported transaction of type '%T'", tx)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return TransactionJSON{}, xerrors.Errorf("failed to marshal body: %v", err)
	}

	m := TransactionJSON{
		HeaderJSON: headerToJSON(tx.GetHeader()),
		Type:       tx.GetKind().String(),
		Body:       raw,
	}

	return m, nil
}

func fromJSON(m TransactionJSON) (txn.Transaction, error) {
	kind, err := txn.ParseKind(m.Type)
	if err != nil {
		return nil, xerrors.Errorf("invalid type: %v", err)
	}

	header := headerFromJSON(m.HeaderJSON)

	switch kind {
	case txn.KindTransfer:
		var body TransferJSON

		err = unmarshalBody(m.Body, &body)
		if err != nil {
			return nil, err
		}

		tx := txn.Transfer{
			Header:    header,
			Recipient: body.Recipient,
			Amount:    body.Amount,
			Message:   body.Message,
			Mosaics:   body.Mosaics,
		}

		return tx, nil
	case txn.KindImportanceTransfer:
		var body ImportanceTransferJSON

		err = unmarshalBody(m.Body, &body)
		if err != nil {
			return nil, err
		}

		return txn.ImportanceTransfer{Header: header, Remote: body.Remote, Mode: body.Mode}, nil
	case txn.KindMultisigAggregateModification:
		var body AggregateModificationJSON

		err = unmarshalBody(m.Body, &body)
		if err != nil {
			return nil, err
		}

		mods := make([]txn.CosignatoryModification, len(body.Modifications))
		for i, mod := range body.Modifications {
			mods[i] = txn.CosignatoryModification{Kind: mod.Kind, Cosignatory: mod.Cosignatory}
		}

		tx := txn.MultisigAggregateModification{
			Header:           header,
			Modifications:    mods,
			MinCosignatories: body.MinCosignatories,
		}

		return tx, nil
	case txn.KindMultisig:
		return multisigFromJSON(header, m.Body)
	case txn.KindProvisionNamespace:
		var body ProvisionNamespaceJSON

		err = unmarshalBody(m.Body, &body)
		if err != nil {
			return nil, err
		}

		tx := txn.ProvisionNamespace{
			Header:        header,
			RentalFeeSink: body.RentalFeeSink,
			RentalFee:     body.RentalFee,
			NewPart:       body.NewPart,
			Parent:        body.Parent,
		}

		return tx, nil
	case txn.KindMosaicDefinitionCreation:
		var body MosaicDefinitionCreationJSON

		err = unmarshalBody(m.Body, &body)
		if err != nil {
			return nil, err
		}

		tx := txn.MosaicDefinitionCreation{
			Header:          header,
			Definition:      body.Definition,
			CreationFeeSink: body.CreationFeeSink,
			CreationFee:     body.CreationFee,
		}

		return tx, nil
	case txn.KindMosaicSupplyChange:
		var body MosaicSupplyChangeJSON

		err = unmarshalBody(m.Body, &body)
		if err != nil {
			return nil, err
		}

		tx := txn.MosaicSupplyChange{
			Header: header,
			Mosaic: body.Mosaic,
			Type:   body.Type,
			Delta:  body.Delta,
		}

		return tx, nil
	default:
		return nil, xerrors.Errorf("unsupported type '%v'", kind)
	}
}

func multisigFromJSON(header txn.Header, raw json.RawMessage) (txn.Transaction, error) {
	var body MultisigJSON

	err := unmarshalBody(raw, &body)
	if err != nil {
		return nil, err
	}

	if body.Inner.Type == txn.KindMultisig.String() {
		return nil, xerrors.New("nested multisig transaction")
	}

	inner, err := fromJSON(body.Inner)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode inner: %v", err)
	}

	var cosigs []txn.Cosignature
	for _, c := range body.Cosignatures {
		cosigs = append(cosigs, txn.Cosignature{
			Header:    headerFromJSON(c.HeaderJSON),
			OtherHash: c.OtherHash,
			Multisig:  c.Multisig,
		})
	}

	tx := txn.Multisig{
		Header:       header,
		Inner:        inner,
		Cosignatures: cosigs,
	}

	return tx, nil
}

func unmarshalBody(raw json.RawMessage, body interface{}) error {
	if len(raw) == 0 {
		return xerrors.New("missing body")
	}

	err := json.Unmarshal(raw, body)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal body: %v", err)
	}

	return nil
}

func headerToJSON(h txn.Header) HeaderJSON {
	return HeaderJSON{
		Signer:    h.Signer,
		Network:   uint8(h.Network),
		Version:   h.Version,
		Fee:       h.Fee,
		Timestamp: h.Timestamp,
		Deadline:  h.Deadline,
		Signature: h.Signature,
	}
}

func headerFromJSON(m HeaderJSON) txn.Header {
	return txn.Header{
		Signer:    m.Signer,
		Network:   model.NetworkID(m.Network),
		Version:   m.Version,
		Fee:       m.Fee,
		Timestamp: m.Timestamp,
		Deadline:  m.Deadline,
		Signature: m.Signature,
	}
}
