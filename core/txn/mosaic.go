package txn

import (
	"io"

	"go.dedis.ch/nemval/core/model"
)

// MosaicDefinitionCreation creates a mosaic, or changes the definition of a
// mosaic of the signer.
//
// - implements txn.Transaction
type MosaicDefinitionCreation struct {
	Header

	Definition      model.MosaicDefinition
	CreationFeeSink model.Address
	CreationFee     model.Amount
}

// GetKind implements txn.Transaction.
func (tx MosaicDefinitionCreation) GetKind() Kind {
	return KindMosaicDefinitionCreation
}

// GetChildren implements txn.Transaction.
func (tx MosaicDefinitionCreation) GetChildren() []Transaction {
	return nil
}

// GetOtherAccounts implements txn.Transaction. It returns the creation fee
// sink.
func (tx MosaicDefinitionCreation) GetOtherAccounts() []model.Address {
	return []model.Address{tx.CreationFeeSink}
}

// GetNotifications implements txn.Transaction. The creation fee is
// transferred to the sink.
func (tx MosaicDefinitionCreation) GetNotifications(LevyLookup) []Notification {
	return []Notification{
		tx.feeDebit(),
		NewBalanceTransfer(tx.SignerAddress(), tx.CreationFeeSink, tx.CreationFee),
	}
}

// Fingerprint implements txn.Transaction.
func (tx MosaicDefinitionCreation) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	def := tx.Definition

	tx.Header.fingerprint(KindMosaicDefinitionCreation, fp)
	fp.string(string(def.Creator))
	fp.string(def.ID.String())
	fp.string(def.Description)
	fp.uint8(def.Properties.Divisibility)
	fp.uint64(uint64(def.Properties.InitialSupply))
	fp.bool(def.Properties.SupplyMutable)
	fp.bool(def.Properties.Transferable)
	fp.bool(def.Levy != nil)

	if def.Levy != nil {
		fp.uint8(uint8(def.Levy.Kind))
		fp.string(string(def.Levy.Recipient))
		fp.string(def.Levy.Mosaic.String())
		fp.uint64(uint64(def.Levy.Fee))
	}

	fp.string(string(tx.CreationFeeSink))
	fp.uint64(uint64(tx.CreationFee))

	return fp.err
}

// SupplyType tells if the supply increases or decreases.
type SupplyType uint8

const (
	// SupplyCreate increases the supply.
	SupplyCreate SupplyType = 1
	// SupplyDelete decreases the supply.
	SupplyDelete SupplyType = 2
)

// MosaicSupplyChange changes the supply of a mosaic by a number of whole
// units.
//
// - implements txn.Transaction
type MosaicSupplyChange struct {
	Header

	Mosaic model.MosaicID
	Type   SupplyType
	Delta  model.Supply
}

// GetKind implements txn.Transaction.
func (tx MosaicSupplyChange) GetKind() Kind {
	return KindMosaicSupplyChange
}

// GetChildren implements txn.Transaction.
func (tx MosaicSupplyChange) GetChildren() []Transaction {
	return nil
}

// GetOtherAccounts implements txn.Transaction.
func (tx MosaicSupplyChange) GetOtherAccounts() []model.Address {
	return nil
}

// GetNotifications implements txn.Transaction.
func (tx MosaicSupplyChange) GetNotifications(LevyLookup) []Notification {
	return []Notification{tx.feeDebit()}
}

// Fingerprint implements txn.Transaction.
func (tx MosaicSupplyChange) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	tx.Header.fingerprint(KindMosaicSupplyChange, fp)
	fp.string(tx.Mosaic.String())
	fp.uint8(uint8(tx.Type))
	fp.uint64(uint64(tx.Delta))

	return fp.err
}
