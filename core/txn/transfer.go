package txn

import (
	"io"
	"math/big"

	"go.dedis.ch/nemval/core/model"
)

// Transfer moves native currency, and optionally mosaics, to a recipient. When
// mosaics are attached, the amount is a multiplier expressed in micro units:
// each mosaic moves quantity * amount / 1_000_000.
//
// - implements txn.Transaction
type Transfer struct {
	Header

	Recipient model.Address
	Amount    model.Amount
	Message   []byte
	Mosaics   []model.MosaicTransfer
}

// GetKind implements txn.Transaction.
func (tx Transfer) GetKind() Kind {
	return KindTransfer
}

// GetChildren implements txn.Transaction. A transfer has no child.
func (tx Transfer) GetChildren() []Transaction {
	return nil
}

// GetOtherAccounts implements txn.Transaction. It returns the recipient.
func (tx Transfer) GetOtherAccounts() []model.Address {
	return []model.Address{tx.Recipient}
}

// MosaicQuantity returns the quantity of the attached mosaic that is actually
// transferred. The second value is false when the quantity is above
// model.MaxQuantity.
func (tx Transfer) MosaicQuantity(m model.MosaicTransfer) (model.Quantity, bool) {
	q := new(big.Int).SetUint64(uint64(m.Quantity))
	q.Mul(q, new(big.Int).SetUint64(uint64(tx.Amount)))
	q.Div(q, big.NewInt(model.MicroNemsPerNem))

	return model.QuantityFromBig(q)
}

// QuantitiesInRange returns false when the quantity of an attached mosaic, or
// of its levy, is above model.MaxQuantity.
func (tx Transfer) QuantitiesInRange(levies LevyLookup) bool {
	for _, m := range tx.Mosaics {
		q, ok := tx.MosaicQuantity(m)
		if !ok {
			return false
		}

		levy := levies.get(m.ID)
		if levy == nil {
			continue
		}

		_, ok = levy.Amount(q)
		if !ok {
			return false
		}
	}

	return true
}

// GetNotifications implements txn.Transaction. It returns the fee debit
// followed by the native and mosaic transfers, with the levies right after
// the mosaic they apply to. A quantity out of range is clamped above
// model.MaxQuantity.
func (tx Transfer) GetNotifications(levies LevyLookup) []Notification {
	signer := tx.SignerAddress()

	res := []Notification{tx.feeDebit()}

	if len(tx.Mosaics) == 0 {
		return append(res, NewBalanceTransfer(signer, tx.Recipient, tx.Amount))
	}

	for _, m := range tx.Mosaics {
		q, _ := tx.MosaicQuantity(m)

		res = append(res, mosaicOrBalance(signer, tx.Recipient, m.ID, q))

		levy := levies.get(m.ID)
		if levy == nil || levy.Recipient == signer {
			continue
		}

		fee, _ := levy.Amount(q)

		res = append(res, mosaicOrBalance(signer, levy.Recipient, levy.Mosaic, fee))
	}

	return res
}

// Fingerprint implements txn.Transaction.
func (tx Transfer) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	tx.Header.fingerprint(KindTransfer, fp)
	fp.string(string(tx.Recipient))
	fp.uint64(uint64(tx.Amount))
	fp.varbytes(tx.Message)
	fp.uint32(uint32(len(tx.Mosaics)))

	for _, m := range tx.Mosaics {
		fp.string(m.ID.String())
		fp.uint64(uint64(m.Quantity))
	}

	return fp.err
}

func mosaicOrBalance(from, to model.Address, id model.MosaicID, q model.Quantity) Notification {
	if id.IsXem() {
		return NewBalanceTransfer(from, to, model.Amount(q))
	}

	return NewMosaicTransfer(from, to, id, q)
}
