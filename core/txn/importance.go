package txn

import (
	"io"

	"go.dedis.ch/nemval/core/model"
)

// ImportanceTransfer delegates the harvesting of the signer to a remote
// account, or stops the delegation.
//
// - implements txn.Transaction
type ImportanceTransfer struct {
	Header

	Remote model.PublicKey
	Mode   model.LinkMode
}

// GetKind implements txn.Transaction.
func (tx ImportanceTransfer) GetKind() Kind {
	return KindImportanceTransfer
}

// GetChildren implements txn.Transaction.
func (tx ImportanceTransfer) GetChildren() []Transaction {
	return nil
}

// RemoteAddress returns the address of the remote account.
func (tx ImportanceTransfer) RemoteAddress() model.Address {
	return tx.AddressOf(tx.Remote)
}

// GetOtherAccounts implements txn.Transaction. It returns the remote account.
func (tx ImportanceTransfer) GetOtherAccounts() []model.Address {
	return []model.Address{tx.RemoteAddress()}
}

// GetNotifications implements txn.Transaction. Only the fee is debited.
func (tx ImportanceTransfer) GetNotifications(LevyLookup) []Notification {
	return []Notification{tx.feeDebit()}
}

// Fingerprint implements txn.Transaction.
func (tx ImportanceTransfer) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	tx.Header.fingerprint(KindImportanceTransfer, fp)
	fp.uint8(uint8(tx.Mode))
	fp.bytes(tx.Remote[:])

	return fp.err
}
