package txn

import (
	"io"

	"go.dedis.ch/nemval/core/model"
)

// ProvisionNamespace rents a root namespace, or a sublevel of a namespace
// owned by the signer.
//
// - implements txn.Transaction
type ProvisionNamespace struct {
	Header

	RentalFeeSink model.Address
	RentalFee     model.Amount
	NewPart       string
	// Parent is empty when a root namespace is provisioned.
	Parent model.NamespaceID
}

// GetKind implements txn.Transaction.
func (tx ProvisionNamespace) GetKind() Kind {
	return KindProvisionNamespace
}

// GetChildren implements txn.Transaction.
func (tx ProvisionNamespace) GetChildren() []Transaction {
	return nil
}

// ResultingNamespace returns the namespace that is provisioned.
func (tx ProvisionNamespace) ResultingNamespace() model.NamespaceID {
	return tx.Parent.Child(tx.NewPart)
}

// GetOtherAccounts implements txn.Transaction. It returns the rental fee sink.
func (tx ProvisionNamespace) GetOtherAccounts() []model.Address {
	return []model.Address{tx.RentalFeeSink}
}

// GetNotifications implements txn.Transaction. The rental fee is transferred
// to the sink.
func (tx ProvisionNamespace) GetNotifications(LevyLookup) []Notification {
	return []Notification{
		tx.feeDebit(),
		NewBalanceTransfer(tx.SignerAddress(), tx.RentalFeeSink, tx.RentalFee),
	}
}

// Fingerprint implements txn.Transaction.
func (tx ProvisionNamespace) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	tx.Header.fingerprint(KindProvisionNamespace, fp)
	fp.string(string(tx.RentalFeeSink))
	fp.uint64(uint64(tx.RentalFee))
	fp.string(tx.NewPart)
	fp.string(string(tx.Parent))

	return fp.err
}
