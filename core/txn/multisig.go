package txn

import (
	"io"

	"go.dedis.ch/nemval/core/model"
)

// ModificationKind tells if a cosigner is added or removed.
type ModificationKind uint8

const (
	// ModificationAdd adds a cosigner.
	ModificationAdd ModificationKind = 1
	// ModificationDel removes a cosigner.
	ModificationDel ModificationKind = 2
)

// CosignatoryModification is a single change of the cosigners.
type CosignatoryModification struct {
	Kind        ModificationKind
	Cosignatory model.PublicKey
}

// MultisigAggregateModification changes the cosigners and the quorum of the
// signer. Modifications are applied in the declared order.
//
// - implements txn.Transaction
type MultisigAggregateModification struct {
	Header

	Modifications []CosignatoryModification
	// MinCosignatories is the relative change of the quorum, or nil when the
	// quorum is left untouched.
	MinCosignatories *int
}

// GetKind implements txn.Transaction.
func (tx MultisigAggregateModification) GetKind() Kind {
	return KindMultisigAggregateModification
}

// GetChildren implements txn.Transaction.
func (tx MultisigAggregateModification) GetChildren() []Transaction {
	return nil
}

// GetOtherAccounts implements txn.Transaction. It returns the cosigners of
// every modification.
func (tx MultisigAggregateModification) GetOtherAccounts() []model.Address {
	res := make([]model.Address, len(tx.Modifications))
	for i, m := range tx.Modifications {
		res[i] = tx.AddressOf(m.Cosignatory)
	}

	return res
}

// MinCosignatoriesChange returns the relative change of the quorum.
func (tx MultisigAggregateModification) MinCosignatoriesChange() int {
	if tx.MinCosignatories == nil {
		return 0
	}

	return *tx.MinCosignatories
}

// GetNotifications implements txn.Transaction.
func (tx MultisigAggregateModification) GetNotifications(LevyLookup) []Notification {
	return []Notification{tx.feeDebit()}
}

// Fingerprint implements txn.Transaction.
func (tx MultisigAggregateModification) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	tx.Header.fingerprint(KindMultisigAggregateModification, fp)
	fp.uint32(uint32(len(tx.Modifications)))

	for _, m := range tx.Modifications {
		fp.uint8(uint8(m.Kind))
		fp.bytes(m.Cosignatory[:])
	}

	fp.bool(tx.MinCosignatories != nil)
	fp.uint32(uint32(int32(tx.MinCosignatoriesChange())))

	return fp.err
}

// Cosignature is the approval of the inner transaction of a multisig
// transaction by one of the cosigners.
type Cosignature struct {
	Header

	// OtherHash is the hash of the inner transaction.
	OtherHash model.Hash
	Multisig  model.Address
}

// Fingerprint writes the signed part of the cosignature.
func (c Cosignature) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	c.Header.fingerprint(KindMultisigSignature, fp)
	fp.bytes(c.OtherHash[:])
	fp.string(string(c.Multisig))

	return fp.err
}

// Multisig wraps a transaction signed on behalf of a multisig account. The
// wrapper signer and the cosignatures must reach the quorum of the account.
//
// - implements txn.Transaction
type Multisig struct {
	Header

	Inner        Transaction
	Cosignatures []Cosignature
}

// GetKind implements txn.Transaction.
func (tx Multisig) GetKind() Kind {
	return KindMultisig
}

// GetChildren implements txn.Transaction. It returns the inner transaction.
func (tx Multisig) GetChildren() []Transaction {
	return []Transaction{tx.Inner}
}

// MultisigAddress returns the address of the multisig account, which is the
// signer of the inner transaction.
func (tx Multisig) MultisigAddress() model.Address {
	return tx.Inner.GetHeader().SignerAddress()
}

// GetOtherAccounts implements txn.Transaction. It returns the multisig
// account.
func (tx Multisig) GetOtherAccounts() []model.Address {
	return []model.Address{tx.MultisigAddress()}
}

// CosignerSignatures returns the cosignatures with one entry per signer. The
// first cosignature of a signer wins and a cosignature of the wrapper signer
// is ignored.
func (tx Multisig) CosignerSignatures() []Cosignature {
	seen := map[model.PublicKey]struct{}{tx.Signer: {}}
	res := make([]Cosignature, 0, len(tx.Cosignatures))

	for _, c := range tx.Cosignatures {
		_, found := seen[c.Signer]
		if found {
			continue
		}

		seen[c.Signer] = struct{}{}
		res = append(res, c)
	}

	return res
}

// Signers returns the addresses of the wrapper signer and of every cosigner.
func (tx Multisig) Signers() []model.Address {
	cosigs := tx.CosignerSignatures()

	res := make([]model.Address, 0, len(cosigs)+1)
	res = append(res, tx.SignerAddress())

	for _, c := range cosigs {
		res = append(res, c.SignerAddress())
	}

	return res
}

// GetNotifications implements txn.Transaction. Every fee, including the one
// of the cosignatures, is paid by the multisig account.
func (tx Multisig) GetNotifications(levies LevyLookup) []Notification {
	multisig := tx.MultisigAddress()

	res := []Notification{NewBalanceDebit(multisig, tx.Fee)}
	res = append(res, tx.Inner.GetNotifications(levies)...)

	for _, c := range tx.CosignerSignatures() {
		res = append(res, NewBalanceDebit(multisig, c.Fee))
	}

	return res
}

// Fingerprint implements txn.Transaction. The cosignatures are not part of the
// fingerprint.
func (tx Multisig) Fingerprint(w io.Writer) error {
	fp := newFingerprinter(w)

	tx.Header.fingerprint(KindMultisig, fp)
	if fp.err != nil {
		return fp.err
	}

	return tx.Inner.Fingerprint(w)
}
