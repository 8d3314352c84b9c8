package rules

import (
	"bytes"

	mapset "github.com/deckarep/golang-set"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
	"golang.org/x/xerrors"
)

// MultisigNonOperational rejects the transactions signed by a multisig
// account. A multisig account only acts through the cosigners.
//
// - implements validation.SingleValidator
type MultisigNonOperational struct {
	snapshot state.Snapshot
}

// NewMultisigNonOperational returns a new rule for the multisig accounts.
func NewMultisigNonOperational(snapshot state.Snapshot) MultisigNonOperational {
	return MultisigNonOperational{snapshot: snapshot}
}

// Validate implements validation.SingleValidator.
func (v MultisigNonOperational) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	if state.IsMultisig(v.snapshot, tx.GetHeader().SignerAddress()) {
		return validation.FailureTransactionNotAllowedForMultisig
	}

	return validation.Success
}

// MultisigSigner checks that the signer of a multisig transaction is a
// cosigner of the multisig account.
//
// - implements validation.SingleValidator
type MultisigSigner struct {
	snapshot state.Snapshot
}

// NewMultisigSigner returns a new rule for the signer of multisig
// transactions.
func NewMultisigSigner(snapshot state.Snapshot) MultisigSigner {
	return MultisigSigner{snapshot: snapshot}
}

// Validate implements validation.SingleValidator.
func (v MultisigSigner) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	multisig, ok := tx.(txn.Multisig)
	if !ok {
		return validation.Success
	}

	account := multisig.MultisigAddress()

	if !state.IsMultisig(v.snapshot, account) {
		return validation.FailureMultisigNoMatchingMultisig
	}

	if !state.IsCosignerOf(v.snapshot, account, multisig.SignerAddress()) {
		return validation.FailureMultisigNotACosigner
	}

	return validation.Success
}

// MultisigCosignatures checks that every cosignature approves the inner
// transaction of the multisig account and pays a valid fee.
//
// - implements validation.SingleValidator
type MultisigCosignatures struct {
	fees fee.Calculator
}

// NewMultisigCosignatures returns a new rule for the cosignatures.
func NewMultisigCosignatures(fees fee.Calculator) MultisigCosignatures {
	return MultisigCosignatures{fees: fees}
}

// Validate implements validation.SingleValidator.
func (v MultisigCosignatures) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	multisig, ok := tx.(txn.Multisig)
	if !ok || len(multisig.Cosignatures) == 0 {
		return validation.Success
	}

	inner, err := txn.Hash(multisig.Inner)
	if err != nil {
		return validation.FailureMultisigMismatchedSignature
	}

	account := multisig.MultisigAddress()

	for _, cosig := range multisig.Cosignatures {
		if cosig.OtherHash != inner || cosig.Multisig != account {
			return validation.FailureMultisigMismatchedSignature
		}

		if !v.fees.IsCosignatureValid(cosig, ctx.Height()) {
			return validation.FailureInsufficientFee
		}
	}

	return validation.Success
}

// MultisigQuorum checks that enough cosigners signed a multisig transaction.
//
// - implements validation.SingleValidator
type MultisigQuorum struct {
	snapshot state.Snapshot
}

// NewMultisigQuorum returns a new quorum rule.
func NewMultisigQuorum(snapshot state.Snapshot) MultisigQuorum {
	return MultisigQuorum{snapshot: snapshot}
}

// Validate implements validation.SingleValidator. The cosigners removed by
// the inner transaction neither need to sign nor count in the quorum. The
// quorum is the one of the account before the transaction.
func (v MultisigQuorum) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	multisig, ok := tx.(txn.Multisig)
	if !ok {
		return validation.Success
	}

	account := multisig.MultisigAddress()
	cosigners := newAddressSet(v.snapshot.Cosigners(account)...)
	signers := newAddressSet(multisig.Signers()...)

	if !signers.IsSubset(cosigners) {
		return validation.FailureMultisigInvalidCosigners
	}

	removed := mapset.NewThreadUnsafeSet()

	modification, ok := multisig.Inner.(txn.MultisigAggregateModification)
	if ok {
		for _, m := range modification.Modifications {
			if m.Kind == txn.ModificationDel {
				removed.Add(modification.AddressOf(m.Cosignatory))
			}
		}
	}

	count := signers.Difference(removed).Cardinality()
	remaining := cosigners.Difference(removed).Cardinality()

	expected := remaining

	min := v.snapshot.MinCosignatories(account)
	if min > 0 && min < remaining {
		expected = min
	}

	if count < expected {
		return validation.FailureMultisigInvalidCosigners
	}

	return validation.Success
}

// CosignatoryModification checks the changes of the cosigners of an account.
// The modifications are checked in the declared order against the cosigners
// before the transaction, so that an account cannot be both added and removed.
//
// - implements validation.SingleValidator
type CosignatoryModification struct {
	snapshot state.Snapshot
}

// NewCosignatoryModification returns a new rule for the cosigner changes.
func NewCosignatoryModification(snapshot state.Snapshot) CosignatoryModification {
	return CosignatoryModification{snapshot: snapshot}
}

// Validate implements validation.SingleValidator.
func (v CosignatoryModification) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	modification, ok := tx.(txn.MultisigAggregateModification)
	if !ok {
		return validation.Success
	}

	account := modification.SignerAddress()
	original := newAddressSet(v.snapshot.Cosigners(account)...)
	added := mapset.NewThreadUnsafeSet()
	removed := mapset.NewThreadUnsafeSet()

	for _, m := range modification.Modifications {
		addr := modification.AddressOf(m.Cosignatory)

		switch m.Kind {
		case txn.ModificationAdd:
			if added.Contains(addr) {
				return validation.FailureMultisigModificationRedundant
			}

			if original.Contains(addr) {
				return validation.FailureMultisigAlreadyACosigner
			}

			if addr == account || state.IsMultisig(v.snapshot, addr) {
				return validation.FailureMultisigAccountCannotBeCosigner
			}

			if state.IsCosignatory(v.snapshot, account) {
				return validation.FailureMultisigAccountCannotBeCosigner
			}

			added.Add(addr)
		case txn.ModificationDel:
			if removed.Contains(addr) {
				return validation.FailureMultisigModificationRedundant
			}

			if !original.Contains(addr) {
				return validation.FailureMultisigNotACosigner
			}

			removed.Add(addr)
		default:
			return validation.FailureUnknown
		}
	}

	if removed.Cardinality() > 1 {
		return validation.FailureMultisigModificationMultipleDeletes
	}

	return validation.Success
}

// CosignatoryRange checks the number of cosigners and the quorum that result
// from a modification.
//
// - implements validation.SingleValidator
type CosignatoryRange struct {
	snapshot state.Snapshot
	max      int
}

// NewCosignatoryRange returns a new rule allowing at most max cosigners.
func NewCosignatoryRange(snapshot state.Snapshot, max int) CosignatoryRange {
	return CosignatoryRange{
		snapshot: snapshot,
		max:      max,
	}
}

// Validate implements validation.SingleValidator. An account left without
// cosigners is a regular account again and a quorum of zero requires every
// cosigner.
func (v CosignatoryRange) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	modification, ok := tx.(txn.MultisigAggregateModification)
	if !ok {
		return validation.Success
	}

	account := modification.SignerAddress()
	current := newAddressSet(v.snapshot.Cosigners(account)...)

	for _, m := range modification.Modifications {
		addr := modification.AddressOf(m.Cosignatory)

		if m.Kind == txn.ModificationAdd {
			current.Add(addr)
		} else {
			current.Remove(addr)
		}
	}

	count := current.Cardinality()
	if count > v.max {
		return validation.FailureTooManyMultisigCosigners
	}

	min := v.snapshot.MinCosignatories(account) + modification.MinCosignatoriesChange()
	if min < 0 || min > count {
		return validation.FailureMultisigMinCosignatoriesOutOfRange
	}

	return validation.Success
}

func newAddressSet(addrs ...model.Address) mapset.Set {
	set := mapset.NewThreadUnsafeSet()
	for _, addr := range addrs {
		set.Add(addr)
	}

	return set
}

// cosigningBytes returns the bytes that a cosigner signs.
func cosigningBytes(cosig txn.Cosignature) ([]byte, error) {
	buffer := new(bytes.Buffer)

	err := cosig.Fingerprint(buffer)
	if err != nil {
		return nil, xerrors.Errorf("failed to fingerprint: %v", err)
	}

	return buffer.Bytes(), nil
}
