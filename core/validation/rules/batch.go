package rules

import (
	mapset "github.com/deckarep/golang-set"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
)

// BatchSize limits the number of transactions of a batch.
//
// - implements validation.BatchValidator
type BatchSize struct {
	max int
}

// NewBatchSize returns a new rule allowing at most max transactions.
func NewBatchSize(max int) BatchSize {
	return BatchSize{max: max}
}

// ValidateBatch implements validation.BatchValidator. Only the top-level
// transactions are counted.
func (v BatchSize) ValidateBatch(groups []validation.Group) validation.Verdict {
	if len(validation.AllTransactions(groups)) > v.max {
		return validation.FailureTooManyTransactions
	}

	return validation.Success
}

// UniqueHashes rejects a batch with a transaction that appears twice, or that
// is already confirmed.
//
// - implements validation.BatchValidator
type UniqueHashes struct {
	snapshot state.Snapshot
}

// NewUniqueHashes returns a new rule reading the confirmed hashes of the
// snapshot.
func NewUniqueHashes(snapshot state.Snapshot) UniqueHashes {
	return UniqueHashes{snapshot: snapshot}
}

// ValidateBatch implements validation.BatchValidator.
func (v UniqueHashes) ValidateBatch(groups []validation.Group) validation.Verdict {
	seen := make(map[model.Hash]struct{})

	for _, tx := range txn.Flatten(validation.AllTransactions(groups)...) {
		h, err := txn.Hash(tx)
		if err != nil {
			return validation.FailureUnknown
		}

		_, found := seen[h]
		if found || v.snapshot.HashExists(h) {
			return validation.FailureHashExists
		}

		seen[h] = struct{}{}
	}

	return validation.Success
}

// ConflictingMultisigModification allows a single cosigner modification per
// account in a batch.
//
// - implements validation.BatchValidator
type ConflictingMultisigModification struct{}

// NewConflictingMultisigModification returns a new batch rule.
func NewConflictingMultisigModification() ConflictingMultisigModification {
	return ConflictingMultisigModification{}
}

// ValidateBatch implements validation.BatchValidator.
func (ConflictingMultisigModification) ValidateBatch(groups []validation.Group) validation.Verdict {
	accounts := mapset.NewThreadUnsafeSet()

	for _, tx := range txn.Flatten(validation.AllTransactions(groups)...) {
		if tx.GetKind() != txn.KindMultisigAggregateModification {
			continue
		}

		if !accounts.Add(tx.GetHeader().SignerAddress()) {
			return validation.FailureConflictingMultisigModification
		}
	}

	return validation.Success
}

// ConflictingMosaicCreation rejects a batch that creates a mosaic and uses it,
// or that creates the same mosaic twice.
//
// - implements validation.BatchValidator
type ConflictingMosaicCreation struct{}

// NewConflictingMosaicCreation returns a new batch rule.
func NewConflictingMosaicCreation() ConflictingMosaicCreation {
	return ConflictingMosaicCreation{}
}

// ValidateBatch implements validation.BatchValidator.
func (ConflictingMosaicCreation) ValidateBatch(groups []validation.Group) validation.Verdict {
	txs := txn.Flatten(validation.AllTransactions(groups)...)

	created := mapset.NewThreadUnsafeSet()
	namespaces := mapset.NewThreadUnsafeSet()

	for _, tx := range txs {
		creation, ok := tx.(txn.MosaicDefinitionCreation)
		if !ok {
			continue
		}

		if !created.Add(creation.Definition.ID) {
			return validation.FailureConflictingMosaicCreation
		}

		namespaces.Add(creation.Definition.ID.Namespace)
	}

	if created.Cardinality() == 0 {
		return validation.Success
	}

	for _, tx := range txs {
		switch t := tx.(type) {
		case txn.MosaicSupplyChange:
			if created.Contains(t.Mosaic) {
				return validation.FailureConflictingMosaicCreation
			}
		case txn.Transfer:
			for _, m := range t.Mosaics {
				if created.Contains(m.ID) {
					return validation.FailureConflictingMosaicCreation
				}
			}
		case txn.ProvisionNamespace:
			if namespaces.Contains(t.ResultingNamespace()) {
				return validation.FailureConflictingMosaicCreation
			}
		}
	}

	return validation.Success
}

// ConflictingImportanceTransfer allows an account to take part in a single
// importance transfer of a batch, as owner or as remote.
//
// - implements validation.BatchValidator
type ConflictingImportanceTransfer struct{}

// NewConflictingImportanceTransfer returns a new batch rule.
func NewConflictingImportanceTransfer() ConflictingImportanceTransfer {
	return ConflictingImportanceTransfer{}
}

// ValidateBatch implements validation.BatchValidator.
func (ConflictingImportanceTransfer) ValidateBatch(groups []validation.Group) validation.Verdict {
	accounts := mapset.NewThreadUnsafeSet()

	for _, tx := range txn.Flatten(validation.AllTransactions(groups)...) {
		transfer, ok := tx.(txn.ImportanceTransfer)
		if !ok {
			continue
		}

		if !accounts.Add(transfer.SignerAddress()) || !accounts.Add(transfer.RemoteAddress()) {
			return validation.FailureImportanceTransferInProgress
		}
	}

	return validation.Success
}

// TransferToRemote rejects the activation of a remote that receives native
// currency earlier in the same batch.
//
// - implements validation.BatchValidator
type TransferToRemote struct{}

// NewTransferToRemote returns a new batch rule.
func NewTransferToRemote() TransferToRemote {
	return TransferToRemote{}
}

// ValidateBatch implements validation.BatchValidator.
func (TransferToRemote) ValidateBatch(groups []validation.Group) validation.Verdict {
	credited := mapset.NewThreadUnsafeSet()

	for _, tx := range validation.AllTransactions(groups) {
		for _, child := range txn.Flatten(tx) {
			transfer, ok := child.(txn.ImportanceTransfer)
			if ok && transfer.Mode == model.LinkActivate && credited.Contains(transfer.RemoteAddress()) {
				return validation.FailureDestinationAccountHasPreexistingBalance
			}
		}

		for _, n := range tx.GetNotifications(nil) {
			if n.Kind == txn.BalanceTransfer || n.Kind == txn.BalanceCredit {
				if n.Amount > 0 {
					credited.Add(n.Recipient)
				}
			}
		}
	}

	return validation.Success
}
