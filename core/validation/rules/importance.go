package rules

import (
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
)

// ImportanceTransfer checks the activation and the deactivation of remote
// harvesting.
//
// - implements validation.SingleValidator
type ImportanceTransfer struct {
	snapshot state.Snapshot
	delay    uint64
}

// NewImportanceTransfer returns a new importance transfer rule. A link cannot
// change before the delay, in blocks, has passed since its last change.
func NewImportanceTransfer(snapshot state.Snapshot, delay uint64) ImportanceTransfer {
	return ImportanceTransfer{
		snapshot: snapshot,
		delay:    delay,
	}
}

// Validate implements validation.SingleValidator.
func (v ImportanceTransfer) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	transfer, ok := tx.(txn.ImportanceTransfer)
	if !ok {
		return validation.Success
	}

	h := ctx.Height()
	signer := transfer.SignerAddress()
	remote := transfer.RemoteAddress()

	res := v.validateRemote(remote, signer, h)
	if res != validation.Success {
		return res
	}

	res = v.validateOwner(signer, transfer.Mode, h)
	if res != validation.Success {
		return res
	}

	if transfer.Mode == model.LinkActivate && v.snapshot.Balance(remote) != 0 {
		return validation.FailureDestinationAccountHasPreexistingBalance
	}

	return validation.Success
}

// validateRemote rejects a remote that is, or has recently been, linked to
// another account. A remote released by another account can be linked again
// once the delay has passed.
func (v ImportanceTransfer) validateRemote(remote, signer model.Address, h model.Height) validation.Verdict {

	link, found := v.snapshot.RemoteLinks(remote).Current()
	if !found || link.Linked == signer {
		return validation.Success
	}

	if h.Sub(link.Height) < v.delay {
		return validation.FailureImportanceTransferInProgress
	}

	if link.Mode == model.LinkActivate {
		return validation.FailureImportanceTransferNeedsToBeDeactivated
	}

	return validation.Success
}

// validateOwner reads the history of the signer whatever its role so that a
// remote cannot delegate in turn.
func (v ImportanceTransfer) validateOwner(signer model.Address, mode model.LinkMode,
	h model.Height) validation.Verdict {

	link, found := v.snapshot.RemoteLinks(signer).Current()
	if !found {
		if mode == model.LinkActivate {
			return validation.Success
		}

		return validation.FailureImportanceTransferIsNotActive
	}

	if h.Sub(link.Height) < v.delay {
		return validation.FailureImportanceTransferInProgress
	}

	if mode == link.Mode {
		if mode == model.LinkActivate {
			return validation.FailureImportanceTransferNeedsToBeDeactivated
		}

		return validation.FailureImportanceTransferIsNotActive
	}

	return validation.Success
}

// RemoteInUse rejects the activation of a remote that is used for anything
// else than harvesting.
//
// - implements validation.SingleValidator
type RemoteInUse struct {
	snapshot state.Snapshot
}

// NewRemoteInUse returns a new rule for the remote accounts.
func NewRemoteInUse(snapshot state.Snapshot) RemoteInUse {
	return RemoteInUse{snapshot: snapshot}
}

// Validate implements validation.SingleValidator.
func (v RemoteInUse) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	transfer, ok := tx.(txn.ImportanceTransfer)
	if !ok || transfer.Mode != model.LinkActivate {
		return validation.Success
	}

	remote := transfer.RemoteAddress()

	if len(v.snapshot.OwnedMosaics(remote)) > 0 || len(v.snapshot.OwnedNamespaces(remote)) > 0 {
		return validation.FailureDestinationAccountInUse
	}

	if state.IsMultisig(v.snapshot, remote) || state.IsCosignatory(v.snapshot, remote) {
		return validation.FailureDestinationAccountInUse
	}

	return validation.Success
}

// RemoteNonOperational rejects the transactions involving a remote harvester.
// Only an importance transfer may name a remote.
//
// - implements validation.SingleValidator
type RemoteNonOperational struct {
	snapshot state.Snapshot
	forks    config.Forks
	delay    uint64
}

// NewRemoteNonOperational returns a new rule for the remote harvesters.
func NewRemoteNonOperational(snapshot state.Snapshot, forks config.Forks, delay uint64) RemoteNonOperational {
	return RemoteNonOperational{
		snapshot: snapshot,
		forks:    forks,
		delay:    delay,
	}
}

// Validate implements validation.SingleValidator.
func (v RemoteNonOperational) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	h := ctx.Height()

	if v.isRemote(tx.GetHeader().SignerAddress(), h) {
		return validation.FailureTransactionNotAllowedForRemote
	}

	if tx.GetKind() == txn.KindImportanceTransfer {
		return validation.Success
	}

	for _, addr := range tx.GetOtherAccounts() {
		if v.isRemote(addr, h) {
			return validation.FailureTransactionNotAllowedForRemote
		}
	}

	return validation.Success
}

// isRemote ignores the deactivation delay before the mosaic redefinition
// fork.
func (v RemoteNonOperational) isRemote(addr model.Address, h model.Height) bool {
	return v.snapshot.RemoteLinks(addr).IsRemote(h, v.delay, h < v.forks.MosaicRedefinition)
}
