package rules

import (
	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
)

// Transfer checks the size of the message of a transfer.
//
// - implements validation.SingleValidator
type Transfer struct {
	cfg config.Config
}

// NewTransfer returns a new transfer rule.
func NewTransfer(cfg config.Config) Transfer {
	return Transfer{cfg: cfg}
}

// Validate implements validation.SingleValidator.
func (v Transfer) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	transfer, ok := tx.(txn.Transfer)
	if !ok {
		return validation.Success
	}

	if len(transfer.Message) > v.cfg.MaxMessageSize(ctx.Height()) {
		return validation.FailureMessageTooLarge
	}

	return validation.Success
}

// MosaicBag checks the mosaics attached to a transfer.
//
// - implements validation.SingleValidator
type MosaicBag struct {
	snapshot state.Snapshot
	levies   txn.LevyLookup
	max      int
}

// NewMosaicBag returns a new rule allowing at most max mosaics per transfer.
func NewMosaicBag(snapshot state.Snapshot, max int) MosaicBag {
	return MosaicBag{
		snapshot: snapshot,
		levies:   Levies(snapshot),
		max:      max,
	}
}

// Validate implements validation.SingleValidator.
func (v MosaicBag) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	transfer, ok := tx.(txn.Transfer)
	if !ok || len(transfer.Mosaics) == 0 {
		return validation.Success
	}

	signer := transfer.SignerAddress()

	for _, m := range transfer.Mosaics {
		res := v.checkMosaic(m.ID, signer, transfer.Recipient, ctx.Height())
		if res != validation.Success {
			return res
		}
	}

	if transfer.Amount%model.MicroNemsPerNem != 0 {
		return validation.FailureMosaicDivisibilityViolated
	}

	if len(transfer.Mosaics) > v.max {
		return validation.FailureTooManyMosaicTransfers
	}

	// No balance holds more than the largest quantity of a mosaic.
	if !transfer.QuantitiesInRange(v.levies) {
		return validation.FailureInsufficientBalance
	}

	return validation.Success
}

func (v MosaicBag) checkMosaic(id model.MosaicID, signer, recipient model.Address,
	h model.Height) validation.Verdict {

	if id.IsXem() {
		return validation.Success
	}

	entry, found := v.snapshot.Mosaic(id)
	if !found {
		return validation.FailureMosaicUnknown
	}

	_, found, active := lookupNamespace(v.snapshot, id.Namespace, h)
	if !found {
		return validation.FailureMosaicUnknown
	}

	if !active {
		return validation.FailureNamespaceExpired
	}

	def := entry.Definition

	if def.Levy != nil {
		_, found := state.MosaicOf(v.snapshot, def.Levy.Mosaic)
		if !found {
			return validation.FailureMosaicLevyUnknown
		}
	}

	if !def.Properties.Transferable && signer != def.Creator && recipient != def.Creator {
		return validation.FailureMosaicNotTransferable
	}

	return validation.Success
}

// lookupNamespace returns the namespace, if it is known, and if it is active
// at the height. A sublevel is active as long as its root is.
func lookupNamespace(s state.Snapshot, id model.NamespaceID, h model.Height) (model.NamespaceEntry, bool, bool) {
	entry, found := s.Namespace(id)
	if !found {
		return entry, false, false
	}

	root, found := s.Namespace(id.Root())
	if !found {
		root = entry
	}

	return entry, true, root.IsActive(h)
}
