package rules

import (
	"math/big"

	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/txn"
	"go.dedis.ch/nemval/core/validation"
	"go.dedis.ch/nemval/core/validation/fee"
)

// MosaicDefinitionCreation checks the creation of a mosaic, or the change of
// its definition.
//
// - implements validation.SingleValidator
type MosaicDefinitionCreation struct {
	snapshot state.Snapshot
	cfg      config.Config
}

// NewMosaicDefinitionCreation returns a new mosaic creation rule.
func NewMosaicDefinitionCreation(snapshot state.Snapshot, cfg config.Config) MosaicDefinitionCreation {
	return MosaicDefinitionCreation{
		snapshot: snapshot,
		cfg:      cfg,
	}
}

// Validate implements validation.SingleValidator.
func (v MosaicDefinitionCreation) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	creation, ok := tx.(txn.MosaicDefinitionCreation)
	if !ok {
		return validation.Success
	}

	h := ctx.Height()
	def := creation.Definition
	signer := creation.SignerAddress()

	if def.Creator != signer {
		return validation.FailureMosaicCreatorConflict
	}

	ns, found, active := lookupNamespace(v.snapshot, def.ID.Namespace, h)
	if !found {
		return validation.FailureNamespaceUnknown
	}

	if !active {
		return validation.FailureNamespaceExpired
	}

	if ns.Owner != signer {
		return validation.FailureNamespaceOwnerConflict
	}

	existing, found := v.snapshot.Mosaic(def.ID)
	if found {
		res := v.checkRedefinition(existing, def)
		if res != validation.Success {
			return res
		}
	}

	if def.Levy != nil {
		levyDef := def

		if def.Levy.Mosaic != def.ID {
			entry, found := state.MosaicOf(v.snapshot, def.Levy.Mosaic)
			if !found {
				return validation.FailureMosaicUnknown
			}

			levyDef = entry.Definition
		}

		if !levyDef.Properties.Transferable {
			return validation.FailureMosaicLevyNotTransferable
		}
	}

	if creation.CreationFeeSink != v.cfg.Accounts.MosaicCreationFeeSink {
		return validation.FailureMosaicInvalidCreationFeeSink
	}

	if creation.CreationFee < fee.MinimumCreationFee(v.cfg.Forks, h) {
		return validation.FailureMosaicInvalidCreationFee
	}

	return validation.Success
}

// checkRedefinition allows a new description at any time, but the properties
// and the levy only change while the creator owns the entire supply. The
// transferability never changes.
func (v MosaicDefinitionCreation) checkRedefinition(existing model.MosaicEntry,
	def model.MosaicDefinition) validation.Verdict {

	if existing.Definition.Equal(def) {
		return validation.FailureMosaicAlreadyExists
	}

	if existing.Definition.Properties.Transferable != def.Properties.Transferable {
		return validation.FailureMosaicModificationNotAllowed
	}

	if existing.Definition.IsEquivalent(def) {
		return validation.Success
	}

	owned := v.snapshot.MosaicBalance(existing.Definition.Creator, def.ID)
	total := smallestUnits(existing.Supply, existing.Definition.Properties.Divisibility)

	if total.Cmp(new(big.Int).SetUint64(uint64(owned))) != 0 {
		return validation.FailureMosaicModificationNotAllowed
	}

	return validation.Success
}

// MosaicSupplyChange checks the changes of supply of the mosaics.
//
// - implements validation.SingleValidator
type MosaicSupplyChange struct {
	snapshot state.Snapshot
}

// NewMosaicSupplyChange returns a new supply change rule.
func NewMosaicSupplyChange(snapshot state.Snapshot) MosaicSupplyChange {
	return MosaicSupplyChange{snapshot: snapshot}
}

// Validate implements validation.SingleValidator.
func (v MosaicSupplyChange) Validate(tx txn.Transaction, ctx validation.Context) validation.Verdict {
	change, ok := tx.(txn.MosaicSupplyChange)
	if !ok {
		return validation.Success
	}

	signer := change.SignerAddress()

	entry, found := v.snapshot.Mosaic(change.Mosaic)
	if !found {
		return validation.FailureMosaicUnknown
	}

	ns, found, active := lookupNamespace(v.snapshot, change.Mosaic.Namespace, ctx.Height())
	if !found {
		return validation.FailureMosaicUnknown
	}

	if !active {
		return validation.FailureNamespaceExpired
	}

	if ns.Owner != signer {
		return validation.FailureNamespaceOwnerConflict
	}

	def := entry.Definition

	if def.Creator != signer {
		return validation.FailureMosaicCreatorConflict
	}

	if !def.Properties.SupplyMutable {
		return validation.FailureMosaicSupplyImmutable
	}

	div := def.Properties.Divisibility

	switch change.Type {
	case txn.SupplyCreate:
		max := new(big.Int).Div(big.NewInt(model.MaxQuantity), model.Pow10(div))

		total := new(big.Int).SetUint64(uint64(entry.Supply))
		total.Add(total, new(big.Int).SetUint64(uint64(change.Delta)))

		if total.Cmp(max) > 0 {
			return validation.FailureMosaicMaxSupplyExceeded
		}
	case txn.SupplyDelete:
		if change.Delta > entry.Supply {
			return validation.FailureMosaicSupplyNegative
		}

		owned := new(big.Int).SetUint64(uint64(v.snapshot.MosaicBalance(signer, change.Mosaic)))
		if owned.Cmp(smallestUnits(change.Delta, div)) < 0 {
			return validation.FailureMosaicSupplyNegative
		}
	default:
		return validation.FailureUnknown
	}

	return validation.Success
}

func smallestUnits(supply model.Supply, div uint8) *big.Int {
	res := new(big.Int).SetUint64(uint64(supply))
	return res.Mul(res, model.Pow10(div))
}
