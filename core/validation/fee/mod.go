// Package fee computes the minimum fee of the transactions.
//
// The fee schedule changed twice. Before the first fee fork, the fee of a
// transfer follows an arctangent of the amount. The first fee fork introduced
// a stepped schedule capped at 25 xem where the fee of a mosaic is lowered for
// mosaics with a small supply. The second fee fork kept the schedule but
// expresses it in fee units of 0.05 xem.
package fee

import (
	"math"
	"math/big"

	"go.dedis.ch/nemval/core/config"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"golang.org/x/xerrors"
)

// Unit is the value of a fee unit after the second fee fork.
const Unit = model.Amount(50_000)

// MaxCosignatureFee is the largest fee of a cosignature.
const MaxCosignatureFee = model.Amount(1000 * model.MicroNemsPerNem)

// Era is a period of the fee schedule.
type Era int

const (
	// EraInitial is the schedule before the first fee fork.
	EraInitial Era = iota
	// EraReduced is the schedule after the first fee fork.
	EraReduced
	// EraUnits is the schedule after the second fee fork.
	EraUnits
)

// EraAt returns the era of the schedule at the height.
func EraAt(forks config.Forks, h model.Height) Era {
	switch {
	case h < forks.FirstFee:
		return EraInitial
	case h < forks.SecondFee:
		return EraReduced
	default:
		return EraUnits
	}
}

// MosaicLookup provides the mosaics needed to weight a mosaic transfer.
type MosaicLookup interface {
	Mosaic(model.MosaicID) (model.MosaicEntry, bool)
}

// Calculator computes the minimum fee of transactions.
type Calculator struct {
	forks   config.Forks
	mosaics MosaicLookup
}

// NewCalculator returns a calculator for the forks.
func NewCalculator(forks config.Forks, mosaics MosaicLookup) Calculator {
	return Calculator{
		forks:   forks,
		mosaics: mosaics,
	}
}

// MinimumFee returns the minimum fee of the transaction at the height. It
// returns an error when an attached mosaic is unknown.
func (c Calculator) MinimumFee(tx txn.Transaction, h model.Height) (model.Amount, error) {
	era := EraAt(c.forks, h)

	switch t := tx.(type) {
	case txn.Transfer:
		fee, err := c.transferFee(t, era)
		if err != nil {
			return 0, xerrors.Errorf("transfer: %v", err)
		}

		return toAmount(fee, era), nil
	case txn.MultisigAggregateModification:
		if era == EraUnits {
			return 10 * Unit, nil
		}

		fee := 5 + 3*uint64(len(t.Modifications))
		if t.MinCosignatories != nil {
			fee += 3
		}

		return toAmount(2*fee, era), nil
	case txn.ProvisionNamespace, txn.MosaicDefinitionCreation, txn.MosaicSupplyChange:
		return namespaceAndMosaicFee(era), nil
	default:
		return defaultFee(era), nil
	}
}

// MinimumCosignatureFee returns the minimum fee of a cosignature.
func (c Calculator) MinimumCosignatureFee(h model.Height) model.Amount {
	return defaultFee(EraAt(c.forks, h))
}

// IsValid returns true if the fee of the transaction is enough.
func (c Calculator) IsValid(tx txn.Transaction, h model.Height) (bool, error) {
	min, err := c.MinimumFee(tx, h)
	if err != nil {
		return false, err
	}

	return tx.GetHeader().Fee >= min, nil
}

// IsCosignatureValid returns true if the fee of the cosignature is allowed.
// Before the multisig fork, it must be exactly the minimum.
func (c Calculator) IsCosignatureValid(cosig txn.Cosignature, h model.Height) bool {
	min := c.MinimumCosignatureFee(h)

	if h < c.forks.MultisigMOfN {
		return cosig.Fee == min
	}

	return cosig.Fee >= min && cosig.Fee <= MaxCosignatureFee
}

// transferFee returns the fee in xem, or in fee units after the second fork.
func (c Calculator) transferFee(tx txn.Transfer, era Era) (uint64, error) {
	var fee uint64

	if len(tx.Mosaics) == 0 {
		fee = xemTransferFee(tx.Amount.Nem(), era)
	} else {
		for _, m := range tx.Mosaics {
			mosaicFee, err := c.mosaicFee(tx.Amount, m, era)
			if err != nil {
				return 0, err
			}

			fee += mosaicFee
		}

		if era == EraInitial {
			fee = fee * 5 / 4
		}
	}

	return fee + messageFee(len(tx.Message), era), nil
}

func (c Calculator) mosaicFee(amount model.Amount, m model.MosaicTransfer, era Era) (uint64, error) {
	entry, found := c.mosaics.Mosaic(m.ID)
	if !found && m.ID.IsXem() {
		entry = model.MosaicEntry{Definition: model.XemDefinition(), Supply: model.XemSupply}
		found = true
	}

	if !found {
		return 0, xerrors.Errorf("unknown mosaic '%v'", m.ID)
	}

	div := entry.Definition.Properties.Divisibility
	eq := xemEquivalent(amount, m.Quantity, entry.Supply, div)

	if era == EraInitial {
		return xemTransferFee(eq, era), nil
	}

	if entry.Supply == 0 || (div == 0 && entry.Supply <= 10_000) {
		return 1, nil
	}

	total := new(big.Int).SetUint64(uint64(entry.Supply))
	total.Mul(total, model.Pow10(div))

	ratio := new(big.Int).Div(big.NewInt(model.MaxQuantity), total)
	ratioF, _ := new(big.Float).SetInt(ratio).Float64()

	adjustment := int64(math.Floor(0.8 * math.Log(ratioF)))

	fee := int64(xemTransferFee(eq, era)) - adjustment
	if fee < 1 {
		fee = 1
	}

	return uint64(fee), nil
}

// xemEquivalent returns the number of whole xem that the transfer of the
// mosaic is worth when comparing the supplies.
func xemEquivalent(amount model.Amount, q model.Quantity, supply model.Supply, div uint8) uint64 {
	if supply == 0 {
		return 0
	}

	num := new(big.Int).SetUint64(uint64(model.XemSupply))
	num.Mul(num, new(big.Int).SetUint64(uint64(q)))
	num.Mul(num, new(big.Int).SetUint64(uint64(amount)))

	den := new(big.Int).SetUint64(uint64(supply))
	den.Mul(den, model.Pow10(div+model.MaxDivisibility))

	res := num.Div(num, den)
	if !res.IsUint64() {
		return math.MaxUint64
	}

	return res.Uint64()
}

func xemTransferFee(xem uint64, era Era) uint64 {
	if era == EraInitial {
		fee := uint64(math.Floor(99 * math.Atan(float64(xem)/150_000.0)))
		if fee < 2 {
			fee = 2
		}

		if xem < 10 && 10-xem > fee {
			fee = 10 - xem
		}

		return fee
	}

	fee := xem / 10_000
	if fee > 25 {
		fee = 25
	}

	if fee < 1 {
		fee = 1
	}

	return fee
}

func messageFee(size int, era Era) uint64 {
	if size == 0 {
		return 0
	}

	if era == EraInitial {
		blocks := uint64(size / 16)
		if blocks < 1 {
			blocks = 1
		}

		return 2 * blocks
	}

	return uint64(size/32) + 1
}

func defaultFee(era Era) model.Amount {
	if era == EraUnits {
		return 3 * Unit
	}

	return model.AmountFromNem(6)
}

func namespaceAndMosaicFee(era Era) model.Amount {
	switch era {
	case EraInitial:
		return model.AmountFromNem(108)
	case EraReduced:
		return model.AmountFromNem(20)
	default:
		return 3 * Unit
	}
}

func toAmount(fee uint64, era Era) model.Amount {
	if era == EraUnits {
		return model.Amount(fee) * Unit
	}

	return model.AmountFromNem(fee)
}

// MinimumRentalFee returns the smallest rental fee of a namespace at the
// height.
func MinimumRentalFee(forks config.Forks, h model.Height, root bool) model.Amount {
	var fees [3]uint64
	if root {
		fees = [3]uint64{50_000, 1500, 100}
	} else {
		fees = [3]uint64{5000, 200, 10}
	}

	return model.AmountFromNem(fees[EraAt(forks, h)])
}

// MinimumCreationFee returns the smallest creation fee of a mosaic at the
// height.
func MinimumCreationFee(forks config.Forks, h model.Height) model.Amount {
	fees := [3]uint64{50_000, 500, 10}

	return model.AmountFromNem(fees[EraAt(forks, h)])
}
