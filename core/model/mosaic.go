package model

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

// MaxQuantity is the largest quantity of a mosaic, in its smallest unit, that
// can ever exist.
const MaxQuantity = 9_000_000_000_000_000

var maxQuantity = new(big.Int).SetUint64(MaxQuantity)

// QuantityFromBig converts the integer to a quantity. The second value is
// false when the integer is above MaxQuantity, and the quantity is then
// clamped to MaxQuantity + 1 so that no balance can cover it.
func QuantityFromBig(q *big.Int) (Quantity, bool) {
	if q.Sign() < 0 {
		return 0, false
	}

	if q.Cmp(maxQuantity) > 0 {
		return MaxQuantity + 1, false
	}

	return Quantity(q.Uint64()), true
}

// MaxDivisibility is the largest number of decimal places of a mosaic.
const MaxDivisibility = 6

// XemID is the identifier of the native currency when it is transferred as a
// mosaic.
var XemID = MosaicID{Namespace: "nem", Name: "xem"}

// XemSupply is the total supply of the native currency in whole units.
const XemSupply = Supply(8_999_999_999)

// MosaicID identifies a mosaic by its namespace and its name.
type MosaicID struct {
	Namespace NamespaceID `json:"namespace"`
	Name      string      `json:"name"`
}

// ParseMosaicID parses the "namespace:name" representation of a mosaic.
func ParseMosaicID(text string) (MosaicID, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MosaicID{}, xerrors.Errorf("malformed mosaic id '%s'", text)
	}

	return MosaicID{Namespace: NamespaceID(parts[0]), Name: parts[1]}, nil
}

// String implements fmt.Stringer.
func (id MosaicID) String() string {
	return fmt.Sprintf("%s:%s", id.Namespace, id.Name)
}

// IsXem returns true for the native currency.
func (id MosaicID) IsXem() bool {
	return id == XemID
}

// MosaicProperties are the properties fixed by the creator of a mosaic.
type MosaicProperties struct {
	Divisibility  uint8  `json:"divisibility"`
	InitialSupply Supply `json:"initialSupply"`
	SupplyMutable bool   `json:"supplyMutable"`
	Transferable  bool   `json:"transferable"`
}

// LevyKind defines how the fee of a levy is computed.
type LevyKind uint8

const (
	// LevyAbsolute charges a fixed quantity per transfer.
	LevyAbsolute LevyKind = 1
	// LevyPercentile charges a quantity proportional to the transfer in
	// hundredths of a percent.
	LevyPercentile LevyKind = 2
)

// MosaicLevy is the additional fee paid to the recipient each time a mosaic
// is transferred.
type MosaicLevy struct {
	Kind      LevyKind `json:"kind"`
	Recipient Address  `json:"recipient"`
	Mosaic    MosaicID `json:"mosaic"`
	Fee       Quantity `json:"fee"`
}

// Amount returns the levy owed for a transfer of the quantity. The second
// value is false when the levy is above MaxQuantity.
func (l MosaicLevy) Amount(q Quantity) (Quantity, bool) {
	switch l.Kind {
	case LevyAbsolute:
		return QuantityFromBig(new(big.Int).SetUint64(uint64(l.Fee)))
	case LevyPercentile:
		res := new(big.Int).SetUint64(uint64(q))
		res.Mul(res, new(big.Int).SetUint64(uint64(l.Fee)))
		res.Div(res, big.NewInt(10_000))

		return QuantityFromBig(res)
	default:
		return 0, true
	}
}

// MosaicDefinition describes a mosaic.
type MosaicDefinition struct {
	Creator     Address          `json:"creator"`
	ID          MosaicID         `json:"id"`
	Description string           `json:"description"`
	Properties  MosaicProperties `json:"properties"`
	Levy        *MosaicLevy      `json:"levy,omitempty"`
}

// IsEquivalent returns true when both definitions only differ by their
// description.
func (d MosaicDefinition) IsEquivalent(other MosaicDefinition) bool {
	return d.Creator == other.Creator && d.ID == other.ID &&
		d.Properties == other.Properties && d.LevyEqual(other)
}

// Equal returns true when both definitions are identical.
func (d MosaicDefinition) Equal(other MosaicDefinition) bool {
	return d.IsEquivalent(other) && d.Description == other.Description
}

// LevyEqual returns true when both definitions have the same levy.
func (d MosaicDefinition) LevyEqual(other MosaicDefinition) bool {
	if d.Levy == nil || other.Levy == nil {
		return d.Levy == nil && other.Levy == nil
	}

	return *d.Levy == *other.Levy
}

// XemDefinition returns the definition of the native currency.
func XemDefinition() MosaicDefinition {
	return MosaicDefinition{
		ID:          XemID,
		Description: "reserved xem mosaic",
		Properties: MosaicProperties{
			Divisibility:  6,
			InitialSupply: XemSupply,
			Transferable:  true,
		},
	}
}

// MosaicEntry is the state of a mosaic: its definition and current supply.
type MosaicEntry struct {
	Definition MosaicDefinition `json:"definition"`
	Supply     Supply           `json:"supply"`
}

// MosaicTransfer is a quantity of a mosaic attached to a transfer.
type MosaicTransfer struct {
	ID       MosaicID `json:"id"`
	Quantity Quantity `json:"quantity"`
}

// Pow10 returns 10^n as a big integer.
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
