// Package model defines the primitive values that transactions and state
// snapshots are made of: amounts, heights, network identifiers, accounts,
// namespaces, mosaics and remote harvesting links.
package model

import (
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"golang.org/x/xerrors"
)

// MicroNemsPerNem is the number of micro units in one xem.
const MicroNemsPerNem = 1_000_000

// Amount is a quantity of the native currency expressed in micro units.
type Amount uint64

// AmountFromNem returns the amount of micro units of n xem.
func AmountFromNem(n uint64) Amount {
	return Amount(n * MicroNemsPerNem)
}

// Nem returns the number of whole xem in the amount.
func (a Amount) Nem() uint64 {
	return uint64(a) / MicroNemsPerNem
}

// Quantity is an amount of a mosaic expressed in its smallest unit.
type Quantity uint64

// Supply is the total amount of a mosaic expressed in whole units.
type Supply uint64

// Height is the height of a block in the chain. The nemesis block is at height
// one.
type Height uint64

// MaxHeight is the height used when the caller does not know at which height
// the transactions will be included.
const MaxHeight = Height(math.MaxUint64)

// Sub returns the number of blocks between h and other, or zero when other is
// above h.
func (h Height) Sub(other Height) uint64 {
	if other > h {
		return 0
	}

	return uint64(h - other)
}

// TimeInstant is a number of seconds since the nemesis block.
type TimeInstant uint32

// Epoch is the time of the nemesis block.
var Epoch = time.Date(2015, time.March, 29, 0, 6, 25, 0, time.UTC)

// TimeInstantOf returns the time instant of t. Times before the epoch are
// clamped to zero.
func TimeInstantOf(t time.Time) TimeInstant {
	secs := t.Sub(Epoch) / time.Second
	if secs < 0 {
		return 0
	}

	if secs > math.MaxUint32 {
		return math.MaxUint32
	}

	return TimeInstant(secs)
}

// BlocksPerDay is the number of blocks expected to be harvested in a day.
const (
	BlocksPerDay   = 1440
	BlocksPerMonth = 30 * BlocksPerDay
	BlocksPerYear  = 365 * BlocksPerDay
)

// SecondsPerDay is the number of seconds of a day.
const SecondsPerDay = 86400

// NetworkID is the byte prefixing every address of a network.
type NetworkID byte

const (
	// MainNet is the identifier of the public network.
	MainNet NetworkID = 0x68
	// TestNet is the identifier of the test network.
	TestNet NetworkID = 0x98
)

// String implements fmt.Stringer.
func (n NetworkID) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	default:
		return fmt.Sprintf("network(%#x)", byte(n))
	}
}

// ParseNetwork returns the network identifier of the given name.
func ParseNetwork(name string) (NetworkID, error) {
	switch name {
	case "mainnet":
		return MainNet, nil
	case "testnet":
		return TestNet, nil
	default:
		return 0, xerrors.Errorf("unknown network '%s'", name)
	}
}

// Hash is the SHA3-256 digest identifying a transaction.
type Hash [32]byte

// String implements fmt.Stringer. It returns the hexadecimal representation of
// the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first bytes of the hash for logging.
func (h Hash) Short() string {
	return fmt.Sprintf("%#x", h[:4])
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	buffer, err := hex.DecodeString(string(text))
	if err != nil {
		return xerrors.Errorf("malformed hash: %v", err)
	}

	if len(buffer) != len(h) {
		return xerrors.Errorf("invalid hash length %d", len(buffer))
	}

	copy(h[:], buffer)

	return nil
}
