package model

import (
	"bytes"
	"encoding/base32"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
	"golang.org/x/xerrors"
)

const (
	addressDecodedLen = 25
	addressEncodedLen = 40
	checksumLen       = 4
)

// PublicKey is the raw Ed25519 public key of an account.
type PublicKey [32]byte

// PublicKeyFromHex parses a hexadecimal public key.
func PublicKeyFromHex(text string) (PublicKey, error) {
	var pk PublicKey

	buffer, err := hex.DecodeString(text)
	if err != nil {
		return pk, xerrors.Errorf("malformed public key: %v", err)
	}

	if len(buffer) != len(pk) {
		return pk, xerrors.Errorf("invalid public key length %d", len(buffer))
	}

	copy(pk[:], buffer)

	return pk, nil
}

// String implements fmt.Stringer.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	res, err := PublicKeyFromHex(string(text))
	if err != nil {
		return err
	}

	*pk = res

	return nil
}

// Address is the base32 encoded identifier of an account. It is made of the
// network byte, the RIPEMD-160 of the Keccak-256 of the public key and a
// checksum.
type Address string

// NewAddress derives the address of the public key in the network.
func NewAddress(network NetworkID, pk PublicKey) Address {
	keccak := sha3.NewLegacyKeccak256()
	keccak.Write(pk[:])

	ripe := ripemd160.New()
	ripe.Write(keccak.Sum(nil))

	decoded := make([]byte, 0, addressDecodedLen)
	decoded = append(decoded, byte(network))
	decoded = ripe.Sum(decoded)
	decoded = append(decoded, checksum(decoded)...)

	return Address(base32.StdEncoding.EncodeToString(decoded))
}

// ParseAddress normalizes the text and returns the address if it is valid.
func ParseAddress(text string) (Address, error) {
	addr := Address(strings.ToUpper(strings.ReplaceAll(text, "-", "")))

	if !addr.IsValid() {
		return "", xerrors.Errorf("invalid address '%s'", text)
	}

	return addr, nil
}

// IsValid returns true when the address has the right length and a matching
// checksum.
func (a Address) IsValid() bool {
	decoded, ok := a.decode()
	if !ok {
		return false
	}

	sum := checksum(decoded[:addressDecodedLen-checksumLen])

	return bytes.Equal(sum, decoded[addressDecodedLen-checksumLen:])
}

// Network returns the network byte of the address. The second value is false
// when the address cannot be decoded.
func (a Address) Network() (NetworkID, bool) {
	decoded, ok := a.decode()
	if !ok {
		return 0, false
	}

	return NetworkID(decoded[0]), true
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return string(a)
}

func (a Address) decode() ([]byte, bool) {
	if len(a) != addressEncodedLen {
		return nil, false
	}

	decoded, err := base32.StdEncoding.DecodeString(string(a))
	if err != nil || len(decoded) != addressDecodedLen {
		return nil, false
	}

	return decoded, true
}

func checksum(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)

	return h.Sum(nil)[:checksumLen]
}
