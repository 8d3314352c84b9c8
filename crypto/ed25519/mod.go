// Package ed25519 implements the signatures of the transactions on the Edwards
// 25519 elliptic curve.
//
// The signatures are created using the Schnorr algorithm of the Kyber library.
// The verifier is the collaborator plugged into the signature rule of the
// validation.
package ed25519

import (
	"bytes"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/sign/schnorr"
	"go.dedis.ch/kyber/v3/suites"
	"go.dedis.ch/kyber/v3/util/key"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/txn"
	"golang.org/x/xerrors"
)

const (
	// Algorithm is the name of the curve used for the schnorr signature.
	Algorithm = "CURVE-ED25519"
)

var suite = suites.MustFind("Ed25519")

// PublicKey is the public key adapter to the Kyber Ed25519 public key.
type PublicKey struct {
	point kyber.Point
}

// NewPublicKey returns the public key of the raw key of an account.
func NewPublicKey(pk model.PublicKey) (PublicKey, error) {
	point := suite.Point()

	err := point.UnmarshalBinary(pk[:])
	if err != nil {
		return PublicKey{}, xerrors.Errorf("couldn't unmarshal point: %v", err)
	}

	return PublicKey{point: point}, nil
}

// Raw returns the raw key of the account.
func (pk PublicKey) Raw() model.PublicKey {
	var res model.PublicKey

	buffer, err := pk.point.MarshalBinary()
	if err == nil {
		copy(res[:], buffer)
	}

	return res
}

// Verify returns nil if the signature matches the message for this public key.
func (pk PublicKey) Verify(msg, sig []byte) error {
	err := schnorr.Verify(suite, pk.point, msg, sig)
	if err != nil {
		return xerrors.Errorf("schnorr verify failed: %v", err)
	}

	return nil
}

// Equal returns true if the other public key is the same.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.point.Equal(other.point)
}

// String implements fmt.Stringer. It returns the hexadecimal representation of
// the point.
func (pk PublicKey) String() string {
	return pk.Raw().String()
}

// Verifier verifies the signatures of the accounts.
//
// - implements rules.Verifier
type Verifier struct{}

// NewVerifier returns a new verifier.
func NewVerifier() Verifier {
	return Verifier{}
}

// Verify returns nil if the signature of the message is valid for the raw
// public key.
func (Verifier) Verify(raw model.PublicKey, msg, sig []byte) error {
	pk, err := NewPublicKey(raw)
	if err != nil {
		return xerrors.Errorf("invalid public key: %v", err)
	}

	return pk.Verify(msg, sig)
}

// Signer creates Schnorr signatures with a private key of the Ed25519 curve.
type Signer struct {
	keyPair *key.Pair
}

// NewSigner returns a new random schnorr signer.
func NewSigner() Signer {
	return Signer{
		keyPair: key.NewKeyPair(suite),
	}
}

// NewSignerFromBytes returns the signer of the marshaled private key.
func NewSignerFromBytes(data []byte) (Signer, error) {
	scalar := suite.Scalar()

	err := scalar.UnmarshalBinary(data)
	if err != nil {
		return Signer{}, xerrors.Errorf("couldn't unmarshal scalar: %v", err)
	}

	kp := &key.Pair{
		Private: scalar,
		Public:  suite.Point().Mul(scalar, nil),
	}

	return Signer{keyPair: kp}, nil
}

// MarshalBinary implements encoding.BinaryMarshaler. It returns the private
// key.
func (s Signer) MarshalBinary() ([]byte, error) {
	return s.keyPair.Private.MarshalBinary()
}

// GetPublicKey returns the public key of the signer that can be used to verify
// signatures.
func (s Signer) GetPublicKey() PublicKey {
	return PublicKey{point: s.keyPair.Public}
}

// Address returns the address of the signer on the network.
func (s Signer) Address(network model.NetworkID) model.Address {
	return model.NewAddress(network, s.GetPublicKey().Raw())
}

// Sign signs the message in parameter and returns the signature, or an error
// if it cannot sign.
func (s Signer) Sign(msg []byte) ([]byte, error) {
	sig, err := schnorr.Sign(suite, s.keyPair.Private, msg)
	if err != nil {
		return nil, xerrors.Errorf("couldn't make schnorr signature: %v", err)
	}

	return sig, nil
}

// SignTransaction returns the signature of the transaction. The signature does
// not cover the signatures of the header.
func (s Signer) SignTransaction(tx txn.Transaction) ([]byte, error) {
	msg, err := txn.SigningBytes(tx)
	if err != nil {
		return nil, xerrors.Errorf("couldn't read signing bytes: %v", err)
	}

	return s.Sign(msg)
}

// SignCosignature returns the signature of the cosignature.
func (s Signer) SignCosignature(cosig txn.Cosignature) ([]byte, error) {
	buffer := new(bytes.Buffer)

	err := cosig.Fingerprint(buffer)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint cosignature: %v", err)
	}

	return s.Sign(buffer.Bytes())
}
