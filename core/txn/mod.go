// Package txn defines the transactions that the engine validates.
//
// A transaction is an immutable signed intent. Every kind shares a common
// header and describes its effects on the balances as an ordered list of
// notifications: the fee debit comes first, then the kind-specific transfers.
// A multisig transaction embeds an inner transaction that is signed by the
// cosigners of the multisig account.
//
// A transaction is uniquely identified by the SHA3-256 digest of its
// fingerprint, which does not include the signatures.
package txn

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"go.dedis.ch/nemval/core/model"
	"golang.org/x/crypto/sha3"
	"golang.org/x/xerrors"
)

// Kind is the tag of a transaction variant.
type Kind uint32

const (
	// KindTransfer moves native currency and mosaics.
	KindTransfer Kind = 0x0101
	// KindImportanceTransfer delegates or stops delegating the harvesting.
	KindImportanceTransfer Kind = 0x0801
	// KindMultisigAggregateModification changes the cosigners of an account.
	KindMultisigAggregateModification Kind = 0x1001
	// KindMultisigSignature is the kind of a cosignature.
	KindMultisigSignature Kind = 0x1002
	// KindMultisig wraps a transaction of a multisig account.
	KindMultisig Kind = 0x1004
	// KindProvisionNamespace rents a namespace.
	KindProvisionNamespace Kind = 0x2001
	// KindMosaicDefinitionCreation creates or redefines a mosaic.
	KindMosaicDefinitionCreation Kind = 0x4001
	// KindMosaicSupplyChange increases or decreases the supply of a mosaic.
	KindMosaicSupplyChange Kind = 0x4002
)

var kindNames = map[Kind]string{
	KindTransfer:                      "transfer",
	KindImportanceTransfer:            "importance-transfer",
	KindMultisigAggregateModification: "multisig-aggregate-modification",
	KindMultisigSignature:             "multisig-signature",
	KindMultisig:                      "multisig",
	KindProvisionNamespace:            "provision-namespace",
	KindMosaicDefinitionCreation:      "mosaic-definition-creation",
	KindMosaicSupplyChange:            "mosaic-supply-change",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	name, found := kindNames[k]
	if !found {
		return fmt.Sprintf("kind(%#x)", uint32(k))
	}

	return name
}

// Kinds returns every known kind in ascending order.
func Kinds() []Kind {
	res := make([]Kind, 0, len(kindNames))
	for kind := range kindNames {
		res = append(res, kind)
	}

	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	return res
}

// ParseKind returns the kind of the given name.
func ParseKind(name string) (Kind, error) {
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}

	return 0, xerrors.Errorf("unknown transaction kind '%s'", name)
}

// Transaction is the common interface of every transaction variant.
type Transaction interface {
	// GetHeader returns the header common to all the kinds.
	GetHeader() Header

	// GetKind returns the tag of the variant.
	GetKind() Kind

	// GetChildren returns the transactions embedded in this one.
	GetChildren() []Transaction

	// GetOtherAccounts returns the accounts, other than the signer, that are
	// touched by the transaction.
	GetOtherAccounts() []model.Address

	// GetNotifications returns the ordered effects of the transaction on the
	// balances. The lookup provides the levies of the mosaics.
	GetNotifications(levies LevyLookup) []Notification

	// Fingerprint writes a deterministic binary representation of the
	// transaction, without the signatures.
	Fingerprint(w io.Writer) error
}

// LevyLookup returns the levy of a mosaic, or nil when it has none.
type LevyLookup func(model.MosaicID) *model.MosaicLevy

func (l LevyLookup) get(id model.MosaicID) *model.MosaicLevy {
	if l == nil {
		return nil
	}

	return l(id)
}

// Header holds the fields shared by every transaction.
type Header struct {
	Signer    model.PublicKey
	Network   model.NetworkID
	Version   uint8
	Fee       model.Amount
	Timestamp model.TimeInstant
	Deadline  model.TimeInstant
	Signature []byte
}

// GetHeader returns the header.
func (h Header) GetHeader() Header {
	return h
}

// SignerAddress returns the address of the signer in the network of the
// transaction.
func (h Header) SignerAddress() model.Address {
	return model.NewAddress(h.Network, h.Signer)
}

// AddressOf returns the address of the public key in the network of the
// transaction.
func (h Header) AddressOf(pk model.PublicKey) model.Address {
	return model.NewAddress(h.Network, pk)
}

func (h Header) fingerprint(kind Kind, fp *fingerprinter) {
	fp.uint32(uint32(kind))
	fp.uint8(byte(h.Network))
	fp.uint8(h.Version)
	fp.bytes(h.Signer[:])
	fp.uint64(uint64(h.Fee))
	fp.uint32(uint32(h.Timestamp))
	fp.uint32(uint32(h.Deadline))
}

func (h Header) feeDebit() Notification {
	return NewBalanceDebit(h.SignerAddress(), h.Fee)
}

// Hash returns the digest of the fingerprint of the transaction.
func Hash(tx Transaction) (model.Hash, error) {
	h := sha3.New256()

	err := tx.Fingerprint(h)
	if err != nil {
		return model.Hash{}, xerrors.Errorf("failed to fingerprint: %v", err)
	}

	var digest model.Hash
	copy(digest[:], h.Sum(nil))

	return digest, nil
}

// SigningBytes returns the bytes that the signer signs.
func SigningBytes(tx Transaction) ([]byte, error) {
	buffer := new(bytes.Buffer)

	err := tx.Fingerprint(buffer)
	if err != nil {
		return nil, xerrors.Errorf("failed to fingerprint: %v", err)
	}

	return buffer.Bytes(), nil
}

// Flatten returns the transactions followed by their children, depth first.
func Flatten(txs ...Transaction) []Transaction {
	res := make([]Transaction, 0, len(txs))

	for _, tx := range txs {
		res = append(res, tx)
		res = append(res, Flatten(tx.GetChildren()...)...)
	}

	return res
}
