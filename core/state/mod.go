// Package state defines the read-only view of the chain that the validators
// consult.
//
// A snapshot is never mutated by the engine. The caller owns it and is the
// only one allowed to apply the effects of admitted transactions.
package state

import (
	"go.dedis.ch/nemval/core/model"
)

// Snapshot is a read-only view of the accounts, namespaces and mosaics at a
// given height.
type Snapshot interface {
	// Balance returns the native balance of the account.
	Balance(model.Address) model.Amount

	// MosaicBalance returns the balance of the account for the mosaic, in the
	// smallest unit of the mosaic.
	MosaicBalance(model.Address, model.MosaicID) model.Quantity

	// Cosigners returns the cosigners of a multisig account.
	Cosigners(model.Address) []model.Address

	// MinCosignatories returns the quorum of a multisig account. Zero means
	// that every cosigner must sign.
	MinCosignatories(model.Address) int

	// CosignatoryOf returns the multisig accounts that the account cosigns.
	CosignatoryOf(model.Address) []model.Address

	// RemoteLinks returns the remote harvesting history of the account.
	RemoteLinks(model.Address) model.RemoteLinks

	// OwnedMosaics returns the mosaics, other than xem, with a positive
	// balance for the account.
	OwnedMosaics(model.Address) []model.MosaicID

	// OwnedNamespaces returns the namespaces owned by the account.
	OwnedNamespaces(model.Address) []model.NamespaceID

	// Namespace returns the namespace if it has ever been provisioned.
	Namespace(model.NamespaceID) (model.NamespaceEntry, bool)

	// Mosaic returns the mosaic if it has been created.
	Mosaic(model.MosaicID) (model.MosaicEntry, bool)

	// HashExists returns true if a transaction with the hash is confirmed.
	HashExists(model.Hash) bool
}

// Account is the stored state of an account.
type Account struct {
	Address          model.Address             `json:"address"`
	Balance          model.Amount              `json:"balance"`
	Mosaics          map[string]model.Quantity `json:"mosaics,omitempty"`
	Cosigners        []model.Address           `json:"cosigners,omitempty"`
	MinCosignatories int                       `json:"minCosignatories,omitempty"`
	CosignatoryOf    []model.Address           `json:"cosignatoryOf,omitempty"`
	RemoteLinks      model.RemoteLinks         `json:"remoteLinks,omitempty"`
}

// OwnedMosaics returns the identifiers of the mosaics, except xem, with a
// positive balance.
func (a Account) OwnedMosaics() []model.MosaicID {
	var res []model.MosaicID

	for key, q := range a.Mosaics {
		id, err := model.ParseMosaicID(key)
		if err != nil || id.IsXem() || q == 0 {
			continue
		}

		res = append(res, id)
	}

	return res
}

// Document is the serializable content of a snapshot.
type Document struct {
	Accounts   []Account              `json:"accounts"`
	Namespaces []model.NamespaceEntry `json:"namespaces"`
	Mosaics    []model.MosaicEntry    `json:"mosaics"`
	Hashes     []model.Hash           `json:"hashes"`
}

// IsMultisig returns true if the account has cosigners.
func IsMultisig(s Snapshot, addr model.Address) bool {
	return len(s.Cosigners(addr)) > 0
}

// IsCosignatory returns true if the account cosigns at least one multisig
// account.
func IsCosignatory(s Snapshot, addr model.Address) bool {
	return len(s.CosignatoryOf(addr)) > 0
}

// IsCosignerOf returns true if the cosigner is one of the cosigners of the
// multisig account.
func IsCosignerOf(s Snapshot, multisig, cosigner model.Address) bool {
	for _, addr := range s.Cosigners(multisig) {
		if addr == cosigner {
			return true
		}
	}

	return false
}

// MosaicOf returns the mosaic entry, with the native currency always known.
func MosaicOf(s Snapshot, id model.MosaicID) (model.MosaicEntry, bool) {
	entry, found := s.Mosaic(id)
	if found || !id.IsXem() {
		return entry, found
	}

	return model.MosaicEntry{Definition: model.XemDefinition(), Supply: model.XemSupply}, true
}

// ActiveNamespace returns the namespace if it is active at the height.
func ActiveNamespace(s Snapshot, id model.NamespaceID, h model.Height) (model.NamespaceEntry, bool) {
	entry, found := s.Namespace(id)
	if !found || !entry.IsActive(h) {
		return entry, false
	}

	return entry, true
}
