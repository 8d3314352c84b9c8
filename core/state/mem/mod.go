// Package mem implements an in-memory state snapshot.
package mem

import (
	"sort"

	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
)

// Snapshot is an in-memory snapshot. The setters are meant to prepare the
// state before the validation and must not be called concurrently with the
// getters.
//
// - implements state.Snapshot
type Snapshot struct {
	accounts   map[model.Address]*state.Account
	namespaces map[model.NamespaceID]model.NamespaceEntry
	mosaics    map[model.MosaicID]model.MosaicEntry
	hashes     map[model.Hash]struct{}
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		accounts:   make(map[model.Address]*state.Account),
		namespaces: make(map[model.NamespaceID]model.NamespaceEntry),
		mosaics:    make(map[model.MosaicID]model.MosaicEntry),
		hashes:     make(map[model.Hash]struct{}),
	}
}

// NewSnapshotFrom returns a snapshot populated with the document.
func NewSnapshotFrom(doc state.Document) *Snapshot {
	snap := NewSnapshot()

	for _, acc := range doc.Accounts {
		acc := acc
		snap.accounts[acc.Address] = &acc
	}

	for _, ns := range doc.Namespaces {
		snap.namespaces[ns.ID] = ns
	}

	for _, m := range doc.Mosaics {
		snap.mosaics[m.Definition.ID] = m
	}

	for _, h := range doc.Hashes {
		snap.hashes[h] = struct{}{}
	}

	return snap
}

// Document returns the content of the snapshot, sorted so that the output is
// deterministic.
func (s *Snapshot) Document() state.Document {
	doc := state.Document{}

	for _, acc := range s.accounts {
		doc.Accounts = append(doc.Accounts, *acc)
	}

	sort.Slice(doc.Accounts, func(i, j int) bool {
		return doc.Accounts[i].Address < doc.Accounts[j].Address
	})

	for _, ns := range s.namespaces {
		doc.Namespaces = append(doc.Namespaces, ns)
	}

	sort.Slice(doc.Namespaces, func(i, j int) bool {
		return doc.Namespaces[i].ID < doc.Namespaces[j].ID
	})

	for _, m := range s.mosaics {
		doc.Mosaics = append(doc.Mosaics, m)
	}

	sort.Slice(doc.Mosaics, func(i, j int) bool {
		return doc.Mosaics[i].Definition.ID.String() < doc.Mosaics[j].Definition.ID.String()
	})

	for h := range s.hashes {
		doc.Hashes = append(doc.Hashes, h)
	}

	sort.Slice(doc.Hashes, func(i, j int) bool {
		return doc.Hashes[i].String() < doc.Hashes[j].String()
	})

	return doc
}

// SetBalance sets the native balance of the account.
func (s *Snapshot) SetBalance(addr model.Address, amount model.Amount) *Snapshot {
	s.account(addr).Balance = amount
	return s
}

// SetMosaicBalance sets the balance of the account for the mosaic.
func (s *Snapshot) SetMosaicBalance(addr model.Address, id model.MosaicID, q model.Quantity) *Snapshot {
	acc := s.account(addr)
	if acc.Mosaics == nil {
		acc.Mosaics = make(map[string]model.Quantity)
	}

	acc.Mosaics[id.String()] = q

	return s
}

// AddCosigner adds the cosigner to the multisig account and updates the
// reverse link.
func (s *Snapshot) AddCosigner(multisig, cosigner model.Address) *Snapshot {
	m := s.account(multisig)
	m.Cosigners = append(m.Cosigners, cosigner)

	c := s.account(cosigner)
	c.CosignatoryOf = append(c.CosignatoryOf, multisig)

	return s
}

// SetMinCosignatories sets the quorum of the multisig account.
func (s *Snapshot) SetMinCosignatories(multisig model.Address, min int) *Snapshot {
	s.account(multisig).MinCosignatories = min
	return s
}

// AddRemoteLink appends the link to the history of the account.
func (s *Snapshot) AddRemoteLink(addr model.Address, link model.RemoteLink) *Snapshot {
	acc := s.account(addr)
	acc.RemoteLinks = append(acc.RemoteLinks, link)

	return s
}

// PutNamespace stores the namespace.
func (s *Snapshot) PutNamespace(entry model.NamespaceEntry) *Snapshot {
	s.namespaces[entry.ID] = entry
	return s
}

// PutMosaic stores the mosaic.
func (s *Snapshot) PutMosaic(entry model.MosaicEntry) *Snapshot {
	s.mosaics[entry.Definition.ID] = entry
	return s
}

// AddHash marks the hash as confirmed.
func (s *Snapshot) AddHash(h model.Hash) *Snapshot {
	s.hashes[h] = struct{}{}
	return s
}

// Balance implements state.Snapshot.
func (s *Snapshot) Balance(addr model.Address) model.Amount {
	return s.get(addr).Balance
}

// MosaicBalance implements state.Snapshot.
func (s *Snapshot) MosaicBalance(addr model.Address, id model.MosaicID) model.Quantity {
	return s.get(addr).Mosaics[id.String()]
}

// Cosigners implements state.Snapshot.
func (s *Snapshot) Cosigners(addr model.Address) []model.Address {
	return s.get(addr).Cosigners
}

// MinCosignatories implements state.Snapshot.
func (s *Snapshot) MinCosignatories(addr model.Address) int {
	return s.get(addr).MinCosignatories
}

// CosignatoryOf implements state.Snapshot.
func (s *Snapshot) CosignatoryOf(addr model.Address) []model.Address {
	return s.get(addr).CosignatoryOf
}

// RemoteLinks implements state.Snapshot.
func (s *Snapshot) RemoteLinks(addr model.Address) model.RemoteLinks {
	return s.get(addr).RemoteLinks
}

// OwnedMosaics implements state.Snapshot.
func (s *Snapshot) OwnedMosaics(addr model.Address) []model.MosaicID {
	return s.get(addr).OwnedMosaics()
}

// OwnedNamespaces implements state.Snapshot.
func (s *Snapshot) OwnedNamespaces(addr model.Address) []model.NamespaceID {
	var res []model.NamespaceID

	for id, ns := range s.namespaces {
		if ns.Owner == addr {
			res = append(res, id)
		}
	}

	return res
}

// Namespace implements state.Snapshot.
func (s *Snapshot) Namespace(id model.NamespaceID) (model.NamespaceEntry, bool) {
	entry, found := s.namespaces[id]
	return entry, found
}

// Mosaic implements state.Snapshot.
func (s *Snapshot) Mosaic(id model.MosaicID) (model.MosaicEntry, bool) {
	entry, found := s.mosaics[id]
	return entry, found
}

// HashExists implements state.Snapshot.
func (s *Snapshot) HashExists(h model.Hash) bool {
	_, found := s.hashes[h]
	return found
}

func (s *Snapshot) get(addr model.Address) state.Account {
	acc, found := s.accounts[addr]
	if !found {
		return state.Account{Address: addr}
	}

	return *acc
}

func (s *Snapshot) account(addr model.Address) *state.Account {
	acc, found := s.accounts[addr]
	if !found {
		acc = &state.Account{Address: addr}
		s.accounts[addr] = acc
	}

	return acc
}
