// Package kv implements a state snapshot persisted in a key/value database.
//
// Entries are stored as JSON documents in one bucket per kind of entry. The
// decoded entries are kept in a LRU cache as the validators tend to read the
// same accounts many times for a single batch.
//
// The snapshot interface does not return errors, so a failure to read or
// decode an entry is recorded and the entry is considered missing. The caller
// must check Err after a validation.
package kv

import (
	"encoding/json"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"
	"go.dedis.ch/nemval"
	"go.dedis.ch/nemval/core/model"
	"go.dedis.ch/nemval/core/state"
	"go.dedis.ch/nemval/core/store/kv"
	"golang.org/x/xerrors"
)

const defaultCacheSize = 1024

var (
	accountsBucket   = []byte("accounts")
	namespacesBucket = []byte("namespaces")
	mosaicsBucket    = []byte("mosaics")
	hashesBucket     = []byte("hashes")
)

// Option is the type of the options to create a store.
type Option func(*Store)

// WithCacheSize sets the number of decoded entries kept in memory.
func WithCacheSize(size int) Option {
	return func(s *Store) {
		s.cacheSize = size
	}
}

// WithLogger sets the logger of the store.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is a snapshot backed by a key/value database.
//
// - implements state.Snapshot
type Store struct {
	sync.Mutex

	db        kv.DB
	cache     *lru.Cache
	cacheSize int
	logger    zerolog.Logger
	err       error
}

// NewStore creates the buckets if needed and returns the store.
func NewStore(db kv.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:        db,
		cacheSize: defaultCacheSize,
		logger:    nemval.Logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.New(s.cacheSize)
	if err != nil {
		return nil, xerrors.Errorf("failed to create cache: %v", err)
	}

	s.cache = cache

	for _, name := range [][]byte{accountsBucket, namespacesBucket, mosaicsBucket, hashesBucket} {
		err = db.Update(name, func(kv.Bucket) error { return nil })
		if err != nil {
			return nil, xerrors.Errorf("failed to create bucket '%s': %v", name, err)
		}
	}

	return s, nil
}

// Import writes the entries of the document in the database. Existing entries
// with the same key are replaced.
func (s *Store) Import(doc state.Document) error {
	err := s.db.Update(accountsBucket, func(b kv.Bucket) error {
		for _, acc := range doc.Accounts {
			err := put(b, []byte(acc.Address), acc)
			if err != nil {
				return xerrors.Errorf("account %s: %v", acc.Address, err)
			}
		}

		return nil
	})
	if err != nil {
		return xerrors.Errorf("failed to import accounts: %v", err)
	}

	err = s.db.Update(namespacesBucket, func(b kv.Bucket) error {
		for _, ns := range doc.Namespaces {
			err := put(b, []byte(ns.ID), ns)
			if err != nil {
				return xerrors.Errorf("namespace %s: %v", ns.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return xerrors.Errorf("failed to import namespaces: %v", err)
	}

	err = s.db.Update(mosaicsBucket, func(b kv.Bucket) error {
		for _, m := range doc.Mosaics {
			err := put(b, []byte(m.Definition.ID.String()), m)
			if err != nil {
				return xerrors.Errorf("mosaic %s: %v", m.Definition.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return xerrors.Errorf("failed to import mosaics: %v", err)
	}

	err = s.db.Update(hashesBucket, func(b kv.Bucket) error {
		for _, h := range doc.Hashes {
			err := b.Set(h[:], []byte{1})
			if err != nil {
				return xerrors.Errorf("hash %v: %v", h, err)
			}
		}

		return nil
	})
	if err != nil {
		return xerrors.Errorf("failed to import hashes: %v", err)
	}

	s.cache.Purge()

	s.logger.Info().
		Int("accounts", len(doc.Accounts)).
		Int("namespaces", len(doc.Namespaces)).
		Int("mosaics", len(doc.Mosaics)).
		Int("hashes", len(doc.Hashes)).
		Msg("state imported")

	return nil
}

// Err returns the first error that happened while reading the database.
func (s *Store) Err() error {
	s.Lock()
	defer s.Unlock()

	return s.err
}

// Balance implements state.Snapshot.
func (s *Store) Balance(addr model.Address) model.Amount {
	return s.account(addr).Balance
}

// MosaicBalance implements state.Snapshot.
func (s *Store) MosaicBalance(addr model.Address, id model.MosaicID) model.Quantity {
	return s.account(addr).Mosaics[id.String()]
}

// Cosigners implements state.Snapshot.
func (s *Store) Cosigners(addr model.Address) []model.Address {
	return s.account(addr).Cosigners
}

// MinCosignatories implements state.Snapshot.
func (s *Store) MinCosignatories(addr model.Address) int {
	return s.account(addr).MinCosignatories
}

// CosignatoryOf implements state.Snapshot.
func (s *Store) CosignatoryOf(addr model.Address) []model.Address {
	return s.account(addr).CosignatoryOf
}

// RemoteLinks implements state.Snapshot.
func (s *Store) RemoteLinks(addr model.Address) model.RemoteLinks {
	return s.account(addr).RemoteLinks
}

// OwnedMosaics implements state.Snapshot.
func (s *Store) OwnedMosaics(addr model.Address) []model.MosaicID {
	return s.account(addr).OwnedMosaics()
}

// OwnedNamespaces implements state.Snapshot. It scans the whole bucket.
func (s *Store) OwnedNamespaces(addr model.Address) []model.NamespaceID {
	var res []model.NamespaceID

	err := s.db.View(namespacesBucket, func(b kv.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			var entry model.NamespaceEntry

			err := json.Unmarshal(v, &entry)
			if err != nil {
				return xerrors.Errorf("failed to decode namespace '%s': %v", k, err)
			}

			if entry.Owner == addr {
				res = append(res, entry.ID)
			}

			return nil
		})
	})
	if err != nil {
		s.fail(xerrors.Errorf("failed to scan namespaces: %v", err))
		return nil
	}

	return res
}

// MosaicsOf returns the mosaics defined in the namespace. The keys of the
// mosaics start with the namespace so that only those are read.
func (s *Store) MosaicsOf(ns model.NamespaceID) []model.MosaicEntry {
	var res []model.MosaicEntry

	prefix := []byte(string(ns) + ":")

	err := s.db.View(mosaicsBucket, func(b kv.Bucket) error {
		return b.Scan(prefix, func(k, v []byte) error {
			var entry model.MosaicEntry

			err := json.Unmarshal(v, &entry)
			if err != nil {
				return xerrors.Errorf("failed to decode mosaic '%s': %v", k, err)
			}

			res = append(res, entry)

			return nil
		})
	})
	if err != nil {
		s.fail(xerrors.Errorf("failed to scan mosaics: %v", err))
		return nil
	}

	return res
}

// Namespace implements state.Snapshot.
func (s *Store) Namespace(id model.NamespaceID) (model.NamespaceEntry, bool) {
	key := "n:" + string(id)

	value, found := s.cache.Get(key)
	if found {
		entry, ok := value.(model.NamespaceEntry)
		return entry, ok
	}

	var entry model.NamespaceEntry
	if !s.read(namespacesBucket, []byte(id), &entry) {
		return entry, false
	}

	s.cache.Add(key, entry)

	return entry, true
}

// Mosaic implements state.Snapshot.
func (s *Store) Mosaic(id model.MosaicID) (model.MosaicEntry, bool) {
	key := "m:" + id.String()

	value, found := s.cache.Get(key)
	if found {
		entry, ok := value.(model.MosaicEntry)
		return entry, ok
	}

	var entry model.MosaicEntry
	if !s.read(mosaicsBucket, []byte(id.String()), &entry) {
		return entry, false
	}

	s.cache.Add(key, entry)

	return entry, true
}

// HashExists implements state.Snapshot.
func (s *Store) HashExists(h model.Hash) bool {
	found := false

	err := s.db.View(hashesBucket, func(b kv.Bucket) error {
		found = b.Get(h[:]) != nil
		return nil
	})
	if err != nil {
		s.fail(xerrors.Errorf("failed to read hashes: %v", err))
	}

	return found
}

func (s *Store) account(addr model.Address) state.Account {
	key := "a:" + string(addr)

	value, found := s.cache.Get(key)
	if found {
		return value.(state.Account)
	}

	acc := state.Account{Address: addr}
	if !s.read(accountsBucket, []byte(addr), &acc) {
		return state.Account{Address: addr}
	}

	s.cache.Add(key, acc)

	return acc
}

// read decodes the value of the key into v, and returns false when the key is
// missing or when it fails.
func (s *Store) read(bucket, key []byte, v interface{}) bool {
	var data []byte

	err := s.db.View(bucket, func(b kv.Bucket) error {
		value := b.Get(key)
		if value != nil {
			// The value is only valid during the transaction.
			data = append([]byte{}, value...)
		}

		return nil
	})
	if err != nil {
		s.fail(xerrors.Errorf("failed to read %s: %v", bucket, err))
		return false
	}

	if data == nil {
		return false
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		s.fail(xerrors.Errorf("failed to decode %s '%s': %v", bucket, key, err))
		return false
	}

	return true
}

func (s *Store) fail(err error) {
	s.logger.Error().Err(err).Msg("state read failed")

	s.Lock()
	defer s.Unlock()

	if s.err == nil {
		s.err = err
	}
}

func put(b kv.Bucket, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return xerrors.Errorf("failed to encode: %v", err)
	}

	err = b.Set(key, data)
	if err != nil {
		return xerrors.Errorf("failed to write: %v", err)
	}

	return nil
}
