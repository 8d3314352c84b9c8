package fake

import (
	"go.dedis.ch/nemval/core/store/kv"
)

// InMemoryDB is a fake implementation of a key/value database.
//
// - implements kv.DB
type InMemoryDB struct {
	buckets  map[string]*InMemoryBucket
	ErrView  error
	ErrWrite error
}

// NewInMemoryDB creates a new empty database.
func NewInMemoryDB() *InMemoryDB {
	return &InMemoryDB{
		buckets: make(map[string]*InMemoryBucket),
	}
}

// NewBadDB creates a new empty database that will always return an error.
func NewBadDB() *InMemoryDB {
	return &InMemoryDB{
		buckets:  make(map[string]*InMemoryBucket),
		ErrView:  fakeErr,
		ErrWrite: fakeErr,
	}
}

// View implements kv.DB.
func (db *InMemoryDB) View(name []byte, fn func(kv.Bucket) error) error {
	if db.ErrView != nil {
		return db.ErrView
	}

	bucket, found := db.buckets[string(name)]
	if !found {
		bucket = &InMemoryBucket{values: make(map[string][]byte)}
	}

	return fn(bucket)
}

// Update implements kv.DB.
func (db *InMemoryDB) Update(name []byte, fn func(kv.Bucket) error) error {
	bucket, found := db.buckets[string(name)]
	if !found {
		bucket = &InMemoryBucket{values: make(map[string][]byte)}
		db.buckets[string(name)] = bucket
	}

	bucket.err = db.ErrWrite

	return fn(bucket)
}

// Close implements kv.DB.
func (db *InMemoryDB) Close() error {
	return nil
}

// InMemoryBucket is a fake implementation of a bucket.
//
// - implements kv.Bucket
type InMemoryBucket struct {
	values map[string][]byte
	err    error
}

// Get implements kv.Bucket.
func (b *InMemoryBucket) Get(key []byte) []byte {
	return b.values[string(key)]
}

// Set implements kv.Bucket.
func (b *InMemoryBucket) Set(key, value []byte) error {
	if b.err != nil {
		return b.err
	}

	b.values[string(key)] = value

	return nil
}

// ForEach implements kv.Bucket. It iterates in an unspecified order.
func (b *InMemoryBucket) ForEach(fn func(k, v []byte) error) error {
	for k, v := range b.values {
		err := fn([]byte(k), v)
		if err != nil {
			return err
		}
	}

	return nil
}

// Scan implements kv.Bucket. It iterates in an unspecified order.
func (b *InMemoryBucket) Scan(prefix []byte, fn func(k, v []byte) error) error {
	for k, v := range b.values {
		if len(k) < len(prefix) || k[:len(prefix)] != string(prefix) {
			continue
		}

		err := fn([]byte(k), v)
		if err != nil {
			return err
		}
	}

	return nil
}
