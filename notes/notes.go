// Package notes provides generic key/value stores that can be attached
// to any owning object, identified by a content type and a UUID.
//
// Three store kinds share one schema:
//
// 	- Config: used by pulp and users to store configuration data
// 	- Notes: used by users to store arbitrary data
// 	- Scratchpad: used by pulp to store arbitrary data
//
// Keys and values are strings, and keys are unique per (kind, owner).
// The stores are persisted in a single pebble database.
package notes

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
)

// ErrNoKey is returned when a key does not exist for the owner.
var ErrNoKey = errors.New("no such key")

// Kind identifies one of the key/value store kinds.
type Kind byte

const (
	KindConfig     Kind = 'c'
	KindNotes      Kind = 'n'
	KindScratchpad Kind = 's'
)

// Owner identifies the object a key/value entry belongs to.
type Owner struct {
	// ContentType names the owning object's type, for example
	// 'service' or 'repository'.
	ContentType string

	// ObjectID is the owning object's UUID.
	ObjectID uuid.UUID
}

// ServiceOwner derives a stable Owner for a member of the Pulp daemon
// family. The UUID is deterministic so every process on the host
// resolves a service to the same owner.
func ServiceOwner(serviceID string) Owner {
	return Owner{
		ContentType: "service",
		ObjectID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(serviceID)),
	}
}

// Store is a pebble-backed collection of key/value stores.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if needed) the store database in the given
// directory.
func Open(dirPath string) (*Store, error) {
	db, err := pebble.Open(dirPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database at %s: %w", dirPath, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (o *Store) Close() error {
	return o.db.Close()
}

// Config returns the configuration mapping for an owner.
func (o *Store) Config(owner Owner) Mapping {
	return Mapping{store: o, kind: KindConfig, owner: owner}
}

// Notes returns the user notes mapping for an owner.
func (o *Store) Notes(owner Owner) Mapping {
	return Mapping{store: o, kind: KindNotes, owner: owner}
}

// Scratchpad returns the scratchpad mapping for an owner.
func (o *Store) Scratchpad(owner Owner) Mapping {
	return Mapping{store: o, kind: KindScratchpad, owner: owner}
}

// Mapping provides dict-like access to one (kind, owner) keyspace.
type Mapping struct {
	store *Store
	kind  Kind
	owner Owner
}

// Get returns the value stored under key. ErrNoKey is returned when
// the key does not exist.
func (o Mapping) Get(key string) (string, error) {
	value, closer, err := o.store.db.Get(o.encodeKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrNoKey, key)
		}

		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	defer closer.Close()

	return string(value), nil
}

// Set stores value under key, replacing any existing value.
func (o Mapping) Set(key string, value string) error {
	err := o.store.db.Set(o.encodeKey(key), []byte(value), pebble.Sync)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Delete removes key. ErrNoKey is returned when the key does not
// exist.
func (o Mapping) Delete(key string) error {
	encoded := o.encodeKey(key)

	_, closer, err := o.store.db.Get(encoded)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrNoKey, key)
		}

		return fmt.Errorf("failed to read key %q: %w", key, err)
	}
	closer.Close()

	err = o.store.db.Delete(encoded, pebble.Sync)
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

// Contains reports whether key exists.
func (o Mapping) Contains(key string) (bool, error) {
	_, err := o.Get(key)
	if err != nil {
		if errors.Is(err, ErrNoKey) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Len returns the number of keys in the mapping.
func (o Mapping) Len() (int, error) {
	count := 0
	err := o.iterate(func(string, string) {
		count++
	})

	return count, err
}

// Keys returns every key in the mapping.
func (o Mapping) Keys() ([]string, error) {
	var keys []string
	err := o.iterate(func(key string, _ string) {
		keys = append(keys, key)
	})

	return keys, err
}

// Values returns every value in the mapping.
func (o Mapping) Values() ([]string, error) {
	var values []string
	err := o.iterate(func(_ string, value string) {
		values = append(values, value)
	})

	return values, err
}

// Items returns every key/value pair in the mapping.
func (o Mapping) Items() (map[string]string, error) {
	items := make(map[string]string)
	err := o.iterate(func(key string, value string) {
		items[key] = value
	})

	return items, err
}

// Clear removes every key in the mapping. Other kinds and owners are
// unaffected.
func (o Mapping) Clear() error {
	prefix := o.keyPrefix()

	err := o.store.db.DeleteRange(prefix, keyUpperBound(prefix), pebble.Sync)
	if err != nil {
		return fmt.Errorf("failed to clear mapping: %w", err)
	}

	return nil
}

func (o Mapping) iterate(visit func(key string, value string)) error {
	prefix := o.keyPrefix()

	iter, err := o.store.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		visit(string(iter.Key()[len(prefix):]), string(iter.Value()))
	}

	return iter.Error()
}

// encodeKey builds the storage key:
// kind | len(contentType) | contentType | objectID | key.
// The length prefix keeps distinct owners from sharing a keyspace.
func (o Mapping) encodeKey(key string) []byte {
	return append(o.keyPrefix(), key...)
}

func (o Mapping) keyPrefix() []byte {
	contentType := []byte(o.owner.ContentType)

	prefix := make([]byte, 0, 1+2+len(contentType)+16)
	prefix = append(prefix, byte(o.kind))
	prefix = binary.BigEndian.AppendUint16(prefix, uint16(len(contentType)))
	prefix = append(prefix, contentType...)
	prefix = append(prefix, o.owner.ObjectID[:]...)

	return prefix
}

// keyUpperBound returns the smallest key greater than every key with
// the given prefix.
func keyUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)

	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}

	// The prefix is all 0xff bytes; no upper bound exists.
	return nil
}
