// Package archive persists certificate envelopes in a Pebble store.
// Envelopes are stored zstd-compressed under three key families:
//
//	c:<id>            full envelope bytes
//	s:<shape>:<id>    shape index, value is the certificate id
//	d:<digest>        digest index, value is the certificate id
//
// The digest index deduplicates re-verifications of identical inputs.
package archive

import (
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"GeoQuorum/internal/geometry"
	"GeoQuorum/internal/wire"
)

const (
	// defaultSyncInterval is the default interval between WAL syncs.
	defaultSyncInterval = 100 * time.Millisecond
)

// ErrNotFound reports a missing certificate.
var ErrNotFound = fmt.Errorf("certificate not found")

// Archive provides certificate persistence backed by Pebble.
// Writes are non-blocking (NoSync) and a background goroutine
// periodically syncs the WAL to disk for durability.
type Archive struct {
	db       *pebble.DB    // db is the underlying Pebble database
	stopSync chan struct{} // stopSync signals the sync goroutine to stop
	wg       sync.WaitGroup
}

// Open creates an Archive at the given path.
// It starts a background goroutine that syncs the WAL periodically.
func Open(path string) (*Archive, error) {
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(32 << 20), // 32 MB cache
		MemTableSize:                16 << 20,                  // 16 MB memtable
		MemTableStopWritesThreshold: 2,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open archive:\n%w", err)
	}

	a := &Archive{
		db:       db,
		stopSync: make(chan struct{}),
	}

	a.startSyncLoop()

	return a, nil
}

func certKey(id string) []byte {
	return []byte("c:" + id)
}

func shapeKey(shape geometry.Kind, id string) []byte {
	return []byte(fmt.Sprintf("s:%s:%s", shape, id))
}

func digestKey(digest [32]byte) []byte {
	return append([]byte("d:"), digest[:]...)
}

// Put stores an envelope and maintains the shape and digest indexes.
// All three writes commit atomically.
func (a *Archive) Put(env *wire.Envelope) error {
	if env == nil || env.Cert == nil {
		return fmt.Errorf("nil certificate")
	}

	encoded, err := wire.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode certificate:\n%w", err)
	}

	compressed, err := wire.Compress(encoded)
	if err != nil {
		return fmt.Errorf("compress certificate:\n%w", err)
	}

	id := env.Cert.ID
	digest := env.Cert.Digest()

	batch := a.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(certKey(id), compressed, nil); err != nil {
		return err
	}
	if err := batch.Set(shapeKey(env.Cert.Shape, id), []byte(id), nil); err != nil {
		return err
	}
	if err := batch.Set(digestKey(digest), []byte(id), nil); err != nil {
		return err
	}

	return batch.Commit(pebble.NoSync)
}

// Get retrieves an envelope by certificate id.
func (a *Archive) Get(id string) (*wire.Envelope, error) {
	compressed, err := a.get(certKey(id))
	if err != nil {
		return nil, err
	}
	if compressed == nil {
		return nil, ErrNotFound
	}

	encoded, err := wire.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress certificate %s:\n%w", id, err)
	}

	return wire.Unmarshal(encoded)
}

// GetByDigest retrieves an envelope by certificate digest. It reports
// whether an identical decision was already archived.
func (a *Archive) GetByDigest(digest [32]byte) (*wire.Envelope, error) {
	id, err := a.get(digestKey(digest))
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrNotFound
	}

	return a.Get(string(id))
}

// ListByShape returns all archived envelopes verified against the shape.
func (a *Archive) ListByShape(shape geometry.Kind) ([]*wire.Envelope, error) {
	var envelopes []*wire.Envelope

	err := a.iteratePrefix([]byte(fmt.Sprintf("s:%s:", shape)), func(_, value []byte) error {
		env, err := a.Get(string(value))
		if err != nil {
			return fmt.Errorf("load certificate %s:\n%w", value, err)
		}

		envelopes = append(envelopes, env)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return envelopes, nil
}

// RawByShape returns the compressed envelope bytes for a shape, for
// serving shape requests over the mesh without a decode round trip.
func (a *Archive) RawByShape(shape geometry.Kind) ([][]byte, error) {
	var payloads [][]byte

	err := a.iteratePrefix([]byte(fmt.Sprintf("s:%s:", shape)), func(_, value []byte) error {
		compressed, err := a.get(certKey(string(value)))
		if err != nil {
			return err
		}
		if compressed == nil {
			return nil // index entry without a body, skip
		}

		payloads = append(payloads, compressed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payloads, nil
}

// get retrieves the value for a key, nil if absent.
func (a *Archive) get(key []byte) ([]byte, error) {
	value, closer, err := a.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// Copy the value since it's invalid after closer.Close()
	result := make([]byte, len(value))
	copy(result, value)

	return result, nil
}

// iteratePrefix calls fn for each key-value pair with the given prefix.
// Uses Pebble's iterator bounds for efficient prefix scanning.
func (a *Archive) iteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	upperBound := prefixUpperBound(prefix)

	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		if err := fn(key, value); err != nil {
			return err
		}
	}

	return iter.Error()
}

// prefixUpperBound computes the exclusive upper bound for a prefix scan.
// Increments the last byte; returns nil if prefix is all 0xFF (full range).
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)

	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper
		}
	}

	return nil
}

// Close stops the sync goroutine and closes the database.
// It performs a final sync before closing to ensure durability.
func (a *Archive) Close() error {
	close(a.stopSync)
	a.wg.Wait()

	if err := a.sync(); err != nil {
		return err
	}

	return a.db.Close()
}

// startSyncLoop starts the background goroutine that periodically syncs the WAL.
func (a *Archive) startSyncLoop() {
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(defaultSyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = a.sync()
			case <-a.stopSync:
				return
			}
		}
	}()
}

// sync forces a WAL sync to disk.
func (a *Archive) sync() error {
	return a.db.LogData(nil, pebble.Sync)
}
