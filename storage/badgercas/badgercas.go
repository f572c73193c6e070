// Package badgercas stores rendered artifacts in an embedded BadgerDB.
package badgercas

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"github.com/Yuri-SVB/Great-Wall/cidutil"
	"github.com/Yuri-SVB/Great-Wall/storage"
)

var keyPrefix = []byte("artifact/")

// Config selects where and how the database is opened.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used in tests.
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// Logger receives badger's internal log lines. Nil disables them.
	Logger *zap.Logger
}

// CAS is a BadgerDB-backed content-addressable store.
type CAS struct {
	db     *badger.DB
	closed atomic.Bool
}

var _ storage.CAS = (*CAS)(nil)

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*CAS, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgercas: path is required for a persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o700); err != nil {
			return nil, fmt.Errorf("badgercas: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{l: cfg.Logger.Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgercas: open: %w", err)
	}
	return &CAS{db: db}, nil
}

func (c *CAS) Put(b []byte) (cid.Cid, error) {
	if c.closed.Load() {
		return cid.Undef, storage.ErrClosed
	}
	id, err := cidutil.Sum(b)
	if err != nil {
		return cid.Undef, err
	}
	key := keyFor(id)
	err = c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case err == nil:
			return item.Value(func(existing []byte) error {
				if !bytes.Equal(existing, b) {
					return storage.ErrImmutable
				}
				return nil
			})
		case errors.Is(err, badger.ErrKeyNotFound):
			return txn.Set(key, append([]byte(nil), b...))
		default:
			return err
		}
	})
	if err != nil {
		return cid.Undef, err
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	if c.closed.Load() {
		return nil, storage.ErrClosed
	}
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(id))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	got, err := cidutil.Sum(out)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return out, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() || c.closed.Load() {
		return false
	}
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(keyFor(id))
		return err
	})
	return err == nil
}

// Close closes the database. It is idempotent.
func (c *CAS) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.db.Close()
}

func keyFor(id cid.Cid) []byte {
	return append(append([]byte(nil), keyPrefix...), id.Bytes()...)
}

// badgerLogger adapts zap to badger.Logger.
type badgerLogger struct {
	l *zap.SugaredLogger
}

func (b *badgerLogger) Errorf(format string, args ...interface{})   { b.l.Errorf(format, args...) }
func (b *badgerLogger) Warningf(format string, args ...interface{}) { b.l.Warnf(format, args...) }
func (b *badgerLogger) Infof(format string, args ...interface{})    { b.l.Infof(format, args...) }
func (b *badgerLogger) Debugf(format string, args ...interface{})   { b.l.Debugf(format, args...) }
