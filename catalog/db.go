package catalog

import (
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/sat20-labs/mempool-recorder/common"
)

type WriteBatch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Flush() error
	Close()
}

// 每个调用都是完整的transaction
type KVDB interface {
	Read(key []byte) ([]byte, error)
	Write(key, value []byte) error
	Delete(key []byte) error
	Close() error

	NewWriteBatch() WriteBatch
}

type pebbleDB struct {
	path string
	db   *pebble.DB
}

// 写入量很小，每15秒一条，不需要调大cache和memtable
func defaultOptions() *pebble.Options {
	return &pebble.Options{
		Cache:        pebble.NewCache(8 << 20),
		MaxOpenFiles: 256,
		MemTableSize: 4 << 20,
	}
}

func OpenPebbleDB(path string) (KVDB, error) {
	o := defaultOptions()
	defer o.Cache.Unref()
	db, err := pebble.Open(path, o)
	if err != nil {
		return nil, common.NewStorageError(path, "open catalog", err)
	}
	return &pebbleDB{path: path, db: db}, nil
}

func (p *pebbleDB) Read(key []byte) ([]byte, error) {
	val, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, common.ErrKeyNotFound
		}
		return nil, common.NewStorageError(p.path, "read catalog", err)
	}
	defer closer.Close()
	return append([]byte{}, val...), nil
}

func (p *pebbleDB) Write(key, value []byte) error {
	if err := p.db.Set(key, value, pebble.Sync); err != nil {
		return common.NewStorageError(p.path, "write catalog", err)
	}
	return nil
}

func (p *pebbleDB) Delete(key []byte) error {
	if err := p.db.Delete(key, pebble.Sync); err != nil {
		return common.NewStorageError(p.path, "delete catalog", err)
	}
	return nil
}

func (p *pebbleDB) Close() error {
	return p.db.Close()
}

func (p *pebbleDB) NewWriteBatch() WriteBatch {
	return &pebbleWriteBatch{path: p.path, batch: p.db.NewBatch()}
}

type pebbleWriteBatch struct {
	path  string
	batch *pebble.Batch
}

func (b *pebbleWriteBatch) Put(key, value []byte) error {
	return b.batch.Set(key, value, nil)
}

func (b *pebbleWriteBatch) Delete(key []byte) error {
	return b.batch.Delete(key, nil)
}

func (b *pebbleWriteBatch) Flush() error {
	if err := b.batch.Commit(pebble.Sync); err != nil {
		return common.NewStorageError(b.path, "commit catalog", err)
	}
	return nil
}

func (b *pebbleWriteBatch) Close() {
	b.batch.Close()
}
