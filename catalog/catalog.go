package catalog

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sat20-labs/mempool-recorder/common"
)

const (
	DB_KEY_TICK = "t-"
	DB_KEY_LAST = "last"
)

// TickRecord describes one written snapshot file.
type TickRecord struct {
	Height      uint64 `msgpack:"h"`
	Timestamp   int64  `msgpack:"ts"`
	Mode        string `msgpack:"m"`
	Path        string `msgpack:"p"`
	Removed     int    `msgpack:"r"`
	Added       int    `msgpack:"a"`
	MempoolSize int    `msgpack:"n"`
	LoadMillis  int64  `msgpack:"l"`
}

// Catalog keeps one record per written file, keyed by tick timestamp.
type Catalog struct {
	db KVDB
}

func New(db KVDB) *Catalog {
	return &Catalog{db: db}
}

func GetTickKey(ts int64) []byte {
	return append([]byte(DB_KEY_TICK), common.Uint64ToBytes(uint64(ts))...)
}

func (c *Catalog) Put(rec *TickRecord) error {
	value, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	key := GetTickKey(rec.Timestamp)

	wb := c.db.NewWriteBatch()
	defer wb.Close()
	if err := wb.Put(key, value); err != nil {
		return err
	}
	if err := wb.Put([]byte(DB_KEY_LAST), key); err != nil {
		return err
	}
	return wb.Flush()
}

func (c *Catalog) Get(ts int64) (*TickRecord, error) {
	value, err := c.db.Read(GetTickKey(ts))
	if err != nil {
		return nil, err
	}
	return decodeRecord(value)
}

// Last returns common.ErrKeyNotFound when nothing was recorded yet.
func (c *Catalog) Last() (*TickRecord, error) {
	key, err := c.db.Read([]byte(DB_KEY_LAST))
	if err != nil {
		return nil, err
	}
	value, err := c.db.Read(key)
	if err != nil {
		return nil, errors.Wrapf(err, "last tick %x", key)
	}
	return decodeRecord(value)
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func decodeRecord(value []byte) (*TickRecord, error) {
	var rec TickRecord
	if err := msgpack.Unmarshal(value, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrKeyNotFound)
}
