package snapshot

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	kzstd "github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"

	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
)

// Row is the on-disk schema, one row per tx entering or leaving the pool.
type Row struct {
	TxId      string  `parquet:"txid"`
	Weight    float64 `parquet:"weight"`
	FeeSat    float64 `parquet:"fee_sat"`
	FirstSeen *uint64 `parquet:"first_seen"`
}

func ToRows(table *mempool.DeltaTable) []Row {
	rows := make([]Row, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = Row{
			TxId:   r.TxId.String(),
			Weight: float64(r.SignedWeight),
			FeeSat: r.FeeSat.ToUnit(btcutil.AmountSatoshi),
		}
		if r.FirstSeen != 0 {
			firstSeen := r.FirstSeen
			rows[i].FirstSeen = &firstSeen
		}
	}
	return rows
}

type ParquetWriter struct {
	codec compress.Codec
}

// NewParquetWriter takes one of zstd, snappy, gzip, brotli, lz4, none. The
// level only applies to zstd.
func NewParquetWriter(compression string, level int) (*ParquetWriter, error) {
	codec, err := codecOf(compression, level)
	if err != nil {
		return nil, err
	}
	return &ParquetWriter{codec: codec}, nil
}

func codecOf(name string, level int) (compress.Codec, error) {
	switch name {
	case "zstd", "":
		c := &zstd.Codec{Level: zstd.DefaultLevel}
		if level > 0 {
			c.Level = kzstd.EncoderLevelFromZstd(level)
		}
		return c, nil
	case "snappy":
		return &parquet.Snappy, nil
	case "gzip":
		return &parquet.Gzip, nil
	case "brotli":
		return &parquet.Brotli, nil
	case "lz4":
		return &parquet.Lz4Raw, nil
	case "none":
		return &parquet.Uncompressed, nil
	}
	return nil, errors.Errorf("unsupported compression: %s", name)
}

// Write stores the table at path. The file is written under a temporary
// name and renamed when complete, a crash never leaves a truncated file at
// path.
func (w *ParquetWriter) Write(table *mempool.DeltaTable, path string, meta map[string]string) error {
	dir := filepath.Dir(path)
	// make sure the folder exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return common.NewStorageError(dir, "mkdir", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return common.NewStorageError(path, "create", err)
	}
	tmpName := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmpName)
		}
	}()

	options := []parquet.WriterOption{
		parquet.Compression(w.codec),
		parquet.CreatedBy("mempool-recorder", common.RECORDER_VERSION, ""),
		parquet.KeyValueMetadata("schema_version", common.SNAPSHOT_SCHEMA_VERSION),
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		options = append(options, parquet.KeyValueMetadata(k, meta[k]))
	}

	writer := parquet.NewGenericWriter[Row](f, options...)
	if _, err := writer.Write(ToRows(table)); err != nil {
		return common.NewStorageError(path, "write", err)
	}
	if err := writer.Close(); err != nil {
		return common.NewStorageError(path, "write", err)
	}
	if err := f.Sync(); err != nil {
		return common.NewStorageError(path, "sync", err)
	}
	if err := f.Close(); err != nil {
		return common.NewStorageError(path, "close", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return common.NewStorageError(path, "rename", err)
	}
	committed = true
	return nil
}
