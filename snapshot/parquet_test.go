package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
)

func testTable() *mempool.DeltaTable {
	return &mempool.DeltaTable{
		Rows: []*mempool.DeltaRow{
			{TxId: chainhash.DoubleHashH([]byte("a")), SignedWeight: -561, FeeSat: 2250, FirstSeen: 1700000000},
			{TxId: chainhash.DoubleHashH([]byte("b")), SignedWeight: 400, FeeSat: 1000, FirstSeen: 0},
			{TxId: chainhash.DoubleHashH([]byte("c")), SignedWeight: 50, FeeSat: 200, FirstSeen: 2000},
		},
		Removed: 1,
		Added:   2,
	}
}

func TestToRows(t *testing.T) {
	table := testTable()
	rows := ToRows(table)
	require.Len(t, rows, 3)

	assert.Equal(t, table.Rows[0].TxId.String(), rows[0].TxId)
	assert.Equal(t, float64(-561), rows[0].Weight)
	assert.Equal(t, float64(2250), rows[0].FeeSat)
	require.NotNil(t, rows[0].FirstSeen)
	assert.Equal(t, uint64(1700000000), *rows[0].FirstSeen)

	assert.Nil(t, rows[1].FirstSeen)
}

func TestParquetWriteReadBack(t *testing.T) {
	for _, codec := range []string{"zstd", "snappy", "gzip", "brotli", "lz4", "none"} {
		t.Run(codec, func(t *testing.T) {
			w, err := NewParquetWriter(codec, 3)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "2024", "05", "06", "800000_1714953600_full.parquet")
			err = w.Write(testTable(), path, map[string]string{"height": "800000", "mode": common.MODE_FULL})
			require.NoError(t, err)

			rows, err := parquet.ReadFile[Row](path)
			require.NoError(t, err)
			assert.Equal(t, ToRows(testTable()), rows)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp file left behind")
		})
	}
}

func TestParquetSchemaAndMetadata(t *testing.T) {
	w, err := NewParquetWriter("zstd", 0)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "x.parquet")
	require.NoError(t, w.Write(testTable(), path, map[string]string{"load_mempool_millis": "1234"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	st, err := f.Stat()
	require.NoError(t, err)

	pf, err := parquet.OpenFile(f, st.Size())
	require.NoError(t, err)
	assert.Equal(t, int64(3), pf.NumRows())

	v, ok := pf.Lookup("load_mempool_millis")
	assert.True(t, ok)
	assert.Equal(t, "1234", v)
	v, ok = pf.Lookup("schema_version")
	assert.True(t, ok)
	assert.Equal(t, common.SNAPSHOT_SCHEMA_VERSION, v)

	names := []string{}
	for _, field := range pf.Schema().Fields() {
		names = append(names, field.Name())
		assert.Equal(t, field.Name() == "first_seen", field.Optional(), field.Name())
	}
	assert.ElementsMatch(t, []string{"txid", "weight", "fee_sat", "first_seen"}, names)
}

func TestParquetWriteEmptyTable(t *testing.T) {
	w, err := NewParquetWriter("zstd", 0)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, w.Write(&mempool.DeltaTable{}, path, nil))

	rows, err := parquet.ReadFile[Row](path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParquetWriteStorageError(t *testing.T) {
	w, err := NewParquetWriter("zstd", 0)
	require.NoError(t, err)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err = w.Write(testTable(), filepath.Join(blocker, "sub", "a.parquet"), nil)
	require.Error(t, err)
	assert.True(t, common.IsStorageError(err))
}

func TestUnsupportedCompression(t *testing.T) {
	_, err := NewParquetWriter("lzo", 0)
	assert.Error(t, err)
}
