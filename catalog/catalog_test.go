package catalog

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat20-labs/mempool-recorder/common"
)

func openTestCatalog(t *testing.T) *Catalog {
	db, err := OpenPebbleDB(filepath.Join(t.TempDir(), "catalog"))
	require.NoError(t, err)
	c := New(db)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogEmpty(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Last()
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = c.Get(1714953600)
	assert.ErrorIs(t, err, common.ErrKeyNotFound)
}

func TestCatalogPutGetLast(t *testing.T) {
	c := openTestCatalog(t)

	first := &TickRecord{
		Height: 800000, Timestamp: 1714953600, Mode: common.MODE_FULL,
		Path: "data/2024/05/06/800000_1714953600_full.parquet", Added: 120000, MempoolSize: 120000, LoadMillis: 2300,
	}
	second := &TickRecord{
		Height: 800000, Timestamp: 1714953615, Mode: common.MODE_DELTA,
		Path: "data/2024/05/06/800000_1714953615_delta.parquet", Removed: 3, Added: 41, MempoolSize: 120038, LoadMillis: 2100,
	}
	require.NoError(t, c.Put(first))
	require.NoError(t, c.Put(second))

	got, err := c.Get(first.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	last, err := c.Last()
	require.NoError(t, err)
	assert.Equal(t, second, last)
}

func TestTickKeyOrder(t *testing.T) {
	a := GetTickKey(1714953600)
	b := GetTickKey(1714953615)
	assert.Equal(t, -1, bytes.Compare(a, b))
}
