package mempool

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txId(n int) TxId {
	return chainhash.DoubleHashH([]byte(fmt.Sprintf("tx-%d", n)))
}

func entry(weight int64, fee int64, firstSeen uint64) *Entry {
	return &Entry{Weight: weight, FeeBase: btcutil.Amount(fee), FirstSeen: firstSeen}
}

func makeSnapshot(ids ...int) Snapshot {
	s := NewSnapshot()
	for _, n := range ids {
		s[txId(n)] = entry(int64(100+n), int64(1000+n), uint64(1700000000+n))
	}
	return s
}

func rowsById(table *DeltaTable) map[TxId]*DeltaRow {
	m := make(map[TxId]*DeltaRow)
	for _, r := range table.Rows {
		m[r.TxId] = r
	}
	return m
}

func TestDeltaOfKeys(t *testing.T) {
	prev := makeSnapshot(1, 2, 3, 4)
	curr := makeSnapshot(3, 4, 5)

	removed, added := DeltaOfKeys(prev, curr)
	assert.ElementsMatch(t, []TxId{txId(1), txId(2)}, removed)
	assert.ElementsMatch(t, []TxId{txId(5)}, added)
}

func TestCreateDeltaRowCount(t *testing.T) {
	cases := []struct {
		name       string
		prev, curr []int
		removed    int
		added      int
	}{
		{"disjoint", []int{1, 2}, []int{3, 4, 5}, 2, 3},
		{"overlap", []int{1, 2, 3}, []int{2, 3, 4}, 1, 1},
		{"subset", []int{1, 2, 3}, []int{1}, 2, 0},
		{"superset", []int{1}, []int{1, 2, 3}, 0, 2},
		{"both empty", nil, nil, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prev := makeSnapshot(c.prev...)
			curr := makeSnapshot(c.curr...)
			table := CreateDelta(prev, curr)

			require.Equal(t, c.removed+c.added, table.Len())
			assert.Equal(t, c.removed, table.Removed)
			assert.Equal(t, c.added, table.Added)

			rows := rowsById(table)
			for id := range prev {
				if _, ok := curr[id]; ok {
					_, found := rows[id]
					assert.False(t, found, "no row expected for %s", id)
				}
			}
		})
	}
}

func TestCreateDeltaRemovedFirst(t *testing.T) {
	table := CreateDelta(makeSnapshot(1, 2, 3), makeSnapshot(4, 5))
	require.Equal(t, 5, table.Len())
	for i, r := range table.Rows {
		if i < table.Removed {
			assert.Less(t, r.SignedWeight, int64(0))
		} else {
			assert.Greater(t, r.SignedWeight, int64(0))
		}
	}
}

func TestCreateDeltaSameSnapshot(t *testing.T) {
	s := makeSnapshot(1, 2, 3, 4, 5)
	table := CreateDelta(s, s)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Rows)
}

func TestCreateDeltaFromEmpty(t *testing.T) {
	s := makeSnapshot(1, 2, 3)
	table := CreateDelta(NewSnapshot(), s)

	require.Equal(t, len(s), table.Len())
	assert.Equal(t, 0, table.Removed)
	for _, r := range table.Rows {
		e := s[r.TxId]
		require.NotNil(t, e)
		assert.Equal(t, e.Weight, r.SignedWeight)
		assert.Equal(t, e.FeeBase, r.FeeSat)
		assert.Equal(t, e.FirstSeen, r.FirstSeen)
	}
}

func TestCreateDeltaRemovedRow(t *testing.T) {
	prev := NewSnapshot()
	prev[txId(1)] = entry(561, 2250, 1690000000)
	table := CreateDelta(prev, NewSnapshot())

	require.Equal(t, 1, table.Len())
	r := table.Rows[0]
	assert.Equal(t, txId(1), r.TxId)
	assert.Equal(t, int64(-561), r.SignedWeight)
	assert.Equal(t, btcutil.Amount(2250), r.FeeSat)
	assert.Equal(t, uint64(1690000000), r.FirstSeen)
}

func TestCreateDeltaIgnoresFeeBump(t *testing.T) {
	prev := NewSnapshot()
	prev[txId(1)] = entry(400, 500, 1000)
	curr := NewSnapshot()
	curr[txId(1)] = entry(400, 900, 1000)

	assert.Equal(t, 0, CreateDelta(prev, curr).Len())
}

func TestCreateDeltaScenario(t *testing.T) {
	a, b := txId(0xa), txId(0xb)
	prev := Snapshot{a: entry(100, 500, 1000)}
	curr := Snapshot{a: entry(100, 500, 1000), b: entry(50, 200, 2000)}

	table := CreateDelta(prev, curr)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, &DeltaRow{TxId: b, SignedWeight: 50, FeeSat: 200, FirstSeen: 2000}, table.Rows[0])
}

func TestBuildDeltaMissingKeyPanics(t *testing.T) {
	prev := makeSnapshot(1)
	curr := makeSnapshot(2)

	assert.PanicsWithError(t,
		(&common.InternalConsistencyFault{TxId: txId(9).String(), Snapshot: "prev"}).Error(),
		func() { buildDelta(prev, curr, []TxId{txId(9)}, nil) })
	assert.Panics(t, func() { buildDelta(prev, curr, nil, []TxId{txId(1)}) })
}

func BenchmarkCreateDelta(b *testing.B) {
	ids := make([]int, 100000)
	for i := range ids {
		ids[i] = i
	}
	prev := makeSnapshot(ids...)
	curr := makeSnapshot(ids[5000:]...)
	for i := 0; i < 5000; i++ {
		curr[txId(200000+i)] = entry(400, 1000, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CreateDelta(prev, curr)
	}
}
