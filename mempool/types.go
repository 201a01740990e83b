package mempool

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type TxId = chainhash.Hash

// Entry is what we keep of one mempool transaction.
type Entry struct {
	Weight    int64          // weight units
	FeeBase   btcutil.Amount // satoshi
	FirstSeen uint64         // unix seconds, 0 = not tracked
}

// Snapshot is the full pool at one sample instant.
type Snapshot map[TxId]*Entry

func NewSnapshot() Snapshot {
	return make(Snapshot)
}

type Height = uint64

type DeltaRow struct {
	TxId         TxId
	SignedWeight int64 // >0 added, <0 removed
	FeeSat       btcutil.Amount
	FirstSeen    uint64 // 0 = null
}

// DeltaTable rows are ordered removed first, then added.
type DeltaTable struct {
	Rows    []*DeltaRow
	Removed int
	Added   int
}

func (t *DeltaTable) Len() int {
	return len(t.Rows)
}
