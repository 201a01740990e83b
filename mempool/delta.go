package mempool

import (
	"github.com/sat20-labs/mempool-recorder/common"
)

// DeltaOfKeys returns the ids that left (in prev only) and entered (in curr
// only) the pool. Ids present in both are ignored, even if their fee or
// weight changed.
func DeltaOfKeys(prev, curr Snapshot) (removed, added []TxId) {
	intersection := make(map[TxId]struct{}, min(len(prev), len(curr)))
	removed = make([]TxId, 0)
	added = make([]TxId, 0)

	for txId := range prev {
		if _, ok := curr[txId]; ok {
			intersection[txId] = struct{}{}
		} else {
			removed = append(removed, txId)
		}
	}

	for txId := range curr {
		if _, ok := intersection[txId]; !ok {
			added = append(added, txId)
		}
	}

	return removed, added
}

// CreateDelta builds the delta table between two snapshots. A delta against
// an empty prev is a full dump of curr.
func CreateDelta(prev, curr Snapshot) *DeltaTable {
	removed, added := DeltaOfKeys(prev, curr)
	return buildDelta(prev, curr, removed, added)
}

// 找不到key说明DeltaOfKeys有bug，直接panic
func buildDelta(prev, curr Snapshot, removed, added []TxId) *DeltaTable {
	table := &DeltaTable{
		Rows:    make([]*DeltaRow, 0, len(removed)+len(added)),
		Removed: len(removed),
		Added:   len(added),
	}

	for _, txId := range removed {
		entry, ok := prev[txId]
		if !ok || entry == nil {
			fault(txId, "prev")
		}
		table.Rows = append(table.Rows, &DeltaRow{
			TxId:         txId,
			SignedWeight: -entry.Weight,
			FeeSat:       entry.FeeBase,
			FirstSeen:    entry.FirstSeen,
		})
	}

	for _, txId := range added {
		entry, ok := curr[txId]
		if !ok || entry == nil {
			fault(txId, "curr")
		}
		table.Rows = append(table.Rows, &DeltaRow{
			TxId:         txId,
			SignedWeight: entry.Weight,
			FeeSat:       entry.FeeBase,
			FirstSeen:    entry.FirstSeen,
		})
	}

	return table
}

func fault(txId TxId, snapshot string) {
	f := &common.InternalConsistencyFault{TxId: txId.String(), Snapshot: snapshot}
	common.GetLoggerEntry("delta").Error(f.Error())
	panic(f)
}
