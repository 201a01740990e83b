package bitcoin_rpc

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/sat20-labs/mempool-recorder/mempool"
)

const witnessScaleFactor = 4

// verbose mempool entry, same layout for REST contents.json and
// getrawmempool true. Other fields are ignored.
type mempoolEntryResult struct {
	VSize  *int64   `json:"vsize"`
	Weight *int64   `json:"weight"`
	Time   *uint64  `json:"time"`
	Fees   *feesRes `json:"fees"`
	Fee    *float64 `json:"fee"` // core < 23
}

type feesRes struct {
	Base float64 `json:"base"`
}

type chainInfoResult struct {
	Chain  string `json:"chain"`
	Blocks *int64 `json:"blocks"`
}

func decodeMempool(r io.Reader) (mempool.Snapshot, error) {
	raw := make(map[string]*mempoolEntryResult)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode mempool: %v", err)
	}
	return toSnapshot(raw)
}

func toSnapshot(raw map[string]*mempoolEntryResult) (mempool.Snapshot, error) {
	snapshot := make(mempool.Snapshot, len(raw))
	for txid, res := range raw {
		hash, err := chainhash.NewHashFromStr(txid)
		if err != nil || len(txid) != chainhash.MaxHashStringSize {
			return nil, fmt.Errorf("invalid txid %q", txid)
		}
		entry, err := toEntry(res)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %v", txid, err)
		}
		snapshot[*hash] = entry
	}
	return snapshot, nil
}

func toEntry(res *mempoolEntryResult) (*mempool.Entry, error) {
	if res == nil {
		return nil, fmt.Errorf("null entry")
	}

	var weight int64
	switch {
	case res.Weight != nil:
		weight = *res.Weight
	case res.VSize != nil:
		weight = *res.VSize * witnessScaleFactor
	default:
		return nil, fmt.Errorf("missing weight and vsize")
	}

	var feeBtc float64
	switch {
	case res.Fees != nil:
		feeBtc = res.Fees.Base
	case res.Fee != nil:
		feeBtc = *res.Fee
	default:
		return nil, fmt.Errorf("missing fees")
	}
	fee, err := btcutil.NewAmount(feeBtc)
	if err != nil {
		return nil, err
	}
	if fee < 0 {
		return nil, fmt.Errorf("negative fee %v", fee)
	}

	entry := &mempool.Entry{
		Weight:  weight,
		FeeBase: fee,
	}
	if res.Time != nil {
		entry.FirstSeen = *res.Time
	}
	return entry, nil
}

func decodeChainHeight(r io.Reader) (mempool.Height, error) {
	var info chainInfoResult
	if err := json.NewDecoder(r).Decode(&info); err != nil {
		return 0, fmt.Errorf("decode chaininfo: %v", err)
	}
	if info.Blocks == nil || *info.Blocks < 0 {
		return 0, fmt.Errorf("chaininfo has no valid blocks field")
	}
	return mempool.Height(*info.Blocks), nil
}
