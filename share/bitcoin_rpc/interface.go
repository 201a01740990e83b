package bitcoin_rpc

import (
	"github.com/sat20-labs/mempool-recorder/mempool"
)

// NodeClient is the part of a bitcoin node the recorder talks to. Errors are
// *common.TransportError.
type NodeClient interface {
	GetChainHeight() (mempool.Height, error)
	// GetMempool can take seconds on a large pool.
	GetMempool() (mempool.Snapshot, error)

	Endpoint() string
	Close()
}
