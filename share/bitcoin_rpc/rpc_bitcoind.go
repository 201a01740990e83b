package bitcoin_rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/btcsuite/btcd/rpcclient"

	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
)

// BitcoindRPC reads from bitcoin core's JSON-RPC interface, for nodes that
// don't run with -rest.
type BitcoindRPC struct {
	endpoint string
	client   *rpcclient.Client
}

func NewBitcoindRPC(endpoint, user, passwd string) (*BitcoindRPC, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid rpc endpoint %s: %v", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid rpc endpoint %s: no host", endpoint)
	}

	connCfg := &rpcclient.ConnConfig{
		Host:         u.Host + u.Path,
		User:         user,
		Pass:         passwd,
		HTTPPostMode: true, // bitcoin core only supports HTTP POST mode
		DisableTLS:   u.Scheme != "https",
	}
	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, err
	}
	return &BitcoindRPC{
		endpoint: endpoint,
		client:   client,
	}, nil
}

func (p *BitcoindRPC) Endpoint() string {
	return p.endpoint
}

func (p *BitcoindRPC) Close() {
	p.client.Shutdown()
}

func (p *BitcoindRPC) GetChainHeight() (mempool.Height, error) {
	count, err := p.client.GetBlockCount()
	if err != nil {
		return 0, common.NewTransportError(p.endpoint, "getblockcount", 0, err)
	}
	if count < 0 {
		return 0, common.NewTransportError(p.endpoint, "getblockcount", 0,
			fmt.Errorf("negative block count %d", count))
	}
	return mempool.Height(count), nil
}

// btcjson.GetRawMempoolVerboseResult has no fees object, so use the raw call.
func (p *BitcoindRPC) GetMempool() (mempool.Snapshot, error) {
	resp, err := p.client.RawRequest("getrawmempool", []json.RawMessage{json.RawMessage("true")})
	if err != nil {
		return nil, common.NewTransportError(p.endpoint, "getrawmempool", 0, err)
	}
	snapshot, err := decodeMempool(bytes.NewReader(resp))
	if err != nil {
		return nil, common.NewTransportError(p.endpoint, "getrawmempool", 0, err)
	}
	return snapshot, nil
}
