package bitcoin_rpc

import (
	"fmt"
	"time"

	"github.com/sat20-labs/mempool-recorder/common"
)

type Options struct {
	Backend       string
	Endpoint      string
	User          string
	Password      string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func NewNodeClient(opts *Options) (NodeClient, error) {
	var client NodeClient
	switch opts.Backend {
	case common.BACKEND_REST, "":
		client = NewRESTClient(opts.Endpoint, opts.Timeout)
	case common.BACKEND_RPC:
		rpc, err := NewBitcoindRPC(opts.Endpoint, opts.User, opts.Password)
		if err != nil {
			return nil, err
		}
		client = rpc
	default:
		return nil, fmt.Errorf("unsupported node backend: %s", opts.Backend)
	}

	if opts.RetryAttempts > 1 {
		client = NewRetryClient(client, opts.RetryAttempts, opts.RetryDelay)
	}
	common.Log.Infof("node client %s %s, retry attempts %d", opts.Backend, opts.Endpoint, max(opts.RetryAttempts, 1))
	return client, nil
}
