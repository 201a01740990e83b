package bitcoin_rpc

import (
	"time"

	"github.com/avast/retry-go"

	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
)

// RetryClient retries transport errors with exponential backoff. Only used
// when more than one attempt is configured.
type RetryClient struct {
	NodeClient
	attempts uint
	delay    time.Duration
}

func NewRetryClient(client NodeClient, attempts int, delay time.Duration) *RetryClient {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryClient{
		NodeClient: client,
		attempts:   uint(attempts),
		delay:      delay,
	}
}

func (p *RetryClient) do(op string, fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.MaxDelay(time.Minute),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(common.IsTransportError),
		retry.OnRetry(func(n uint, err error) {
			common.GetLoggerEntry("rpc").Warnf("%s failed, attempt %d/%d: %v", op, n+1, p.attempts, err)
		}),
	)
}

func (p *RetryClient) GetChainHeight() (mempool.Height, error) {
	var height mempool.Height
	err := p.do("get_chain_height", func() error {
		var err error
		height, err = p.NodeClient.GetChainHeight()
		return err
	})
	return height, err
}

func (p *RetryClient) GetMempool() (mempool.Snapshot, error) {
	var snapshot mempool.Snapshot
	err := p.do("get_mempool", func() error {
		var err error
		snapshot, err = p.NodeClient.GetMempool()
		return err
	})
	return snapshot, err
}
