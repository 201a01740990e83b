package bitcoin_rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
)

const (
	PATH_CHAININFO        = "/rest/chaininfo.json"
	PATH_MEMPOOL_CONTENTS = "/rest/mempool/contents.json"
)

// RESTClient reads from bitcoin core's unauthenticated REST interface
// (bitcoind -rest).
type RESTClient struct {
	endpoint string
	http     *http.Client
}

func NewRESTClient(endpoint string, timeout time.Duration) *RESTClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &RESTClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

func (p *RESTClient) GetUrl(path string) string {
	return p.endpoint + path
}

func (p *RESTClient) Endpoint() string {
	return p.endpoint
}

func (p *RESTClient) Close() {
	p.http.CloseIdleConnections()
}

func (p *RESTClient) GetChainHeight() (mempool.Height, error) {
	var height mempool.Height
	err := p.get(PATH_CHAININFO, "get_chain_height", func(body io.Reader) error {
		var err error
		height, err = decodeChainHeight(body)
		return err
	})
	return height, err
}

func (p *RESTClient) GetMempool() (mempool.Snapshot, error) {
	var snapshot mempool.Snapshot
	err := p.get(PATH_MEMPOOL_CONTENTS, "get_mempool", func(body io.Reader) error {
		var err error
		snapshot, err = decodeMempool(body)
		return err
	})
	return snapshot, err
}

func (p *RESTClient) get(path, op string, decode func(io.Reader) error) error {
	url := p.GetUrl(path)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return common.NewTransportError(url, op, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return common.NewTransportError(url, op, 0, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return common.NewTransportError(url, op, resp.StatusCode,
			fmt.Errorf("unexpected response: %q", string(msg)))
	}

	if err := decode(resp.Body); err != nil {
		return common.NewTransportError(url, op, resp.StatusCode, err)
	}
	return nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
