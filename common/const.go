package common

const (
	ChainMainnet  = "mainnet"
	ChainTestnet  = "testnet"
	ChainTestnet4 = "testnet4"
	ChainSignet   = "signet"
	ChainRegtest  = "regtest"
)

const (
	BACKEND_REST = "rest"
	BACKEND_RPC  = "rpc"
)

const (
	MODE_FULL  = "full"
	MODE_DELTA = "delta"
)

const SNAPSHOT_FILE_EXT = "parquet"

// 15秒一次，对齐到 :00/:15/:30/:45
const DEFAULT_TICK_INTERVAL = 15
const DEFAULT_POLL_MILLIS = 50

const ENV_LOG_LEVEL = "LOG_LEVEL"

// Default node ports, bitcoin core uses the same port for REST and JSON-RPC.
func DefaultNodePort(chain string) (int, bool) {
	switch chain {
	case ChainMainnet:
		return 8332, true
	case ChainTestnet:
		return 18332, true
	case ChainTestnet4:
		return 48332, true
	case ChainSignet:
		return 38332, true
	case ChainRegtest:
		return 18443, true
	}
	return 0, false
}
