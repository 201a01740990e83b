package common

// 1.0.0  2024.05.06   quarter-minute mempool delta recorder
// 1.1.0  2024.06.18   JSON-RPC backend, tick catalog
// 1.2.0  2024.09.02   selectable parquet codec, file metadata
const RECORDER_VERSION = "1.2.0"

// 1.0.0  txid, weight, fee_sat, first_seen
const SNAPSHOT_SCHEMA_VERSION = "1.0.0"
