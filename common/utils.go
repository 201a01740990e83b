package common

import (
	"encoding/binary"
	"time"
)

// 时间戳转换为 ISO 8601 格式
func ConvertTimestampToISO8601(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format(time.RFC3339)
}

// 大端序下，字节序比较行为与整数比较行为一致。
// pebble数据库中整数类型的KEY都转换为这个格式
func Uint64ToBytes(value uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, value)
	return bytes
}

func BytesToUint64(bytes []byte) uint64 {
	return binary.BigEndian.Uint64(bytes)
}
