package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint64Bytes(t *testing.T) {
	for _, v := range []uint64{0, 1, 1714953600, 1<<63 + 5} {
		assert.Equal(t, v, BytesToUint64(Uint64ToBytes(v)))
	}
	assert.Equal(t, -1, bytes.Compare(Uint64ToBytes(255), Uint64ToBytes(256)))
}

func TestConvertTimestampToISO8601(t *testing.T) {
	assert.Equal(t, "2024-05-06T00:00:00Z", ConvertTimestampToISO8601(1714953600))
}
