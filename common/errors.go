package common

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("Key not found")
)

// TransportError is returned when the node can't be reached, answers with a
// non-success status, or sends a body we can't decode.
type TransportError struct {
	Endpoint string
	Op       string
	Status   int // http status, 0 if unknown
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func NewTransportError(endpoint, op string, status int, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Op: op, Status: status, Err: err}
}

// StorageError covers directory creation, file write and catalog failures.
type StorageError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(path, op string, err error) *StorageError {
	return &StorageError{Path: path, Op: op, Err: err}
}

// InternalConsistencyFault means the delta computation reported a key that
// is missing from the snapshot it was taken from. Never expected.
type InternalConsistencyFault struct {
	TxId     string
	Snapshot string // "prev" or "curr"
}

func (e *InternalConsistencyFault) Error() string {
	return fmt.Sprintf("internal consistency fault: txid %s missing from %s snapshot", e.TxId, e.Snapshot)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
