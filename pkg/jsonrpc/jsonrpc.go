// Package jsonrpc holds the JSON-RPC 2.0 envelope shared by every gateway call.
package jsonrpc

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
)

const Version = "2.0"

var lastID atomic.Uint64

// NextID returns a process-wide, strictly increasing request id.
func NextID() uint64 {
	return lastID.Add(1)
}

type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// NewRequest builds a request with a fresh id. A nil params list is sent as [].
func NewRequest(method string, params ...interface{}) *Request {
	if params == nil {
		params = []interface{}{}
	}
	return &Request{
		JSONRPC: Version,
		ID:      NextID(),
		Method:  method,
		Params:  params,
	}
}

func (r *Request) Bytes() ([]byte, error) {
	data, err := Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", r.Method, err)
	}
	return data, nil
}

func (r *Request) String() string {
	data, err := r.Bytes()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", r.Method, err)
	}
	return string(data)
}

// Response is the envelope returned by the gateway. Result keeps its zero value when the
// server omits it.
type Response[T any] struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      interface{}         `json:"id,omitempty"`
	Result  T                   `json:"result"`
	Error   *suiErrors.RpcError `json:"error,omitempty"`
}

// Unwrap returns the result, or the RPC error when one is present.
func (r *Response[T]) Unwrap() (T, error) {
	if r.Error != nil {
		var zero T
		return zero, r.Error
	}
	return r.Result, nil
}

// Decode parses a response body. A body that is not JSON is a transport error; a body
// that is JSON but does not match T is a decode failure.
func Decode[T any](body io.Reader) (*Response[T], error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, suiErrors.Transport(err)
	}
	return DecodeBytes[T](data)
}

func DecodeBytes[T any](data []byte) (*Response[T], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !codec.Valid(trimmed) {
		return nil, suiErrors.Transportf("response is not JSON: %q", truncate(trimmed, 128))
	}

	var resp Response[T]
	if err := Unmarshal(trimmed, &resp); err != nil {
		return nil, suiErrors.DecodeFailure("failed to decode response: %v", err)
	}
	return &resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
