// Package suiErrors defines the error kinds surfaced by the signing and submission core.
// Callers match them with errors.Is; every constructor here wraps one of the sentinels.
package suiErrors

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDecodeFailure covers malformed base64, hex or key bytes.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrEmptyInput is returned when a required configuration value is missing.
	ErrEmptyInput = errors.New("empty input")

	// ErrTransport covers connection failures, timeouts, non-2xx statuses and non-JSON bodies.
	ErrTransport = errors.New("transport error")

	// ErrRpc is matched by every *RpcError.
	ErrRpc = errors.New("rpc error")

	// ErrInsufficientFunds means no coin exceeded the advised gas budget during lease refresh.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMissingEffects means an execution response lacked the effects section.
	ErrMissingEffects = errors.New("missing effects")
)

// RpcError is a well-formed JSON-RPC error object.
type RpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (e *RpcError) Is(target error) bool {
	return target == ErrRpc
}

func DecodeFailure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecodeFailure, fmt.Sprintf(format, args...))
}

func EmptyInput(what string) error {
	return fmt.Errorf("%w: %s", ErrEmptyInput, what)
}

// Transport wraps err so that it matches both ErrTransport and the underlying cause.
func Transport(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func Transportf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, args...))
}

func InsufficientFunds(owner string, minimum uint64) error {
	return fmt.Errorf("%w: no coin owned by %s holds more than %d", ErrInsufficientFunds, owner, minimum)
}
