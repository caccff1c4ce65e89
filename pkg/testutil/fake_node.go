package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
)

// Handler answers one JSON-RPC call. Returning a non-nil error object sends it instead of a result.
type Handler func(params []json.RawMessage) (interface{}, *suiErrors.RpcError)

// RecordedCall is a request the fake node received, in arrival order.
type RecordedCall struct {
	Method string
	ID     uint64
	Params []json.RawMessage
}

// FakeNode is an in-process Sui fullnode that serves canned JSON-RPC results and records
// every call it receives. Unknown methods answer with a -32601 error.
type FakeNode struct {
	Server *httptest.Server

	mu           sync.Mutex
	handlers     map[string]Handler
	calls        []RecordedCall
	faucetStatus int
	faucetBody   interface{}
	faucetCalls  []json.RawMessage
}

// NewFakeNode starts a fake node that is shut down when the test ends.
func NewFakeNode(t *testing.T) *FakeNode {
	t.Helper()
	f := &FakeNode{
		handlers:     make(map[string]Handler),
		faucetStatus: http.StatusCreated,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/gas", f.serveFaucet)
	mux.HandleFunc("/", f.serveRpc)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeNode) URL() string {
	return f.Server.URL
}

func (f *FakeNode) Handle(method string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

// Result makes method always answer with result.
func (f *FakeNode) Result(method string, result interface{}) {
	f.Handle(method, func([]json.RawMessage) (interface{}, *suiErrors.RpcError) {
		return result, nil
	})
}

// Fail makes method always answer with a JSON-RPC error.
func (f *FakeNode) Fail(method string, code int, message string) {
	f.Handle(method, func([]json.RawMessage) (interface{}, *suiErrors.RpcError) {
		return nil, &suiErrors.RpcError{Code: code, Message: message}
	})
}

func (f *FakeNode) Faucet(status int, body interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faucetStatus = status
	f.faucetBody = body
}

func (f *FakeNode) Calls() []RecordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedCall(nil), f.calls...)
}

// Methods lists the received method names in arrival order.
func (f *FakeNode) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	methods := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		methods = append(methods, c.Method)
	}
	return methods
}

func (f *FakeNode) Count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeNode) FaucetCalls() []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]json.RawMessage(nil), f.faucetCalls...)
}

func (f *FakeNode) serveRpc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req struct {
		ID     uint64            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := jsonrpc.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls = append(f.calls, RecordedCall{Method: req.Method, ID: req.ID, Params: req.Params})
	handler, ok := f.handlers[req.Method]
	f.mu.Unlock()

	resp := map[string]interface{}{
		"jsonrpc": jsonrpc.Version,
		"id":      req.ID,
	}
	if !ok {
		resp["error"] = &suiErrors.RpcError{Code: -32601, Message: "Method not found"}
	} else if result, rpcErr := handler(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = jsonrpc.NewEncoder(w).Encode(resp)
}

func (f *FakeNode) serveFaucet(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.faucetCalls = append(f.faucetCalls, json.RawMessage(body))
	status := f.faucetStatus
	respBody := f.faucetBody
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if respBody != nil {
		_ = jsonrpc.NewEncoder(w).Encode(respBody)
	}
}
