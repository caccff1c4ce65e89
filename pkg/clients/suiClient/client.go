package suiClient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/network"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
)

const DefaultTimeout = 30 * time.Second

// MaxPages bounds every cursor walk.
const MaxPages = 100

type ClientConfig struct {
	Network    network.Network
	HTTPClient *http.Client
	Timeout    time.Duration
}

func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Network: network.Mainnet(),
		Timeout: DefaultTimeout,
	}
}

// MoveCall describes a single unsafe_moveCall.
type MoveCall struct {
	Owner         string
	PackageID     string
	Module        string
	Function      string
	TypeArguments []string
	Arguments     []interface{}
	GasObject     string
	GasBudget     uint64
}

type TransferredGasObject struct {
	Amount           uint64 `json:"amount"`
	ID               string `json:"id"`
	TransferTxDigest string `json:"transferTxDigest"`
}

type FaucetResponse struct {
	TransferredGasObjects []TransferredGasObject `json:"transferredGasObjects"`
	Error                 *string                `json:"error"`
}

// Client dispatches JSON-RPC requests to a single fullnode gateway.
type Client struct {
	network    network.Network
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(config *ClientConfig, logger *zap.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if config.Network.Gateway() == "" {
		return nil, suiErrors.EmptyInput("gateway URL")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		network:    config.Network,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (c *Client) SetHttpClient(client *http.Client) {
	c.httpClient = client
}

func (c *Client) Network() network.Network {
	return c.network
}

func (c *Client) Send(ctx context.Context, req *jsonrpc.Request) ([]byte, error) {
	body, err := req.Bytes()
	if err != nil {
		return nil, err
	}
	c.logger.Sugar().Debugw("Sending request",
		"method", req.Method,
		"id", req.ID,
		"gateway", c.network.Gateway(),
	)
	return c.post(ctx, c.network.Gateway(), body)
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, suiErrors.Transport(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, suiErrors.Transport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, suiErrors.Transport(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, suiErrors.Transportf("%s returned status %d: %s", endpoint, resp.StatusCode, truncate(respBody, 256))
	}
	return respBody, nil
}

// Sender is anything able to deliver a request and hand back the raw response body.
type Sender interface {
	Send(ctx context.Context, req *jsonrpc.Request) ([]byte, error)
}

// SendAndDecode sends req and decodes the result into T. A JSON-RPC error object in the
// response is returned as *suiErrors.RpcError.
func SendAndDecode[T any](ctx context.Context, s Sender, req *jsonrpc.Request) (T, error) {
	var zero T
	body, err := s.Send(ctx, req)
	if err != nil {
		return zero, err
	}
	resp, err := jsonrpc.DecodeBytes[T](body)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", req.Method, err)
	}
	return resp.Unwrap()
}

func (c *Client) UnsafeTransferObject(ctx context.Context, owner, objectID, gasObject string, gasBudget uint64, recipient string) (*types.UnsafeTransactionResult, error) {
	return SendAndDecode[*types.UnsafeTransactionResult](ctx, c,
		payload.UnsafeTransferObject(owner, objectID, gasObject, gasBudget, recipient))
}

func (c *Client) UnsafeMoveCall(ctx context.Context, call *MoveCall) (*types.UnsafeTransactionResult, error) {
	if call == nil {
		return nil, suiErrors.EmptyInput("move call")
	}
	return SendAndDecode[*types.UnsafeTransactionResult](ctx, c, payload.UnsafeMoveCall(
		call.Owner,
		call.PackageID,
		call.Module,
		call.Function,
		call.TypeArguments,
		call.Arguments,
		call.GasObject,
		call.GasBudget,
	))
}

func (c *Client) UnsafePublish(ctx context.Context, owner string, modules *payload.CompiledModules, gasObject string, gasBudget uint64) (*types.UnsafeTransactionResult, error) {
	if modules == nil {
		return nil, suiErrors.EmptyInput("compiled modules")
	}
	return SendAndDecode[*types.UnsafeTransactionResult](ctx, c, modules.PublishRequest(owner, gasObject, gasBudget))
}

func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string, opts *payload.TransactionBlockResponseOptions) (*types.TransactionBlockResponse, error) {
	return SendAndDecode[*types.TransactionBlockResponse](ctx, c, payload.ExecuteTransactionBlock(txBytes, signatures, opts))
}

func (c *Client) GetObject(ctx context.Context, objectID string) (*types.ObjectResponse, error) {
	return SendAndDecode[*types.ObjectResponse](ctx, c, payload.GetObject(objectID, nil))
}

func (c *Client) GetOwnedObjects(ctx context.Context, owner string, query *payload.ObjectResponseQuery, cursor *string, limit *uint64) (*types.ObjectsPage, error) {
	return SendAndDecode[*types.ObjectsPage](ctx, c, payload.GetOwnedObjects(owner, query, cursor, limit))
}

func (c *Client) GetAllBalances(ctx context.Context, owner string) ([]types.Balance, error) {
	balances, err := SendAndDecode[[]types.Balance](ctx, c, payload.GetAllBalances(owner))
	if err != nil {
		return nil, err
	}
	if balances == nil {
		balances = []types.Balance{}
	}
	return balances, nil
}

func (c *Client) GetCoins(ctx context.Context, owner, coinType string, cursor *string, limit *uint64) (*types.CoinsPage, error) {
	page, err := SendAndDecode[*types.CoinsPage](ctx, c, payload.GetCoins(owner, coinType, cursor, limit))
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = &types.CoinsPage{}
	}
	return page, nil
}

// GetGasCoins returns one page of SUI coins.
func (c *Client) GetGasCoins(ctx context.Context, owner string, cursor *string) (*types.CoinsPage, error) {
	return c.GetCoins(ctx, owner, payload.SuiCoinType, cursor, nil)
}

func (c *Client) GetAvailableGas(ctx context.Context, owner string, minimum uint64) (*types.Coin, error) {
	var cursor *string
	for pages := 0; ; pages++ {
		if pages == MaxPages {
			c.logger.Sugar().Warnw("Gave up looking for a gas coin", "owner", owner, "pages", pages)
			return nil, suiErrors.InsufficientFunds(owner, minimum)
		}
		page, err := c.GetGasCoins(ctx, owner, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list gas coins for %s: %w", owner, err)
		}
		if coin, ok := page.FirstAbove(minimum); ok {
			c.logger.Sugar().Debugw("Found gas coin",
				"owner", owner,
				"coin", coin.CoinObjectID,
				"balance", coin.Balance,
			)
			return coin, nil
		}
		if !advances(cursor, page.NextCursor, page.HasNextPage) {
			return nil, suiErrors.InsufficientFunds(owner, minimum)
		}
		cursor = page.NextCursor
	}
}

// ListOwnedObjects follows nextCursor and returns every object owned by owner that matches query.
func (c *Client) ListOwnedObjects(ctx context.Context, owner string, query *payload.ObjectResponseQuery) ([]types.ObjectResponse, error) {
	if owner == "" {
		return nil, suiErrors.EmptyInput("owner")
	}
	objects := make([]types.ObjectResponse, 0)
	var cursor *string
	for pages := 0; pages < MaxPages; pages++ {
		page, err := c.GetOwnedObjects(ctx, owner, query, cursor, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects owned by %s: %w", owner, err)
		}
		if page == nil {
			break
		}
		objects = append(objects, page.Data...)
		if !advances(cursor, page.NextCursor, page.HasNextPage) {
			return objects, nil
		}
		cursor = page.NextCursor
	}
	c.logger.Sugar().Warnw("Owned object listing truncated", "owner", owner, "pages", MaxPages, "objects", len(objects))
	return objects, nil
}

// advances reports whether a page points at a cursor the caller has not already requested.
func advances(prev, next *string, hasNext bool) bool {
	if !hasNext || next == nil {
		return false
	}
	return prev == nil || *prev != *next
}

func (c *Client) RequestFaucet(ctx context.Context, recipient string) (*FaucetResponse, error) {
	if recipient == "" {
		return nil, suiErrors.EmptyInput("faucet recipient")
	}
	faucetURL, err := c.network.FaucetURL()
	if err != nil {
		return nil, err
	}
	body, err := jsonrpc.Marshal(payload.Faucet(recipient))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal faucet request: %w", err)
	}

	c.logger.Sugar().Infow("Requesting faucet funds", "recipient", recipient, "faucet", faucetURL)
	respBody, err := c.post(ctx, faucetURL, body)
	if err != nil {
		return nil, err
	}

	var resp FaucetResponse
	if err := jsonrpc.Unmarshal(respBody, &resp); err != nil {
		return nil, suiErrors.DecodeFailure("invalid faucet response: %v", err)
	}
	if resp.Error != nil && *resp.Error != "" {
		return nil, fmt.Errorf("faucet refused request: %s", *resp.Error)
	}
	return &resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
