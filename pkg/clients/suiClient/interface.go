package suiClient

import (
	"context"
	"net/http"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/network"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
)

// ISuiClient is the set of gateway calls used by the signer, the gas lease and the hook caller.
// It exists so those components can be exercised against an in-process fake.
type ISuiClient interface {
	// SetHttpClient replaces the HTTP client used for every subsequent request.
	SetHttpClient(client *http.Client)

	// Network returns the network the client talks to.
	Network() network.Network

	// Send posts an arbitrary request and returns the raw response body.
	// Connection failures and non-2xx statuses are reported as transport errors.
	Send(ctx context.Context, req *jsonrpc.Request) ([]byte, error)

	UnsafeTransferObject(ctx context.Context, owner, objectID, gasObject string, gasBudget uint64, recipient string) (*types.UnsafeTransactionResult, error)
	UnsafeMoveCall(ctx context.Context, call *MoveCall) (*types.UnsafeTransactionResult, error)
	UnsafePublish(ctx context.Context, owner string, modules *payload.CompiledModules, gasObject string, gasBudget uint64) (*types.UnsafeTransactionResult, error)

	// ExecuteTransactionBlock submits a signed transaction and waits for local execution.
	ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string, opts *payload.TransactionBlockResponseOptions) (*types.TransactionBlockResponse, error)

	GetObject(ctx context.Context, objectID string) (*types.ObjectResponse, error)
	GetOwnedObjects(ctx context.Context, owner string, query *payload.ObjectResponseQuery, cursor *string, limit *uint64) (*types.ObjectsPage, error)
	// ListOwnedObjects walks every page of GetOwnedObjects, up to MaxPages.
	ListOwnedObjects(ctx context.Context, owner string, query *payload.ObjectResponseQuery) ([]types.ObjectResponse, error)
	GetAllBalances(ctx context.Context, owner string) ([]types.Balance, error)
	GetCoins(ctx context.Context, owner, coinType string, cursor *string, limit *uint64) (*types.CoinsPage, error)
	GetGasCoins(ctx context.Context, owner string, cursor *string) (*types.CoinsPage, error)

	// GetAvailableGas returns the first SUI coin owned by owner whose balance is strictly
	// greater than minimum.
	GetAvailableGas(ctx context.Context, owner string, minimum uint64) (*types.Coin, error)

	// RequestFaucet asks the network faucet to fund recipient.
	RequestFaucet(ctx context.Context, recipient string) (*FaucetResponse, error)
}

// Compile-time check to ensure Client implements ISuiClient
var _ ISuiClient = (*Client)(nil)
