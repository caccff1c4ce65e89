// Package payload builds the JSON-RPC requests understood by a Sui fullnode. Positional
// parameter order is part of the wire contract.
package payload

import (
	"strconv"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
)

const (
	MethodUnsafeTransferObject    = "unsafe_transferObject"
	MethodUnsafeMoveCall          = "unsafe_moveCall"
	MethodUnsafePublish           = "unsafe_publish"
	MethodExecuteTransactionBlock = "sui_executeTransactionBlock"
	MethodGetObject               = "sui_getObject"
	MethodGetOwnedObjects         = "suix_getOwnedObjects"
	MethodGetAllBalances          = "suix_getAllBalances"
	MethodGetCoins                = "suix_getCoins"
)

const (
	// SuiCoinType is the coin type used to pay for gas.
	SuiCoinType = "0x2::sui::SUI"

	// DefaultGasBudget is the advised budget, in MIST, for a single transaction.
	DefaultGasBudget uint64 = 300_000_000
)

type ExecuteRequestType string

const (
	WaitForEffectsCert    ExecuteRequestType = "WaitForEffectsCert"
	WaitForLocalExecution ExecuteRequestType = "WaitForLocalExecution"
)

// Budgets travel as decimal strings.
func budgetString(budget uint64) string {
	return strconv.FormatUint(budget, 10)
}

func UnsafeTransferObject(owner, objectID, gasObject string, gasBudget uint64, recipient string) *jsonrpc.Request {
	return jsonrpc.NewRequest(MethodUnsafeTransferObject,
		owner,
		objectID,
		gasObject,
		budgetString(gasBudget),
		recipient,
	)
}

// UnsafeMoveCall builds an unsigned Move call. Nil type arguments or arguments are sent as [].
func UnsafeMoveCall(owner, packageID, module, function string, typeArgs []string, args []interface{}, gasObject string, gasBudget uint64) *jsonrpc.Request {
	if typeArgs == nil {
		typeArgs = []string{}
	}
	if args == nil {
		args = []interface{}{}
	}
	return jsonrpc.NewRequest(MethodUnsafeMoveCall,
		owner,
		packageID,
		module,
		function,
		typeArgs,
		args,
		gasObject,
		budgetString(gasBudget),
		nil,
	)
}

func UnsafePublish(owner string, modules, dependencies []string, gasObject string, gasBudget uint64) *jsonrpc.Request {
	if modules == nil {
		modules = []string{}
	}
	if dependencies == nil {
		dependencies = []string{}
	}
	return jsonrpc.NewRequest(MethodUnsafePublish,
		owner,
		modules,
		dependencies,
		gasObject,
		budgetString(gasBudget),
	)
}

// ExecuteTransactionBlock submits signed transaction bytes and waits for local execution.
func ExecuteTransactionBlock(txBytes string, signatures []string, opts *TransactionBlockResponseOptions) *jsonrpc.Request {
	if signatures == nil {
		signatures = []string{}
	}
	if opts == nil {
		opts = DefaultTransactionBlockResponseOptions()
	}
	return jsonrpc.NewRequest(MethodExecuteTransactionBlock,
		txBytes,
		signatures,
		opts,
		WaitForLocalExecution,
	)
}

func GetObject(objectID string, opts *ObjectDataOptions) *jsonrpc.Request {
	if opts == nil {
		opts = DefaultObjectDataOptions()
	}
	return jsonrpc.NewRequest(MethodGetObject, objectID, opts)
}

// GetOwnedObjects pages through objects owned by owner. A nil cursor or limit is sent as null.
func GetOwnedObjects(owner string, query *ObjectResponseQuery, cursor *string, limit *uint64) *jsonrpc.Request {
	if query == nil {
		query = DefaultObjectResponseQuery()
	}
	return jsonrpc.NewRequest(MethodGetOwnedObjects, owner, query, cursor, limit)
}

func GetAllBalances(owner string) *jsonrpc.Request {
	return jsonrpc.NewRequest(MethodGetAllBalances, owner)
}

// GetCoins pages through coins of coinType owned by owner. A nil cursor or limit is sent as null.
func GetCoins(owner, coinType string, cursor *string, limit *uint64) *jsonrpc.Request {
	if coinType == "" {
		coinType = SuiCoinType
	}
	return jsonrpc.NewRequest(MethodGetCoins, owner, coinType, cursor, limit)
}

// FaucetRequest is the body posted to a network faucet.
type FaucetRequest struct {
	FixedAmountRequest FixedAmountRequest `json:"FixedAmountRequest"`
}

type FixedAmountRequest struct {
	Recipient string `json:"recipient"`
}

func Faucet(recipient string) *FaucetRequest {
	return &FaucetRequest{FixedAmountRequest: FixedAmountRequest{Recipient: recipient}}
}
