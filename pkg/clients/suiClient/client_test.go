package suiClient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/sui-operator-go/pkg/network"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/Layr-Labs/sui-operator-go/pkg/testutil"
)

func newTestClient(t *testing.T, node *testutil.FakeNode) *Client {
	t.Helper()
	c, err := NewClient(&ClientConfig{Network: network.Custom(node.URL())}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func paramStrings(t *testing.T, params []json.RawMessage) []string {
	t.Helper()
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = string(p)
	}
	return out
}

func Test_NewClient(t *testing.T) {
	t.Run("Should require a logger", func(t *testing.T) {
		_, err := NewClient(DefaultConfig(), nil)
		assert.Error(t, err)
	})
	t.Run("Should default to mainnet with a 30s timeout", func(t *testing.T) {
		c, err := NewClient(nil, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, network.Mainnet(), c.Network())
		assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	})
	t.Run("Should reject an empty gateway", func(t *testing.T) {
		_, err := NewClient(&ClientConfig{}, zaptest.NewLogger(t))
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
	})
}

func Test_Send(t *testing.T) {
	t.Run("Should post JSON to the gateway", func(t *testing.T) {
		var contentType string
		var method string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			method = r.Method
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[]}`))
		}))
		defer server.Close()

		c, err := NewClient(&ClientConfig{Network: network.Custom(server.URL)}, zaptest.NewLogger(t))
		require.NoError(t, err)

		balances, err := c.GetAllBalances(context.Background(), testutil.FixtureAddress)
		require.NoError(t, err)
		assert.Empty(t, balances)
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, http.MethodPost, method)
	})

	t.Run("Should treat non-2xx statuses as transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[]}`))
		}))
		defer server.Close()

		c, err := NewClient(&ClientConfig{Network: network.Custom(server.URL)}, zaptest.NewLogger(t))
		require.NoError(t, err)

		_, err = c.GetAllBalances(context.Background(), testutil.FixtureAddress)
		assert.ErrorIs(t, err, suiErrors.ErrTransport)
	})

	t.Run("Should treat non-JSON bodies as transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}))
		defer server.Close()

		c, err := NewClient(&ClientConfig{Network: network.Custom(server.URL)}, zaptest.NewLogger(t))
		require.NoError(t, err)

		_, err = c.GetAllBalances(context.Background(), testutil.FixtureAddress)
		assert.ErrorIs(t, err, suiErrors.ErrTransport)
	})

	t.Run("Should treat connection failures as transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c, err := NewClient(&ClientConfig{Network: network.Custom(url)}, zaptest.NewLogger(t))
		require.NoError(t, err)

		_, err = c.GetObject(context.Background(), "0x1")
		assert.ErrorIs(t, err, suiErrors.ErrTransport)
	})

	t.Run("Should time out slow gateways", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		c, err := NewClient(&ClientConfig{Network: network.Custom(server.URL), Timeout: 50 * time.Millisecond}, zaptest.NewLogger(t))
		require.NoError(t, err)

		_, err = c.GetObject(context.Background(), "0x1")
		assert.ErrorIs(t, err, suiErrors.ErrTransport)
	})
}

func Test_RpcErrors(t *testing.T) {
	node := testutil.NewFakeNode(t)
	node.Fail(payload.MethodGetObject, -32602, "invalid object id")
	c := newTestClient(t, node)

	_, err := c.GetObject(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, suiErrors.ErrRpc)

	var rpcErr *suiErrors.RpcError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, "invalid object id", rpcErr.Message)
}

func Test_TypedCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("UnsafeMoveCall sends positional params", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodUnsafeMoveCall, testutil.UnsafeTxResult(testutil.FixtureTxBytes, "0xgas"))
		c := newTestClient(t, node)

		result, err := c.UnsafeMoveCall(ctx, &MoveCall{
			Owner:     testutil.FixtureAddress,
			PackageID: "0x2",
			Module:    "devnet_nft",
			Function:  "mint",
			Arguments: []interface{}{"name", "desc", "url"},
			GasObject: "0xgas",
			GasBudget: 1000,
		})
		require.NoError(t, err)
		assert.Equal(t, testutil.FixtureTxBytes, result.TxBytes)
		require.Len(t, result.Gas, 1)
		assert.Equal(t, "0xgas", result.Gas[0].ObjectID)

		calls := node.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{
			`"` + testutil.FixtureAddress + `"`,
			`"0x2"`,
			`"devnet_nft"`,
			`"mint"`,
			`[]`,
			`["name","desc","url"]`,
			`"0xgas"`,
			`"1000"`,
			`null`,
		}, paramStrings(t, calls[0].Params))
	})

	t.Run("UnsafeMoveCall rejects a nil call", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		c := newTestClient(t, node)
		_, err := c.UnsafeMoveCall(ctx, nil)
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
		assert.Empty(t, node.Calls())
	})

	t.Run("UnsafeTransferObject", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodUnsafeTransferObject, testutil.UnsafeTxResult(testutil.FixtureTxBytes, "0xgas"))
		c := newTestClient(t, node)

		_, err := c.UnsafeTransferObject(ctx, testutil.FixtureAddress, "0xobj", "0xgas", 2000, "0xbob")
		require.NoError(t, err)
		assert.Equal(t, []string{
			`"` + testutil.FixtureAddress + `"`, `"0xobj"`, `"0xgas"`, `"2000"`, `"0xbob"`,
		}, paramStrings(t, node.Calls()[0].Params))
	})

	t.Run("UnsafePublish", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodUnsafePublish, testutil.UnsafeTxResult(testutil.FixtureTxBytes, "0xgas"))
		c := newTestClient(t, node)

		_, err := c.UnsafePublish(ctx, testutil.FixtureAddress, &payload.CompiledModules{
			Modules:      []string{"AAA="},
			Dependencies: []string{"0x1", "0x2"},
		}, "0xgas", 3000)
		require.NoError(t, err)
		assert.Equal(t, []string{
			`"` + testutil.FixtureAddress + `"`, `["AAA="]`, `["0x1","0x2"]`, `"0xgas"`, `"3000"`,
		}, paramStrings(t, node.Calls()[0].Params))

		_, err = c.UnsafePublish(ctx, testutil.FixtureAddress, nil, "0xgas", 3000)
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
	})

	t.Run("ExecuteTransactionBlock", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodExecuteTransactionBlock, testutil.ExecuteResult(testutil.FixtureDigest, "0xpkg"))
		c := newTestClient(t, node)

		resp, err := c.ExecuteTransactionBlock(ctx, testutil.FixtureTxBytes, []string{testutil.FixtureSignature}, nil)
		require.NoError(t, err)
		assert.Equal(t, testutil.FixtureDigest, resp.Digest)
		require.NotNil(t, resp.Effects)
		assert.True(t, resp.Effects.Succeeded())
		assert.Equal(t, []string{"0xpkg"}, resp.ImmutableObjectIDs())

		params := paramStrings(t, node.Calls()[0].Params)
		require.Len(t, params, 4)
		assert.Equal(t, `["`+testutil.FixtureSignature+`"]`, params[1])
		assert.Equal(t, `"WaitForLocalExecution"`, params[3])
	})

	t.Run("GetObject", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetObject, map[string]interface{}{
			"data": map[string]interface{}{
				"objectId": "0xobj",
				"version":  "7",
				"digest":   testutil.FixtureDigest,
				"owner":    "Immutable",
			},
		})
		c := newTestClient(t, node)

		obj, err := c.GetObject(ctx, "0xobj")
		require.NoError(t, err)
		assert.True(t, obj.Exists())
		assert.Equal(t, uint64(7), uint64(obj.Data.Version))
		assert.True(t, obj.Data.Owner.IsImmutable())
	})

	t.Run("GetOwnedObjects sends null cursor and limit", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetOwnedObjects, map[string]interface{}{
			"data": []interface{}{
				map[string]interface{}{"data": map[string]interface{}{"objectId": "0xa", "version": 1, "digest": testutil.FixtureDigest}},
			},
			"nextCursor":  "0xa",
			"hasNextPage": true,
		})
		c := newTestClient(t, node)

		page, err := c.GetOwnedObjects(ctx, testutil.FixtureAddress, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"0xa"}, page.ObjectIDs())
		assert.True(t, page.HasNextPage)

		params := paramStrings(t, node.Calls()[0].Params)
		require.Len(t, params, 4)
		assert.Equal(t, "null", params[2])
		assert.Equal(t, "null", params[3])
	})

	t.Run("GetAllBalances", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetAllBalances, []interface{}{
			map[string]interface{}{"coinType": "0x2::sui::SUI", "coinObjectCount": 2, "totalBalance": "340282366920938463463374607431768211455"},
		})
		c := newTestClient(t, node)

		balances, err := c.GetAllBalances(ctx, testutil.FixtureAddress)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		total, err := balances[0].Total()
		require.NoError(t, err)
		assert.Equal(t, "340282366920938463463374607431768211455", total.Dec())
	})

	t.Run("GetGasCoins uses the SUI coin type", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetCoins, testutil.CoinsPage(testutil.GasCoin("0xc1", 5)))
		c := newTestClient(t, node)

		page, err := c.GetGasCoins(ctx, testutil.FixtureAddress, nil)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, `"0x2::sui::SUI"`, string(node.Calls()[0].Params[1]))
	})
}

func Test_GetAvailableGas(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the first coin strictly above the minimum", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetCoins, testutil.CoinsPage(
			testutil.GasCoin("0xexact", 1000),
			testutil.GasCoin("0xbig", 1001),
			testutil.GasCoin("0xbigger", 5000),
		))
		c := newTestClient(t, node)

		coin, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 1000)
		require.NoError(t, err)
		assert.Equal(t, "0xbig", coin.CoinObjectID)
		assert.Equal(t, 1, node.Count(payload.MethodGetCoins))
	})

	t.Run("Should skip coins with unparseable balances", func(t *testing.T) {
		bad := testutil.GasCoin("0xbad", 0)
		bad["balance"] = "lots"
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetCoins, testutil.CoinsPage(bad, testutil.GasCoin("0xok", 10)))
		c := newTestClient(t, node)

		coin, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 1)
		require.NoError(t, err)
		assert.Equal(t, "0xok", coin.CoinObjectID)
	})

	t.Run("Should fail with insufficient funds", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Result(payload.MethodGetCoins, testutil.CoinsPage(testutil.GasCoin("0xsmall", 10)))
		c := newTestClient(t, node)

		_, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 10)
		assert.ErrorIs(t, err, suiErrors.ErrInsufficientFunds)
	})

	t.Run("Should follow the cursor until a coin is found", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Handle(payload.MethodGetCoins, func(params []json.RawMessage) (interface{}, *suiErrors.RpcError) {
			if string(params[2]) == "null" {
				page := testutil.CoinsPage(testutil.GasCoin("0xsmall", 1))
				page["nextCursor"] = "0xsmall"
				page["hasNextPage"] = true
				return page, nil
			}
			return testutil.CoinsPage(testutil.GasCoin("0xlarge", 100)), nil
		})
		c := newTestClient(t, node)

		coin, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 50)
		require.NoError(t, err)
		assert.Equal(t, "0xlarge", coin.CoinObjectID)
		assert.Equal(t, 2, node.Count(payload.MethodGetCoins))
		assert.Equal(t, `"0xsmall"`, string(node.Calls()[1].Params[2]))
	})

	t.Run("Should surface rpc errors", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Fail(payload.MethodGetCoins, -32000, "boom")
		c := newTestClient(t, node)

		_, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 50)
		assert.ErrorIs(t, err, suiErrors.ErrRpc)
	})

	t.Run("Should stop when the cursor repeats", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		page := testutil.CoinsPage(testutil.GasCoin("0xdust", 1))
		page["nextCursor"] = "same"
		page["hasNextPage"] = true
		node.Result(payload.MethodGetCoins, page)
		c := newTestClient(t, node)

		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 50)
		assert.ErrorIs(t, err, suiErrors.ErrInsufficientFunds)
		assert.Equal(t, 2, node.Count(payload.MethodGetCoins))
	})

	t.Run("Should give up after MaxPages", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		calls := 0
		node.Handle(payload.MethodGetCoins, func(params []json.RawMessage) (interface{}, *suiErrors.RpcError) {
			calls++
			page := testutil.CoinsPage(testutil.GasCoin("0xdust", 1))
			page["nextCursor"] = fmt.Sprintf("0x%d", calls)
			page["hasNextPage"] = true
			return page, nil
		})
		c := newTestClient(t, node)

		_, err := c.GetAvailableGas(ctx, testutil.FixtureAddress, 50)
		assert.ErrorIs(t, err, suiErrors.ErrInsufficientFunds)
		assert.Equal(t, MaxPages, node.Count(payload.MethodGetCoins))
	})
}

func Test_ListOwnedObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("Should follow the cursor and keep the query", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		next := "0xa"
		node.Handle(payload.MethodGetOwnedObjects, func(params []json.RawMessage) (interface{}, *suiErrors.RpcError) {
			if string(params[2]) == "null" {
				return testutil.ObjectsPage(&next, testutil.OwnedObject("0xa", "0x3::hook::Ticket")), nil
			}
			return testutil.ObjectsPage(nil, testutil.OwnedObject("0xb", "0x3::hook::Ticket")), nil
		})
		c := newTestClient(t, node)

		objects, err := c.ListOwnedObjects(ctx, testutil.FixtureAddress, payload.QueryByStructType("0x3::hook::Ticket"))
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, "0xa", objects[0].Data.ObjectID)
		assert.Equal(t, "0xb", objects[1].Data.ObjectID)
		assert.Equal(t, "0x3::hook::Ticket", objects[1].Data.Type)

		calls := node.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, `"0xa"`, string(calls[1].Params[2]))
		assert.Contains(t, string(calls[1].Params[1]), `{"StructType":"0x3::hook::Ticket"}`)
	})

	t.Run("Should stop when the cursor repeats", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		same := "same"
		node.Result(payload.MethodGetOwnedObjects, testutil.ObjectsPage(&same, testutil.OwnedObject("0xa", "0x2::coin::Coin")))
		c := newTestClient(t, node)

		objects, err := c.ListOwnedObjects(ctx, testutil.FixtureAddress, nil)
		require.NoError(t, err)
		assert.Len(t, objects, 2)
		assert.Equal(t, 2, node.Count(payload.MethodGetOwnedObjects))
	})

	t.Run("Should require an owner", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		c := newTestClient(t, node)

		_, err := c.ListOwnedObjects(ctx, "", nil)
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
		assert.Empty(t, node.Calls())
	})

	t.Run("Should surface rpc errors", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Fail(payload.MethodGetOwnedObjects, -32000, "boom")
		c := newTestClient(t, node)

		_, err := c.ListOwnedObjects(ctx, testutil.FixtureAddress, payload.QueryByPackage("0x3"))
		assert.ErrorIs(t, err, suiErrors.ErrRpc)
	})
}

func Test_RequestFaucet(t *testing.T) {
	ctx := context.Background()

	t.Run("Should post the fixed amount request", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Faucet(http.StatusCreated, map[string]interface{}{
			"transferredGasObjects": []interface{}{
				map[string]interface{}{"amount": 1000000000, "id": "0xcoin", "transferTxDigest": testutil.FixtureDigest},
			},
			"error": nil,
		})
		c := newTestClient(t, node)

		resp, err := c.RequestFaucet(ctx, testutil.FixtureAddress)
		require.NoError(t, err)
		require.Len(t, resp.TransferredGasObjects, 1)
		assert.Equal(t, "0xcoin", resp.TransferredGasObjects[0].ID)
		assert.Equal(t, uint64(1000000000), resp.TransferredGasObjects[0].Amount)

		calls := node.FaucetCalls()
		require.Len(t, calls, 1)
		assert.JSONEq(t, `{"FixedAmountRequest":{"recipient":"`+testutil.FixtureAddress+`"}}`, string(calls[0]))
	})

	t.Run("Should surface faucet errors", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Faucet(http.StatusOK, map[string]interface{}{"transferredGasObjects": []interface{}{}, "error": "rate limited"})
		c := newTestClient(t, node)

		_, err := c.RequestFaucet(ctx, testutil.FixtureAddress)
		assert.ErrorContains(t, err, "rate limited")
	})

	t.Run("Should surface faucet HTTP failures as transport errors", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		node.Faucet(http.StatusTooManyRequests, nil)
		c := newTestClient(t, node)

		_, err := c.RequestFaucet(ctx, testutil.FixtureAddress)
		assert.ErrorIs(t, err, suiErrors.ErrTransport)
	})

	t.Run("Should refuse mainnet", func(t *testing.T) {
		c, err := NewClient(&ClientConfig{Network: network.Mainnet()}, zaptest.NewLogger(t))
		require.NoError(t, err)
		_, err = c.RequestFaucet(ctx, testutil.FixtureAddress)
		assert.Error(t, err)
	})

	t.Run("Should require a recipient", func(t *testing.T) {
		node := testutil.NewFakeNode(t)
		c := newTestClient(t, node)
		_, err := c.RequestFaucet(ctx, "")
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
	})
}
