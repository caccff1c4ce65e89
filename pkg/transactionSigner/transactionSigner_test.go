package transactionSigner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/sui-operator-go/pkg/clients/suiClient"
	"github.com/Layr-Labs/sui-operator-go/pkg/network"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/Layr-Labs/sui-operator-go/pkg/testutil"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
)

func setup(t *testing.T, requireEffects bool) (ITransactionSigner, *testutil.FakeNode) {
	t.Helper()
	node := testutil.NewFakeNode(t)
	l := zaptest.NewLogger(t)
	client, err := suiClient.NewClient(&suiClient.ClientConfig{Network: network.Custom(node.URL())}, l)
	require.NoError(t, err)

	signer, err := NewTransactionSigner(&SignerConfig{
		KeystoreRecord: testutil.FixtureKeystoreRecord,
		RequireEffects: requireEffects,
	}, client, l)
	require.NoError(t, err)
	return signer, node
}

func Test_NewTransactionSigner(t *testing.T) {
	l := zaptest.NewLogger(t)
	client, err := suiClient.NewClient(nil, l)
	require.NoError(t, err)

	t.Run("Should require a key", func(t *testing.T) {
		_, err := NewTransactionSigner(&SignerConfig{}, client, l)
		assert.ErrorContains(t, err, "private key cannot be empty")
	})

	t.Run("Should reject a nil config", func(t *testing.T) {
		_, err := NewTransactionSigner(nil, client, l)
		assert.Error(t, err)
	})

	t.Run("Should reject malformed keys", func(t *testing.T) {
		_, err := NewTransactionSigner(&SignerConfig{PrivateKey: "0xnothex"}, client, l)
		assert.ErrorIs(t, err, suiErrors.ErrDecodeFailure)
	})

	t.Run("Should prefer the hex private key", func(t *testing.T) {
		signer, err := NewTransactionSigner(&SignerConfig{
			PrivateKey:     "023d81259600323d802e84e77a35a5f85a3d2761c4d6d01a34facd32237a28c5",
			KeystoreRecord: "garbage",
		}, client, l)
		require.NoError(t, err)
		assert.Equal(t, testutil.FixtureAddress, signer.Address())
	})

	t.Run("Should require a client", func(t *testing.T) {
		_, err := NewTransactionSigner(&SignerConfig{KeystoreRecord: testutil.FixtureKeystoreRecord}, nil, l)
		assert.Error(t, err)
	})
}

func Test_SignTransaction(t *testing.T) {
	signer, node := setup(t, false)

	t.Run("Should produce the known signature", func(t *testing.T) {
		req, err := signer.SignTransaction(&types.UnsafeTransactionResult{TxBytes: testutil.FixtureTxBytes})
		require.NoError(t, err)
		assert.Equal(t, payload.MethodExecuteTransactionBlock, req.Method)
		require.Len(t, req.Params, 4)
		assert.Equal(t, testutil.FixtureTxBytes, req.Params[0])
		assert.Equal(t, []string{testutil.FixtureSignature}, req.Params[1])
		assert.Equal(t, payload.WaitForLocalExecution, req.Params[3])
	})

	t.Run("Should reject undecodable transaction bytes", func(t *testing.T) {
		_, err := signer.SignTransaction(&types.UnsafeTransactionResult{TxBytes: "!!not base64!!"})
		assert.ErrorIs(t, err, suiErrors.ErrDecodeFailure)
	})

	t.Run("Should reject empty transactions", func(t *testing.T) {
		_, err := signer.SignTransaction(nil)
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
		_, err = signer.SignTransaction(&types.UnsafeTransactionResult{})
		assert.ErrorIs(t, err, suiErrors.ErrEmptyInput)
	})

	assert.Empty(t, node.Calls())
}

func Test_SignAndExecute(t *testing.T) {
	ctx := context.Background()
	unsafe := &types.UnsafeTransactionResult{TxBytes: testutil.FixtureTxBytes}

	t.Run("Should submit and return the response", func(t *testing.T) {
		signer, node := setup(t, true)
		node.Result(payload.MethodExecuteTransactionBlock, testutil.ExecuteResult(testutil.FixtureDigest, "0xpkg"))

		resp, err := signer.SignAndExecute(ctx, unsafe)
		require.NoError(t, err)
		assert.Equal(t, testutil.FixtureDigest, resp.Digest)
		assert.Equal(t, []string{"0xpkg"}, resp.ImmutableObjectIDs())

		calls := node.Calls()
		require.Len(t, calls, 1)
		var sigs []string
		require.NoError(t, json.Unmarshal(calls[0].Params[1], &sigs))
		assert.Equal(t, []string{testutil.FixtureSignature}, sigs)
	})

	t.Run("Should fail when effects are required but missing", func(t *testing.T) {
		signer, node := setup(t, true)
		node.Result(payload.MethodExecuteTransactionBlock, testutil.ExecuteResultWithoutEffects(testutil.FixtureDigest))

		_, err := signer.SignAndExecute(ctx, unsafe)
		assert.ErrorIs(t, err, suiErrors.ErrMissingEffects)
	})

	t.Run("Should tolerate missing effects when not required", func(t *testing.T) {
		signer, node := setup(t, false)
		node.Result(payload.MethodExecuteTransactionBlock, testutil.ExecuteResultWithoutEffects(testutil.FixtureDigest))

		resp, err := signer.SignAndExecute(ctx, unsafe)
		require.NoError(t, err)
		assert.Nil(t, resp.Effects)
		assert.Empty(t, resp.ImmutableObjectIDs())
	})

	t.Run("Should surface rpc errors", func(t *testing.T) {
		signer, node := setup(t, false)
		node.Fail(payload.MethodExecuteTransactionBlock, -32002, "Transaction has non recoverable errors")

		_, err := signer.SignAndExecute(ctx, unsafe)
		assert.ErrorIs(t, err, suiErrors.ErrRpc)
	})
}
