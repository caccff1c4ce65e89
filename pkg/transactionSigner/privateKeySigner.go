package transactionSigner

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/sui-operator-go/pkg/account"
	"github.com/Layr-Labs/sui-operator-go/pkg/clients/suiClient"
	"github.com/Layr-Labs/sui-operator-go/pkg/intent"
	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	pkgLogger "github.com/Layr-Labs/sui-operator-go/pkg/logger"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/signature"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
	"go.uber.org/zap"
)

// PrivateKeySigner signs with an in-process ed25519 account
type PrivateKeySigner struct {
	account        *account.Account
	client         suiClient.ISuiClient
	requireEffects bool
	logger         *zap.Logger
}

var _ ITransactionSigner = (*PrivateKeySigner)(nil)

func NewPrivateKeySigner(acct *account.Account, client suiClient.ISuiClient, requireEffects bool, logger *zap.Logger) (*PrivateKeySigner, error) {
	if acct == nil {
		return nil, fmt.Errorf("account cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("sui client cannot be nil")
	}
	logger = pkgLogger.NewNopOrDefault(logger)
	return &PrivateKeySigner{
		account:        acct,
		client:         client,
		requireEffects: requireEffects,
		logger:         logger,
	}, nil
}

func (s *PrivateKeySigner) Address() string {
	return s.account.Address()
}

func (s *PrivateKeySigner) SignTransaction(unsafe *types.UnsafeTransactionResult) (*jsonrpc.Request, error) {
	if unsafe == nil {
		return nil, suiErrors.EmptyInput("unsigned transaction")
	}
	txBytes, err := unsafe.Bytes()
	if err != nil {
		return nil, err
	}

	env, err := s.account.SignMessage(intent.ScopeTransactionData, txBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if !signature.Verify(env, intent.ScopeTransactionData, txBytes) {
		return nil, fmt.Errorf("signature does not verify against %s", s.account.Address())
	}

	return payload.ExecuteTransactionBlock(unsafe.TxBytes, []string{env.Base64()}, nil), nil
}

func (s *PrivateKeySigner) SignAndExecute(ctx context.Context, unsafe *types.UnsafeTransactionResult) (*types.TransactionBlockResponse, error) {
	req, err := s.SignTransaction(unsafe)
	if err != nil {
		return nil, err
	}

	resp, err := suiClient.SendAndDecode[*types.TransactionBlockResponse](ctx, s.client, req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute transaction: %w", err)
	}
	if resp == nil {
		return nil, suiErrors.DecodeFailure("execute response has no result")
	}
	if resp.Effects == nil {
		if s.requireEffects {
			return nil, fmt.Errorf("%w: transaction %s", suiErrors.ErrMissingEffects, resp.Digest)
		}
		s.logger.Sugar().Warnw("Execution response has no effects", "digest", resp.Digest)
		return resp, nil
	}

	if !resp.Effects.Succeeded() {
		s.logger.Sugar().Warnw("Transaction executed with failure status",
			"digest", resp.Digest,
			"status", resp.Effects.Status.Status,
			"error", resp.Effects.Status.Error,
		)
	} else {
		s.logger.Sugar().Infow("Transaction executed",
			"digest", resp.Digest,
			"sender", s.account.Address(),
		)
	}
	return resp, nil
}
