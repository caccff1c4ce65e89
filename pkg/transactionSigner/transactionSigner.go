package transactionSigner

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/sui-operator-go/pkg/account"
	"github.com/Layr-Labs/sui-operator-go/pkg/clients/suiClient"
	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
	"go.uber.org/zap"
)

// ITransactionSigner signs unsigned transactions produced by the unsafe_* gateway methods
type ITransactionSigner interface {
	// Address returns the Sui address whose key signs every transaction
	Address() string

	// SignTransaction signs the transaction bytes and returns the execute request, ready to send
	SignTransaction(unsafe *types.UnsafeTransactionResult) (*jsonrpc.Request, error)

	// SignAndExecute signs the transaction, submits it and waits for local execution
	SignAndExecute(ctx context.Context, unsafe *types.UnsafeTransactionResult) (*types.TransactionBlockResponse, error)
}

type SignerConfig struct {
	// PrivateKey is a hex encoded ed25519 seed
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
	// KeystoreRecord is a base64 record from a Sui CLI keystore, used when PrivateKey is empty
	KeystoreRecord string `json:"keystoreRecord" yaml:"keystoreRecord"`
	// RequireEffects rejects execution responses without an effects section
	RequireEffects bool `json:"requireEffects" yaml:"requireEffects"`
}

func NewTransactionSigner(cfg *SignerConfig, client suiClient.ISuiClient, logger *zap.Logger) (ITransactionSigner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("signer config cannot be nil")
	}

	var acct *account.Account
	var err error
	switch {
	case cfg.PrivateKey != "":
		acct, err = account.FromHexSecret(cfg.PrivateKey)
	case cfg.KeystoreRecord != "":
		acct, err = account.FromKeystoreRecord(cfg.KeystoreRecord)
	default:
		return nil, fmt.Errorf("private key cannot be empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := NewPrivateKeySigner(acct, client, cfg.RequireEffects, logger)
	if err != nil {
		return nil, err
	}
	return signer, nil
}
