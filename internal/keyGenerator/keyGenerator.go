package keyGenerator

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/Layr-Labs/sui-operator-go/pkg/intent"
	"github.com/Layr-Labs/sui-operator-go/pkg/signature"
)

type GeneratedKey struct {
	PublicKey ed25519.PublicKey
	Address   string
	KeyId     string
	// KeystoreRecord is only populated by generators that hold the secret locally.
	KeystoreRecord string
}

func (gk *GeneratedKey) GetPublicKeyBytes() ([]byte, error) {
	if len(gk.PublicKey) == 0 {
		return nil, fmt.Errorf("public key is nil")
	}
	return append([]byte{}, gk.PublicKey...), nil
}

type IKeyGenerator interface {
	GenerateKey(ctx context.Context, keyName string) (*GeneratedKey, error)
	GetKeyById(ctx context.Context, keyId string) (*GeneratedKey, error)
	SignMessage(ctx context.Context, keyId string, scope intent.Scope, message []byte) (*signature.Envelope, error)
}
