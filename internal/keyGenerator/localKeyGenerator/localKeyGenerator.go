package localKeyGenerator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Layr-Labs/sui-operator-go/internal/keyGenerator"
	"github.com/Layr-Labs/sui-operator-go/pkg/account"
	"github.com/Layr-Labs/sui-operator-go/pkg/intent"
	"github.com/Layr-Labs/sui-operator-go/pkg/signature"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type keyEntry struct {
	account *account.Account
	keyName string
	order   int
}

// LocalKeyGenerator mints ed25519 accounts and keeps them in memory.
type LocalKeyGenerator struct {
	logger   *zap.Logger
	keyStore map[string]*keyEntry // keyId -> keyEntry
	next     int
	mu       sync.RWMutex
}

var _ keyGenerator.IKeyGenerator = (*LocalKeyGenerator)(nil)

func NewLocalKeyGenerator(logger *zap.Logger) *LocalKeyGenerator {
	return &LocalKeyGenerator{
		logger:   logger,
		keyStore: make(map[string]*keyEntry),
	}
}

func (l *LocalKeyGenerator) GenerateKey(ctx context.Context, keyName string) (*keyGenerator.GeneratedKey, error) {
	acct, err := account.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ed25519 key")
	}

	keyId := fmt.Sprintf("local-key-%s", uuid.New().String())
	l.store(keyId, acct, keyName)

	l.logger.Info("Generated local ed25519 key",
		zap.String("keyName", keyName),
		zap.String("keyId", keyId),
		zap.String("address", acct.Address()),
	)
	return toGeneratedKey(keyId, acct), nil
}

func (l *LocalKeyGenerator) GetKeyById(ctx context.Context, keyId string) (*keyGenerator.GeneratedKey, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key with ID %s not found", keyId)
	}
	return toGeneratedKey(keyId, entry.account), nil
}

func (l *LocalKeyGenerator) SignMessage(ctx context.Context, keyId string, scope intent.Scope, message []byte) (*signature.Envelope, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key with ID %s not found", keyId)
	}

	env, err := entry.account.SignMessage(scope, message)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign message with key %s", keyId)
	}

	l.logger.Debug("Signed message with ed25519 key",
		zap.String("keyId", keyId),
		zap.String("scope", scope.String()),
		zap.Int("messageLen", len(message)),
	)
	return env, nil
}

// LoadAccount registers an existing account under keyId.
func (l *LocalKeyGenerator) LoadAccount(keyId string, acct *account.Account, keyName string) error {
	if acct == nil {
		return fmt.Errorf("account cannot be nil")
	}

	l.mu.RLock()
	_, exists := l.keyStore[keyId]
	l.mu.RUnlock()
	if exists {
		return fmt.Errorf("key with ID %s already exists", keyId)
	}

	l.store(keyId, acct, keyName)
	return nil
}

// Accounts returns every generated account in generation order.
func (l *LocalKeyGenerator) Accounts() []*account.Account {
	l.mu.RLock()
	entries := make([]*keyEntry, 0, len(l.keyStore))
	for _, e := range l.keyStore {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })
	out := make([]*account.Account, len(entries))
	for i, e := range entries {
		out[i] = e.account
	}
	return out
}

func (l *LocalKeyGenerator) GetKeyCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.keyStore)
}

func (l *LocalKeyGenerator) KeyExists(keyId string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.keyStore[keyId]
	return exists
}

func (l *LocalKeyGenerator) store(keyId string, acct *account.Account, keyName string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keyStore[keyId] = &keyEntry{account: acct, keyName: keyName, order: l.next}
	l.next++
}

func toGeneratedKey(keyId string, acct *account.Account) *keyGenerator.GeneratedKey {
	return &keyGenerator.GeneratedKey{
		PublicKey:      acct.PublicKey(),
		Address:        acct.Address(),
		KeyId:          keyId,
		KeystoreRecord: acct.KeystoreRecord(),
	}
}
