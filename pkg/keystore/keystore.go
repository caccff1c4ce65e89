package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Layr-Labs/sui-operator-go/pkg/account"
	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/pkg/errors"
)

// DefaultPath returns the Sui CLI keystore location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".sui", "sui_config", "sui.keystore"), nil
}

// KeyStore is the Sui CLI keystore: a JSON array of base64 keystore records.
type KeyStore struct {
	mu sync.RWMutex

	records []string
}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		records: make([]string, 0),
	}
}

// Load reads the keystore file at path. Records are validated lazily by LoadAccount.
func Load(path string) (*KeyStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keystore %s", path)
	}

	var records []string
	if err := jsonrpc.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "failed to parse keystore %s", path)
	}
	if records == nil {
		records = make([]string, 0)
	}
	return &KeyStore{records: records}, nil
}

func (ks *KeyStore) Len() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return len(ks.records)
}

// Record returns the raw keystore record at index i.
func (ks *KeyStore) Record(i int) (string, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if i < 0 || i >= len(ks.records) {
		return "", fmt.Errorf("keystore index %d out of range, keystore holds %d keys", i, len(ks.records))
	}
	return ks.records[i], nil
}

// LoadAccount decodes the record at index i.
func (ks *KeyStore) LoadAccount(i int) (*account.Account, error) {
	record, err := ks.Record(i)
	if err != nil {
		return nil, err
	}
	acct, err := account.FromKeystoreRecord(record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode keystore record %d", i)
	}
	return acct, nil
}

// Accounts decodes every record. The first bad record aborts the whole load.
func (ks *KeyStore) Accounts() ([]*account.Account, error) {
	ks.mu.RLock()
	records := append([]string{}, ks.records...)
	ks.mu.RUnlock()

	accounts := make([]*account.Account, 0, len(records))
	for i, record := range records {
		acct, err := account.FromKeystoreRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode keystore record %d", i)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// Add appends acct and returns its index. Adding an account twice is a no-op.
func (ks *KeyStore) Add(acct *account.Account) (int, error) {
	if acct == nil {
		return 0, fmt.Errorf("account cannot be nil")
	}
	record := acct.KeystoreRecord()

	ks.mu.Lock()
	defer ks.mu.Unlock()

	for i, r := range ks.records {
		if r == record {
			return i, nil
		}
	}
	ks.records = append(ks.records, record)
	return len(ks.records) - 1, nil
}

// Save writes the keystore to path with owner-only permissions, creating parent directories.
func (ks *KeyStore) Save(path string) error {
	ks.mu.RLock()
	data, err := jsonrpc.Marshal(ks.records)
	ks.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "failed to encode keystore")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrapf(err, "failed to create keystore directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write keystore %s", path)
	}
	return nil
}
