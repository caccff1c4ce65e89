package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/sui-operator-go/pkg/persistence"
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixLease          = "lease:"
	keyPrefixExecution      = "execution:"
	keyPrefixOwnerExecution = "owner_execution:"
	keySchemaVersion        = "metadata:schema_version"
	currentSchemaVersion    = "v1"
)

// BadgerPersistence is a durable persistence implementation using Badger.
// Provides disk-based storage with ACID guarantees.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

var _ persistence.IHookPersistence = (*BadgerPersistence)(nil)

// NewBadgerPersistence creates a new Badger-backed persistence layer.
// The database is opened at the specified path with SyncWrites enabled for durability.
// A background goroutine is started for garbage collection.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic value log garbage collection in the background
func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// get copies the value stored at key, returning nil when it is absent
func (b *BadgerPersistence) get(key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	return data, err
}

// SaveLease persists the gas lease of state.Owner
func (b *BadgerPersistence) SaveLease(state *persistence.LeaseState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil LeaseState")
	}
	if state.Owner == "" {
		return fmt.Errorf("cannot save LeaseState without owner")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalLeaseState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal LeaseState: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyPrefixLease+state.Owner), data)
	})
}

// LoadLease retrieves the gas lease of owner
func (b *BadgerPersistence) LoadLease(owner string) (*persistence.LeaseState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := b.get(keyPrefixLease + owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load LeaseState: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	state, err := persistence.UnmarshalLeaseState(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal LeaseState: %w", err)
	}
	return state, nil
}

// DeleteLease removes the gas lease of owner
func (b *BadgerPersistence) DeleteLease(owner string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(keyPrefixLease + owner))
	})
}

// SaveExecution stores the record and indexes it under its owner
func (b *BadgerPersistence) SaveExecution(record *persistence.ExecutionRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil ExecutionRecord")
	}
	if record.ID == "" {
		return fmt.Errorf("cannot save ExecutionRecord without id")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalExecutionRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ExecutionRecord: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set([]byte(keyPrefixExecution+record.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(ownerExecutionKey(record.Owner, record.ID)), nil)
	})
}

// LoadExecution retrieves a record by id
func (b *BadgerPersistence) LoadExecution(id string) (*persistence.ExecutionRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := b.get(keyPrefixExecution + id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ExecutionRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	record, err := persistence.UnmarshalExecutionRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal ExecutionRecord: %w", err)
	}
	return record, nil
}

// ListExecutions returns the records of owner sorted by execution time
func (b *BadgerPersistence) ListExecutions(owner string) ([]*persistence.ExecutionRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	records := make([]*persistence.ExecutionRecord, 0)
	prefix := ownerExecutionKey(owner, "")

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id := strings.TrimPrefix(string(it.Item().Key()), prefix)

			item, err := txn.Get([]byte(keyPrefixExecution + id))
			if err == badgerdb.ErrKeyNotFound {
				b.logger.Sugar().Warnw("Dangling execution index entry, skipping", "owner", owner, "id", id)
				continue
			}
			if err != nil {
				return err
			}

			var data []byte
			if err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...)
				return nil
			}); err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			record, err := persistence.UnmarshalExecutionRecord(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal ExecutionRecord, skipping",
					"id", id, "error", err)
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ExecutionRecords: %w", err)
	}

	persistence.SortExecutions(records)
	return records, nil
}

// Close shuts down the persistence layer
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}

func ownerExecutionKey(owner, id string) string {
	return keyPrefixOwnerExecution + owner + ":" + id
}
