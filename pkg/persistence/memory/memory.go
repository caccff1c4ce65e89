package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/sui-operator-go/pkg/persistence"
)

// MemoryPersistence is an in-memory implementation of IHookPersistence.
// This implementation is intended for TESTING and one-shot runs.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Copies data in and out to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Gas leases: owner -> LeaseState
	leases map[string]*persistence.LeaseState

	// Execution log: id -> ExecutionRecord
	executions map[string]*persistence.ExecutionRecord

	// Closed flag
	closed bool
}

var _ persistence.IHookPersistence = (*MemoryPersistence)(nil)

// NewMemoryPersistence creates a new in-memory persistence layer.
// Prints a loud warning since leases and history do not survive a restart.
func NewMemoryPersistence() *MemoryPersistence {
	fmt.Println("⚠️  WARNING: Using in-memory persistence - ALL DATA WILL BE LOST ON RESTART")
	fmt.Println("⚠️  Set SUI_PERSISTENCE_TYPE=badger to keep gas leases and execution history")

	return &MemoryPersistence{
		leases:     make(map[string]*persistence.LeaseState),
		executions: make(map[string]*persistence.ExecutionRecord),
	}
}

// SaveLease stores the lease of state.Owner.
func (m *MemoryPersistence) SaveLease(state *persistence.LeaseState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil LeaseState")
	}
	if state.Owner == "" {
		return fmt.Errorf("cannot save LeaseState without owner")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	leaseCopy := *state
	m.leases[state.Owner] = &leaseCopy
	return nil
}

// LoadLease retrieves the lease of owner.
func (m *MemoryPersistence) LoadLease(owner string) (*persistence.LeaseState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	lease, exists := m.leases[owner]
	if !exists {
		return nil, nil // Not found is not an error
	}

	leaseCopy := *lease
	return &leaseCopy, nil
}

// DeleteLease removes the lease of owner.
func (m *MemoryPersistence) DeleteLease(owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	delete(m.leases, owner)
	return nil
}

// SaveExecution appends an execution record.
func (m *MemoryPersistence) SaveExecution(record *persistence.ExecutionRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil ExecutionRecord")
	}
	if record.ID == "" {
		return fmt.Errorf("cannot save ExecutionRecord without id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.executions[record.ID] = copyExecutionRecord(record)
	return nil
}

// LoadExecution retrieves an execution record by id.
func (m *MemoryPersistence) LoadExecution(id string) (*persistence.ExecutionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	record, exists := m.executions[id]
	if !exists {
		return nil, nil
	}
	return copyExecutionRecord(record), nil
}

// ListExecutions returns the records of owner sorted by execution time.
func (m *MemoryPersistence) ListExecutions(owner string) ([]*persistence.ExecutionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	result := make([]*persistence.ExecutionRecord, 0)
	for _, record := range m.executions {
		if record.Owner == owner {
			result = append(result, copyExecutionRecord(record))
		}
	}
	persistence.SortExecutions(result)

	return result, nil
}

// Close marks the persistence layer as closed.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck reports whether the store is still open.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}
	return nil
}

func copyExecutionRecord(r *persistence.ExecutionRecord) *persistence.ExecutionRecord {
	recordCopy := *r
	recordCopy.ImmutableObjects = make([]string, len(r.ImmutableObjects))
	copy(recordCopy.ImmutableObjects, r.ImmutableObjects)
	return &recordCopy
}
