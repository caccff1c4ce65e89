package persistence

// IHookPersistence persists hook operator state across restarts.
// All implementations must be thread-safe; several callers may share one store.
//
// The interface supports:
// - Gas lease tracking per owner address (save, load, delete)
// - An append-only log of executed hook calls
// - Lifecycle management (close, health check)
type IHookPersistence interface {
	// Gas Lease Management

	// SaveLease stores the current gas lease of state.Owner.
	// Overwrites any existing lease for that owner.
	SaveLease(state *LeaseState) error

	// LoadLease retrieves the lease saved for owner.
	// Returns nil if none exists, error only on storage failure.
	// The returned lease may already be expired; callers must check before using it.
	LoadLease(owner string) (*LeaseState, error)

	// DeleteLease removes the lease of owner.
	// Idempotent - returns nil if no lease exists.
	DeleteLease(owner string) error

	// Execution Log

	// SaveExecution appends a record of an executed call.
	// Records are keyed by ID; saving the same ID twice overwrites the first record.
	SaveExecution(record *ExecutionRecord) error

	// LoadExecution retrieves a record by ID.
	// Returns nil if it doesn't exist, error only on storage failure.
	LoadExecution(id string) (*ExecutionRecord, error)

	// ListExecutions returns every record of owner sorted by ExecutedAt (ascending).
	// Returns empty slice if none exist, error only on storage failure.
	ListExecutions(owner string) ([]*ExecutionRecord, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	// Returns nil if healthy, error describing the problem if not.
	HealthCheck() error
}
