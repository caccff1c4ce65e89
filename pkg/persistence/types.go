package persistence

import (
	"time"

	"github.com/google/uuid"
)

// LeaseState is the persisted form of an owner's gas lease.
type LeaseState struct {
	// Owner is the Sui address paying for gas. It is the primary key.
	Owner string `json:"owner"`

	// CoinObjectID is the leased gas coin.
	CoinObjectID string `json:"coinObjectId"`

	// ExpiresAt is the instant from which the coin may no longer be used.
	ExpiresAt time.Time `json:"expiresAt"`

	// UpdatedAt is when the lease was last written.
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsExpired mirrors the in-memory lease rule: a lease is dead from ExpiresAt onwards.
func (ls *LeaseState) IsExpired(now time.Time) bool {
	if ls == nil || ls.CoinObjectID == "" {
		return true
	}
	return !now.Before(ls.ExpiresAt)
}

// ExecutionRecord captures one executed hook call.
type ExecutionRecord struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Digest   string `json:"digest"`
	Package  string `json:"package"`
	Module   string `json:"module"`
	Function string `json:"function"`
	GasCoin  string `json:"gasCoin"`

	// Status is the effects status reported by the fullnode, empty when effects were absent.
	Status string `json:"status"`

	// ImmutableObjects are the ids of created objects nobody owns.
	ImmutableObjects []string `json:"immutableObjects"`

	ExecutedAt time.Time `json:"executedAt"`
}

// NewExecutionRecord creates a record with a fresh random ID.
func NewExecutionRecord(owner, digest string, executedAt time.Time) *ExecutionRecord {
	return &ExecutionRecord{
		ID:               uuid.New().String(),
		Owner:            owner,
		Digest:           digest,
		ImmutableObjects: []string{},
		ExecutedAt:       executedAt,
	}
}
