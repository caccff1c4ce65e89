// Package gas keeps a short lived lease on a single gas coin so repeated calls from one owner
// don't have to look a coin up every time.
package gas

import (
	"context"
	"fmt"
	"time"

	pkgLogger "github.com/Layr-Labs/sui-operator-go/pkg/logger"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
	"go.uber.org/zap"
)

const DefaultLeaseDuration = 5 * time.Minute

// CoinSource finds a coin able to pay for a transaction.
type CoinSource interface {
	GetAvailableGas(ctx context.Context, owner string, minimum uint64) (*types.Coin, error)
}

type ManagerConfig struct {
	// Budget is the minimum balance a coin must strictly exceed to be leased.
	Budget        uint64
	LeaseDuration time.Duration
	Now           func() time.Time
}

// Manager owns the gas lease of one address. It is not safe for concurrent use; callers that
// share a Manager must serialise access to it.
type Manager struct {
	source        CoinSource
	owner         string
	budget        uint64
	leaseDuration time.Duration
	now           func() time.Time
	lease         Lease
	logger        *zap.Logger
}

func NewManager(source CoinSource, owner string, cfg ManagerConfig, logger *zap.Logger) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("coin source cannot be nil")
	}
	if owner == "" {
		return nil, fmt.Errorf("owner cannot be empty")
	}
	if cfg.Budget == 0 {
		cfg.Budget = payload.DefaultGasBudget
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = DefaultLeaseDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger = pkgLogger.NewNopOrDefault(logger)

	return &Manager{
		source:        source,
		owner:         owner,
		budget:        cfg.Budget,
		leaseDuration: cfg.LeaseDuration,
		now:           cfg.Now,
		logger:        logger,
	}, nil
}

func (m *Manager) Owner() string {
	return m.owner
}

func (m *Manager) Budget() uint64 {
	return m.budget
}

func (m *Manager) Expired() bool {
	return m.lease.Expired(m.now())
}

// Lease returns a copy of the current lease.
func (m *Manager) Lease() Lease {
	return m.lease
}

// Ensure returns the leased coin, refreshing the lease first when it has expired. A failed
// refresh leaves the lease empty and is returned to the caller as is.
func (m *Manager) Ensure(ctx context.Context) (string, error) {
	now := m.now()
	if !m.lease.Expired(now) {
		return m.lease.CoinObjectID, nil
	}

	m.lease = Lease{}
	coin, err := m.source.GetAvailableGas(ctx, m.owner, m.budget)
	if err != nil {
		m.logger.Sugar().Errorw("Failed to refresh gas lease",
			"owner", m.owner,
			"budget", m.budget,
			"error", err,
		)
		return "", fmt.Errorf("failed to refresh gas lease: %w", err)
	}

	m.lease = Lease{
		CoinObjectID: coin.CoinObjectID,
		ExpiresAt:    now.Add(m.leaseDuration),
	}
	m.logger.Sugar().Infow("Refreshed gas lease",
		"owner", m.owner,
		"coin", coin.CoinObjectID,
		"balance", coin.Balance,
		"expiresAt", m.lease.ExpiresAt,
	)
	return m.lease.CoinObjectID, nil
}

// Invalidate drops the lease so the next Ensure looks up a fresh coin.
func (m *Manager) Invalidate() {
	m.lease = Lease{}
}

// Restore seeds the manager with a previously saved lease. An expired lease is kept but is
// still refreshed before use.
func (m *Manager) Restore(l Lease) {
	m.lease = l
}
