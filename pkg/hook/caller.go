// Package hook drives repeated Move calls from a single account, reusing one leased gas coin
// between calls.
package hook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/sui-operator-go/pkg/clients/suiClient"
	"github.com/Layr-Labs/sui-operator-go/pkg/gas"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"github.com/Layr-Labs/sui-operator-go/pkg/persistence"
	"github.com/Layr-Labs/sui-operator-go/pkg/transactionSigner"
	"github.com/Layr-Labs/sui-operator-go/pkg/types"
	"go.uber.org/zap"
)

type CallerConfig struct {
	// Target may be left empty when the caller is only used to publish.
	Target        Target
	GasBudget     uint64
	LeaseDuration time.Duration
	Now           func() time.Time
}

// CallResult is what a hook call surfaces to its owner.
type CallResult struct {
	Digest           string
	ImmutableObjects []string
	Effects          *types.TransactionEffects
	GasCoin          string
}

type PublishResult struct {
	Digest           string
	PackageID        string
	ImmutableObjects []string
	GasCoin          string
}

// Caller executes Move calls on behalf of the signer's address. Calls are serialised so the
// gas lease has a single owner at any time.
type Caller struct {
	mu sync.Mutex

	target Target
	owner  string
	client suiClient.ISuiClient
	signer transactionSigner.ITransactionSigner
	gas    *gas.Manager
	store  persistence.IHookPersistence
	now    func() time.Time
	logger *zap.Logger
}

// NewCaller wires a caller. store is optional; when set the lease is restored from it and
// every successful call is recorded.
func NewCaller(
	cfg *CallerConfig,
	client suiClient.ISuiClient,
	signer transactionSigner.ITransactionSigner,
	store persistence.IHookPersistence,
	logger *zap.Logger,
) (*Caller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("caller config cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("sui client cannot be nil")
	}
	if signer == nil {
		return nil, fmt.Errorf("transaction signer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if !cfg.Target.IsZero() {
		if err := cfg.Target.Validate(); err != nil {
			return nil, err
		}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	owner := signer.Address()
	manager, err := gas.NewManager(client, owner, gas.ManagerConfig{
		Budget:        cfg.GasBudget,
		LeaseDuration: cfg.LeaseDuration,
		Now:           now,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gas manager: %w", err)
	}

	c := &Caller{
		target: cfg.Target,
		owner:  owner,
		client: client,
		signer: signer,
		gas:    manager,
		store:  store,
		now:    now,
		logger: logger,
	}
	if err := c.restoreLease(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Caller) restoreLease() error {
	if c.store == nil {
		return nil
	}
	state, err := c.store.LoadLease(c.owner)
	if err != nil {
		return fmt.Errorf("failed to load gas lease: %w", err)
	}
	if state == nil {
		return nil
	}
	c.gas.Restore(gas.Lease{CoinObjectID: state.CoinObjectID, ExpiresAt: state.ExpiresAt})
	c.logger.Sugar().Infow("Restored gas lease",
		"owner", c.owner,
		"coin", state.CoinObjectID,
		"expiresAt", state.ExpiresAt,
		"expired", state.IsExpired(c.now()),
	)
	return nil
}

func (c *Caller) Owner() string {
	return c.owner
}

func (c *Caller) Target() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// SetTarget points subsequent calls at a different function, e.g. one from a package that was
// just published.
func (c *Caller) SetTarget(t Target) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	return nil
}

// Lease returns a copy of the current gas lease.
func (c *Caller) Lease() gas.Lease {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gas.Lease()
}

// InvalidateLease drops the current gas lease so the next call looks up a fresh coin.
func (c *Caller) InvalidateLease() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gas.Invalidate()
	c.logger.Sugar().Infow("Dropped gas lease", "owner", c.owner)
}

// Call executes the target once. Every failure is returned as is; nothing is retried.
func (c *Caller) Call(ctx context.Context, typeArgs []string, args []interface{}) (*CallResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.target.Validate(); err != nil {
		return nil, err
	}

	coin, err := c.gas.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	unsafe, err := c.client.UnsafeMoveCall(ctx, &suiClient.MoveCall{
		Owner:         c.owner,
		PackageID:     c.target.Package,
		Module:        c.target.Module,
		Function:      c.target.Function,
		TypeArguments: typeArgs,
		Arguments:     args,
		GasObject:     coin,
		GasBudget:     c.gas.Budget(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build move call %s: %w", c.target, err)
	}

	resp, err := c.signer.SignAndExecute(ctx, unsafe)
	if err != nil {
		return nil, fmt.Errorf("failed to execute move call %s: %w", c.target, err)
	}

	result := &CallResult{
		Digest:           resp.Digest,
		ImmutableObjects: resp.ImmutableObjectIDs(),
		Effects:          resp.Effects,
		GasCoin:          coin,
	}
	c.logger.Sugar().Infow("Executed hook call",
		"target", c.target.String(),
		"digest", result.Digest,
		"gasCoin", coin,
	)

	c.record(resp, coin, c.target)
	return result, nil
}

// Publish publishes compiled modules paid for with the leased coin and returns the new
// package id.
func (c *Caller) Publish(ctx context.Context, compiled *payload.CompiledModules) (*PublishResult, error) {
	if compiled == nil || len(compiled.Modules) == 0 {
		return nil, fmt.Errorf("no compiled modules to publish")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	coin, err := c.gas.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	unsafe, err := c.client.UnsafePublish(ctx, c.owner, compiled, coin, c.gas.Budget())
	if err != nil {
		return nil, fmt.Errorf("failed to build publish transaction: %w", err)
	}
	resp, err := c.signer.SignAndExecute(ctx, unsafe)
	if err != nil {
		return nil, fmt.Errorf("failed to execute publish transaction: %w", err)
	}

	immutables := resp.ImmutableObjectIDs()
	packageID := ""
	if len(immutables) > 0 {
		packageID = immutables[0]
	} else if id, ok := resp.PublishedPackageID(); ok {
		packageID = id
	}
	if packageID == "" {
		return nil, fmt.Errorf("publish transaction %s did not create a package", resp.Digest)
	}

	c.logger.Sugar().Infow("Published package",
		"packageId", packageID,
		"digest", resp.Digest,
	)
	c.record(resp, coin, Target{Package: packageID})

	return &PublishResult{
		Digest:           resp.Digest,
		PackageID:        packageID,
		ImmutableObjects: immutables,
		GasCoin:          coin,
	}, nil
}

// History lists the recorded executions of this caller's owner.
func (c *Caller) History() ([]*persistence.ExecutionRecord, error) {
	if c.store == nil {
		return []*persistence.ExecutionRecord{}, nil
	}
	return c.store.ListExecutions(c.owner)
}

// record persists the lease and the execution. The transaction has already landed, so storage
// errors are logged rather than returned.
func (c *Caller) record(resp *types.TransactionBlockResponse, coin string, target Target) {
	if c.store == nil {
		return
	}
	now := c.now()
	lease := c.gas.Lease()

	if err := c.store.SaveLease(&persistence.LeaseState{
		Owner:        c.owner,
		CoinObjectID: lease.CoinObjectID,
		ExpiresAt:    lease.ExpiresAt,
		UpdatedAt:    now,
	}); err != nil {
		c.logger.Sugar().Warnw("Failed to persist gas lease", "owner", c.owner, "error", err)
	}

	rec := persistence.NewExecutionRecord(c.owner, resp.Digest, now)
	rec.Package = target.Package
	rec.Module = target.Module
	rec.Function = target.Function
	rec.GasCoin = coin
	rec.ImmutableObjects = resp.ImmutableObjectIDs()
	if resp.Effects != nil {
		rec.Status = resp.Effects.Status.Status
	}
	if err := c.store.SaveExecution(rec); err != nil {
		c.logger.Sugar().Warnw("Failed to persist execution record", "digest", resp.Digest, "error", err)
	}
}
