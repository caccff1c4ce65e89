package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/sui-operator-go/pkg/account"
	"github.com/Layr-Labs/sui-operator-go/pkg/clients/suiClient"
	"github.com/Layr-Labs/sui-operator-go/pkg/config"
	"github.com/Layr-Labs/sui-operator-go/pkg/hook"
	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/keystore"
	"github.com/Layr-Labs/sui-operator-go/pkg/logger"
	"github.com/Layr-Labs/sui-operator-go/pkg/persistence"
	"github.com/Layr-Labs/sui-operator-go/pkg/persistence/badger"
	"github.com/Layr-Labs/sui-operator-go/pkg/persistence/memory"
	"github.com/Layr-Labs/sui-operator-go/pkg/persistence/redis"
	"github.com/Layr-Labs/sui-operator-go/pkg/transactionSigner"
)

// env bundles what every command needs. account is nil for commands that don't sign.
type env struct {
	cfg     *config.OperatorConfig
	logger  *zap.Logger
	client  *suiClient.Client
	account *account.Account
}

func parseOperatorConfig(c *cli.Context) (*config.OperatorConfig, error) {
	cfg := config.NewOperatorConfig()
	cfg.Network = c.String("network")
	cfg.KeystorePath = c.String("keystore")
	cfg.AccountIndex = c.Int("account-index")
	cfg.SecretKey = c.String("secret-key")
	cfg.GasBudget = c.Uint64("gas-budget")
	cfg.LeaseDuration = c.Duration("lease-duration")
	cfg.RequestTimeout = c.Duration("timeout")
	cfg.Debug = c.Bool("verbose")
	cfg.LogFile = c.String("log-file")

	if c.IsSet("rate") {
		cfg.HookRate = c.Float64("rate")
	}
	if c.IsSet("persistence") {
		pt, err := config.ParsePersistenceType(c.String("persistence"))
		if err != nil {
			return nil, err
		}
		cfg.Persistence.Type = pt
	}
	cfg.Persistence.BadgerPath = c.String("badger-path")
	cfg.Persistence.RedisAddress = c.String("redis-address")
	cfg.Persistence.RedisPassword = c.String("redis-password")
	cfg.Persistence.RedisDB = c.Int("redis-db")

	if cfg.SecretKey == "" && cfg.KeystorePath == "" {
		path, err := keystore.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.KeystorePath = path
	}
	return cfg, nil
}

func setup(c *cli.Context, needsAccount bool) (*env, error) {
	cfg, err := parseOperatorConfig(c)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{
		Debug:   cfg.Debug,
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	n, err := cfg.ResolveNetwork()
	if err != nil {
		return nil, err
	}
	client, err := suiClient.NewClient(&suiClient.ClientConfig{
		Network: n,
		Timeout: cfg.RequestTimeout,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create sui client: %w", err)
	}
	l.Sugar().Debugw("Using network", "network", n.String())

	e := &env{cfg: cfg, logger: l, client: client}
	if needsAccount {
		if e.account, err = loadAccount(cfg); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func loadAccount(cfg *config.OperatorConfig) (*account.Account, error) {
	if cfg.SecretKey != "" {
		return account.FromHexSecret(cfg.SecretKey)
	}
	ks, err := keystore.Load(cfg.KeystorePath)
	if err != nil {
		return nil, err
	}
	return ks.LoadAccount(cfg.AccountIndex)
}

func (e *env) signer() (transactionSigner.ITransactionSigner, error) {
	return transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{
		KeystoreRecord: e.account.KeystoreRecord(),
	}, e.client, e.logger)
}

func (e *env) caller(target hook.Target, store persistence.IHookPersistence) (*hook.Caller, error) {
	signer, err := e.signer()
	if err != nil {
		return nil, err
	}
	return hook.NewCaller(&hook.CallerConfig{
		Target:        target,
		GasBudget:     e.cfg.GasBudget,
		LeaseDuration: e.cfg.LeaseDuration,
	}, e.client, signer, store, e.logger)
}

func newPersistence(cfg *config.PersistenceConfig, l *zap.Logger) (persistence.IHookPersistence, error) {
	switch cfg.Type {
	case config.PersistenceType_Badger:
		return badger.NewBadgerPersistence(cfg.BadgerPath, l)
	case config.PersistenceType_Redis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, l)
	case config.PersistenceType_Memory, "":
		return memory.NewMemoryPersistence(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type %q", cfg.Type)
	}
}

// parseArgs passes JSON literals through and treats everything else as a plain string, so
// object ids and numbers both work without quoting.
func parseArgs(values []string) []interface{} {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		var decoded interface{}
		if err := jsonrpc.UnmarshalNumbers([]byte(v), &decoded); err == nil {
			args = append(args, decoded)
			continue
		}
		args = append(args, v)
	}
	return args
}
