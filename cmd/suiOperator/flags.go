package main

import (
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/sui-operator-go/pkg/config"
	"github.com/Layr-Labs/sui-operator-go/pkg/network"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "network",
		Aliases: []string{"n"},
		Usage:   "mainnet, testnet, devnet, localnet or a gateway URL",
		EnvVars: []string{config.EnvSuiNetwork, network.EnvNetwork},
	},
	&cli.StringFlag{
		Name:    "keystore",
		Usage:   "Path to the Sui CLI keystore (default: ~/.sui/sui_config/sui.keystore)",
		EnvVars: []string{config.EnvSuiKeystorePath},
	},
	&cli.IntFlag{
		Name:    "account-index",
		Usage:   "Index of the keystore entry to sign with",
		EnvVars: []string{config.EnvSuiAccountIndex},
	},
	&cli.StringFlag{
		Name:    "secret-key",
		Usage:   "Hex ed25519 seed, takes precedence over the keystore",
		EnvVars: []string{config.EnvSuiSecretKey},
	},
	&cli.Uint64Flag{
		Name:    "gas-budget",
		Usage:   "Gas budget in MIST for every transaction",
		Value:   payload.DefaultGasBudget,
		EnvVars: []string{config.EnvSuiGasBudget},
	},
	&cli.DurationFlag{
		Name:    "lease-duration",
		Usage:   "How long a leased gas coin is reused before it is looked up again",
		Value:   config.DefaultLeaseDuration,
		EnvVars: []string{config.EnvSuiLeaseDuration},
	},
	&cli.DurationFlag{
		Name:    "timeout",
		Usage:   "HTTP request timeout",
		Value:   config.DefaultRequestTimeout,
		EnvVars: []string{config.EnvSuiRequestTimeout},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{config.EnvSuiDebug},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Also write logs to this file, rotated by size",
		EnvVars: []string{config.EnvSuiLogFile},
	},
}

var hookFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "target",
		Usage:    "Function to call as package::module::function",
		Required: true,
	},
	&cli.IntFlag{
		Name:  "count",
		Usage: "Number of calls, 0 to run until interrupted",
		Value: 1,
	},
	&cli.Float64Flag{
		Name:    "rate",
		Usage:   "Maximum calls per second",
		Value:   config.DefaultHookRate,
		EnvVars: []string{config.EnvSuiHookRate},
	},
	&cli.StringSliceFlag{
		Name:  "type-arg",
		Usage: "Move type argument, repeatable",
	},
	&cli.StringSliceFlag{
		Name:  "arg",
		Usage: "Move call argument, repeatable. JSON values are passed through, anything else as a string",
	},
	&cli.StringFlag{
		Name:    "persistence",
		Usage:   "Where leases and execution history are kept: memory, badger or redis",
		Value:   string(config.PersistenceType_Memory),
		EnvVars: []string{config.EnvSuiPersistenceType},
	},
	&cli.StringFlag{
		Name:    "badger-path",
		Usage:   "Data directory for badger persistence",
		EnvVars: []string{config.EnvSuiBadgerPath},
	},
	&cli.StringFlag{
		Name:    "redis-address",
		Usage:   "Redis host:port for redis persistence",
		EnvVars: []string{config.EnvSuiRedisAddress},
	},
	&cli.StringFlag{
		Name:    "redis-password",
		Usage:   "Redis password",
		EnvVars: []string{config.EnvSuiRedisPassword},
	},
	&cli.IntFlag{
		Name:    "redis-db",
		Usage:   "Redis database number",
		EnvVars: []string{config.EnvSuiRedisDB},
	},
	&cli.BoolFlag{
		Name:  "fresh-lease",
		Usage: "Ignore a saved gas lease and look up a new coin before the first call",
	},
	&cli.BoolFlag{
		Name:  "history",
		Usage: "Print the recorded executions of the account after running",
	},
}
