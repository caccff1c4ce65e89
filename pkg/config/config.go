package config

import (
	"fmt"
	"time"

	"github.com/Layr-Labs/sui-operator-go/pkg/network"
	"github.com/Layr-Labs/sui-operator-go/pkg/payload"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the operator
const (
	EnvSuiNetwork         = "SUI_NETWORK"
	EnvSuiKeystorePath    = "SUI_KEYSTORE_PATH"
	EnvSuiAccountIndex    = "SUI_ACCOUNT_INDEX"
	EnvSuiSecretKey       = "SUI_SECRET_KEY"
	EnvSuiGasBudget       = "SUI_GAS_BUDGET"
	EnvSuiLeaseDuration   = "SUI_LEASE_DURATION"
	EnvSuiRequestTimeout  = "SUI_REQUEST_TIMEOUT"
	EnvSuiHookRate        = "SUI_HOOK_RATE"
	EnvSuiDebug           = "SUI_DEBUG"
	EnvSuiLogFile         = "SUI_LOG_FILE"
	EnvSuiPersistenceType = "SUI_PERSISTENCE_TYPE"
	EnvSuiBadgerPath      = "SUI_BADGER_PATH"
	EnvSuiRedisAddress    = "SUI_REDIS_ADDRESS"
	EnvSuiRedisPassword   = "SUI_REDIS_PASSWORD"
	EnvSuiRedisDB         = "SUI_REDIS_DB"
)

const (
	DefaultLeaseDuration  = 5 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
	DefaultHookRate       = 1.0
	DefaultRedisKeyPrefix = "sui-operator:"
)

type PersistenceType string

const (
	PersistenceType_Memory PersistenceType = "memory"
	PersistenceType_Badger PersistenceType = "badger"
	PersistenceType_Redis  PersistenceType = "redis"
)

var supportedPersistenceTypes = []string{
	string(PersistenceType_Memory),
	string(PersistenceType_Badger),
	string(PersistenceType_Redis),
}

type PersistenceConfig struct {
	Type           PersistenceType `json:"type" yaml:"type"`
	BadgerPath     string          `json:"badgerPath" yaml:"badgerPath"`
	RedisAddress   string          `json:"redisAddress" yaml:"redisAddress"`
	RedisPassword  string          `json:"redisPassword" yaml:"redisPassword"`
	RedisDB        int             `json:"redisDb" yaml:"redisDb"`
	RedisKeyPrefix string          `json:"redisKeyPrefix" yaml:"redisKeyPrefix"`
}

// OperatorConfig is everything a hook operator needs to sign and submit transactions.
type OperatorConfig struct {
	// Network is a preset name or a gateway URL. Empty falls back to the environment.
	Network string `json:"network" yaml:"network"`

	KeystorePath string `json:"keystorePath" yaml:"keystorePath"`
	AccountIndex int    `json:"accountIndex" yaml:"accountIndex"`
	// SecretKey is a hex ed25519 seed. When set it takes precedence over the keystore.
	SecretKey string `json:"secretKey" yaml:"secretKey"`

	GasBudget      uint64        `json:"gasBudget" yaml:"gasBudget"`
	LeaseDuration  time.Duration `json:"leaseDuration" yaml:"leaseDuration"`
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
	// HookRate is the maximum number of hook calls per second.
	HookRate float64 `json:"hookRate" yaml:"hookRate"`

	Debug   bool   `json:"debug" yaml:"debug"`
	LogFile string `json:"logFile" yaml:"logFile"`

	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`
}

func NewOperatorConfig() *OperatorConfig {
	return &OperatorConfig{
		GasBudget:      payload.DefaultGasBudget,
		LeaseDuration:  DefaultLeaseDuration,
		RequestTimeout: DefaultRequestTimeout,
		HookRate:       DefaultHookRate,
		Persistence: PersistenceConfig{
			Type:           PersistenceType_Memory,
			RedisKeyPrefix: DefaultRedisKeyPrefix,
		},
	}
}

// ResolveNetwork parses Network, or reads the environment when it is empty.
func (c *OperatorConfig) ResolveNetwork() (network.Network, error) {
	if c.Network == "" {
		return network.FromEnv()
	}
	return network.Parse(c.Network)
}

func (c *OperatorConfig) Validate() error {
	var allErrors field.ErrorList

	if _, err := c.ResolveNetwork(); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("network"), c.Network, err.Error()))
	}
	if c.SecretKey == "" && c.KeystorePath == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("keystorePath"), "keystorePath or secretKey is required"))
	}
	if c.AccountIndex < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("accountIndex"), c.AccountIndex, "must not be negative"))
	}
	if c.GasBudget == 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("gasBudget"), c.GasBudget, "must be greater than zero"))
	}
	if c.LeaseDuration <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("leaseDuration"), c.LeaseDuration.String(), "must be positive"))
	}
	if c.RequestTimeout <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("requestTimeout"), c.RequestTimeout.String(), "must be positive"))
	}
	if c.HookRate <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("hookRate"), c.HookRate, "must be positive"))
	}
	allErrors = append(allErrors, c.Persistence.validate(field.NewPath("persistence"))...)

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func (p *PersistenceConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch p.Type {
	case PersistenceType_Memory:
	case PersistenceType_Badger:
		if p.BadgerPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("badgerPath"), "badgerPath is required for badger persistence"))
		}
	case PersistenceType_Redis:
		if p.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if p.RedisDB < 0 {
			allErrors = append(allErrors, field.Invalid(path.Child("redisDb"), p.RedisDB, "must not be negative"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), p.Type, supportedPersistenceTypes))
	}
	return allErrors
}

func (p PersistenceType) String() string {
	return string(p)
}

// ParsePersistenceType maps a flag value onto a PersistenceType.
func ParsePersistenceType(value string) (PersistenceType, error) {
	for _, t := range supportedPersistenceTypes {
		if t == value {
			return PersistenceType(value), nil
		}
	}
	return "", fmt.Errorf("unsupported persistence type %q, expected one of %v", value, supportedPersistenceTypes)
}
