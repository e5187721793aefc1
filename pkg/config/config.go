package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App   AppConfig
	XRPL  XRPLConfig
	Redis RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PAYHUB_APP_ENV" default:"dev"`
	Port         string `envconfig:"PAYHUB_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"PAYHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAYHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// XRPLConfig carries the ledger endpoints and signing seeds. Seeds are read
// lazily at settlement time, mirroring how the service surfaces a missing
// operator seed only when money actually moves.
type XRPLConfig struct {
	ServerURL     string        `envconfig:"PAYHUB_XRPL_SERVER_URL" default:"https://s.altnet.rippletest.net:51234"`
	FaucetURL     string        `envconfig:"PAYHUB_XRPL_FAUCET_URL" default:"https://faucet.altnet.rippletest.net/accounts"`
	OperatorSeed  string        `envconfig:"PAYHUB_OPERATOR_SEED"`
	FallbackSeed  string        `envconfig:"PAYHUB_SEED"`
	IssuerSeed    string        `envconfig:"ISSUER_SEED"`
	MerchantSeed  string        `envconfig:"MERCHANT_SEED"`
	IOUCurrency   string        `envconfig:"IOU_CURRENCY" default:"RLUSD"`
	SubmitTimeout time.Duration `envconfig:"PAYHUB_XRPL_SUBMIT_TIMEOUT" default:"30s"`
}

// SigningSeed resolves the configured operator seed, preferring the dedicated
// operator variable over the legacy shared one.
func (x XRPLConfig) SigningSeed() string {
	if x.OperatorSeed != "" {
		return x.OperatorSeed
	}
	return x.FallbackSeed
}

// SetupSeed resolves the seed the testnet bootstrap reuses for the payhub
// wallet. The preference order is inverted relative to SigningSeed: the
// legacy shared variable wins over the operator one.
func (x XRPLConfig) SetupSeed() string {
	if x.FallbackSeed != "" {
		return x.FallbackSeed
	}
	return x.OperatorSeed
}

type RedisConfig struct {
	URL          string        `envconfig:"PAYHUB_REDIS_URL"`
	Address      string        `envconfig:"PAYHUB_REDIS_ADDR"`
	Password     string        `envconfig:"PAYHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAYHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAYHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAYHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAYHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAYHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAYHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured. The idempotency
// layer is skipped entirely when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}
