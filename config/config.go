package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config is the process configuration, populated from the environment.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Identity asserted by the upstream gateway; this OpenID gets admin.
	AdminOpenID string `env:"ADMIN_OPEN_ID"`

	// Solana deposit rail.
	SolanaRPCURL        string        `env:"SOLANA_RPC_URL" envDefault:"https://api.devnet.solana.com"`
	DepositAccount      string        `env:"SOLANA_DEPOSIT_ACCOUNT,required"`
	CryptoType          string        `env:"CRYPTO_TYPE" envDefault:"SOL"`
	DepositPollInterval time.Duration `env:"DEPOSIT_POLL_INTERVAL" envDefault:"30s"`
	DepositTimeout      time.Duration `env:"DEPOSIT_TIMEOUT" envDefault:"2h"`

	// Exchange rate (rupees per crypto unit).
	DefaultRate string        `env:"DEFAULT_EXCHANGE_RATE" envDefault:"12500"`
	RateMaxAge  time.Duration `env:"RATE_MAX_AGE" envDefault:"15m"`

	// Purchase flow.
	PurchaseMaxRetries int           `env:"PURCHASE_MAX_RETRIES" envDefault:"3"`
	PurchaseRetryBase  time.Duration `env:"PURCHASE_RETRY_BASE" envDefault:"50ms"`
	PendingTimeout     time.Duration `env:"PENDING_TX_TIMEOUT" envDefault:"5m"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"false"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
