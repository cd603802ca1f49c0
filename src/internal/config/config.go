package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	DatabaseDSN          string `env:"DATABASE_DSN,default=Host=localhost;Port=5432;Database=kook_mining_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"`
	MigrationsDir        string `env:"MIGRATIONS_DIR"`
	StorageDriver        string `env:"STORAGE_DRIVER,default=postgres"`
	HTTPAddr             string `env:"HTTP_ADDR,default=:8080"`
	ChannelID            string `env:"CHANNEL_ID,default=KookApp"`
	ChannelKey           string `env:"CHANNEL_KEY,default=KookChannelKey001"`
	DefaultMiningRateRaw string `env:"DEFAULT_MINING_RATE,default=0.25"`
	TeamActivitySchedule string `env:"TEAM_ACTIVITY_SCHEDULE,default=@hourly"`
	TeamActivityWorkers  int    `env:"TEAM_ACTIVITY_WORKERS,default=4"`
	RateLimitRPS         int    `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst       int    `env:"RATE_LIMIT_BURST,default=40"`
	LogLevel             string `env:"LOG_LEVEL,default=info"`

	DefaultMiningRate decimal.Decimal
}

// Load reads an optional .env file from the working directory, then decodes
// the process environment on top of the defaults above.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	return finalize(cfg)
}

func finalize(cfg Config) (Config, error) {
	cfg.DatabaseDSN = normalizeConnectionString(strings.TrimSpace(cfg.DatabaseDSN))

	cfg.MigrationsDir = strings.TrimSpace(cfg.MigrationsDir)
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = filepath.Join("src", "migrations")
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be one of %s, %s", StorageDriverPostgres, StorageDriverMemory)
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(cfg.DefaultMiningRateRaw))
	if err != nil {
		return Config{}, fmt.Errorf("DEFAULT_MINING_RATE must be numeric: %w", err)
	}
	if !rate.IsPositive() {
		return Config{}, fmt.Errorf("DEFAULT_MINING_RATE must be greater than zero")
	}
	cfg.DefaultMiningRate = rate

	if cfg.TeamActivityWorkers <= 0 {
		cfg.TeamActivityWorkers = 1
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 20
	}
	if cfg.RateLimitBurst < cfg.RateLimitRPS {
		cfg.RateLimitBurst = cfg.RateLimitRPS
	}

	return cfg, nil
}

// normalizeConnectionString turns an ADO-style "Key=Value;..." string into a
// libpq keyword/value DSN. URLs and strings already in libpq form pass through.
func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") || !strings.Contains(raw, ";") {
		return raw
	}

	out := make([]string, 0, 8)
	hasSSLMode := false

	for _, part := range strings.Split(raw, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host", "port", "password":
			out = append(out, key+"="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}
	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
