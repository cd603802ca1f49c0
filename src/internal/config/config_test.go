package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "@hourly", cfg.TeamActivitySchedule)
	assert.Equal(t, "0.25", cfg.DefaultMiningRate.String())
	assert.Contains(t, cfg.DatabaseDSN, "dbname=kook_mining_db")
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveMiningRate(t *testing.T) {
	t.Setenv("DEFAULT_MINING_RATE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestNormalizeConnectionString(t *testing.T) {
	got := normalizeConnectionString("Host=db;Port=5432;Database=mining;Username=svc;Password=secret;CommandTimeout=15")

	assert.Equal(t, "host=db port=5432 dbname=mining user=svc password=secret statement_timeout=15s sslmode=disable", got)
}

func TestNormalizeConnectionStringKeepsURL(t *testing.T) {
	dsn := "postgres://svc:secret@db:5432/mining?sslmode=require"

	assert.Equal(t, dsn, normalizeConnectionString(dsn))
}
