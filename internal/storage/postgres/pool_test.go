package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wisperwind/internal/config"
)

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "wisperwind",
		Password:        "secret",
		Name:            "wisperwind",
		SSLMode:         "disable",
		MaxConns:        7,
		MinConns:        2,
		MaxConnLifetime: 30 * time.Minute,

		StatementTimeout: 1500 * time.Millisecond,
	}
}

func TestPoolConfig_AppliesLimitsAndSessionParams(t *testing.T) {
	poolCfg, err := poolConfig(testDatabaseConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(7), poolCfg.MaxConns)
	assert.Equal(t, int32(2), poolCfg.MinConns)
	assert.Equal(t, 30*time.Minute, poolCfg.MaxConnLifetime)

	params := poolCfg.ConnConfig.RuntimeParams
	assert.Equal(t, "1500", params["statement_timeout"])
	assert.Equal(t, ApplicationName, params["application_name"])
}

func TestPoolConfig_ZeroTimeoutLeavesServerDefault(t *testing.T) {
	cfg := testDatabaseConfig()
	cfg.StatementTimeout = 0

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)

	_, ok := poolCfg.ConnConfig.RuntimeParams["statement_timeout"]
	assert.False(t, ok)
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, isDuplicateKeyError(sqlStateErr("23505")))
	assert.False(t, isDuplicateKeyError(sqlStateErr("23503")))
	assert.False(t, isDuplicateKeyError(assert.AnError))
}

type sqlStateErr string

func (e sqlStateErr) Error() string    { return "sqlstate " + string(e) }
func (e sqlStateErr) SQLState() string { return string(e) }
