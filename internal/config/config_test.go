package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "", cfg.RedisAddr())
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestDatabase_DSN(t *testing.T) {
	d := Database{Driver: "mysql", Host: "db", Port: "3306", User: "shop", Password: "pw", Name: "store"}
	assert.Equal(t, "shop:pw@tcp(db:3306)/store?charset=utf8mb4&parseTime=True&loc=Local", d.DSN())

	d.Driver = "postgres"
	d.Port = "5432"
	d.SSLMode = "disable"
	assert.Equal(t, "host=db port=5432 user=shop password=pw dbname=store sslmode=disable", d.DSN())
}
