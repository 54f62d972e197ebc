package database

import (
	"net/url"
	"testing"

	"clinic-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL_EscapesCredentials(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "clinic",
		Password: "p@ss:w/rd%",
		Name:     "clinic",
	}

	raw := MigrationURL(cfg)
	assert.Equal(t, "pgx5://clinic:p%40ss%3Aw%2Frd%25@db:5432/clinic?sslmode=disable", raw)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, cfg.Password, password)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/clinic", parsed.Path)
}
