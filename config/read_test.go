package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 8080
  environment: development
  base_url: "https://app.medflow.example"
database:
  host: localhost
  port: 5432
  user: medflow
  dbname: medflow
redis:
  addr: "localhost:6379"
authentication:
  session_ttl_minutes: 120
  invitation_ttl_hours: 48
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "https://app.medflow.example", cfg.Server.BaseURL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 120, cfg.Authentication.SessionTTLMinutes)
	assert.Equal(t, 48, cfg.Authentication.InvitationTTLHours)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
