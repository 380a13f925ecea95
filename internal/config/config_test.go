package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_PostgresWithEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
[server]
http_port = 9000

[database]
driver = "postgres"
host = "localhost"
port = 5432
user = "sharing"
password = "${TEST_DB_PASSWORD}"
dbname = "sharing"

[user_service]
url = "http://users:8080"

[item_service]
url = "http://items:8080"
timeout = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "host=localhost port=5432 user=sharing password=s3cret dbname=sharing sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 2, cfg.ItemService.Timeout)
	assert.Equal(t, 5, cfg.UserService.Timeout)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 10, cfg.Pagination.DefaultSize)
	assert.Equal(t, 100, cfg.Pagination.MaxSize)
}

func TestLoad_SQLite(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "sqlite3"
path = "/tmp/sharing.db"

[user_service]
url = "http://users:8080"

[item_service]
url = "http://items:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/sharing.db?_foreign_keys=on&_busy_timeout=5000", cfg.Database.DSN())
}

func TestLoad_Memory(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "memory"

[user_service]
url = "http://users:8080"

[item_service]
url = "http://items:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown driver", `
[database]
driver = "mysql"
[user_service]
url = "http://users"
[item_service]
url = "http://items"
`},
		{"missing sqlite path", `
[database]
driver = "sqlite3"
[user_service]
url = "http://users"
[item_service]
url = "http://items"
`},
		{"missing item service", `
[database]
driver = "sqlite3"
path = "x.db"
[user_service]
url = "http://users"
`},
		{"redis without address", `
[database]
driver = "sqlite3"
path = "x.db"
[user_service]
url = "http://users"
[item_service]
url = "http://items"
[redis]
enabled = true
`},
		{"invalid toml", `[database`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
