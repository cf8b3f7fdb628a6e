package database

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-reports/core"
)

func TestPostgresURL(t *testing.T) {
	conf := &core.Config{}
	conf.Database.Host = "db"
	conf.Database.Port = "5432"
	conf.Database.User = "app"
	conf.Database.Password = "s3cret"
	conf.Database.AdminUser = "root"
	conf.Database.AdminPassword = "toor"

	tests := []struct {
		name       string
		admin      bool
		disableTLS bool
		wantUser   string
		wantSSL    string
	}{
		{name: "app user", wantUser: "app", wantSSL: "require"},
		{name: "admin user", admin: true, wantUser: "root", wantSSL: "require"},
		{name: "no tls", disableTLS: true, wantUser: "app", wantSSL: "disable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf.Database.DisableTLS = tt.disableTLS
			u, err := url.Parse(postgresURL("masomo", tt.admin, conf))
			require.NoError(t, err)
			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, "db:5432", u.Host)
			assert.Equal(t, "/masomo", u.Path)
			assert.Equal(t, tt.wantUser, u.User.Username())
			assert.Equal(t, tt.wantSSL, u.Query().Get("sslmode"))
			assert.Equal(t, "utc", u.Query().Get("timezone"))
		})
	}
}

func TestGooseDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", GooseDialect(EngineSQLite))
	assert.Equal(t, "postgres", GooseDialect(EnginePostgres))
}

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := &core.Config{}
	conf.Database.Engine = "oracle"
	_, err := Open(context.Background(), conf)
	assert.Error(t, err)
}
