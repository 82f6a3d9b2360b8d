package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CONFIG", "SERVER_ADDRESS", "DATABASE_DSN", "LOG_LEVEL",
		"API_URL", "SESSION_PATH", "SESSION_BACKEND", "REFRESH_INTERVAL",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0600))
	return p
}

func TestParseServer_Defaults(t *testing.T) {
	clearEnv(t)

	o, err := ParseServer(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", o.Address)
	assert.Empty(t, o.DatabaseDSN)
	assert.Equal(t, "info", o.LogLevel)
	assert.False(t, o.TLSEnabled())
}

func TestParseServer_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"server_address":"file:1","database_dsn":"postgres://file","log_level":"warn"}`)

	// file overrides defaults
	o, err := ParseServer([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "file:1", o.Address)
	assert.Equal(t, "postgres://file", o.DatabaseDSN)
	assert.Equal(t, "warn", o.LogLevel)

	// explicit flags override the file
	o, err = ParseServer([]string{"-c", path, "-a", "flag:2"})
	require.NoError(t, err)
	assert.Equal(t, "flag:2", o.Address)
	assert.Equal(t, "postgres://file", o.DatabaseDSN)

	// env overrides everything
	t.Setenv("SERVER_ADDRESS", "env:3")
	t.Setenv("DATABASE_DSN", "postgres://env")
	o, err = ParseServer([]string{"-c", path, "-a", "flag:2"})
	require.NoError(t, err)
	assert.Equal(t, "env:3", o.Address)
	assert.Equal(t, "postgres://env", o.DatabaseDSN)
}

func TestParseServer_ConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG", writeConfig(t, `{"server_address":":9090"}`))

	o, err := ParseServer(nil)
	require.NoError(t, err)
	assert.Equal(t, ":9090", o.Address)
}

func TestParseServer_MissingConfigIsIgnored(t *testing.T) {
	clearEnv(t)
	o, err := ParseServer([]string{"-config", filepath.Join(t.TempDir(), "nope.json")})
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", o.Address)
}

func TestParseServer_BrokenConfig(t *testing.T) {
	clearEnv(t)
	_, err := ParseServer([]string{"-c", writeConfig(t, `{broken`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestParseServer_ValidationCollectsAllErrors(t *testing.T) {
	clearEnv(t)
	_, err := ParseServer([]string{"-a", "no-port", "-l", "loud", "-tls-cert", "server.crt"})
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
}

func TestParseServer_UnknownFlag(t *testing.T) {
	clearEnv(t)
	_, err := ParseServer([]string{"-nope"})
	require.Error(t, err)
}

func TestParseClient_Defaults(t *testing.T) {
	clearEnv(t)

	o, err := ParseClient(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", o.APIURL)
	assert.Equal(t, BackendFile, o.SessionBackend)
	assert.Equal(t, "session.json", o.SessionPath)
	assert.Equal(t, 10*time.Second, o.Timeout.Duration)
	assert.Zero(t, o.Refresh.Duration)
}

func TestParseClient_FileFlagsEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"api_url":"https://api.example.com","session_backend":"sqlite","session_path":"s.db","timeout":"3s","refresh":"30s"}`)

	o, err := ParseClient([]string{"-c", path, "-timeout", "5s"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", o.APIURL)
	assert.Equal(t, BackendSQLite, o.SessionBackend)
	assert.Equal(t, "s.db", o.SessionPath)
	assert.Equal(t, 5*time.Second, o.Timeout.Duration)
	assert.Equal(t, 30*time.Second, o.Refresh.Duration)

	t.Setenv("API_URL", "http://env:8080")
	t.Setenv("REFRESH_INTERVAL", "1m")
	o, err = ParseClient([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "http://env:8080", o.APIURL)
	assert.Equal(t, time.Minute, o.Refresh.Duration)

	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err = ParseClient([]string{"-c", path})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "REFRESH_INTERVAL"))
}

func TestParseClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad url", []string{"-url", "localhost:8080"}},
		{"bad backend", []string{"-session-backend", "redis"}},
		{"empty session path", []string{"-session", ""}},
		{"zero timeout", []string{"-timeout", "0s"}},
		{"negative refresh", []string{"-refresh", "-1s"}},
		{"bad level", []string{"-l", "chatty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := ParseClient(tt.args)
			assert.Error(t, err)
		})
	}

	clearEnv(t)
	o, err := ParseClient([]string{"-session-backend", "memory", "-session", ""})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, o.SessionBackend)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, d.Duration)

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))

	assert.Error(t, d.UnmarshalJSON([]byte(`15`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`"fast"`)))
}
