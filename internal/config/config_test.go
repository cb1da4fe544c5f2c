package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, "rollcall.db", cfg.DBPath)
	assert.Equal(t, "bd_envio.csv", cfg.CSVPath)
	assert.Equal(t, 2*time.Second, cfg.SendDelay.Duration())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
listen_addr: ":8080"
db_path: /data/tracker.db
csv_path: /data/bd_envio.csv
templates_dir: /etc/rollcall/templates
send_delay: 500ms
log_level: debug
whatsapp:
  access_token: tok
  phone_number_id: "12345"
  version: v22.0
  verify_token: secreto
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.SendDelay.Duration())
	assert.Equal(t, "tok", cfg.WhatsApp.AccessToken)
	assert.Equal(t, "secreto", cfg.WhatsApp.VerifyToken)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("RC_TEST_TOKEN", "from-env")

	cfg, err := Parse([]byte(`
whatsapp:
  access_token: ${RC_TEST_TOKEN}
  verify_token: ${RC_TEST_MISSING:-fallback}
  phone_number_id: ${RC_TEST_ALSO_MISSING}
`))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.WhatsApp.AccessToken)
	assert.Equal(t, "fallback", cfg.WhatsApp.VerifyToken)
	assert.Empty(t, cfg.WhatsApp.PhoneNumberID, "unset vars without default expand to empty")
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("send_delay: pronto"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9999\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
