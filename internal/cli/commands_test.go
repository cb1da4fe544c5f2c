package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig returns a config file pointing the stack into a temp
// directory.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("db_path: %s\ncsv_path: %s\n",
		filepath.Join(dir, "test.db"), filepath.Join(dir, "bd_envio.csv"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadThenStats(t *testing.T) {
	cfgPath := writeTestConfig(t)

	roster := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(roster, []byte(
		"telefono_e164,nombre,bootcamp,opt_in\n"+
			"573001111111,Ana,IA,TRUE\n"+
			"573002222222,Beto,Web,TRUE\n"), 0o644))

	out, err := execute(t, "load", roster, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 of 2")

	out, err = execute(t, "stats", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Contacts:         2")
}

func TestLoad_MissingFile(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "load", "/no/such/roster.csv", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExport_RewritesMirror(t *testing.T) {
	cfgPath := writeTestConfig(t)

	roster := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(roster, []byte("telefono_e164\n573001111111\n"), 0o644))
	_, err := execute(t, "load", roster, "--config", cfgPath)
	require.NoError(t, err)

	out, err := execute(t, "export", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 contact(s)")
}

func TestReset_RequiresForce(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "reset", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err := execute(t, "reset", "--force", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 0 contact(s)")
}

func TestSend_DryRun(t *testing.T) {
	cfgPath := writeTestConfig(t)

	roster := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(roster, []byte(
		"telefono_e164,nombre,opt_in\n573001111111,Ana,TRUE\n"), 0o644))
	_, err := execute(t, "load", roster, "--config", cfgPath)
	require.NoError(t, err)

	out, err := execute(t, "send", "--dry-run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 contact(s) pending")
	assert.Contains(t, out, "573001111111")
}

func TestSend_WithoutCredentials(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "send", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStats_JSONFormat(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := execute(t, "stats", "--format", "json", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
}
