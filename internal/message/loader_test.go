package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir_ValidCatalog(t *testing.T) {
	cat, err := LoadDir("testdata/valid")
	require.NoError(t, err)

	// Built-in confirmation plus the two catalog entries.
	assert.Len(t, cat.Names(), 3)

	tpl, ok := cat.Get("recordatorio_simple")
	require.True(t, ok)
	assert.Equal(t, KindText, tpl.Kind)
	assert.Equal(t, "es", tpl.Language, "language defaults to es")

	en, ok := cat.Get("confirmacion_en")
	require.True(t, ok)
	assert.Equal(t, "en", en.Language)
	require.Len(t, en.Buttons, 2)
	assert.Equal(t, "btn_si", en.Buttons[0].ID)
}

func TestLoadDir_InvalidKindRejected(t *testing.T) {
	_, err := LoadDir("testdata/invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating catalog")
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir("testdata/no-such-dir")
	assert.Error(t, err)
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestDefaultCatalog_AlwaysHasConfirmation(t *testing.T) {
	cat := DefaultCatalog()
	tpl, ok := cat.Get("confirmacion_asistencia")
	require.True(t, ok)
	assert.Equal(t, KindInteractive, tpl.Kind)
	require.Len(t, tpl.Buttons, 2)
	assert.Equal(t, "btn_si", tpl.Buttons[0].ID)
	assert.Equal(t, "btn_no", tpl.Buttons[1].ID)
}
