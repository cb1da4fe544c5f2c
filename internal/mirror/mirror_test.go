package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrico/rollcall/internal/contact"
)

func testMirror(t *testing.T) *Mirror {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "bd_envio.csv"))
}

func TestReadAll_MissingFileIsEmpty(t *testing.T) {
	m := testMirror(t)
	rows, err := m.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpsert_AppendsAndMerges(t *testing.T) {
	m := testMirror(t)

	require.NoError(t, m.Upsert(contact.Patch{Phone: "+573001234567", Name: "Juan", Modality: "Presencial"}))
	require.NoError(t, m.Upsert(contact.Patch{Phone: "573009876543", Name: "Ana"}))
	// Merge: empty modality must not erase, non-empty response lands.
	require.NoError(t, m.Upsert(contact.Patch{Phone: "573001234567", Modality: "", Response: contact.ResponseYes}))

	rows, err := m.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byPhone := map[string]contact.Contact{}
	for _, c := range rows {
		byPhone[c.Phone] = c
	}
	juan := byPhone["573001234567"]
	assert.Equal(t, "Juan", juan.Name)
	assert.Equal(t, "Presencial", juan.Modality)
	assert.Equal(t, contact.ResponseYes, juan.Response)
}

func TestUpsert_InvalidPhone(t *testing.T) {
	m := testMirror(t)
	err := m.Upsert(contact.Patch{Phone: "nope"})
	assert.ErrorIs(t, err, contact.ErrInvalidPhone)
}

func TestReadAll_LegacyHeaderVariants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legado.csv")
	// A sheet exported by hand: accented phone header, extra column,
	// phone with formatting noise.
	raw := "Teléfono Celular,nombre,bootcamp,columna_extra\n" +
		"+57 (300) 123-4567,Juan,bc-01,ignórame\n" +
		",SinTelefono,bc-01,x\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	m := New(path)
	rows, err := m.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "rows without a phone are skipped")

	assert.Equal(t, "573001234567", rows[0].Phone)
	assert.Equal(t, "Juan", rows[0].Name)
	assert.Equal(t, "bc-01", rows[0].CohortID)
}

func TestReadAll_NoPhoneColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("nombre,bootcamp\nJuan,bc-01\n"), 0o644))

	_, err := New(path).ReadAll()
	assert.Error(t, err)
}

func TestBackup(t *testing.T) {
	m := testMirror(t)
	require.NoError(t, m.Upsert(contact.Patch{Phone: "573001234567", Name: "Juan"}))

	backupPath, err := m.Backup()
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	original, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	backup, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, original, backup)
}

func TestBackup_MissingFile(t *testing.T) {
	m := testMirror(t)
	backupPath, err := m.Backup()
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}

func TestWriteAll_Golden(t *testing.T) {
	m := testMirror(t)

	rows := []contact.Contact{
		{
			Phone:         "573001234567",
			Name:          "Juan Pérez",
			CohortID:      "bc-2025-01",
			CohortName:    "Inteligencia Artificial",
			Modality:      "Presencial",
			TrainingStart: "2025-04-01",
			Schedule:      "6pm-9pm",
			Location:      "Sede Norte",
			OptIn:         "TRUE",
			SendStatus:    contact.StatusSent,
			SentAt:        "2025-03-01T10:00:00Z",
			MessageID:     "wamid.abc123",
			Response:      contact.ResponseYes,
			RespondedAt:   "2025-03-02T09:30:00Z",
		},
		{
			Phone:         "573009876543",
			Name:          "Ana María",
			CohortID:      "bc-2025-02",
			CohortName:    "Desarrollo Web",
			Modality:      "Virtual",
			EnglishStart:  "2025-02-01",
			EnglishEnd:    "2025-03-01",
			TrainingStart: "2025-04-15",
			Schedule:      "8am-12m, sábados",
			Location:      "Remoto",
			OptIn:         "TRUE",
			SendStatus:    contact.StatusPending,
		},
	}
	require.NoError(t, m.WriteAll(rows))

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "export", data)
}
