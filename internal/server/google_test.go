package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrico/rollcall/internal/drive"
	"github.com/torrico/rollcall/internal/mirror"
	"github.com/torrico/rollcall/internal/sender"
	"github.com/torrico/rollcall/internal/store"
	"github.com/torrico/rollcall/internal/tracker"
)

func newDriveEnv(t *testing.T, mux *http.ServeMux) *testEnv {
	t.Helper()
	apiSrv := httptest.NewServer(mux)
	t.Cleanup(apiSrv.Close)
	drv := drive.NewService().WithBaseURLs(apiSrv.URL, apiSrv.URL, apiSrv.URL)

	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	tr := tracker.New(s, mirror.New(filepath.Join(dir, "bd_envio.csv")), zerolog.Nop())
	client := &fakeWhatsApp{}
	snd := sender.New(tr, client, nil, 0, zerolog.Nop())
	srv := New(tr, snd, client, drv, "secreto", zerolog.Nop())

	return &testEnv{handler: srv.Routes(), tracker: tr, client: client}
}

func TestGoogleUpload_CSVFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/f1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") == "media" {
			w.Write([]byte("telefono_e164,nombre,bootcamp\n573001111111,Ana,IA\nbasura,Fantasma,\n"))
			return
		}
		w.Write([]byte(`{"id":"f1","name":"roster.csv","mimeType":"text/csv"}`))
	})
	env := newDriveEnv(t, mux)

	rec, body := env.do(t, http.MethodPost, "/api/google/upload", map[string]any{
		"file_id":      "f1",
		"access_token": "tok",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "roster.csv", body["file"])
	assert.Equal(t, float64(1), body["rows"], "the bad-phone row is dropped at parse time")
	assert.Equal(t, float64(1), body["recorded"])

	res, err := env.tracker.List(context.Background(), tracker.ListParams{Phone: "573001111111"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ana", res.Items[0].Name)
}

func TestGoogleUpload_MissingFields(t *testing.T) {
	env := newDriveEnv(t, http.NewServeMux())

	rec, _ := env.do(t, http.MethodPost, "/api/google/upload", map[string]any{"file_id": "f1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleUpload_BadToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/f1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	env := newDriveEnv(t, mux)

	rec, _ := env.do(t, http.MethodPost, "/api/google/upload", map[string]any{
		"file_id":      "f1",
		"access_token": "expired",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
