package mirror

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/torrico/rollcall/internal/contact"
)

// Mirror owns the CSV file. All access goes through the handle; the file is
// never touched as ambient global state. A mutex scopes each rewrite so
// concurrent upserts from the coordinator do not corrupt the file.
type Mirror struct {
	mu   sync.Mutex
	path string
}

// New returns a mirror handle for the given CSV path. The file is created
// lazily on the first write.
func New(path string) *Mirror {
	return &Mirror{path: path}
}

// Path returns the mirror file location.
func (m *Mirror) Path() string {
	return m.path
}

// ReadAll parses the mirror file into contacts. A missing file yields an
// empty slice. Header spellings are matched accent- and case-insensitively,
// so legacy sheets with "Teléfono" headers still load.
func (m *Mirror) ReadAll() ([]contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readAll()
}

// Upsert merge-updates the row keyed by the patch's normalized phone,
// appending a new row when none matches, and rewrites the whole file.
func (m *Mirror) Upsert(p contact.Patch) error {
	phone, err := contact.NormalizePhone(p.Phone)
	if err != nil {
		return err
	}
	p.Phone = phone

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.readAll()
	if err != nil {
		return err
	}

	found := false
	for i, c := range rows {
		if c.Phone == phone {
			rows[i] = contact.Merge(c, p)
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, contact.Merge(contact.Contact{}, p))
	}

	return m.writeAll(rows)
}

// WriteAll replaces the mirror contents with the given contacts. Used by
// the export path to rebuild the file from the store.
func (m *Mirror) WriteAll(rows []contact.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeAll(rows)
}

// Backup copies the current file next to itself with a timestamp suffix and
// returns the backup path. A missing mirror file is not an error; the empty
// path signals that nothing was backed up.
func (m *Mirror) Backup() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, err := os.Open(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open mirror: %w", err)
	}
	defer src.Close()

	stamp := time.Now().Format("20060102_150405")
	ext := filepath.Ext(m.path)
	backupPath := strings.TrimSuffix(m.path, ext) + "_backup_" + stamp + ext

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy backup: %w", err)
	}
	return backupPath, nil
}

func (m *Mirror) readAll() ([]contact.Contact, error) {
	f, err := os.Open(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return []contact.Contact{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open mirror: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("mirror %s: %w", m.path, err)
	}
	return rows, nil
}

// Parse reads CSV content into contacts using the mirror's header
// matching. Exported so sheet imports share the same column handling.
func Parse(r io.Reader) ([]contact.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // legacy sheets have ragged rows

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return []contact.Contact{}, nil
	}

	idx := resolveColumns(records[0])
	if _, ok := idx[colPhone]; !ok {
		return nil, fmt.Errorf("phone column not found in header %v", records[0])
	}

	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := []contact.Contact{}
	for _, rec := range records[1:] {
		rawPhone := get(rec, colPhone)
		if rawPhone == "" {
			continue
		}
		phone, err := contact.NormalizePhone(rawPhone)
		if err != nil {
			// Bad rows are skipped, not fatal: the mirror is best effort.
			continue
		}
		rows = append(rows, contact.Contact{
			Phone:         phone,
			Name:          get(rec, colName),
			CohortID:      get(rec, colCohortID),
			CohortName:    get(rec, colCohortName),
			Modality:      get(rec, colModality),
			EnglishStart:  get(rec, colEnglishStart),
			EnglishEnd:    get(rec, colEnglishEnd),
			TrainingStart: get(rec, colTrainingStart),
			Schedule:      get(rec, colSchedule),
			Location:      get(rec, colLocation),
			OptIn:         get(rec, colOptIn),
			SendStatus:    get(rec, colSendStatus),
			SentAt:        get(rec, colSentAt),
			MessageID:     get(rec, colMessageID),
			Response:      get(rec, colResponse),
			RespondedAt:   get(rec, colRespondedAt),
		})
	}
	return rows, nil
}

// Header returns a copy of the canonical column header.
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// Record flattens a contact into mirror column order.
func Record(c contact.Contact) []string {
	return []string{
		c.Phone, c.Name, c.CohortID, c.CohortName, c.Modality,
		c.EnglishStart, c.EnglishEnd, c.TrainingStart, c.Schedule,
		c.Location, c.OptIn, c.SendStatus, c.SentAt, c.MessageID,
		c.Response, c.RespondedAt,
	}
}

// Encode writes contacts as CSV with the canonical header. Exported so
// sheet uploads produce the same layout as the mirror file.
func Encode(w io.Writer, rows []contact.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range rows {
		if err := cw.Write(Record(c)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeAll rewrites the whole file: temp file in the same directory, then
// rename over the original.
func (m *Mirror) writeAll(rows []contact.Contact) error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".mirror-*.csv")
	if err != nil {
		return fmt.Errorf("create temp mirror: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp mirror: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	return nil
}
