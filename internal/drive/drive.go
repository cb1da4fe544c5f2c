package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/mirror"
)

const (
	driveAPIBase  = "https://www.googleapis.com/drive/v3"
	uploadAPIBase = "https://www.googleapis.com/upload/drive/v3"
	sheetsAPIBase = "https://sheets.googleapis.com/v4"

	// MIME type Drive reports for native spreadsheets.
	mimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
)

// Access errors mapped from Drive status codes.
var (
	ErrTokenInvalid = errors.New("drive token invalid or expired")
	ErrForbidden    = errors.New("no permission to access drive file")
	ErrFileNotFound = errors.New("drive file not found")
)

// Metadata is the subset of Drive file metadata the loader needs.
type Metadata struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     string `json:"size"`
}

// IsGoogleSheet reports whether the file is a native spreadsheet that
// must go through export and the Sheets API.
func (m Metadata) IsGoogleSheet() bool {
	return m.MimeType == mimeGoogleSheet
}

// Service talks to the Drive and Sheets APIs with a caller-supplied
// OAuth token per request.
type Service struct {
	httpClient *http.Client
	driveBase  string
	uploadBase string
	sheetsBase string
}

// NewService builds a Drive service with production endpoints.
func NewService() *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		driveBase:  driveAPIBase,
		uploadBase: uploadAPIBase,
		sheetsBase: sheetsAPIBase,
	}
}

// WithBaseURLs overrides the API endpoints. Used by tests.
func (s *Service) WithBaseURLs(drive, upload, sheets string) *Service {
	s.driveBase = drive
	s.uploadBase = upload
	s.sheetsBase = sheets
	return s
}

// FileMetadata fetches name, MIME type and size for a Drive file.
func (s *Service) FileMetadata(ctx context.Context, fileID, token string) (Metadata, error) {
	u := fmt.Sprintf("%s/files/%s?fields=id,name,mimeType,size&supportsAllDrives=true", s.driveBase, url.PathEscape(fileID))
	resp, err := s.get(ctx, u, token)
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return Metadata{}, err
	}

	var md Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return Metadata{}, fmt.Errorf("decoding drive metadata: %w", err)
	}
	return md, nil
}

// Download fetches the file content as CSV bytes. Native sheets are
// exported; everything else is served as stored media.
func (s *Service) Download(ctx context.Context, fileID, token string, isGoogleSheet bool) ([]byte, error) {
	var u string
	if isGoogleSheet {
		u = fmt.Sprintf("%s/files/%s/export?mimeType=%s&supportsAllDrives=true",
			s.driveBase, url.PathEscape(fileID), url.QueryEscape("text/csv"))
	} else {
		u = fmt.Sprintf("%s/files/%s?alt=media&supportsAllDrives=true", s.driveBase, url.PathEscape(fileID))
	}

	resp, err := s.get(ctx, u, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
}

// ParseContacts turns downloaded CSV content into upsert patches.
func ParseContacts(content []byte) ([]contact.Patch, error) {
	if len(content) == 0 {
		return nil, errors.New("empty file")
	}
	rows, err := mirror.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	patches := make([]contact.Patch, 0, len(rows))
	for _, c := range rows {
		patches = append(patches, contact.Patch{
			Phone:         c.Phone,
			Name:          c.Name,
			CohortID:      c.CohortID,
			CohortName:    c.CohortName,
			Modality:      c.Modality,
			EnglishStart:  c.EnglishStart,
			EnglishEnd:    c.EnglishEnd,
			TrainingStart: c.TrainingStart,
			Schedule:      c.Schedule,
			Location:      c.Location,
			OptIn:         c.OptIn,
			SendStatus:    c.SendStatus,
			SentAt:        c.SentAt,
			MessageID:     c.MessageID,
			Response:      c.Response,
			RespondedAt:   c.RespondedAt,
		})
	}
	return patches, nil
}

// UpdateCSV replaces a Drive CSV file's content with the given rows.
func (s *Service) UpdateCSV(ctx context.Context, fileID, token string, rows []contact.Contact) error {
	var buf bytes.Buffer
	if err := mirror.Encode(&buf, rows); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}

	u := fmt.Sprintf("%s/files/%s?uploadType=media&supportsAllDrives=true", s.uploadBase, url.PathEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drive upload: %w", err)
	}
	defer resp.Body.Close()

	return mapStatus(resp.StatusCode)
}

// UpdateSheet rewrites the first sheet of a spreadsheet with the given
// rows: resolve the sheet name, clear it, then write everything from A1.
func (s *Service) UpdateSheet(ctx context.Context, spreadsheetID, token string, rows []contact.Contact) error {
	sheetName, err := s.firstSheetName(ctx, spreadsheetID, token)
	if err != nil {
		return err
	}

	clearURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s:clear", s.sheetsBase, url.PathEscape(spreadsheetID), url.PathEscape(sheetName))
	if err := s.postJSON(ctx, clearURL, token, map[string]any{}, nil); err != nil {
		return fmt.Errorf("clearing sheet: %w", err)
	}

	batchURL := fmt.Sprintf("%s/spreadsheets/%s/values:batchUpdate", s.sheetsBase, url.PathEscape(spreadsheetID))
	body := map[string]any{
		"valueInputOption": "RAW",
		"data": []map[string]any{{
			"range":  sheetName + "!A1",
			"values": sheetValues(rows),
		}},
	}
	if err := s.postJSON(ctx, batchURL, token, body, nil); err != nil {
		return fmt.Errorf("updating sheet: %w", err)
	}
	return nil
}

func (s *Service) firstSheetName(ctx context.Context, spreadsheetID, token string) (string, error) {
	u := fmt.Sprintf("%s/spreadsheets/%s?fields=sheets.properties", s.sheetsBase, url.PathEscape(spreadsheetID))
	resp, err := s.get(ctx, u, token)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return "", err
	}

	var decoded struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding spreadsheet: %w", err)
	}
	if len(decoded.Sheets) == 0 {
		return "", errors.New("spreadsheet has no sheets")
	}
	if title := decoded.Sheets[0].Properties.Title; title != "" {
		return title, nil
	}
	return "Sheet1", nil
}

// sheetValues flattens contacts into the header-plus-rows grid the
// Sheets values API expects.
func sheetValues(rows []contact.Contact) [][]string {
	grid := [][]string{mirror.Header()}
	for _, c := range rows {
		grid = append(grid, mirror.Record(c))
	}
	return grid
}

func (s *Service) get(ctx context.Context, url, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive api: %w", err)
	}
	return resp, nil
}

func (s *Service) postJSON(ctx context.Context, url, token string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets api: %w", err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return ErrTokenInvalid
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrFileNotFound
	case code != http.StatusOK:
		return fmt.Errorf("drive api: unexpected status %d", code)
	}
	return nil
}
