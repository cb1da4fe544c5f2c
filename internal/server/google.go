package server

import (
	"net/http"

	"github.com/torrico/rollcall/internal/drive"
)

// handleGoogleUpload pulls a roster file from Google Drive, merges its
// rows into both representations and, when asked, pushes the merged
// state back to the source file.
func (s *Server) handleGoogleUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID      string `json:"file_id"`
		AccessToken string `json:"access_token"`
		PushBack    bool   `json:"push_back"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.FileID == "" || req.AccessToken == "" {
		badRequest(w, "file_id and access_token are required")
		return
	}

	ctx := r.Context()
	md, err := s.drive.FileMetadata(ctx, req.FileID, req.AccessToken)
	if err != nil {
		fail(w, err)
		return
	}

	content, err := s.drive.Download(ctx, req.FileID, req.AccessToken, md.IsGoogleSheet())
	if err != nil {
		fail(w, err)
		return
	}

	patches, err := drive.ParseContacts(content)
	if err != nil {
		badRequest(w, "unreadable file: "+err.Error())
		return
	}

	outcomes := s.tracker.RecordMany(ctx, patches)
	recorded, failed := 0, 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		} else {
			recorded++
		}
	}

	body := envelope{
		"file":     md.Name,
		"rows":     len(patches),
		"recorded": recorded,
		"failed":   failed,
	}

	if req.PushBack {
		rows, err := s.tracker.AllContacts(ctx)
		if err != nil {
			fail(w, err)
			return
		}
		if md.IsGoogleSheet() {
			err = s.drive.UpdateSheet(ctx, req.FileID, req.AccessToken, rows)
		} else {
			err = s.drive.UpdateCSV(ctx, req.FileID, req.AccessToken, rows)
		}
		if err != nil {
			body["warning"] = "push back failed: " + err.Error()
		} else {
			body["pushed_back"] = true
		}
	}

	ok(w, body)
}
