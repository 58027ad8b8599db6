package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbtrace/mbcheckgo/internal/barcode"
	"github.com/mbtrace/mbcheckgo/internal/models"
	"github.com/mbtrace/mbcheckgo/internal/pocket"
)

// ClassifyRequest carries a raw scanned string.
type ClassifyRequest struct {
	Barcode string `json:"barcode"`
}

// classify extracts a program id from a scanned barcode. A shape mismatch
// is a normal negative, reported with found=false rather than an error.
func (r *Router) classify(w http.ResponseWriter, req *http.Request) {
	var body ClassifyRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	id, ok := barcode.ClassifyProgram(body.Barcode)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"found":   ok,
		"program": id,
	})
}

// getProgram loads and parses a program record for the station UI. When the
// caller holds a session, the record is loaded into it and the pocket
// states reset.
func (r *Router) getProgram(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	if len(id) != barcode.ProgramIDLen {
		respondError(w, http.StatusBadRequest, "Program id must be 3 characters")
		return
	}

	if claims := r.sessionClaims(req); claims != nil {
		if session := r.sessions.Get(claims.SessionID); session != nil {
			rec, err := session.LoadProgram(barcode.ProgramBarcodeFor(id))
			if err != nil {
				respondError(w, errStatus(err), err.Error())
				return
			}
			respondJSON(w, http.StatusOK, rec)
			return
		}
	}

	rec, err := r.store.Programs.Load(id)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// UpdateBarcodeRequest is the update-barcode payload. PouchIndex is a
// pointer because index 0 is valid and must be distinguishable from the
// field being absent.
type UpdateBarcodeRequest struct {
	Program    string `json:"program"`
	PouchIndex *int   `json:"pouchIndex"`
	NewBarcode string `json:"newBarcode"`
	OldBarcode string `json:"oldBarcode"`
	User       string `json:"user"`
	Role       string `json:"role"`
}

// PocketUpdatedEvent is pushed to connected stations after a commit.
type PocketUpdatedEvent struct {
	Type     string `json:"type"`
	Program  string `json:"program"`
	Pouch    int    `json:"pouch"`
	Barcode  string `json:"barcode"`
	Accepted bool   `json:"accepted"`
	User     string `json:"user"`
}

// updateBarcode persists one pocket scan. Callers holding a session with
// the program loaded go through the full pocket engine (lock policy, busy
// guard); legacy station UIs that track pocket state themselves get the
// direct validate-and-persist path.
func (r *Router) updateBarcode(w http.ResponseWriter, req *http.Request) {
	var body UpdateBarcodeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Field check comes before any I/O. pouchIndex 0 is a valid index.
	if body.Program == "" || body.PouchIndex == nil || body.NewBarcode == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	pouchIndex := *body.PouchIndex

	if claims := r.sessionClaims(req); claims != nil {
		if session := r.sessions.Get(claims.SessionID); session != nil {
			if program := session.Program(); program != nil && program.ID == body.Program {
				r.submitViaSession(w, session, pouchIndex, body.NewBarcode)
				return
			}
		}
	}

	// Legacy path: pocket state lives in the caller's UI
	scanned, err := pocket.ValidateScan(body.NewBarcode)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	// The advisory reference set must come from the pre-update record:
	// after the rewrite the new barcode's own pocket line would match
	// itself. Best effort only; persistence never depends on it.
	var rec *models.ProgramRecord
	if loaded, lerr := r.store.Programs.Load(body.Program); lerr == nil {
		rec = loaded
	}

	entry, err := r.store.UpdateRecord(body.Program, pouchIndex, scanned, body.OldBarcode, body.User, models.Role(body.Role))
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	accepted := false
	if rec != nil {
		accepted = barcode.IsAccepted(barcode.ApplyMask(scanned, rec.Mask), rec.References)
	}

	r.broadcastUpdate(entry.Program, entry.Pouch, scanned, accepted, entry.User)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"logEntry": entry,
		"barcode":  scanned,
		"accepted": accepted,
	})
}

func (r *Router) submitViaSession(w http.ResponseWriter, session *pocket.Session, pouchIndex int, raw string) {
	res, err := session.Submit(pouchIndex, raw)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	r.broadcastUpdate(res.Entry.Program, res.Entry.Pouch, res.Barcode, res.Accepted, res.Entry.User)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"logEntry": res.Entry,
		"barcode":  res.Barcode,
		"accepted": res.Accepted,
	})
}

func (r *Router) broadcastUpdate(program string, pouch int, code string, accepted bool, user string) {
	if r.hub == nil {
		return
	}
	r.hub.Broadcast(PocketUpdatedEvent{
		Type:     "POCKET_UPDATED",
		Program:  program,
		Pouch:    pouch,
		Barcode:  code,
		Accepted: accepted,
		User:     user,
	})
}
