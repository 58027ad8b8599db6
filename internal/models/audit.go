package models

// AuditLogEntry is one line of the traceability trail. Entries are stored in
// per-day JSON collections; the field set and names are fixed by the log
// format already in the field, so nothing may be added or renamed here.
type AuditLogEntry struct {
	Timestamp  string `json:"timestamp"` // ISO-8601 UTC
	User       string `json:"user"`
	Role       Role   `json:"role"`
	Program    string `json:"program"`
	Pouch      int    `json:"pouch"` // 1-based for readability on the floor
	OldBarcode string `json:"oldBarcode"`
	NewBarcode string `json:"newBarcode"`
	Action     string `json:"action"` // always "UPDATE"
}

// ActionUpdate is the only action currently written to the trail.
const ActionUpdate = "UPDATE"
