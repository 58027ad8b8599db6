package models

// Record file layout (MBCheck_<id>.txt):
//
//	line 0:     pouch count
//	line 1:     extraction mask ('0'/'1' per barcode position)
//	lines 2-9:  reserved, owned by the upstream format, preserved verbatim
//	lines 10..: one line per pocket, then reference patterns; values may
//	            carry a trailing '|' delimiter
// FirstPocketLine is the 0-based line index of pocket 0 in a record file.
const FirstPocketLine = 10

// ProgramRecord is the parsed form of one program definition file.
type ProgramRecord struct {
	ID         string   `json:"id"`
	PouchCount int      `json:"pouchCount"`
	Mask       string   `json:"mask"`
	// References holds every line from FirstPocketLine to end of file with
	// delimiter characters stripped. The pocket lines double as reference
	// entries; that mirrors the upstream format.
	References []string `json:"references"`
	// Pockets holds the current pocket line values (delimiter-stripped),
	// for display only. Updates never go through this slice.
	Pockets []string `json:"pockets"`
}
