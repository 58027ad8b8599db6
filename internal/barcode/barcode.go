package barcode

import "strings"

// Program barcodes carry the program id at a fixed offset:
// at least 14 characters, 'P' at index 10, the 3-character id at 11-13.
// Everything after the id is payload we do not interpret.
const (
	minProgramLen = 14
	anchorIndex   = 10
	anchorChar    = 'P'
	idStart       = 11
	idEnd         = 14

	// ProgramIDLen is the length of a program identifier.
	ProgramIDLen = idEnd - idStart

	// PocketCodeLen is the canonical pocket barcode length; longer scans
	// are truncated to it.
	PocketCodeLen = 10
)

// ClassifyProgram extracts the 3-character program id from a scanned
// barcode. A shape mismatch is a normal negative result (ok=false), not an
// error: the station re-prompts for another scan.
func ClassifyProgram(raw string) (id string, ok bool) {
	if len(raw) < minProgramLen {
		return "", false
	}
	if raw[anchorIndex] != anchorChar {
		return "", false
	}
	return raw[idStart:idEnd], true
}

// ProgramBarcodeFor builds the canonical scannable barcode for a program
// id: ten filler zeros, the 'P' anchor, then the id. Inverse of
// ClassifyProgram for well-formed ids.
func ProgramBarcodeFor(id string) string {
	return strings.Repeat("0", anchorIndex) + string(anchorChar) + id
}

// ApplyMask keeps the characters of barcode at positions where mask holds a
// '1'. Positions past the end of either string are simply not visited.
func ApplyMask(barcode, mask string) string {
	var out strings.Builder
	for i := 0; i < len(mask) && i < len(barcode); i++ {
		if mask[i] == '1' {
			out.WriteByte(barcode[i])
		}
	}
	return out.String()
}

// IsAccepted reports whether a masked extraction matches the program's
// reference set: the masked value must be a substring of at least one
// reference pattern. An empty extraction never matches. The result is
// advisory (pocket coloring) and never gates persistence.
func IsAccepted(masked string, refs []string) bool {
	if masked == "" {
		return false
	}
	for _, ref := range refs {
		if strings.Contains(ref, masked) {
			return true
		}
	}
	return false
}

// NormalizePocketCode truncates a scanned pocket barcode to its canonical
// 10-character identifier. Scanners on the line append payload past the
// identifier; everything downstream (persistence, masking, audit) uses the
// truncated value.
func NormalizePocketCode(raw string) string {
	if len(raw) > PocketCodeLen {
		return raw[:PocketCodeLen]
	}
	return raw
}
