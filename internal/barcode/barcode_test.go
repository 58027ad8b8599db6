package barcode

import "testing"

func TestClassifyProgram(t *testing.T) {
	// Shape misses are normal negatives
	misses := []string{
		"",
		"short",
		"0123456789",
		"0000000000X123",     // wrong anchor
		"0000000000p123",     // anchor is case sensitive
		"000000000P123",      // 13 chars, anchor shifted
	}
	for _, raw := range misses {
		if id, ok := ClassifyProgram(raw); ok {
			t.Errorf("ClassifyProgram(%q) = %q, want miss", raw, id)
		}
	}

	id, ok := ClassifyProgram("0000000000P123XXXXXXXX")
	if !ok || id != "123" {
		t.Errorf("ClassifyProgram = (%q, %v), want (123, true)", id, ok)
	}

	// Exactly 14 characters is enough
	id, ok = ClassifyProgram("0000000000P456")
	if !ok || id != "456" {
		t.Errorf("ClassifyProgram = (%q, %v), want (456, true)", id, ok)
	}

	// Deterministic: same input, same id
	again, _ := ClassifyProgram("0000000000P123XXXXXXXX")
	if again != "123" {
		t.Errorf("ClassifyProgram not deterministic: got %q", again)
	}
}

func TestProgramBarcodeFor(t *testing.T) {
	raw := ProgramBarcodeFor("123")
	id, ok := ClassifyProgram(raw)
	if !ok || id != "123" {
		t.Errorf("ClassifyProgram(ProgramBarcodeFor) = (%q, %v), want (123, true)", id, ok)
	}
}

func TestApplyMask(t *testing.T) {
	tests := []struct {
		barcode string
		mask    string
		want    string
	}{
		{"AB12345678", "1100000000", "AB"},
		{"AB12345678", "0000000000", ""},
		{"AB12345678", "1111111111", "AB12345678"},
		{"AB12345678", "101", "A1"},
		// Mask longer than barcode: extra positions are not visited
		{"AB", "1111111111", "AB"},
		{"", "111", ""},
		{"ABC", "", ""},
	}
	for _, tt := range tests {
		got := ApplyMask(tt.barcode, tt.mask)
		if got != tt.want {
			t.Errorf("ApplyMask(%q, %q) = %q, want %q", tt.barcode, tt.mask, got, tt.want)
		}
		// Pure function: repeated call must agree
		if again := ApplyMask(tt.barcode, tt.mask); again != got {
			t.Errorf("ApplyMask(%q, %q) not idempotent: %q then %q", tt.barcode, tt.mask, got, again)
		}
		max := len(tt.barcode)
		if len(tt.mask) < max {
			max = len(tt.mask)
		}
		if len(got) > max {
			t.Errorf("ApplyMask(%q, %q) longer than min length: %q", tt.barcode, tt.mask, got)
		}
	}
}

func TestIsAccepted(t *testing.T) {
	refs := []string{"XXABCDYY", "QQQQ"}

	if !IsAccepted("ABCD", refs) {
		t.Error("Substring of a reference should be accepted")
	}
	if !IsAccepted("QQQQ", refs) {
		t.Error("Full reference match should be accepted")
	}
	if IsAccepted("ZZZ", refs) {
		t.Error("Non-substring should not be accepted")
	}
	if IsAccepted("", refs) {
		t.Error("Empty masked value must never be accepted")
	}
	if IsAccepted("ABCD", nil) {
		t.Error("Empty reference set accepts nothing")
	}
}

func TestNormalizePocketCode(t *testing.T) {
	if got := NormalizePocketCode("AB1234567890"); got != "AB12345678" {
		t.Errorf("NormalizePocketCode = %q, want AB12345678", got)
	}
	if got := NormalizePocketCode("AB12345678"); got != "AB12345678" {
		t.Errorf("NormalizePocketCode = %q, want unchanged", got)
	}
	if got := NormalizePocketCode("AB1"); got != "AB1" {
		t.Errorf("NormalizePocketCode = %q, want unchanged short input", got)
	}
}
