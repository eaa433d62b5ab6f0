package scrapeengine

import "testing"

func TestNormalizePhone_InternationalPrefixed(t *testing.T) {
	got := NormalizePhone("+41 44 123 45 67", "CH")
	want := "+41 44 123 45 67"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizePhone_NationalLeadingZero(t *testing.T) {
	got := NormalizePhone("044 123 45 67", "CH")
	want := "+41 44 123 45 67"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizePhone_StripsFormattingPunctuation(t *testing.T) {
	got := NormalizePhone("(044) 123-45.67", "CH")
	want := "+41 44 123 45 67"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizePhone_UnknownCountryFallsBackToGenericGrouping(t *testing.T) {
	got := NormalizePhone("01234567890", "XX")
	if got == "" {
		t.Fatalf("expected a best-effort normalization, got empty string")
	}
}

func TestNormalizePhone_Empty(t *testing.T) {
	if got := NormalizePhone("", "CH"); got != "" {
		t.Fatalf("expected empty input to normalize to empty, got %q", got)
	}
}
