package charpipeline

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestDecode_StripsBOMAndDetectsUTF8(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Bärengasse, Zürich")...)
	text, enc, bomRemoved, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bomRemoved {
		t.Fatalf("expected bomRemoved=true")
	}
	if enc != EncodingUTF8 {
		t.Fatalf("expected utf-8, got %q", enc)
	}
	if text != "Bärengasse, Zürich" {
		t.Fatalf("unexpected decoded text: %q", text)
	}
}

func TestDecode_NoBOM(t *testing.T) {
	text, enc, bomRemoved, err := Decode([]byte("plain ascii"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bomRemoved {
		t.Fatalf("expected bomRemoved=false")
	}
	if enc != EncodingUTF8 {
		t.Fatalf("expected utf-8, got %q", enc)
	}
	if text != "plain ascii" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDecode_ISO88591(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("Bärengasse")
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	text, enc, _, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != EncodingISO88591 {
		t.Fatalf("expected iso-8859-1, got %q", enc)
	}
	if text != "Bärengasse" {
		t.Fatalf("expected Bärengasse, got %q", text)
	}
}

func TestDecode_EncodingEquivalence(t *testing.T) {
	utf8Bytes := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Bärengasse, Zürich")...)
	noBOM := []byte("Bärengasse, Zürich")
	latin1, _ := charmap.ISO8859_1.NewEncoder().String("Bärengasse, Zürich")

	texts := make([]string, 0, 3)
	for _, data := range [][]byte{utf8Bytes, noBOM, []byte(latin1)} {
		text, _, _, err := Decode(data)
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		texts = append(texts, text)
	}
	for _, got := range texts[1:] {
		if got != texts[0] {
			t.Fatalf("expected decode-equivalence across encodings, got %q vs %q", got, texts[0])
		}
	}
}

func TestGenerateSearchVariants_GermanBusiness(t *testing.T) {
	variants := GenerateSearchVariants("Müller Bäckerei GmbH")
	if len(variants) == 0 {
		t.Fatalf("expected at least one variant")
	}
	if variants[0] != "Müller Bäckerei GmbH" {
		t.Fatalf("expected first variant to be original, got %q", variants[0])
	}

	foundFullyFolded := false
	foundSuffixStripped := false
	for _, v := range variants {
		if v == "Mueller Baeckerei GmbH" {
			foundFullyFolded = true
		}
		if v == "Müller Bäckerei" {
			foundSuffixStripped = true
		}
	}
	if !foundFullyFolded {
		t.Fatalf("expected a fully diacritic-folded variant, got %v", variants)
	}
	if !foundSuffixStripped {
		t.Fatalf("expected a legal-suffix-stripped variant, got %v", variants)
	}
}

func TestGenerateSearchVariants_DedupesAndDropsShort(t *testing.T) {
	variants := GenerateSearchVariants("A")
	if len(variants) != 0 {
		t.Fatalf("expected single-character name to produce no variants, got %v", variants)
	}

	variants = GenerateSearchVariants("Café")
	seen := map[string]bool{}
	for _, v := range variants {
		lower := strings.ToLower(v)
		if seen[lower] {
			t.Fatalf("expected case-insensitive dedup, got duplicate %q in %v", v, variants)
		}
		seen[lower] = true
	}
}

func TestPrepareForCSV_EscapesAndCollapses(t *testing.T) {
	in := "  Say \"hello\"\r\n\n  world  "
	got := PrepareForCSV(in)
	want := `Say ""hello"" world`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrepareForCSV_Idempotent(t *testing.T) {
	in := "  multi   space\tand\nlines  "
	once := PrepareForCSV(in)
	twice := PrepareForCSV(once)
	if once != twice {
		t.Fatalf("expected idempotent output, got %q then %q", once, twice)
	}
}

func TestPrepareForCSV_NeverFoldsDiacritics(t *testing.T) {
	got := PrepareForCSV("Bärengasse")
	if got != "Bärengasse" {
		t.Fatalf("expected diacritics preserved, got %q", got)
	}
}
