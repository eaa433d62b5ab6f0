package ingest

import "testing"

func TestParseCSV_RecognizedColumns(t *testing.T) {
	raw := []byte("Name,Address,City,Postal Code\nAcme Bakery,Main St 1,Zürich,8001\nDelta Cafe,Rue de Rivoli 2,Paris,75001\n")
	records, _, err := ParseCSV(raw)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Name != "Acme Bakery" || records[0].City != "Zürich" || records[0].PostalCode != "8001" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
}

func TestParseCSV_AlternateColumnSpellings(t *testing.T) {
	raw := []byte("Business,Street,City,Zip\nAcme,Main St 1,Zürich,8001\n")
	records, _, err := ParseCSV(raw)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Acme" || records[0].Address != "Main St 1" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseCSV_SkipsEmptyRows(t *testing.T) {
	raw := []byte("Name,Address,City,Postal Code\nAcme,Main St 1,Zürich,8001\n,,,\n")
	records, _, err := ParseCSV(raw)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected empty trailing row to be skipped, got %d records", len(records))
	}
}

func TestParseCSV_UnrecognizedHeaderErrors(t *testing.T) {
	raw := []byte("foo,bar\n1,2\n")
	if _, _, err := ParseCSV(raw); err == nil {
		t.Fatalf("expected an error for a header with no recognized columns")
	}
}

func TestParseCSV_EmptyFileErrors(t *testing.T) {
	if _, _, err := ParseCSV([]byte("")); err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}

func TestParseCSV_ReportsBOMAndEncoding(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Address\nAcme,Main St 1\n")...)
	_, decoded, err := ParseCSV(raw)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if !decoded.BOMRemoved {
		t.Fatalf("expected bomRemoved=true")
	}
	if decoded.Encoding != "utf-8" {
		t.Fatalf("expected utf-8, got %q", decoded.Encoding)
	}
}
