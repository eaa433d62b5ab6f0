// Package ingest implements component F's non-HTTP half: decoding and
// parsing an uploaded CSV into InputRecords, and the two-phase
// buffer-then-enqueue invariant that keeps a batch's job count
// consistent with what the API response promises.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"placescout/internal/charpipeline"
	"placescout/internal/model"
)

// knownColumns maps every accepted header spelling (lowercased,
// trimmed) to the InputRecord field it fills. Multiple spellings are
// accepted per field since uploaded sheets rarely agree on casing or
// on "postal code" vs "zip".
var knownColumns = map[string]string{
	"name":        "name",
	"business":    "name",
	"address":     "address",
	"street":      "address",
	"city":        "city",
	"postalcode":  "postalCode",
	"postal code": "postalCode",
	"zip":         "postalCode",
	"zipcode":     "postalCode",
	"zip code":    "postalCode",
}

// DecodeResult reports how ParseCSV decoded an upload, for the
// upload response's {encoding, bomRemoved} fields.
type DecodeResult struct {
	Encoding   charpipeline.Encoding
	BOMRemoved bool
}

// ParseCSV decodes raw CSV bytes (detecting and normalizing its
// character encoding via charpipeline.Decode) and returns every parsed
// row as an InputRecord, plus how the bytes were decoded. Rows where
// every recognized field is empty are skipped; a completely
// unrecognized header is an error, since it almost always means the
// wrong file was uploaded.
func ParseCSV(raw []byte) ([]model.InputRecord, DecodeResult, error) {
	text, enc, bomRemoved, err := charpipeline.Decode(raw)
	decoded := DecodeResult{Encoding: enc, BOMRemoved: bomRemoved}
	if err != nil {
		return nil, decoded, fmt.Errorf("ingest: decode: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, decoded, fmt.Errorf("ingest: empty CSV")
		}
		return nil, decoded, fmt.Errorf("ingest: read header: %w", err)
	}

	fieldIndex, err := mapHeader(header)
	if err != nil {
		return nil, decoded, err
	}

	var records []model.InputRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, decoded, fmt.Errorf("ingest: read row %d: %w", len(records)+2, err)
		}

		rec := model.InputRecord{
			Name:       cell(row, fieldIndex, "name"),
			Address:    cell(row, fieldIndex, "address"),
			City:       cell(row, fieldIndex, "city"),
			PostalCode: cell(row, fieldIndex, "postalCode"),
		}
		if rec == (model.InputRecord{}) {
			continue
		}
		records = append(records, rec)
	}

	return records, decoded, nil
}

func mapHeader(header []string) (map[string]int, error) {
	out := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if field, ok := knownColumns[key]; ok {
			out[field] = i
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ingest: no recognized columns in header %v", header)
	}
	return out, nil
}

func cell(row []string, index map[string]int, field string) string {
	i, ok := index[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
