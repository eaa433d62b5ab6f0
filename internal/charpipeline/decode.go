// Package charpipeline implements component A of the scrape service:
// decoding an uploaded CSV's raw bytes into text, and the small set of
// string transforms (search-variant generation, CSV cell sanitizing)
// that the rest of the pipeline depends on.
package charpipeline

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding is the canonical label returned by Decode.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingISO88591    Encoding = "iso-8859-1"
	EncodingWindows1252 Encoding = "windows-1252"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode strips a UTF-8 BOM if present, detects the source encoding,
// and returns the decoded text. Detection that is unknown or
// low-confidence defaults to utf-8. A decode failure in the detected
// encoding falls back to a best-effort UTF-8 decode; if that also
// fails, err is non-nil (encoding_error).
func Decode(data []byte) (text string, enc Encoding, bomRemoved bool, err error) {
	if len(data) >= 3 && data[0] == bom[0] && data[1] == bom[1] && data[2] == bom[2] {
		data = data[3:]
		bomRemoved = true
	}

	enc = detect(data)

	text, decErr := decodeAs(data, enc)
	if decErr == nil {
		return text, enc, bomRemoved, nil
	}

	// Fall back to UTF-8 regardless of what was detected.
	if enc != EncodingUTF8 {
		text, decErr = decodeAs(data, EncodingUTF8)
		if decErr == nil {
			return text, EncodingUTF8, bomRemoved, nil
		}
	}

	return "", "", bomRemoved, decErr
}

// detect returns a best-effort canonical encoding label for data with
// no prior knowledge beyond its bytes. Valid UTF-8 is assumed to be
// UTF-8; otherwise the presence of C1-range bytes that are printable
// in Windows-1252 (but control characters in ISO-8859-1) is used to
// prefer windows-1252 over the plain Latin-1 superset.
func detect(data []byte) Encoding {
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return EncodingWindows1252
		}
	}
	return EncodingISO88591
}

func decodeAs(data []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingUTF8:
		if !utf8.Valid(data) {
			return "", errInvalidUTF8
		}
		return string(data), nil
	case EncodingWindows1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case EncodingISO88591:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", errUnknownEncoding
	}
}
