package charpipeline

import "errors"

var (
	errInvalidUTF8     = errors.New("charpipeline: invalid utf-8 byte sequence")
	errUnknownEncoding  = errors.New("charpipeline: unknown encoding")
)
