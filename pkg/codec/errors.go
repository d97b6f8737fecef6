package codec

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type")
	ErrShortBuffer     = errors.New("buffer too short")
	ErrValueParse      = errors.New("parse failed")
)
