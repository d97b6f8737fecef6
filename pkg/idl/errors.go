package idl

import "errors"

var (
	ErrSchemaParse     = errors.New("invalid schema document")
	ErrAccountNotFound = errors.New("account not found in schema")
	ErrTypeNotFound    = errors.New("unknown type")
	ErrFieldNotFound   = errors.New("field not found")
	ErrNotAStruct      = errors.New("type does not contain nested fields")
	ErrDynamicSize     = errors.New("dynamic size unsupported")
	ErrCyclicType      = errors.New("cyclic type definition")
)
