// Package codec converts typed scalar field values between their canonical
// textual form and their little-endian binary representation.
//
// The supported kind set is deliberately narrower than what pkg/idl can
// size: u8, u64, i64, f64, bool and publicKey. Kinds that are sizable but
// not decodable (u16, u32, u128 and friends) fail with ErrUnsupportedType
// rather than being silently widened.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/mr-tron/base58"

	"github.com/anchorlens/anchorlens/pkg/idl"
)

// PublicKeyLen is the raw width of the fixed-length identity value.
const PublicKeyLen = 32

// Decode reads the field of type t at the given byte offset in data and
// returns its canonical textual form. Numeric kinds are read little-endian
// and formatted as decimal; public keys are formatted as base58. A buffer
// that does not extend past offset+width fails with ErrShortBuffer.
func Decode(data []byte, offset int, t idl.TypeRef) (string, error) {
	prim, ok := t.(idl.Primitive)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	switch prim.Kind {
	case idl.U8:
		b, err := slice(data, offset, 1)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(b[0]), 10), nil

	case idl.U64:
		b, err := slice(data, offset, 8)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(binary.LittleEndian.Uint64(b), 10), nil

	case idl.I64:
		b, err := slice(data, offset, 8)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(binary.LittleEndian.Uint64(b)), 10), nil

	case idl.F64:
		b, err := slice(data, offset, 8)
		if err != nil {
			return "", err
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(b))
		return strconv.FormatFloat(v, 'g', -1, 64), nil

	case idl.Bool:
		b, err := slice(data, offset, 1)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b[0] != 0), nil

	case idl.PublicKey:
		b, err := slice(data, offset, PublicKeyLen)
		if err != nil {
			return "", err
		}
		return base58.Encode(b), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, prim.Kind)
	}
}

// Encode parses a textual value and emits its fixed-width little-endian
// (or, for public keys, raw base58-decoded) byte representation. It is the
// inverse of Decode for the supported kind set.
func Encode(value string, t idl.TypeRef) ([]byte, error) {
	prim, ok := t.(idl.Primitive)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	switch prim.Kind {
	case idl.U8:
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as u8", ErrValueParse, value)
		}
		return []byte{byte(v)}, nil

	case idl.U64:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as u64", ErrValueParse, value)
		}
		return binary.LittleEndian.AppendUint64(nil, v), nil

	case idl.I64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as i64", ErrValueParse, value)
		}
		return binary.LittleEndian.AppendUint64(nil, uint64(v)), nil

	case idl.F64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as f64", ErrValueParse, value)
		}
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)), nil

	case idl.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as bool", ErrValueParse, value)
		}
		if v {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case idl.PublicKey:
		raw, err := base58.Decode(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as publicKey", ErrValueParse, value)
		}
		if len(raw) != PublicKeyLen {
			return nil, fmt.Errorf("%w: publicKey must decode to %d bytes, got %d", ErrValueParse, PublicKeyLen, len(raw))
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, prim.Kind)
	}
}

// slice bounds-checks a fixed-width read. Record buffers come from the
// network and carry no length guarantee.
func slice(data []byte, offset, width int) ([]byte, error) {
	if offset < 0 || offset+width > len(data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, width, offset, len(data))
	}
	return data[offset : offset+width], nil
}
