package idl

import (
	"encoding/json"
	"fmt"
)

// TypeRef is the closed set of type shapes a schema field can declare.
// The set is fixed at parse time; consumers switch over the concrete
// variants instead of matching on raw JSON.
type TypeRef interface {
	typeRef()
	String() string
}

// PrimKind enumerates the primitive scalar kinds the schema format knows.
type PrimKind uint8

const (
	U8 PrimKind = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	U128
	I128
	F32
	F64
	Bool
	PublicKey
	// String is parseable but has no fixed width. Sizing it is always an error.
	String
)

var primNames = map[PrimKind]string{
	U8:        "u8",
	I8:        "i8",
	U16:       "u16",
	I16:       "i16",
	U32:       "u32",
	I32:       "i32",
	U64:       "u64",
	I64:       "i64",
	U128:      "u128",
	I128:      "i128",
	F32:       "f32",
	F64:       "f64",
	Bool:      "bool",
	PublicKey: "publicKey",
	String:    "string",
}

var primKinds = func() map[string]PrimKind {
	m := make(map[string]PrimKind, len(primNames))
	for k, n := range primNames {
		m[n] = k
	}
	// The newer IDL spelling for the same 32 byte value.
	m["pubkey"] = PublicKey
	return m
}()

func (k PrimKind) String() string {
	if n, ok := primNames[k]; ok {
		return n
	}
	return fmt.Sprintf("primitive(%d)", uint8(k))
}

// Primitive is a fixed-width scalar (or the dynamic `string`).
type Primitive struct {
	Kind PrimKind
}

// Array is a fixed-length sequence of a single element type.
type Array struct {
	Elem TypeRef
	Len  int
}

// Tuple is an ordered sequence of heterogeneous element types.
type Tuple struct {
	Elems []TypeRef
}

// Option wraps an inner type. Both the `option` and `coption` schema
// spellings map here; layout-wise the wrapper is transparent (no presence
// byte is accounted for).
type Option struct {
	Inner TypeRef
}

// Defined is a by-name reference to a type declared in the schema's
// `types` section, resolved through the IDL index.
type Defined struct {
	Name string
}

func (Primitive) typeRef() {}
func (Array) typeRef()     {}
func (Tuple) typeRef()     {}
func (Option) typeRef()    {}
func (Defined) typeRef()   {}

func (p Primitive) String() string { return p.Kind.String() }

func (a Array) String() string { return fmt.Sprintf("[%s; %d]", a.Elem, a.Len) }

func (t Tuple) String() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

func (o Option) String() string { return fmt.Sprintf("option<%s>", o.Inner) }

func (d Defined) String() string { return d.Name }

// decodeTypeRef maps a raw JSON type declaration to a TypeRef. A declaration
// is either a bare string ("u64", "SomeType") or a single-key object
// ({"array": [...]}, {"defined": ...}, {"option": ...}, {"coption": ...},
// {"tuple": [...]}).
func decodeTypeRef(raw json.RawMessage) (TypeRef, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if kind, ok := primKinds[name]; ok {
			return Primitive{Kind: kind}, nil
		}
		// Any other bare string is a reference to a declared type.
		return Defined{Name: name}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: invalid type declaration %s", ErrSchemaParse, compact(raw))
	}

	switch {
	case obj["array"] != nil:
		return decodeArray(obj["array"])
	case obj["tuple"] != nil:
		return decodeTuple(obj["tuple"])
	case obj["option"] != nil:
		inner, err := decodeTypeRef(obj["option"])
		if err != nil {
			return nil, err
		}
		return Option{Inner: inner}, nil
	case obj["coption"] != nil:
		inner, err := decodeTypeRef(obj["coption"])
		if err != nil {
			return nil, err
		}
		return Option{Inner: inner}, nil
	case obj["defined"] != nil:
		return decodeDefined(obj["defined"])
	default:
		return nil, fmt.Errorf("%w: unsupported type declaration %s", ErrSchemaParse, compact(raw))
	}
}

func decodeArray(raw json.RawMessage) (TypeRef, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 2 {
		return nil, fmt.Errorf("%w: array declaration must be [type, length]", ErrSchemaParse)
	}

	elem, err := decodeTypeRef(parts[0])
	if err != nil {
		return nil, err
	}

	var length int
	if err := json.Unmarshal(parts[1], &length); err != nil || length < 0 {
		return nil, fmt.Errorf("%w: invalid array length %s", ErrSchemaParse, compact(parts[1]))
	}

	return Array{Elem: elem, Len: length}, nil
}

func decodeTuple(raw json.RawMessage) (TypeRef, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("%w: tuple elements must be an array", ErrSchemaParse)
	}

	elems := make([]TypeRef, 0, len(parts))
	for _, p := range parts {
		e, err := decodeTypeRef(p)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}

	return Tuple{Elems: elems}, nil
}

// decodeDefined accepts both the legacy `{"defined": "Name"}` and the newer
// `{"defined": {"name": "Name"}}` spellings.
func decodeDefined(raw json.RawMessage) (TypeRef, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return Defined{Name: name}, nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Name == "" {
		return nil, fmt.Errorf("%w: invalid defined type reference %s", ErrSchemaParse, compact(raw))
	}

	return Defined{Name: obj.Name}, nil
}

func compact(raw json.RawMessage) string {
	const max = 64
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
