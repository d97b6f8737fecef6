// Package idl parses Anchor-style IDL documents and answers layout
// questions about the account records they describe: how wide a type is,
// at which byte offset a (possibly nested) field lives, and which 8-byte
// discriminator prefixes every record of a given account type.
//
// An IDL is parsed once and is immutable afterwards; it is safe to share
// a single instance across concurrently executing lookups.
package idl

import (
	"encoding/json"
	"fmt"
)

// Field is a named, typed member of a struct, account or enum variant.
// Declaration order is load-bearing: it mirrors the contiguous byte layout.
type Field struct {
	Name string
	Type TypeRef
}

// Variant is a single enum case. Unit variants carry no fields.
type Variant struct {
	Name   string
	Fields []Field
}

// TypeDef is the definition bound to a declared type name: either a struct
// or a tagged enum.
type TypeDef interface {
	typeDef()
}

// StructDef is an ordered field list.
type StructDef struct {
	Fields []Field
}

// EnumDef is an ordered variant list. Its serialized form is a one byte
// discriminant followed by the payload of the active variant.
type EnumDef struct {
	Variants []Variant
}

func (StructDef) typeDef() {}
func (EnumDef) typeDef()   {}

// AccountDef is a named account record layout from the schema's `accounts`
// section.
type AccountDef struct {
	Name   string
	Fields []Field
}

// IDL is the parsed, indexed schema document.
type IDL struct {
	types    map[string]TypeDef
	accounts map[string]*AccountDef
}

type rawEntry struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type rawDocument struct {
	Types    []rawEntry `json:"types"`
	Accounts []rawEntry `json:"accounts"`
}

type rawTypeDef struct {
	Kind     string            `json:"kind"`
	Fields   []json.RawMessage `json:"fields"`
	Variants []rawVariant      `json:"variants"`
}

type rawVariant struct {
	Name   string            `json:"name"`
	Fields []json.RawMessage `json:"fields"`
}

// Parse reads a schema document and builds the type and account indexes.
// The whole document must be well formed: a missing `types` or `accounts`
// section, duplicate type names or a field without a name or type fail the
// parse. No partial schema is ever returned.
func Parse(doc []byte) (*IDL, error) {
	var raw rawDocument
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}

	if raw.Types == nil {
		return nil, fmt.Errorf("%w: missing 'types' section", ErrSchemaParse)
	}
	if raw.Accounts == nil {
		return nil, fmt.Errorf("%w: missing 'accounts' section", ErrSchemaParse)
	}

	schema := &IDL{
		types:    make(map[string]TypeDef, len(raw.Types)),
		accounts: make(map[string]*AccountDef, len(raw.Accounts)),
	}

	for _, entry := range raw.Types {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: type entry without a name", ErrSchemaParse)
		}
		if _, dup := schema.types[entry.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate type name %q", ErrSchemaParse, entry.Name)
		}

		def, err := decodeTypeDef(entry.Type)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", entry.Name, err)
		}
		schema.types[entry.Name] = def
	}

	for _, entry := range raw.Accounts {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: account entry without a name", ErrSchemaParse)
		}
		if _, dup := schema.accounts[entry.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate account name %q", ErrSchemaParse, entry.Name)
		}

		def, err := decodeTypeDef(entry.Type)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", entry.Name, err)
		}
		st, ok := def.(StructDef)
		if !ok {
			return nil, fmt.Errorf("%w: account %q is not a struct", ErrSchemaParse, entry.Name)
		}
		schema.accounts[entry.Name] = &AccountDef{Name: entry.Name, Fields: st.Fields}
	}

	return schema, nil
}

// Account looks up an account layout by name.
func (i *IDL) Account(name string) (*AccountDef, error) {
	acc, ok := i.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	return acc, nil
}

// Type looks up a declared type definition by name.
func (i *IDL) Type(name string) (TypeDef, error) {
	def, ok := i.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
	}
	return def, nil
}

func decodeTypeDef(raw json.RawMessage) (TypeDef, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: entry without a type", ErrSchemaParse)
	}

	var def rawTypeDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}

	switch def.Kind {
	case "struct":
		fields, err := decodeFields(def.Fields)
		if err != nil {
			return nil, err
		}
		return StructDef{Fields: fields}, nil
	case "enum":
		variants := make([]Variant, 0, len(def.Variants))
		for _, v := range def.Variants {
			if v.Name == "" {
				return nil, fmt.Errorf("%w: enum variant without a name", ErrSchemaParse)
			}
			fields, err := decodeVariantFields(v.Fields)
			if err != nil {
				return nil, fmt.Errorf("variant %q: %w", v.Name, err)
			}
			variants = append(variants, Variant{Name: v.Name, Fields: fields})
		}
		return EnumDef{Variants: variants}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type kind %q", ErrSchemaParse, def.Kind)
	}
}

func decodeFields(raw []json.RawMessage) ([]Field, error) {
	fields := make([]Field, 0, len(raw))
	for _, r := range raw {
		var f rawEntry
		if err := json.Unmarshal(r, &f); err != nil {
			return nil, fmt.Errorf("%w: invalid field entry: %v", ErrSchemaParse, err)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field without a name", ErrSchemaParse)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("%w: field %q has no type", ErrSchemaParse, f.Name)
		}

		t, err := decodeTypeRef(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields = append(fields, Field{Name: f.Name, Type: t})
	}
	return fields, nil
}

// decodeVariantFields handles both variant payload spellings: named fields
// ({"name": ..., "type": ...}) and bare tuple-style type declarations.
func decodeVariantFields(raw []json.RawMessage) ([]Field, error) {
	fields := make([]Field, 0, len(raw))
	for _, r := range raw {
		var f rawEntry
		if err := json.Unmarshal(r, &f); err == nil && f.Name != "" && f.Type != nil {
			t, terr := decodeTypeRef(f.Type)
			if terr != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, terr)
			}
			fields = append(fields, Field{Name: f.Name, Type: t})
			continue
		}

		t, err := decodeTypeRef(r)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Type: t})
	}
	return fields, nil
}
