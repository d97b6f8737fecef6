package idl

import (
	"fmt"
	"strings"
)

// Resolved is the answer to a field path lookup: the absolute byte offset
// of the field within a record (discriminator included) and its declared
// type.
type Resolved struct {
	Offset int
	Type   TypeRef
}

// ResolveField walks a dotted field path (e.g. "pricing.feeScalar") through
// an account layout and returns the field's absolute byte offset and
// declared type.
//
// The offset starts at the 8 byte discriminator prefix and accumulates the
// width of every field declared before a matched segment, at every nesting
// level. The matched field's own width is never added. Descending through a
// non-terminal segment requires its type to be a defined struct.
func (i *IDL) ResolveField(account, path string) (Resolved, error) {
	acc, err := i.Account(account)
	if err != nil {
		return Resolved{}, err
	}

	if path == "" {
		return Resolved{}, fmt.Errorf("%w: empty field path", ErrFieldNotFound)
	}

	var (
		segments = strings.Split(path, ".")
		offset   = DiscriminatorLen
		fields   = acc.Fields
	)

	for depth, segment := range segments {
		matched := false

		for _, field := range fields {
			if field.Name != segment {
				size, err := i.SizeOf(field.Type)
				if err != nil {
					return Resolved{}, fmt.Errorf("sizing field %q: %w", field.Name, err)
				}
				offset += size
				continue
			}

			if depth == len(segments)-1 {
				return Resolved{Offset: offset, Type: field.Type}, nil
			}

			// Not the last segment: the walk continues inside this field's
			// own layout, which starts right where the preceding siblings
			// end. The running offset is carried over, never reset.
			fields, err = i.structFields(field.Type)
			if err != nil {
				return Resolved{}, fmt.Errorf("descending into %q: %w", segment, err)
			}
			matched = true
			break
		}

		if !matched {
			return Resolved{}, fmt.Errorf("%w: %q", ErrFieldNotFound, segment)
		}
	}

	// Unreachable: the last segment either matches (returning above) or
	// fails the matched check.
	return Resolved{}, fmt.Errorf("%w: %q", ErrFieldNotFound, path)
}

// structFields resolves a type reference to the field list it nests.
func (i *IDL) structFields(t TypeRef) ([]Field, error) {
	ref, ok := t.(Defined)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAStruct, t)
	}

	def, ok := i.types[ref.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, ref.Name)
	}

	st, ok := def.(StructDef)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotAStruct, ref.Name)
	}

	return st.Fields, nil
}
