package idl

import "fmt"

// SizeOf computes the fixed serialized width of a type in bytes.
//
// Widths recurse through arrays, tuples, optionals and defined type
// references. Optionals are layout-transparent: the inner width is used
// as-is, with no presence byte. Variable-width types (string) and unknown
// type references are hard errors, as is any defined type that directly or
// transitively contains itself.
func (i *IDL) SizeOf(t TypeRef) (int, error) {
	return i.sizeOf(t, make(map[string]struct{}))
}

func (i *IDL) sizeOf(t TypeRef, visiting map[string]struct{}) (int, error) {
	switch v := t.(type) {
	case Primitive:
		return primitiveSize(v.Kind)

	case Array:
		elem, err := i.sizeOf(v.Elem, visiting)
		if err != nil {
			return 0, err
		}
		return elem * v.Len, nil

	case Tuple:
		total := 0
		for _, e := range v.Elems {
			size, err := i.sizeOf(e, visiting)
			if err != nil {
				return 0, err
			}
			total += size
		}
		return total, nil

	case Option:
		return i.sizeOf(v.Inner, visiting)

	case Defined:
		return i.definedSize(v.Name, visiting)

	default:
		return 0, fmt.Errorf("%w: %T", ErrTypeNotFound, t)
	}
}

func (i *IDL) definedSize(name string, visiting map[string]struct{}) (int, error) {
	if _, active := visiting[name]; active {
		return 0, fmt.Errorf("%w: %q", ErrCyclicType, name)
	}

	def, ok := i.types[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
	}

	visiting[name] = struct{}{}
	defer delete(visiting, name)

	switch d := def.(type) {
	case StructDef:
		total := 0
		for _, f := range d.Fields {
			size, err := i.sizeOf(f.Type, visiting)
			if err != nil {
				return 0, err
			}
			total += size
		}
		return total, nil

	case EnumDef:
		// One discriminant byte plus the widest variant payload.
		max := 0
		for _, v := range d.Variants {
			variantSize := 0
			for _, f := range v.Fields {
				size, err := i.sizeOf(f.Type, visiting)
				if err != nil {
					return 0, err
				}
				variantSize += size
			}
			if variantSize > max {
				max = variantSize
			}
		}
		return 1 + max, nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
	}
}

func primitiveSize(kind PrimKind) (int, error) {
	switch kind {
	case U8, I8, Bool:
		return 1, nil
	case U16, I16:
		return 2, nil
	case U32, I32, F32:
		return 4, nil
	case U64, I64, F64:
		return 8, nil
	case U128, I128:
		return 16, nil
	case PublicKey:
		return 32, nil
	case String:
		return 0, fmt.Errorf("%w: %s", ErrDynamicSize, kind)
	default:
		return 0, fmt.Errorf("%w: %s", ErrTypeNotFound, kind)
	}
}
