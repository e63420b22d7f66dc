package meta

import "google.golang.org/protobuf/encoding/protowire"

// TypeKind is the ORC/DWRF primitive or composite type tag, numbered exactly
// as the wire enum so raw values can be range-checked directly.
type TypeKind uint8

const (
	TypeBoolean TypeKind = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeString
	TypeBinary
	TypeTimestamp
	TypeList
	TypeMap
	TypeStruct
	TypeUnion
	TypeDecimal
	TypeDate
	TypeVarchar
	TypeChar
)

func (k TypeKind) String() string {
	names := [...]string{"BOOLEAN", "BYTE", "SHORT", "INT", "LONG", "FLOAT", "DOUBLE",
		"STRING", "BINARY", "TIMESTAMP", "LIST", "MAP", "STRUCT", "UNION",
		"DECIMAL", "DATE", "VARCHAR", "CHAR"}
	if int(k) < len(names) {
		return names[k]
	}
	return "UNKNOWN"
}

func (k TypeKind) IsPrimitive() bool {
	switch k {
	case TypeList, TypeMap, TypeStruct, TypeUnion:
		return false
	default:
		return true
	}
}

// TypeNode is one entry of the flat, index-based type tree the footer
// carries: children are referenced by offset into the same flat array, so
// there are no pointer cycles to manage.
type TypeNode struct {
	ID            int
	Kind          TypeKind
	Subtypes      []int
	FieldNames    []string // populated only for TypeStruct, aligned with Subtypes
	MaximumLength int      // VARCHAR/CHAR
	Precision     int      // DECIMAL
	Scale         int      // DECIMAL
}

// parseType decodes one Type message (footer field 4, repeated).
func parseType(name string, data []byte) (TypeNode, error) {
	var t TypeNode
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1: // kind
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			if v > uint64(TypeChar) {
				return unsupportedMetadata(name, "unknown type kind")
			}
			t.Kind = TypeKind(v)
		case 2: // subtypes (repeated uint32, packed or unpacked)
			if typ == protowire.BytesType {
				vals, err := packedVarints(name, raw)
				if err != nil {
					return err
				}
				for _, v := range vals {
					t.Subtypes = append(t.Subtypes, int(v))
				}
			} else {
				v, err := asVarint(name, raw)
				if err != nil {
					return err
				}
				t.Subtypes = append(t.Subtypes, int(v))
			}
		case 3: // fieldNames (repeated string)
			t.FieldNames = append(t.FieldNames, asString(raw))
		case 4: // maximumLength
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			t.MaximumLength = int(v)
		case 5: // precision
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			t.Precision = int(v)
		case 6: // scale
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			t.Scale = int(v)
		}
		return nil
	})
	return t, err
}

// TypeTree is the footer's flat type array plus convenience lookups.
type TypeTree struct {
	Nodes []TypeNode
}

func (tt *TypeTree) Node(id int) (TypeNode, bool) {
	if id < 0 || id >= len(tt.Nodes) {
		return TypeNode{}, false
	}
	return tt.Nodes[id], true
}

func (tt *TypeTree) Root() TypeNode { return tt.Nodes[0] }
