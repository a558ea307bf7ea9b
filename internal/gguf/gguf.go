// Package gguf decodes the header and tagged key/value metadata section of
// GGUF model container files. The tensor payload that follows the metadata is
// not parsed.
package gguf

import "fmt"

const (
	magicGGUF = "GGUF"

	// HeaderSize is the fixed size of the GGUF preamble:
	// magic(4) + version(4) + tensor_count(8) + kv_count(8).
	HeaderSize = 24

	// maxArrayDepth bounds nested array decoding so a crafted file cannot
	// exhaust the stack.
	maxArrayDepth = 8
)

type ValueType uint32

const (
	TypeUint8   ValueType = 0
	TypeInt8    ValueType = 1
	TypeUint16  ValueType = 2
	TypeInt16   ValueType = 3
	TypeUint32  ValueType = 4
	TypeInt32   ValueType = 5
	TypeFloat32 ValueType = 6
	TypeBool    ValueType = 7
	TypeString  ValueType = 8
	TypeArray   ValueType = 9
	TypeUint64  ValueType = 10
	TypeInt64   ValueType = 11
	TypeFloat64 ValueType = 12
)

func (t ValueType) String() string {
	switch t {
	case TypeUint8:
		return "u8"
	case TypeInt8:
		return "i8"
	case TypeUint16:
		return "u16"
	case TypeInt16:
		return "i16"
	case TypeUint32:
		return "u32"
	case TypeInt32:
		return "i32"
	case TypeUint64:
		return "u64"
	case TypeInt64:
		return "i64"
	case TypeFloat32:
		return "f32"
	case TypeFloat64:
		return "f64"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	default:
		return fmt.Sprintf("type(%d)", uint32(t))
	}
}

// Value is one decoded metadata value: a scalar held as its native Go type
// (uint8..uint64, int8..int64, float32/float64, bool, string) or an
// ArrayValue. Values are immutable once decoded.
type Value struct {
	Type  ValueType
	Value any
}

// ArrayValue is a homogeneous array. Every element carries the runtime type
// declared by ElemType; elements of TypeArray nest further ArrayValues.
type ArrayValue struct {
	ElemType ValueType
	Values   []any
}

// Header is the fixed-size GGUF preamble. All fields are little-endian in
// the file.
type Header struct {
	Version     uint32
	TensorCount uint64
	KVCount     uint64
}

// KV is one metadata entry in file order.
type KV struct {
	Key   string
	Value Value
}

// Metadata holds the decoded header and the key/value section in the order
// the keys appeared in the file.
type Metadata struct {
	Header Header
	KVs    []KV

	index map[string]int
}

// Lookup returns the value for key, if present.
func (m *Metadata) Lookup(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.KVs[i].Value, true
}
