package gguf

import "fmt"

// DecodeHeader reads the fixed preamble from buf. It requires the full 24
// header bytes so every field, including kv_count, is in bounds.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrMalformedHeader, len(buf), HeaderSize)
	}
	if string(buf[:4]) != magicGGUF {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, buf[:4])
	}
	c := &cursor{buf: buf, off: 4}
	version, _ := c.readU32()
	tensorCount, _ := c.readU64()
	kvCount, _ := c.readU64()
	return Header{
		Version:     version,
		TensorCount: tensorCount,
		KVCount:     kvCount,
	}, nil
}

// Decode reads the header followed by exactly kv_count tagged key/value
// pairs, preserving file order. The whole buffer must already be in memory;
// decoding is single-pass and stops at the first malformed entry.
func Decode(buf []byte) (*Metadata, error) {
	hdr, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	c := &cursor{buf: buf, off: HeaderSize}
	kvs := make([]KV, 0, int(min(hdr.KVCount, 1024)))
	index := make(map[string]int, int(min(hdr.KVCount, 1024)))
	for i := uint64(0); i < hdr.KVCount; i++ {
		key, err := c.readString()
		if err != nil {
			return nil, fmt.Errorf("read key %d: %w", i, err)
		}
		tag, err := c.readU32()
		if err != nil {
			return nil, fmt.Errorf("read type of %s: %w", key, err)
		}
		vtype := ValueType(tag)
		val, err := readValue(c, vtype, 0)
		if err != nil {
			return nil, fmt.Errorf("read value of %s: %w", key, err)
		}
		index[key] = len(kvs)
		kvs = append(kvs, KV{Key: key, Value: Value{Type: vtype, Value: val}})
	}

	return &Metadata{Header: hdr, KVs: kvs, index: index}, nil
}

func readValue(c *cursor, vtype ValueType, depth int) (any, error) {
	switch vtype {
	case TypeUint8:
		return c.readU8()
	case TypeInt8:
		return c.readI8()
	case TypeUint16:
		return c.readU16()
	case TypeInt16:
		return c.readI16()
	case TypeUint32:
		return c.readU32()
	case TypeInt32:
		return c.readI32()
	case TypeUint64:
		return c.readU64()
	case TypeInt64:
		return c.readI64()
	case TypeFloat32:
		return c.readF32()
	case TypeFloat64:
		return c.readF64()
	case TypeBool:
		return c.readBool()
	case TypeString:
		return c.readString()
	case TypeArray:
		if depth >= maxArrayDepth {
			return nil, c.errf("array nesting exceeds depth %d", maxArrayDepth)
		}
		elemTag, err := c.readU32()
		if err != nil {
			return nil, err
		}
		elemType := ValueType(elemTag)
		count, err := c.readU64()
		if err != nil {
			return nil, err
		}
		// Every element occupies at least one byte, so a count beyond the
		// remaining bytes can never decode.
		if count > uint64(c.remaining()) {
			return nil, c.errf("array declares %d elements, %d bytes remain", count, c.remaining())
		}
		values := make([]any, 0, count)
		for range count {
			v, err := readValue(c, elemType, depth+1)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return ArrayValue{ElemType: elemType, Values: values}, nil
	default:
		return nil, c.errf("unknown value type %d", uint32(vtype))
	}
}
