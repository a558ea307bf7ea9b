package gguf

import "fmt"

func (m *Metadata) GetString(key string) (string, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.Value.(string)
	return s, ok
}

func (m *Metadata) GetBool(key string) (bool, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return false, false
	}
	b, ok := v.Value.(bool)
	return b, ok
}

func (m *Metadata) GetUint64(key string) (uint64, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return 0, false
	}
	return asUint64(v.Value)
}

func (m *Metadata) GetInt64(key string) (int64, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return 0, false
	}
	switch t := v.Value.(type) {
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	default:
		return 0, false
	}
}

func (m *Metadata) GetFloat64(key string) (float64, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return 0, false
	}
	switch t := v.Value.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// GetArray retrieves a slice of type T from the metadata. It requires the
// value to be an array whose every element asserts to T.
func GetArray[T any](m *Metadata, key string) ([]T, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.Value.(ArrayValue)
	if !ok {
		return nil, false
	}

	out := make([]T, 0, len(arr.Values))
	for _, item := range arr.Values {
		tItem, ok := item.(T)
		if !ok {
			return nil, false
		}
		out = append(out, tItem)
	}
	return out, true
}

func MustGetString(m *Metadata, key string) (string, error) {
	if s, ok := m.GetString(key); ok {
		return s, nil
	}
	return "", fmt.Errorf("missing or invalid %s", key)
}

func MustGetUint64(m *Metadata, key string) (uint64, error) {
	if v, ok := m.GetUint64(key); ok {
		return v, nil
	}
	return 0, fmt.Errorf("missing or invalid %s", key)
}

func asUint64(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint8:
		return uint64(t), true
	case uint16:
		return uint64(t), true
	case uint32:
		return uint64(t), true
	case uint64:
		return t, true
	case int8:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int16:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int32:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	default:
		return 0, false
	}
}
