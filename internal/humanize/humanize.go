// Package humanize projects decoded GGUF metadata values into display
// strings. Projection is pure and total: every value renders to some string,
// with key-aware truncation for tokenizer data and size-aware summaries for
// arrays.
package humanize

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/FerrisMind/inspector-gguf/internal/gguf"
)

const (
	keyChatTemplate = "tokenizer.chat_template"
	keyTokens       = "tokenizer.ggml.tokens"
	keyMerges       = "tokenizer.ggml.merges"

	// fullValuePrefix marks the keys whose untruncated projection is kept
	// alongside the display string.
	fullValuePrefix = "tokenizer."

	ellipsis = "…"
)

// Project converts one metadata value into a human-readable string. full
// suppresses list truncation for the tokenizer token/merge lists; the other
// rules are unaffected by it.
func Project(key string, v gguf.Value, full bool) string {
	// Chat templates are stored either as a string scalar or as a byte
	// array; the byte form decodes to the template text verbatim.
	if key == keyChatTemplate {
		if b, ok := byteElements(v); ok && len(b) > 0 && utf8.Valid(b) {
			return string(b)
		}
	}

	if key == keyTokens || key == keyMerges {
		if s, ok := tokenList(v, full); ok {
			return s
		}
	}

	if arr, ok := v.Value.(gguf.ArrayValue); ok {
		return projectArray(arr)
	}

	return scalarString(v.Value)
}

// FullTokenizerContent returns the untruncated projection for keys under the
// tokenizer. prefix. All other keys rely on the display value alone.
func FullTokenizerContent(key string, v gguf.Value) (string, bool) {
	if !strings.HasPrefix(key, fullValuePrefix) {
		return "", false
	}
	return Project(key, v, true), true
}

// tokenList renders the tokenizer token/merge arrays: string elements
// verbatim, nested byte arrays decoded as UTF-8, anything else in debug
// form. It reports false when nothing decodes, so the caller falls through
// to the generic array rules.
func tokenList(v gguf.Value, full bool) (string, bool) {
	arr, ok := v.Value.(gguf.ArrayValue)
	if !ok || len(arr.Values) == 0 {
		return "", false
	}

	items := make([]string, 0, len(arr.Values))
	for _, el := range arr.Values {
		switch t := el.(type) {
		case string:
			items = append(items, t)
		case gguf.ArrayValue:
			if b, ok := rawBytes(t); ok && utf8.Valid(b) {
				items = append(items, string(b))
			}
		default:
			items = append(items, debugString(el))
		}
	}
	if len(items) == 0 {
		return "", false
	}

	if len(items) <= 5 || full {
		return strings.Join(items, ", "), true
	}
	return strings.Join(items[:3], ", ") + ", " + ellipsis, true
}

func projectArray(arr gguf.ArrayValue) string {
	// Byte arrays read as text when small enough, hex when not UTF-8, and
	// collapse to a length placeholder past 64 elements.
	if b, ok := rawBytes(arr); ok && len(b) > 0 {
		if len(b) > 64 {
			return fmt.Sprintf("Array(len=%d)", len(b))
		}
		if !utf8.Valid(b) {
			n := min(len(b), 20)
			return hex.EncodeToString(b[:n]) + ellipsis
		}
		s := string(b)
		if utf8.RuneCountInString(s) <= 50 {
			return s
		}
		return string([]rune(s)[:50]) + ellipsis
	}

	if len(arr.Values) <= 10 {
		parts := make([]string, 0, len(arr.Values))
		for _, el := range arr.Values {
			parts = append(parts, debugString(el))
		}
		// The trailing ellipsis is appended even when every element is
		// shown, matching the established output format.
		return strings.Join(parts, ", ") + ", " + ellipsis
	}

	parts := make([]string, 0, 3)
	for _, el := range arr.Values[:3] {
		parts = append(parts, debugString(el))
	}
	return strings.Join(parts, ", ") + ", " + ellipsis
}

// byteElements extracts the raw bytes of a value that is an array of u8.
func byteElements(v gguf.Value) ([]byte, bool) {
	arr, ok := v.Value.(gguf.ArrayValue)
	if !ok {
		return nil, false
	}
	return rawBytes(arr)
}

func rawBytes(arr gguf.ArrayValue) ([]byte, bool) {
	if arr.ElemType != gguf.TypeUint8 {
		return nil, false
	}
	b := make([]byte, 0, len(arr.Values))
	for _, el := range arr.Values {
		u, ok := el.(uint8)
		if !ok {
			return nil, false
		}
		b = append(b, u)
	}
	return b, true
}

// scalarString is the canonical textual form of a scalar: decimal integers,
// shortest round-trippable floats, true/false, strings verbatim.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return debugString(v)
	}
}

// debugString is the generic per-type form used for array elements and as
// the last-resort rendering.
func debugString(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case gguf.ArrayValue:
		return fmt.Sprintf("array(%s, len=%d)", t.ElemType, len(t.Values))
	case bool:
		return strconv.FormatBool(t)
	case uint8:
		return "u8(" + strconv.FormatUint(uint64(t), 10) + ")"
	case uint16:
		return "u16(" + strconv.FormatUint(uint64(t), 10) + ")"
	case uint32:
		return "u32(" + strconv.FormatUint(uint64(t), 10) + ")"
	case uint64:
		return "u64(" + strconv.FormatUint(t, 10) + ")"
	case int8:
		return "i8(" + strconv.FormatInt(int64(t), 10) + ")"
	case int16:
		return "i16(" + strconv.FormatInt(int64(t), 10) + ")"
	case int32:
		return "i32(" + strconv.FormatInt(int64(t), 10) + ")"
	case int64:
		return "i64(" + strconv.FormatInt(t, 10) + ")"
	case float32:
		return "f32(" + strconv.FormatFloat(float64(t), 'g', -1, 32) + ")"
	case float64:
		return "f64(" + strconv.FormatFloat(t, 'g', -1, 64) + ")"
	default:
		return fmt.Sprintf("%v", v)
	}
}
