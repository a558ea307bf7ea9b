package humanize

import (
	"strings"
	"testing"

	"github.com/FerrisMind/inspector-gguf/internal/gguf"
)

func byteArray(b []byte) gguf.Value {
	vals := make([]any, len(b))
	for i, x := range b {
		vals[i] = x
	}
	return gguf.Value{Type: gguf.TypeArray, Value: gguf.ArrayValue{ElemType: gguf.TypeUint8, Values: vals}}
}

func stringArray(ss ...string) gguf.Value {
	vals := make([]any, len(ss))
	for i, s := range ss {
		vals[i] = s
	}
	return gguf.Value{Type: gguf.TypeArray, Value: gguf.ArrayValue{ElemType: gguf.TypeString, Values: vals}}
}

func f32Array(fs ...float32) gguf.Value {
	vals := make([]any, len(fs))
	for i, f := range fs {
		vals[i] = f
	}
	return gguf.Value{Type: gguf.TypeArray, Value: gguf.ArrayValue{ElemType: gguf.TypeFloat32, Values: vals}}
}

func TestChatTemplateByteArray(t *testing.T) {
	t.Parallel()
	v := byteArray([]byte("Hello {{name}}"))

	for _, full := range []bool{false, true} {
		if got := Project("tokenizer.chat_template", v, full); got != "Hello {{name}}" {
			t.Errorf("full=%v: got %q", full, got)
		}
	}
}

func TestChatTemplateStringScalar(t *testing.T) {
	t.Parallel()
	v := gguf.Value{Type: gguf.TypeString, Value: "{% for m in messages %}"}
	if got := Project("tokenizer.chat_template", v, false); got != "{% for m in messages %}" {
		t.Errorf("got %q", got)
	}
}

func TestTokenListBoundary(t *testing.T) {
	t.Parallel()
	five := stringArray("a", "b", "c", "d", "e")
	six := stringArray("a", "b", "c", "d", "e", "f")

	if got := Project("tokenizer.ggml.tokens", five, false); got != "a, b, c, d, e" {
		t.Errorf("five display: %q", got)
	}
	if got := Project("tokenizer.ggml.tokens", six, false); got != "a, b, c, "+ellipsis {
		t.Errorf("six display: %q", got)
	}
	if got := Project("tokenizer.ggml.tokens", six, true); got != "a, b, c, d, e, f" {
		t.Errorf("six full: %q", got)
	}
}

func TestTokenListNestedByteElements(t *testing.T) {
	t.Parallel()
	// Merges occasionally arrive as arrays of byte arrays.
	inner := func(s string) any {
		vals := make([]any, len(s))
		for i := range len(s) {
			vals[i] = s[i]
		}
		return gguf.ArrayValue{ElemType: gguf.TypeUint8, Values: vals}
	}
	v := gguf.Value{Type: gguf.TypeArray, Value: gguf.ArrayValue{
		ElemType: gguf.TypeArray,
		Values:   []any{inner("t h"), inner("e r")},
	}}

	if got := Project("tokenizer.ggml.merges", v, false); got != "t h, e r" {
		t.Errorf("got %q", got)
	}
}

func TestByteArrayThreshold(t *testing.T) {
	t.Parallel()
	// 32 two-byte runes: exactly 64 valid UTF-8 bytes but only 32 characters.
	s := strings.Repeat("é", 32)
	if got := Project("some.key", byteArray([]byte(s)), false); got != s {
		t.Errorf("64-byte array: got %q, want verbatim text", got)
	}

	if got := Project("some.key", byteArray(make([]byte, 65)), false); got != "Array(len=65)" {
		t.Errorf("65-byte array: got %q", got)
	}
}

func TestByteArrayLongTextTruncated(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("x", 60)
	got := Project("some.key", byteArray([]byte(s)), false)
	want := strings.Repeat("x", 50) + ellipsis
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestByteArrayHexFallback(t *testing.T) {
	t.Parallel()
	b := make([]byte, 30)
	for i := range b {
		b[i] = 0xf0 // never valid UTF-8
	}
	got := Project("some.key", byteArray(b), false)
	want := strings.Repeat("f0", 20) + ellipsis
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenericArraySmall(t *testing.T) {
	t.Parallel()
	got := Project("some.key", f32Array(1, 2, 3), false)
	// The trailing ellipsis is part of the established format even when the
	// array is shown in full.
	if got != "f32(1), f32(2), f32(3), "+ellipsis {
		t.Errorf("got %q", got)
	}
}

func TestGenericArrayLarge(t *testing.T) {
	t.Parallel()
	fs := make([]float32, 12)
	for i := range fs {
		fs[i] = float32(i)
	}
	got := Project("some.key", f32Array(fs...), false)
	if got != "f32(0), f32(1), f32(2), "+ellipsis {
		t.Errorf("got %q", got)
	}
}

func TestScalarForms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		val  any
		want string
	}{
		{uint32(42), "42"},
		{int64(-7), "-7"},
		{float32(0.5), "0.5"},
		{float64(10000), "10000"},
		{true, "true"},
		{false, "false"},
		{"as-is", "as-is"},
	}
	for _, tc := range tests {
		if got := Project("any.key", gguf.Value{Value: tc.val}, false); got != tc.want {
			t.Errorf("Project(%v) = %q, want %q", tc.val, got, tc.want)
		}
	}
}

func TestProjectionIsPure(t *testing.T) {
	t.Parallel()
	values := []gguf.Value{
		byteArray([]byte("Hello {{name}}")),
		stringArray("a", "b", "c", "d", "e", "f"),
		f32Array(1, 2, 3),
		{Value: uint64(9)},
		{Value: gguf.ArrayValue{ElemType: gguf.TypeString}},
	}
	keys := []string{"tokenizer.chat_template", "tokenizer.ggml.tokens", "x.y", "", "tokenizer.ggml.merges"}
	for _, key := range keys {
		for _, v := range values {
			a := Project(key, v, true)
			b := Project(key, v, true)
			if a != b {
				t.Errorf("Project(%q) not deterministic: %q vs %q", key, a, b)
			}
		}
	}
}

func TestFullTokenizerContent(t *testing.T) {
	t.Parallel()
	v := stringArray("a", "b", "c", "d", "e", "f")

	full, ok := FullTokenizerContent("tokenizer.ggml.tokens", v)
	if !ok || full != "a, b, c, d, e, f" {
		t.Errorf("got %q, %v", full, ok)
	}
	if _, ok := FullTokenizerContent("general.name", v); ok {
		t.Error("non-tokenizer key must not carry a full value")
	}
}

func TestEntries(t *testing.T) {
	t.Parallel()
	hdr := gguf.Header{Version: 3, TensorCount: 12, KVCount: 2}
	kvs := []gguf.KV{
		{Key: "general.name", Value: gguf.Value{Type: gguf.TypeString, Value: "tiny"}},
		{Key: "tokenizer.ggml.tokens", Value: stringArray("a", "b", "c", "d", "e", "f")},
	}

	entries := Entries(hdr, kvs)
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}

	wantKeys := []string{"version", "tensor_count", "kv_count", "general.name", "tokenizer.ggml.tokens"}
	for i, k := range wantKeys {
		if entries[i].Key != k {
			t.Errorf("entry %d: key %q, want %q", i, entries[i].Key, k)
		}
	}
	if entries[0].Display != "3" || entries[1].Display != "12" || entries[2].Display != "2" {
		t.Errorf("synthetic entries: %q %q %q", entries[0].Display, entries[1].Display, entries[2].Display)
	}
	for i := 0; i < 4; i++ {
		if entries[i].HasFull {
			t.Errorf("entry %d must not have a full value", i)
		}
	}
	last := entries[4]
	if last.Display != "a, b, c, "+ellipsis {
		t.Errorf("tokens display: %q", last.Display)
	}
	if !last.HasFull || last.Full != "a, b, c, d, e, f" {
		t.Errorf("tokens full: %q, %v", last.Full, last.HasFull)
	}
}
