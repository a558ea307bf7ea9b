package humanize

import (
	"strconv"

	"github.com/FerrisMind/inspector-gguf/internal/gguf"
)

// Entry is one row of the final metadata listing. Display is always
// populated and may be truncated; Full carries the untruncated projection
// for tokenizer-prefixed keys only.
//
// Consumers that inline Display must treat values longer than 1024
// characters, or containing a NUL byte, as large/binary content.
type Entry struct {
	Key     string `json:"key"`
	Display string `json:"display_value"`
	Full    string `json:"full_value,omitempty"`
	HasFull bool   `json:"-"`
}

// Entries projects the decoded metadata into the final ordered listing:
// three synthetic entries derived from the header, then one entry per
// key/value pair in file order.
func Entries(hdr gguf.Header, kvs []gguf.KV) []Entry {
	out := make([]Entry, 0, len(kvs)+3)
	out = append(out,
		Entry{Key: "version", Display: strconv.FormatUint(uint64(hdr.Version), 10)},
		Entry{Key: "tensor_count", Display: strconv.FormatUint(hdr.TensorCount, 10)},
		Entry{Key: "kv_count", Display: strconv.FormatUint(hdr.KVCount, 10)},
	)
	for _, kv := range kvs {
		e := Entry{Key: kv.Key, Display: Project(kv.Key, kv.Value, false)}
		if full, ok := FullTokenizerContent(kv.Key, kv.Value); ok {
			e.Full = full
			e.HasFull = true
		}
		out = append(out, e)
	}
	return out
}
