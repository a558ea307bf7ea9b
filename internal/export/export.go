// Package export serializes a metadata listing to the formats the inspection
// surface offers: CSV, JSON, YAML, Markdown and HTML. Exporters consume the
// ordered (key, display value) pairs and never reach back into the decoder.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/FerrisMind/inspector-gguf/internal/humanize"
)

// EnsureExtension appends ext to paths that carry no extension; an existing
// extension, even a different one, is preserved.
func EnsureExtension(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + "." + ext
	}
	return path
}

// CSV writes a key,value table with a header row.
func CSV(w io.Writer, entries []humanize.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "value"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Key, e.Display}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// document is the JSON export shape: the key list plus a raw object whose
// values are reparsed as JSON where the display string allows it.
type document struct {
	Keys []string      `json:"keys"`
	Raw  orderedObject `json:"raw"`
}

// orderedObject marshals entries as a JSON object in file order, which a map
// would not preserve.
type orderedObject []humanize.Entry

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if json.Valid([]byte(e.Display)) {
			buf.WriteString(e.Display)
			continue
		}
		v, err := json.Marshal(e.Display)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON renders the listing as an indented document of the form
// {"keys": [...], "raw": {...}}.
func JSON(entries []humanize.Entry) ([]byte, error) {
	doc := document{Keys: make([]string, 0, len(entries)), Raw: orderedObject(entries)}
	for _, e := range entries {
		doc.Keys = append(doc.Keys, e.Key)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// YAML renders the listing as a single mapping document, keys in file order.
func YAML(entries []humanize.Entry) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Display},
		)
	}
	return yaml.Marshal(root)
}

// WriteFile serializes entries in the named format ("json", "csv", "yaml",
// "markdown", "html") to path, appending the conventional extension when the
// path has none.
func WriteFile(path, format string, entries []humanize.Entry) (string, error) {
	var (
		data []byte
		err  error
		ext  string
	)
	switch format {
	case "json":
		ext = "json"
		data, err = JSON(entries)
	case "csv":
		ext = "csv"
		var buf bytes.Buffer
		err = CSV(&buf, entries)
		data = buf.Bytes()
	case "yaml", "yml":
		ext = "yaml"
		data, err = YAML(entries)
	case "markdown", "md":
		ext = "md"
		data = []byte(Markdown(entries))
	case "html":
		ext = "html"
		var s string
		s, err = HTML(entries)
		data = []byte(s)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}
	path = EnsureExtension(path, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
