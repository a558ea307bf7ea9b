package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/FerrisMind/inspector-gguf/internal/humanize"
)

func testEntries() []humanize.Entry {
	return []humanize.Entry{
		{Key: "version", Display: "3"},
		{Key: "general.name", Display: "tiny model"},
		{Key: "zz.first", Display: "ordering probe"},
		{Key: "aa.second", Display: "comes after despite sorting"},
	}
}

func TestEnsureExtension(t *testing.T) {
	t.Parallel()
	if got := EnsureExtension("out", "csv"); got != "out.csv" {
		t.Errorf("got %q", got)
	}
	if got := EnsureExtension("out.txt", "csv"); got != "out.txt" {
		t.Errorf("existing extension must win, got %q", got)
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := CSV(&buf, testEntries()); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "key,value\n") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "general.name,tiny model\n") {
		t.Errorf("missing row: %q", out)
	}
}

func TestJSONShapeAndOrder(t *testing.T) {
	t.Parallel()
	data, err := JSON(testEntries())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc struct {
		Keys []string       `json:"keys"`
		Raw  map[string]any `json:"raw"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Keys) != 4 || doc.Keys[0] != "version" {
		t.Fatalf("keys %v", doc.Keys)
	}
	// "3" reparses as a JSON number; free text stays a string.
	if v, ok := doc.Raw["version"].(float64); !ok || v != 3 {
		t.Errorf("version = %#v, want number 3", doc.Raw["version"])
	}
	if v, ok := doc.Raw["general.name"].(string); !ok || v != "tiny model" {
		t.Errorf("general.name = %#v", doc.Raw["general.name"])
	}

	// File order, not sorted order.
	if strings.Index(string(data), "zz.first") > strings.Index(string(data), "aa.second") {
		t.Error("raw object lost insertion order")
	}
}

func TestYAML(t *testing.T) {
	t.Parallel()
	data, err := YAML(testEntries())
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["general.name"] != "tiny model" {
		t.Errorf("general.name = %q", m["general.name"])
	}
	if strings.Index(string(data), "zz.first") > strings.Index(string(data), "aa.second") {
		t.Error("mapping lost insertion order")
	}
}

func TestMarkdownEscapesAndFences(t *testing.T) {
	t.Parallel()
	entries := []humanize.Entry{
		{Key: "has_*stars*", Display: "plain"},
		{Key: "controls", Display: "a\x01b\tc"},
		{Key: "fences", Display: "code ``` inside"},
	}
	md := Markdown(entries)
	if !strings.Contains(md, "# GGUF Metadata") {
		t.Error("missing document heading")
	}
	if !strings.Contains(md, `## has\_\*stars\*`) {
		t.Errorf("key not escaped: %q", md)
	}
	if !strings.Contains(md, "a b\tc") {
		t.Errorf("control characters not sanitized: %q", md)
	}
	if !strings.Contains(md, "` ` `") {
		t.Errorf("embedded fence not defused: %q", md)
	}
}

func TestMarkdownBase64ForLargeAndBinary(t *testing.T) {
	t.Parallel()
	entries := []humanize.Entry{
		{Key: "large", Display: strings.Repeat("x", 2000)},
		{Key: "binary", Display: "nul\x00inside"},
		{Key: "boundary", Display: strings.Repeat("y", 1024)},
	}
	md := Markdown(entries)
	if strings.Count(md, "```base64") != 2 {
		t.Fatalf("expected exactly two base64 fences:\n%s", md)
	}
	if !strings.Contains(md, strings.Repeat("y", 1024)) {
		t.Error("value at the 1024 boundary must stay inline")
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()
	html, err := HTML(testEntries())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<pre>") {
		t.Errorf("unexpected html: %q", html)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path, err := WriteFile(filepath.Join(dir, "out"), "csv", testEntries())
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Ext(path) != ".csv" {
		t.Errorf("path %q missing extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "general.name") {
		t.Errorf("content: %q", data)
	}

	if _, err := WriteFile(filepath.Join(dir, "out"), "pdf", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
