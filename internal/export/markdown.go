package export

import (
	"bytes"
	"encoding/base64"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"

	"github.com/FerrisMind/inspector-gguf/internal/humanize"
)

// largeValueThreshold marks display values the rendering contract calls
// large/binary: anything longer, or containing a NUL byte, is emitted as
// base64 instead of inline text.
const largeValueThreshold = 1024

func isLargeOrBinary(s string) bool {
	return len(s) > largeValueThreshold || strings.ContainsRune(s, '\x00')
}

// sanitizeForMarkdown replaces control characters, except newlines and tabs,
// with spaces.
func sanitizeForMarkdown(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return ' '
		}
		return r
	}, s)
}

// escapeMarkdownText backslash-escapes the characters that would break
// heading or emphasis structure.
func escapeMarkdownText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '_', '`', '[', ']', '<', '>', '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Markdown renders the listing as a document with one section per key.
func Markdown(entries []humanize.Entry) string {
	var out strings.Builder
	out.WriteString("# GGUF Metadata\n\n")
	for _, e := range entries {
		out.WriteString("## ")
		out.WriteString(escapeMarkdownText(e.Key))
		out.WriteString("\n\n")
		if isLargeOrBinary(e.Display) {
			out.WriteString("```base64\n")
			out.WriteString(base64.StdEncoding.EncodeToString([]byte(e.Display)))
			out.WriteString("\n```\n\n")
			continue
		}
		safe := sanitizeForMarkdown(e.Display)
		out.WriteString("```\n")
		out.WriteString(strings.ReplaceAll(safe, "```", "` ` `"))
		out.WriteString("\n```\n\n")
	}
	return out.String()
}

// HTML renders the Markdown document to HTML.
func HTML(entries []humanize.Entry) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(entries)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
