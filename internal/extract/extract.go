package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Error marks a failure inside the PDF parser itself, as opposed to a
// well-formed document that simply contains no extractable text.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("extract pdf text: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Extractor converts raw PDF bytes into plain text. It is deterministic and
// never retried; a parse failure on the same bytes will fail the same way.
type Extractor struct {
	maxLength int
}

func New(maxLength int) *Extractor {
	if maxLength <= 0 {
		maxLength = 50000
	}
	return &Extractor{maxLength: maxLength}
}

// Extract returns the concatenated plain text of every page, trimmed and
// truncated to the configured maximum. Emptiness is not an error here; the
// caller decides whether short output means a scanned document.
func (e *Extractor) Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Err: err}
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return truncate(strings.TrimSpace(buf.String()), e.maxLength), nil
}

// truncate caps s at max bytes without splitting a rune; the result must
// stay valid UTF-8 because it is persisted to a Postgres text column.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
