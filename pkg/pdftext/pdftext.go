// Package pdftext converts statement PDFs into plain text, one output line per
// visual row of the page.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEncrypted is returned for password-protected documents.
	ErrEncrypted = errors.New("pdf is encrypted")
	// ErrNoText is returned when no page yields any text, typically a scanned statement.
	ErrNoText = errors.New("pdf contains no extractable text")
	// ErrInvalid is returned when the bytes are not a readable PDF.
	ErrInvalid = errors.New("invalid pdf")
)

// FromFile extracts the text of the PDF at path.
func FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat pdf: %w", err)
	}
	return Extract(f, info.Size())
}

// FromReader buffers r and extracts its text.
func FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	return Extract(bytes.NewReader(data), int64(len(data)))
}

// Extract reads every page in order. A malformed document that makes the
// reader panic is reported as ErrInvalid.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrInvalid, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", ErrEncrypted
		}
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := pageText(page)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pageText)
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", ErrNoText
	}
	return b.String(), nil
}

func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := joinRow(row.Content); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// joinRow concatenates the runs of one row. Runs drawn at a new x offset are
// separate cells and get a space between them; the pieces of one TJ array
// share an offset and are glued together.
func joinRow(runs pdf.TextHorizontal) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range runs {
		run := &runs[i]
		if run.S == "" {
			continue
		}
		if prev != nil && run.X != prev.X && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(run.S, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(run.S)
		prev = run
	}
	return strings.TrimSpace(b.String())
}
