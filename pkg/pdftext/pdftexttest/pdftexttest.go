// Package pdftexttest builds small text-only PDF documents for tests.
package pdftexttest

import (
	"bytes"
	"fmt"
	"strings"
)

// Options tweaks the generated document.
type Options struct {
	// Encrypted adds a standard security handler whose empty user password
	// does not open the document.
	Encrypted bool
}

// Document returns a PDF with one page per element of pages. Each string of a
// page is drawn on its own row, top to bottom, in Helvetica.
func Document(pages ...[]string) []byte {
	return Build(Options{}, pages...)
}

// Build is Document with options.
func Build(opts Options, pages ...[]string) []byte {
	var buf bytes.Buffer
	offsets := []int{0}

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, lines := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))

		var content strings.Builder
		for j, line := range lines {
			fmt.Fprintf(&content, "BT /F1 10 Tf 1 0 0 1 50 %d Tm (%s) Tj ET\n", 760-14*j, escape(line))
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := fmt.Sprintf("/Size %d /Root 1 0 R", len(offsets))
	if opts.Encrypted {
		pad := strings.Repeat("A", 32)
		trailer += fmt.Sprintf(" /Encrypt << /Filter /Standard /V 1 /R 2 /O (%s) /U (%s) /P -4 >> /ID [(0123456789abcdef) (0123456789abcdef)]", pad, pad)
	}
	fmt.Fprintf(&buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
