// Package e2etest provides end-to-end tests of the statement API: a real HTTP
// server, PDF upload, text conversion, extraction and export.
package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/fixtures"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/handler"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/service"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
	"github.com/FACorreiaa/card-statement-parser/pkg/metrics"
	"github.com/FACorreiaa/card-statement-parser/pkg/pdftext/pdftexttest"
	"github.com/FACorreiaa/card-statement-parser/pkg/storage"
)

// Real statements are not committed; drop PDFs here to run TestRealStatements.
const testDataDir = "../../internal/data/statements"

func newServer(t *testing.T) (*httptest.Server, *service.Extractor) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.NewLocalStorage(t.TempDir(), 10<<20)
	require.NoError(t, err)

	extractor := service.NewExtractor(logger, service.Options{})
	h := handler.NewStatementHandler(extractor, store, metrics.New(), 10<<20, logger)
	srv := httptest.NewServer(handler.NewRouter(h, handler.NewRateLimiter(1000, 1000), nil))
	t.Cleanup(srv.Close)
	return srv, extractor
}

func upload(t *testing.T, url, filename string, data []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// pdfLines turns generated statement text into rows the PDF builder can draw
// with a WinAnsi font.
func pdfLines(text string) []string {
	text = strings.ReplaceAll(text, "₹", "Rs. ")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func TestPDFUpload_AllProviders(t *testing.T) {
	srv, _ := newServer(t)
	g := fixtures.NewGeneratorWithSeed(42)

	for _, p := range append(sniffer.Providers(), sniffer.Unknown) {
		t.Run(p.String(), func(t *testing.T) {
			stmt := g.Statement(p, 5)
			doc := pdftexttest.Document(pdfLines(stmt.Text()))

			resp := upload(t, srv.URL+"/api/v1/statements/parse", "statement.pdf", doc)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

			assert.Equal(t, p.String(), got["provider"])
			for f, want := range stmt.Expected() {
				assert.Equal(t, want, got[f.Key()], "field %s", f)
			}
			assert.Equal(t, 1.0, got["confidence"])

			txns, ok := got["transactions"].([]any)
			require.True(t, ok)
			require.Len(t, txns, len(stmt.Rows))
			for i, want := range stmt.ExpectedTransactions() {
				row := txns[i].(map[string]any)
				assert.Equal(t, want.Date, row["date"])
				assert.Equal(t, want.Amount, row["amount"])
				assert.Equal(t, string(want.Type), row["type"])
			}
		})
	}
}

func TestTextEndpoint_MatchesLibrary(t *testing.T) {
	srv, extractor := newServer(t)
	stmt := fixtures.NewGeneratorWithSeed(7).Statement(sniffer.KOTAK, 8)

	resp, err := http.Post(srv.URL+"/api/v1/statements/parse-text", "text/plain; charset=utf-8", strings.NewReader(stmt.Text()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	res, err := extractor.Extract(ctx, service.NewRawDocument(stmt.Text()))
	require.NoError(t, err)
	want, err := json.Marshal(res)
	require.NoError(t, err)

	assert.JSONEq(t, string(want), string(body))
}

func TestCSVExport(t *testing.T) {
	srv, _ := newServer(t)
	stmt := fixtures.NewGeneratorWithSeed(3).Statement(sniffer.ICICI, 4)

	resp := upload(t, srv.URL+"/api/v1/statements/parse?format=csv", "icici.pdf", pdftexttest.Document(pdfLines(stmt.Text())))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="statement-icici.csv"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, len(stmt.Rows)+1)
}

// TestRealStatements runs every PDF in testDataDir through the API and checks
// that a known issuer is detected.
func TestRealStatements(t *testing.T) {
	paths, _ := filepath.Glob(filepath.Join(testDataDir, "*.pdf"))
	if len(paths) == 0 {
		t.Skipf("no statements found in %s (add PDFs to run this test)", testDataDir)
	}

	srv, _ := newServer(t)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)

			resp := upload(t, srv.URL+"/api/v1/statements/parse", filepath.Base(path), data)
			if resp.StatusCode == http.StatusUnprocessableEntity {
				t.Skip("statement is encrypted or scanned")
			}
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.NotEqual(t, sniffer.Unknown.String(), got["provider"])

			t.Logf("%s: provider=%v confidence=%v total=%v",
				filepath.Base(path), got["provider"], got["confidence"], got[parser.TotalAmountDue.Key()])
		})
	}
}
