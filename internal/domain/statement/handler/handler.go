// Package handler exposes the extraction pipeline over HTTP.
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/export"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/service"
	"github.com/FACorreiaa/card-statement-parser/pkg/metrics"
	"github.com/FACorreiaa/card-statement-parser/pkg/pdftext"
	"github.com/FACorreiaa/card-statement-parser/pkg/storage"
)

const (
	formFile = "file"
	// multipart framing allowed on top of the file limit
	multipartSlack = 64 << 10
	pdfMIME        = "application/pdf"
)

// Extractor runs the pipeline over one document.
type Extractor interface {
	Extract(ctx context.Context, doc service.RawDocument) (*service.ExtractionResult, error)
}

// StatementHandler serves the statement parsing endpoints
type StatementHandler struct {
	extractor Extractor
	store     storage.Storage
	metrics   *metrics.Metrics
	maxBytes  int64
	logger    *slog.Logger
}

// NewStatementHandler creates a new statement handler. m may be nil.
func NewStatementHandler(extractor Extractor, store storage.Storage, m *metrics.Metrics, maxBytes int64, logger *slog.Logger) *StatementHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementHandler{
		extractor: extractor,
		store:     store,
		metrics:   m,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Attach registers the statement routes on r.
func (h *StatementHandler) Attach(r chi.Router) {
	r.Post("/statements/parse", h.handleParse)
	r.Post("/statements/parse-text", h.handleParseText)
}

// handleParse accepts a multipart PDF upload.
func (h *StatementHandler) handleParse(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartSlack)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, storage.ErrTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing %q field: %w", formFile, err))
		return
	}
	defer file.Close()

	body, err := requirePDF(file, header)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	info, err := h.store.Save(ctx, header.Filename, pdfMIME, body)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		h.logger.Error("failed to store upload", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to store upload"))
		return
	}
	defer func() {
		if err := h.store.Delete(context.WithoutCancel(ctx), info.ID); err != nil {
			h.logger.Warn("failed to delete upload",
				slog.String("file_id", info.ID.String()),
				slog.Any("error", err))
		}
	}()

	path, err := h.store.LocalPath(ctx, info.ID)
	if err != nil {
		h.logger.Error("failed to locate upload", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to read upload"))
		return
	}

	text, err := pdftext.FromFile(path)
	if err != nil {
		if errors.Is(err, pdftext.ErrEncrypted) || errors.Is(err, pdftext.ErrNoText) || errors.Is(err, pdftext.ErrInvalid) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		h.logger.Error("failed to convert pdf", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to read pdf"))
		return
	}

	h.extract(w, r, service.RawDocument{ID: info.ID.String(), Text: text}, format)
}

// handleParseText accepts the statement as a raw UTF-8 body.
func (h *StatementHandler) handleParseText(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, storage.ErrTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	if !utf8.Valid(data) {
		writeError(w, http.StatusBadRequest, errors.New("body is not valid UTF-8"))
		return
	}

	doc := service.NewRawDocument(string(data))
	if id := middleware.GetReqID(r.Context()); id != "" {
		doc.ID = id
	}
	h.extract(w, r, doc, format)
}

func (h *StatementHandler) extract(w http.ResponseWriter, r *http.Request, doc service.RawDocument, format export.Format) {
	start := time.Now()
	res, err := h.extractor.Extract(r.Context(), doc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		writeError(w, http.StatusInternalServerError, service.ErrInternal)
		return
	}

	h.metrics.ObserveExtraction(res.Provider().String(), res.Confidence(), time.Since(start))
	for _, f := range parser.Fields() {
		h.metrics.ObserveField(f.Key(), res.Field(f).Found)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res, format); err != nil {
		h.logger.Error("failed to render result",
			slog.String("document_id", doc.ID),
			slog.String("format", string(format)),
			slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to render result"))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != export.FormatJSON {
		name := "statement-" + strings.ToLower(res.Provider().String()) + format.Extension()
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// requirePDF checks the name and magic bytes of an upload and returns a
// reader positioned at its start.
func requirePDF(file multipart.File, header *multipart.FileHeader) (io.Reader, error) {
	if header.Filename == "" {
		return nil, errors.New("no file selected")
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		return nil, errors.New("invalid file type: only PDF statements are accepted")
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	sniff = sniff[:n]

	if http.DetectContentType(sniff) != pdfMIME {
		return nil, errors.New("uploaded file is not a PDF")
	}
	return io.MultiReader(bytes.NewReader(sniff), file), nil
}
