// Package service runs the statement extraction pipeline: normalize the text,
// detect the issuer, extract every field, score and assemble the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
)

// ErrInternal reports a defect inside the pipeline. Missing fields, unknown
// issuers and empty input are results, not errors.
var ErrInternal = errors.New("internal extraction error")

const tracerName = "github.com/FACorreiaa/card-statement-parser/statement"

// RawDocument is the text of one statement and an identifier for logging.
type RawDocument struct {
	ID   string
	Text string
}

// NewRawDocument wraps text with a fresh ID.
func NewRawDocument(text string) RawDocument {
	return RawDocument{ID: uuid.NewString(), Text: text}
}

// Options tunes the extractor.
type Options struct {
	// Sequential extracts fields one after another in declaration order.
	Sequential bool
}

// FieldParser extracts single fields and transaction rows from normalized text.
type FieldParser interface {
	ExtractField(text string, provider sniffer.Provider, f parser.Field) parser.FieldResult
	ExtractTransactions(text string, provider sniffer.Provider) []parser.Transaction
}

// Extractor is safe for concurrent use.
type Extractor struct {
	parser   FieldParser
	detector *sniffer.Detector
	logger   *slog.Logger
	tracer   trace.Tracer
	opts     Options
}

// NewExtractor creates an extractor with the built-in rule tables and
// merchant sanitizer.
func NewExtractor(logger *slog.Logger, opts Options) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		parser:   parser.NewParser(normalizer.NewMerchantSanitizer()),
		detector: sniffer.NewDetector(),
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		opts:     opts,
	}
}

// WithParser replaces the field parser.
func (e *Extractor) WithParser(p FieldParser) *Extractor {
	e.parser = p
	return e
}

// Extract runs the pipeline over doc. The only errors are a cancelled context
// and ErrInternal.
func (e *Extractor) Extract(ctx context.Context, doc RawDocument) (result *ExtractionResult, err error) {
	ctx, span := e.tracer.Start(ctx, "statement.Extract",
		trace.WithAttributes(attribute.String("document.id", doc.ID), attribute.Int("document.bytes", len(doc.Text))))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked",
				slog.String("document_id", doc.ID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := normalizer.Normalize(doc.Text)
	if normalizer.IsBlank(text) {
		e.logger.Debug("empty statement text", slog.String("document_id", doc.ID))
		span.SetAttributes(attribute.Bool("statement.empty", true))
		return emptyResult(), nil
	}

	provider := e.detector.Detect(text)
	span.SetAttributes(attribute.String("statement.provider", provider.String()))

	fields, txns, err := e.extract(ctx, text, provider)
	if err != nil {
		if errors.Is(err, ErrInternal) {
			e.logger.Error("field extraction failed",
				slog.String("document_id", doc.ID),
				slog.String("provider", provider.String()),
				slog.Any("error", err))
		}
		return nil, err
	}

	for i, fr := range fields {
		if !fr.Found {
			e.logger.Debug("field not found",
				slog.String("document_id", doc.ID),
				slog.String("field", parser.Field(i).Key()),
				slog.String("raw", fr.Raw))
		}
	}

	confidence := Score(fields)
	result = Assemble(provider, fields, txns, confidence)

	span.SetAttributes(
		attribute.Float64("statement.confidence", confidence),
		attribute.Int("statement.transactions", len(txns)))
	e.logger.Info("statement extracted",
		slog.String("document_id", doc.ID),
		slog.String("provider", provider.String()),
		slog.Int("fields_found", result.FoundCount()),
		slog.Int("transactions", len(txns)),
		slog.Float64("confidence", confidence))

	return result, nil
}

// extract fills one slot per field plus the transaction list. Each task
// writes only its own slot, so completion order does not matter.
func (e *Extractor) extract(ctx context.Context, text string, provider sniffer.Provider) ([]parser.FieldResult, []parser.Transaction, error) {
	all := parser.Fields()
	fields := make([]parser.FieldResult, len(all))
	var txns []parser.Transaction

	tasks := make([]func() error, 0, len(all)+1)
	for _, f := range all {
		f := f
		tasks = append(tasks, func() error {
			fields[f] = e.parser.ExtractField(text, provider, f)
			return nil
		})
	}
	tasks = append(tasks, func() error {
		txns = e.parser.ExtractTransactions(text, provider)
		return nil
	})

	if e.opts.Sequential {
		for _, task := range tasks {
			if err := guard(task); err != nil {
				return nil, nil, err
			}
		}
		return fields, txns, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return guard(task)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fields, txns, nil
}

// guard turns a panic in a task into ErrInternal.
func guard(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return task()
}
