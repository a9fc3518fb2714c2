package service

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
)

// ExtractionResult is the assembled output of one extraction. It is not
// modified after Assemble returns; accessors hand out copies.
type ExtractionResult struct {
	provider     sniffer.Provider
	fields       []parser.FieldResult
	transactions []parser.Transaction
	confidence   float64
}

// mandatory groups; a group counts when any of its fields is found
var mandatoryGroups = [][]parser.Field{
	{parser.CardholderName},
	{parser.CardNumber},
	{parser.StatementDate, parser.DueDate},
	{parser.TotalAmountDue, parser.MinimumAmountDue},
}

// Score returns the share of mandatory groups with at least one found field.
// fields is indexed by parser.Field; missing entries count as not found.
func Score(fields []parser.FieldResult) float64 {
	found := 0
	for _, group := range mandatoryGroups {
		for _, f := range group {
			if int(f) < len(fields) && fields[f].Found {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(mandatoryGroups))
}

// Assemble composes an ExtractionResult. fields is indexed by parser.Field and
// padded with NotFound when short; confidence is clamped to [0,1].
func Assemble(provider sniffer.Provider, fields []parser.FieldResult, txns []parser.Transaction, confidence float64) *ExtractionResult {
	all := parser.Fields()
	out := make([]parser.FieldResult, len(all))
	copy(out, fields)

	rows := make([]parser.Transaction, len(txns))
	copy(rows, txns)

	switch {
	case confidence < 0 || math.IsNaN(confidence):
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	return &ExtractionResult{
		provider:     provider,
		fields:       out,
		transactions: rows,
		confidence:   confidence,
	}
}

// emptyResult is the EmptyInput outcome.
func emptyResult() *ExtractionResult {
	return Assemble(sniffer.Unknown, nil, nil, 0)
}

func (r *ExtractionResult) Provider() sniffer.Provider { return r.provider }

func (r *ExtractionResult) Confidence() float64 { return r.confidence }

// Field returns the result for f, NotFound for an unknown field.
func (r *ExtractionResult) Field(f parser.Field) parser.FieldResult {
	if f < 0 || int(f) >= len(r.fields) {
		return parser.NotFound()
	}
	return r.fields[f]
}

// Fields returns every field result in output order.
func (r *ExtractionResult) Fields() []parser.FieldResult {
	out := make([]parser.FieldResult, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r *ExtractionResult) Transactions() []parser.Transaction {
	out := make([]parser.Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}

// FoundCount returns how many fields were found.
func (r *ExtractionResult) FoundCount() int {
	n := 0
	for _, fr := range r.fields {
		if fr.Found {
			n++
		}
	}
	return n
}

// MarshalJSON writes the field keys in output order, then transactions,
// provider and confidence.
func (r *ExtractionResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}

	for _, f := range parser.Fields() {
		if err := write(f.Key(), r.Field(f)); err != nil {
			return nil, err
		}
	}
	txns := r.transactions
	if txns == nil {
		txns = []parser.Transaction{}
	}
	if err := write("transactions", txns); err != nil {
		return nil, err
	}
	if err := write("provider", r.provider); err != nil {
		return nil, err
	}
	if err := write("confidence", r.confidence); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
