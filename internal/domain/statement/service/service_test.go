package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/fixtures"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
)

func extract(t *testing.T, e *Extractor, text string) *ExtractionResult {
	t.Helper()
	res, err := e.Extract(context.Background(), NewRawDocument(text))
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestExtractor_Scenarios(t *testing.T) {
	e := NewExtractor(nil, Options{})

	t.Run("hdfc header and total amount due", func(t *testing.T) {
		res := extract(t, e, "HDFC Bank\nTotal Amount Due: Rs. 12,345.00")
		assert.Equal(t, sniffer.HDFC, res.Provider())
		assert.Equal(t, "12345.00", res.Field(parser.TotalAmountDue).Value)
		assert.Greater(t, res.Confidence(), 0.0)
	})

	t.Run("masked card keeps last four", func(t *testing.T) {
		res := extract(t, e, "Card: XXXX XXXX XXXX 4321")
		assert.Equal(t, "4321", res.Field(parser.CardNumber).Value)
	})

	t.Run("no bank markers uses generic rules", func(t *testing.T) {
		res := extract(t, e, "Cardholder Name: MEERA IYER\nTotal Amount Due: Rs. 500.00\nPayment Due Date: 05/11/2025")
		assert.Equal(t, sniffer.Unknown, res.Provider())
		assert.Equal(t, "Meera Iyer", res.Field(parser.CardholderName).Value)
		assert.Equal(t, "500.00", res.Field(parser.TotalAmountDue).Value)
		assert.Equal(t, "2025-11-05", res.Field(parser.DueDate).Value)
		assert.Equal(t, 0.75, res.Confidence())
	})

	t.Run("empty input", func(t *testing.T) {
		res := extract(t, e, "")
		assert.Equal(t, sniffer.Unknown, res.Provider())
		assert.Equal(t, 0.0, res.Confidence())
		for _, f := range parser.Fields() {
			assert.False(t, res.Field(f).Found, "field %s", f)
		}
		assert.NotNil(t, res.Transactions())
		assert.Empty(t, res.Transactions())
	})

	t.Run("due date with month name", func(t *testing.T) {
		res := extract(t, e, "Payment Due Date: 05 Nov 2025")
		assert.Equal(t, "2025-11-05", res.Field(parser.DueDate).Value)
	})
}

func TestExtractor_Totality(t *testing.T) {
	e := NewExtractor(nil, Options{})
	g := fixtures.NewGeneratorWithSeed(1)

	inputs := []string{"", " ", "\n\n\t", "\u00a0\u200b", "12345", "!!!"}
	for i := 0; i < 10; i++ {
		inputs = append(inputs, g.Noise())
	}

	for _, in := range inputs {
		res := extract(t, e, in)
		assert.Equal(t, sniffer.Unknown, res.Provider(), "input %q", in)
		assert.Equal(t, 0, res.FoundCount(), "input %q", in)
		assert.Equal(t, 0.0, res.Confidence(), "input %q", in)
	}
}

func TestExtractor_GeneratedStatements(t *testing.T) {
	e := NewExtractor(nil, Options{})

	for _, provider := range append(sniffer.Providers(), sniffer.Unknown) {
		t.Run(provider.String(), func(t *testing.T) {
			g := fixtures.NewGeneratorWithSeed(int64(provider) + 100)
			for i := 0; i < 20; i++ {
				stmt := g.Statement(provider, 1+i%6)
				res := extract(t, e, stmt.Text())

				require.Equal(t, provider, res.Provider())
				for f, want := range stmt.Expected() {
					assert.Equal(t, want, res.Field(f).String(), "field %s in\n%s", f, stmt.Text())
				}
				assert.Equal(t, 1.0, res.Confidence())

				got := res.Transactions()
				want := stmt.ExpectedTransactions()
				require.Len(t, got, len(want))
				for j := range want {
					got[j].Merchant, got[j].Category = "", ""
					assert.Equal(t, want[j], got[j])
				}
			}
		})
	}
}

func TestExtractor_Deterministic(t *testing.T) {
	e := NewExtractor(nil, Options{})
	g := fixtures.NewGeneratorWithSeed(9)

	for i := 0; i < 10; i++ {
		text := g.Statement(sniffer.Providers()[i%5], 8).Text()
		first, err := json.Marshal(extract(t, e, text))
		require.NoError(t, err)
		for j := 0; j < 5; j++ {
			again, err := json.Marshal(extract(t, e, text))
			require.NoError(t, err)
			assert.Equal(t, string(first), string(again))
		}
	}
}

func TestExtractor_SequentialMatchesConcurrent(t *testing.T) {
	concurrent := NewExtractor(nil, Options{})
	sequential := NewExtractor(nil, Options{Sequential: true})
	g := fixtures.NewGeneratorWithSeed(5)

	for i := 0; i < 10; i++ {
		text := g.Statement(sniffer.Providers()[i%5], 4).Text()
		a, err := json.Marshal(extract(t, concurrent, text))
		require.NoError(t, err)
		b, err := json.Marshal(extract(t, sequential, text))
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b))
	}
}

func TestExtractor_OrderIndependence(t *testing.T) {
	e := NewExtractor(nil, Options{Sequential: true})
	p := parser.NewParser(normalizer.NewMerchantSanitizer())
	stmt := fixtures.NewGeneratorWithSeed(21).Statement(sniffer.AXIS, 3)

	want, err := json.Marshal(extract(t, e, stmt.Text()))
	require.NoError(t, err)

	text := normalizer.Normalize(stmt.Text())
	provider := sniffer.DetectProvider(text)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10; i++ {
		order := parser.Fields()
		rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })

		fields := make([]parser.FieldResult, len(order))
		for _, f := range order {
			fields[f] = p.ExtractField(text, provider, f)
		}
		res := Assemble(provider, fields, p.ExtractTransactions(text, provider), Score(fields))

		got, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestExtractor_ProviderRulePrecedence(t *testing.T) {
	e := NewExtractor(nil, Options{})
	res := extract(t, e, "Axis Bank\nTotal Payment Due 8,500.00 Dr\nTotal Amount Due 100.00")
	assert.Equal(t, sniffer.AXIS, res.Provider())
	assert.Equal(t, "8500.00", res.Field(parser.TotalAmountDue).Value)
}

type panickingParser struct{}

func (panickingParser) ExtractField(string, sniffer.Provider, parser.Field) parser.FieldResult {
	panic("boom")
}

func (panickingParser) ExtractTransactions(string, sniffer.Provider) []parser.Transaction {
	return nil
}

func TestExtractor_RecoversPanics(t *testing.T) {
	for _, opts := range []Options{{}, {Sequential: true}} {
		e := NewExtractor(nil, opts).WithParser(panickingParser{})
		res, err := e.Extract(context.Background(), NewRawDocument("HDFC Bank statement"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInternal)
		assert.Nil(t, res)
	}
}

func TestExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewExtractor(nil, Options{}).Extract(ctx, NewRawDocument("HDFC Bank"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}
