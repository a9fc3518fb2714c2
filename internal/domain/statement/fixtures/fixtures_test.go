package fixtures

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
)

func TestGenerator_SeedIsReproducible(t *testing.T) {
	a := NewGeneratorWithSeed(42).Statement(sniffer.HDFC, 5)
	b := NewGeneratorWithSeed(42).Statement(sniffer.HDFC, 5)
	assert.Equal(t, a.Text(), b.Text())
}

func TestStatement_Expected(t *testing.T) {
	s := NewGeneratorWithSeed(7).Statement(sniffer.ICICI, 3)

	want := s.Expected()
	for _, f := range parser.Fields() {
		assert.NotEmpty(t, want[f], "field %s", f)
	}
	assert.Len(t, want[parser.CardNumber], 4)
	assert.False(t, s.DueDate.Before(s.StatementDate))
	assert.Len(t, s.ExpectedTransactions(), 3)
}

func TestStatement_Text(t *testing.T) {
	s := NewGeneratorWithSeed(3).Statement(sniffer.KOTAK, 2)
	text := s.Text()

	require.True(t, strings.HasPrefix(text, "Kotak Mahindra Bank"))
	assert.Contains(t, text, "Card Number: XXXX XXXX XXXX "+s.CardLast4)
	assert.Contains(t, text, s.Total.Display())

	rows := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasSuffix(line, " Dr") || strings.HasSuffix(line, " Cr") {
			rows++
		}
	}
	assert.Equal(t, 2, rows)
}

func TestGenerator_Noise(t *testing.T) {
	g := NewGeneratorWithSeed(11)
	for i := 0; i < 10; i++ {
		noise := g.Noise()
		assert.NotEmpty(t, noise)
		assert.False(t, strings.ContainsAny(noise, "0123456789"))
	}
}
