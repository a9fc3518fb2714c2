package parser

import (
	"testing"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTransactions_Providers(t *testing.T) {
	p := NewParser(normalizer.NewMerchantSanitizer())

	t.Run("hdfc timestamped rows", func(t *testing.T) {
		txns := p.ExtractTransactions(normalizer.Normalize(hdfcStatement), sniffer.HDFC)
		require.Len(t, txns, 2)

		assert.Equal(t, Transaction{
			Date:        "2025-09-18",
			Description: "SWIGGY BANGALORE",
			Amount:      "450.00",
			Type:        TxnUnknown,
			Merchant:    "Swiggy",
			Category:    "Food & Drink",
		}, txns[0])

		assert.Equal(t, "5000.00", txns[1].Amount)
		assert.Equal(t, TxnCredit, txns[1].Type)
		assert.Equal(t, "Payment Received", txns[1].Merchant)
	})

	t.Run("icici serial and reward columns", func(t *testing.T) {
		txns := p.ExtractTransactions(normalizer.Normalize(iciciStatement), sniffer.ICICI)
		require.Len(t, txns, 2)
		assert.Equal(t, "AMAZON IN", txns[0].Description)
		assert.Equal(t, "1234.00", txns[0].Amount)
		assert.Equal(t, "Amazon", txns[0].Merchant)
		assert.Equal(t, TxnCredit, txns[1].Type)
	})

	t.Run("sbi C and D suffixes", func(t *testing.T) {
		txns := p.ExtractTransactions(normalizer.Normalize(sbiStatement), sniffer.SBI)
		require.Len(t, txns, 2)
		assert.Equal(t, "2025-10-15", txns[0].Date)
		assert.Equal(t, TxnDebit, txns[0].Type)
		assert.Equal(t, "Zomato", txns[0].Merchant)
		assert.Equal(t, "2000.00", txns[1].Amount)
		assert.Equal(t, TxnCredit, txns[1].Type)
	})
}

func TestExtractTransactions_Generic(t *testing.T) {
	text := `Transaction Details
01/10/2025 NETFLIX.COM MUMBAI 649.00 Dr
03-10-2025 UBER INDIA TRIP 312.50
05 Oct 2025 BIGBASKET ORDER Rs. 2,145.00 Dr
Opening balance carried forward
07/10/2025 FUEL SURCHARGE WAIVER
25.00 Cr
10/10/2025 12,345.00 1,234.00
12/10/2025 AMAZON REFUND -450.00
14/10/2025 FLIPKART RETURN Rs. -1,299.00 Dr`

	p := NewParser(normalizer.NewMerchantSanitizer())
	txns := p.ExtractTransactions(text, sniffer.Unknown)
	require.Len(t, txns, 6)

	assert.Equal(t, "2025-10-01", txns[0].Date)
	assert.Equal(t, "Netflix", txns[0].Merchant)
	assert.Equal(t, TxnDebit, txns[0].Type)

	assert.Equal(t, "312.50", txns[1].Amount)
	assert.Equal(t, TxnUnknown, txns[1].Type)
	assert.Equal(t, "Transport", txns[1].Category)

	assert.Equal(t, "2145.00", txns[2].Amount)
	assert.Equal(t, "BigBasket", txns[2].Merchant)

	// wrapped row joined with its amount line
	assert.Equal(t, "2025-10-07", txns[3].Date)
	assert.Equal(t, "FUEL SURCHARGE WAIVER", txns[3].Description)
	assert.Equal(t, "25.00", txns[3].Amount)
	assert.Equal(t, TxnCredit, txns[3].Type)

	// an unmarked negative amount is a credit and keeps its sign
	assert.Equal(t, "AMAZON REFUND", txns[4].Description)
	assert.Equal(t, "-450.00", txns[4].Amount)
	assert.Equal(t, TxnCredit, txns[4].Type)

	// an explicit marker wins over the sign
	assert.Equal(t, "-1299.00", txns[5].Amount)
	assert.Equal(t, TxnDebit, txns[5].Type)
}

func TestExtractTransactions_NoRows(t *testing.T) {
	p := NewParser(nil)

	txns := p.ExtractTransactions("", sniffer.Unknown)
	assert.NotNil(t, txns)
	assert.Empty(t, txns)

	txns = p.ExtractTransactions(normalizer.Normalize(axisStatement), sniffer.AXIS)
	assert.NotNil(t, txns)
	assert.Empty(t, txns)
}

func TestExtractTransactions_WithoutSanitizer(t *testing.T) {
	p := NewParser(nil)
	txns := p.ExtractTransactions("01/10/2025 SWIGGY 100.00", sniffer.Unknown)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].Merchant)
	assert.Empty(t, txns[0].Category)
}
