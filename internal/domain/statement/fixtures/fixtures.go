// Package fixtures generates synthetic card statements together with the
// values an extraction is expected to produce from them.
package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
	"github.com/FACorreiaa/card-statement-parser/pkg/money"
)

// Generator builds statements from a gofakeit source.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator with a random seed.
func NewGenerator() *Generator {
	return &Generator{faker: gofakeit.New(0)}
}

// NewGeneratorWithSeed creates a generator with a specific seed for reproducibility.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Row is one generated transaction line.
type Row struct {
	Date        time.Time
	Description string
	Amount      *money.Money
	Credit      bool
}

// Statement is a generated statement. Dates are rendered either numerically
// or with a month name depending on WordyDates.
type Statement struct {
	Provider       sniffer.Provider
	CardholderName string
	CardLast4      string
	StatementDate  time.Time
	DueDate        time.Time
	PeriodStart    time.Time
	Total          *money.Money
	Minimum        *money.Money
	CreditLimit    *money.Money
	Rows           []Row
	WordyDates     bool
}

var headers = map[sniffer.Provider]string{
	sniffer.HDFC:    "HDFC Bank Credit Card Statement",
	sniffer.ICICI:   "ICICI Bank Credit Card Statement",
	sniffer.AXIS:    "Axis Bank Credit Card Statement",
	sniffer.KOTAK:   "Kotak Mahindra Bank Credit Card Statement",
	sniffer.SBI:     "SBI Card Monthly Statement",
	sniffer.Unknown: "Credit Card Statement",
}

var firstNames = []string{
	"RAHUL", "PRIYA", "AMIT", "SNEHA", "VIKRAM", "ANANYA", "ARJUN", "MEERA",
	"KARAN", "DIVYA", "ROHAN", "NEHA", "SURESH", "KAVYA", "ADITYA", "POOJA",
}

var lastNames = []string{
	"SHARMA", "NAIR", "VERMA", "IYER", "SINGH", "REDDY", "GUPTA", "MEHTA",
	"PATEL", "RAO", "JOSHI", "KULKARNI", "BANERJEE", "PILLAI", "CHOPRA", "DAS",
}

var debitDescriptions = []string{
	"SWIGGY BANGALORE", "ZOMATO ORDER", "AMAZON IN", "FLIPKART INTERNET",
	"UBER INDIA TRIP", "OLA CABS", "NETFLIX.COM MUMBAI", "BIGBASKET ORDER",
	"IRCTC E-TICKET", "STARBUCKS COFFEE", "AIRTEL PREPAID", "APOLLO PHARMACY",
	"LOCAL KIRANA STORE", "BOOKMYSHOW", "MYNTRA DESIGNS",
}

var creditDescriptions = []string{
	"PAYMENT RECEIVED THANK YOU", "CASHBACK CREDIT", "REFUND AMAZON IN",
}

// Statement generates a statement for provider with rows transactions.
func (g *Generator) Statement(provider sniffer.Provider, rows int) Statement {
	stmt := time.Date(g.faker.Number(2022, 2026), time.Month(g.faker.Number(1, 12)), g.faker.Number(1, 28), 0, 0, 0, 0, time.UTC)
	total := g.amount(500, 250000)
	minimum := money.NewFromDecimal(total.ToDecimal().Div(decimal.NewFromInt(20)).Round(0), money.INR)

	s := Statement{
		Provider:       provider,
		CardholderName: g.faker.RandomString(firstNames) + " " + g.faker.RandomString(lastNames),
		CardLast4:      g.faker.DigitN(4),
		StatementDate:  stmt,
		DueDate:        stmt.AddDate(0, 0, g.faker.Number(15, 21)),
		PeriodStart:    stmt.AddDate(0, -1, 1),
		Total:          total,
		Minimum:        minimum,
		CreditLimit:    money.New(int64(g.faker.Number(50, 500))*100000, money.INR),
		WordyDates:     g.faker.Bool(),
	}

	span := int(s.StatementDate.Sub(s.PeriodStart).Hours() / 24)
	for i := 0; i < rows; i++ {
		row := Row{
			Date:        s.PeriodStart.AddDate(0, 0, g.faker.Number(0, span)),
			Description: g.faker.RandomString(debitDescriptions),
			Amount:      g.amount(10, 50000),
		}
		if g.faker.Number(1, 10) == 1 {
			row.Description = g.faker.RandomString(creditDescriptions)
			row.Credit = true
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// Noise returns text with no issuer markers and no statement labels.
func (g *Generator) Noise() string {
	return g.faker.LoremIpsumParagraph(g.faker.Number(1, 3), g.faker.Number(2, 6), g.faker.Number(4, 12), "\n")
}

// amount returns a random rupee amount with paise between lo and hi rupees.
func (g *Generator) amount(lo, hi int) *money.Money {
	rupees := int64(g.faker.Number(lo, hi))
	paise := int64(g.faker.Number(0, 99))
	return money.New(rupees*100+paise, money.INR)
}

func (s Statement) date(t time.Time) string {
	if s.WordyDates {
		return t.Format("02 Jan 2006")
	}
	return t.Format("02/01/2006")
}

// Text renders the statement the way a PDF-to-text converter would.
func (s Statement) Text() string {
	var b strings.Builder
	fmt.Fprintln(&b, headers[s.Provider])
	fmt.Fprintf(&b, "Cardholder Name: %s\n", s.CardholderName)
	fmt.Fprintf(&b, "Card Number: XXXX XXXX XXXX %s\n", s.CardLast4)
	fmt.Fprintf(&b, "Statement Date: %s\n", s.date(s.StatementDate))
	fmt.Fprintf(&b, "Statement Period: %s to %s\n", s.PeriodStart.Format("02/01/2006"), s.StatementDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "Payment Due Date: %s\n", s.date(s.DueDate))
	fmt.Fprintf(&b, "Total Amount Due: %s\n", s.Total.Display())
	fmt.Fprintf(&b, "Minimum Amount Due: %s\n", s.Minimum.Display())
	fmt.Fprintf(&b, "Credit Limit: %s\n", s.CreditLimit.Display())
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Transaction Details")
	for _, r := range s.Rows {
		dir := "Dr"
		if r.Credit {
			dir = "Cr"
		}
		fmt.Fprintf(&b, "%s %s %s %s\n", r.Date.Format("02/01/2006"), r.Description, r.Amount.Display(), dir)
	}
	return b.String()
}

// Expected returns the normalized value of every field.
func (s Statement) Expected() map[parser.Field]string {
	return map[parser.Field]string{
		parser.CardholderName:   titleName(s.CardholderName),
		parser.CardNumber:       s.CardLast4,
		parser.StatementDate:    s.StatementDate.Format(parser.DateLayout),
		parser.DueDate:          s.DueDate.Format(parser.DateLayout),
		parser.BillingPeriod:    s.PeriodStart.Format(parser.DateLayout) + " to " + s.StatementDate.Format(parser.DateLayout),
		parser.TotalAmountDue:   s.Total.String(),
		parser.MinimumAmountDue: s.Minimum.String(),
		parser.CreditLimit:      s.CreditLimit.String(),
	}
}

// ExpectedTransactions returns the rows as extracted, without merchant data.
func (s Statement) ExpectedTransactions() []parser.Transaction {
	out := make([]parser.Transaction, 0, len(s.Rows))
	for _, r := range s.Rows {
		typ := parser.TxnDebit
		if r.Credit {
			typ = parser.TxnCredit
		}
		out = append(out, parser.Transaction{
			Date:        r.Date.Format(parser.DateLayout),
			Description: r.Description,
			Amount:      r.Amount.String(),
			Type:        typ,
		})
	}
	return out
}

func titleName(upper string) string {
	parts := strings.Fields(strings.ToLower(upper))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
