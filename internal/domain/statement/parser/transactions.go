package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
	"github.com/FACorreiaa/card-statement-parser/pkg/money"
)

// TxnType is the direction of a transaction.
type TxnType string

const (
	TxnDebit   TxnType = "debit"
	TxnCredit  TxnType = "credit"
	TxnUnknown TxnType = "unknown"
)

// Transaction is one itemized statement line.
type Transaction struct {
	Date        string  `json:"date" csv:"date"`
	Description string  `json:"description" csv:"description"`
	Amount      string  `json:"amount" csv:"amount"`
	Type        TxnType `json:"type" csv:"type"`
	Merchant    string  `json:"merchant,omitempty" csv:"merchant"`
	Category    string  `json:"category,omitempty" csv:"category"`
}

// Transaction amounts always carry paise, which keeps years and reference
// numbers out of the amount column. A minus sign must touch the amount or
// its currency marker.
const (
	ptTxnAmount = `(-?(?:` + ptCurrency + `\s*)?-?(?:\d{1,3}(?:,\d{2,3})+|\d+)\.\d{2})`
	ptTxnDir    = `(?:\s*(Cr|Dr|CR|DR|cr|dr)\.?)?`
	ptTxnDate   = `(\d{1,2}[/\-]\d{1,2}[/\-](?:\d{4}|\d{2})|\d{1,2}[\s\-][A-Za-z]{3}[\s\-](?:\d{4}|\d{2}))`
	ptTxnTime   = `(?:\s+\d{1,2}:\d{2}(?::\d{2})?)?`
)

// lineShape is one transaction row layout. Groups: date, description,
// amount, direction.
type lineShape struct {
	name string
	re   *regexp.Regexp
	// maps a direction token to a type; nil uses cr/dr
	direction func(string) TxnType
}

var genericShape = lineShape{
	name: "generic",
	re:   rx(`^` + ptTxnDate + ptTxnTime + `\s+(.+?)\s+` + ptTxnAmount + ptTxnDir + `$`),
}

// date + description without an amount, continued by an amount-only line
var (
	reTxnHead = rx(`^` + ptTxnDate + ptTxnTime + `\s+(.+)$`)
	reTxnTail = rx(`^` + ptTxnAmount + ptTxnDir + `$`)
)

var providerShapes = map[sniffer.Provider][]lineShape{
	// 15/10/2025 14:22:05 SWIGGY BANGALORE 450.00 Cr
	sniffer.HDFC: {{
		name: "hdfc.timestamped",
		re:   rx(`^(\d{2}/\d{2}/\d{4})\s+\d{2}:\d{2}:\d{2}\s+(.+?)\s+` + ptTxnAmount + ptTxnDir + `$`),
	}},
	// 15/10/2025 1234567890 AMAZON IN 12 1,234.00 CR
	sniffer.ICICI: {{
		name: "icici.serial",
		re:   rx(`^(\d{2}/\d{2}/\d{4})\s+\d{8,12}\s+(.+?)\s+(?:-?\d+\s+)?` + ptTxnAmount + ptTxnDir + `$`),
	}},
	// 15 Oct 25 ZOMATO 450.00 D
	sniffer.SBI: {{
		name: "sbi.cd_suffix",
		re:   rx(`^(\d{2}\s[A-Za-z]{3}\s\d{2})\s+(.+?)\s+` + ptTxnAmount + `\s+([CD])$`),
		direction: func(tok string) TxnType {
			switch tok {
			case "C":
				return TxnCredit
			case "D":
				return TxnDebit
			}
			return TxnUnknown
		},
	}},
}

func directionOf(tok string) TxnType {
	switch strings.ToUpper(tok) {
	case "CR":
		return TxnCredit
	case "DR":
		return TxnDebit
	}
	return TxnUnknown
}

// ExtractTransactions walks the text line by line and emits one Transaction
// per row that fits a known shape. Other lines are skipped. The result is
// never nil.
func ExtractTransactions(text string, provider sniffer.Provider, sanitizer *normalizer.MerchantSanitizer) []Transaction {
	shapes := append(append([]lineShape{}, providerShapes[provider]...), genericShape)
	lines := strings.Split(text, "\n")
	txns := make([]Transaction, 0)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if tx, ok := matchLine(line, shapes); ok {
			txns = append(txns, enrich(tx, sanitizer))
			continue
		}

		// a wrapped row: the amount landed on the next line
		if i+1 < len(lines) {
			if tx, ok := matchWrapped(line, strings.TrimSpace(lines[i+1])); ok {
				txns = append(txns, enrich(tx, sanitizer))
				i++
			}
		}
	}
	return txns
}

func matchLine(line string, shapes []lineShape) (Transaction, bool) {
	for _, shape := range shapes {
		m := shape.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		dir := directionOf
		if shape.direction != nil {
			dir = shape.direction
		}
		if tx, ok := buildTransaction(m[1], m[2], m[3], dir(m[4])); ok {
			return tx, true
		}
	}
	return Transaction{}, false
}

func matchWrapped(head, tail string) (Transaction, bool) {
	h := reTxnHead.FindStringSubmatch(head)
	if h == nil {
		return Transaction{}, false
	}
	t := reTxnTail.FindStringSubmatch(tail)
	if t == nil {
		return Transaction{}, false
	}
	return buildTransaction(h[1], h[2], t[1], directionOf(t[2]))
}

func buildTransaction(rawDate, desc, rawAmount string, typ TxnType) (Transaction, bool) {
	desc = strings.TrimSpace(desc)
	if strings.IndexFunc(desc, unicode.IsLetter) < 0 {
		return Transaction{}, false
	}
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return Transaction{}, false
	}
	amount, err := money.ParseINR(rawAmount)
	if err != nil {
		return Transaction{}, false
	}
	// unmarked negative rows are refunds and reversals
	if typ == TxnUnknown && amount.IsNegative() {
		typ = TxnCredit
	}
	return Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount.String(),
		Type:        typ,
	}, true
}

func enrich(tx Transaction, sanitizer *normalizer.MerchantSanitizer) Transaction {
	if sanitizer == nil {
		return tx
	}
	info := sanitizer.Sanitize(tx.Description)
	tx.Merchant = info.NormalizedName
	tx.Category = info.Category
	return tx
}
