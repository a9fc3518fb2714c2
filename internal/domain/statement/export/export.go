// Package export renders an extraction result as JSON, CSV or an XLSX workbook.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/parser"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/service"
	"github.com/FACorreiaa/card-statement-parser/pkg/money"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a query value to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Extension returns the file extension used in download names.
func (f Format) Extension() string {
	if f == "" {
		return "." + string(FormatJSON)
	}
	return "." + string(f)
}

// Write encodes res to w.
func Write(w io.Writer, res *service.ExtractionResult, f Format) error {
	switch f {
	case FormatJSON, "":
		return json.NewEncoder(w).Encode(res)
	case FormatCSV:
		return CSV(w, res)
	case FormatXLSX:
		return XLSX(w, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// CSV writes one row per transaction with a header line.
func CSV(w io.Writer, res *service.ExtractionResult) error {
	rows := res.Transactions()
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"
)

var transactionHeaders = []string{"Date", "Description", "Amount", "Type", "Merchant", "Category"}

// Totals sums transaction amounts by direction. Amounts are added as
// absolute values; rows of unknown direction and unparseable amounts are
// left out.
func Totals(txns []parser.Transaction) (debits, credits *money.Money, err error) {
	debits, credits = money.New(0, money.INR), money.New(0, money.INR)
	for _, tx := range txns {
		m, perr := money.ParseINR(tx.Amount)
		if perr != nil || m.IsZero() {
			continue
		}
		switch tx.Type {
		case parser.TxnDebit:
			debits, err = debits.Add(m.Abs())
		case parser.TxnCredit:
			credits, err = credits.Add(m.Abs())
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to total transactions: %w", err)
		}
	}
	return debits, credits, nil
}

// XLSX writes a workbook with a Summary sheet holding the fields, provider,
// confidence and transaction totals, and a Transactions sheet.
func XLSX(w io.Writer, res *service.ExtractionResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("failed to create transactions sheet: %w", err)
	}

	set := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	row := 1
	for _, kv := range [][2]any{{"Field", "Value"}, {"provider", res.Provider().String()}, {"confidence", res.Confidence()}} {
		if err := set(summarySheet, 1, row, kv[0]); err != nil {
			return err
		}
		if err := set(summarySheet, 2, row, kv[1]); err != nil {
			return err
		}
		row++
	}
	for _, fld := range parser.Fields() {
		if err := set(summarySheet, 1, row, fld.Key()); err != nil {
			return err
		}
		if err := set(summarySheet, 2, row, res.Field(fld).String()); err != nil {
			return err
		}
		row++
	}

	debits, credits, err := Totals(res.Transactions())
	if err != nil {
		return err
	}
	for _, kv := range [][2]string{{"total_debits", debits.String()}, {"total_credits", credits.String()}} {
		if err := set(summarySheet, 1, row, kv[0]); err != nil {
			return err
		}
		if err := set(summarySheet, 2, row, kv[1]); err != nil {
			return err
		}
		row++
	}

	for i, h := range transactionHeaders {
		if err := set(transactionsSheet, i+1, 1, h); err != nil {
			return err
		}
	}
	for i, tx := range res.Transactions() {
		values := []any{tx.Date, tx.Description, tx.Amount, string(tx.Type), tx.Merchant, tx.Category}
		for col, v := range values {
			if err := set(transactionsSheet, col+1, i+2, v); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 20)
	_ = f.SetColWidth(summarySheet, "B", "B", 28)
	_ = f.SetColWidth(transactionsSheet, "A", "A", 12)
	_ = f.SetColWidth(transactionsSheet, "B", "B", 40)
	_ = f.SetColWidth(transactionsSheet, "E", "F", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
