package parser

import "encoding/json"

// NotFoundValue is what a missing field serializes to.
const NotFoundValue = "Not Found"

// Field is one logical datum extracted from a statement.
type Field int

// Fields in output order.
const (
	CardholderName Field = iota
	CardNumber
	StatementDate
	DueDate
	BillingPeriod
	TotalAmountDue
	MinimumAmountDue
	CreditLimit
)

var fieldKeys = [...]string{
	CardholderName:   "cardholder_name",
	CardNumber:       "card_number",
	StatementDate:    "statement_date",
	DueDate:          "due_date",
	BillingPeriod:    "billing_period",
	TotalAmountDue:   "total_amount_due",
	MinimumAmountDue: "minimum_amount_due",
	CreditLimit:      "credit_limit",
}

// Fields returns every field in output order.
func Fields() []Field {
	fs := make([]Field, len(fieldKeys))
	for i := range fieldKeys {
		fs[i] = Field(i)
	}
	return fs
}

// Key returns the JSON key of the field.
func (f Field) Key() string {
	if f < 0 || int(f) >= len(fieldKeys) {
		return "unknown"
	}
	return fieldKeys[f]
}

func (f Field) String() string { return f.Key() }

// FieldResult is the outcome of extracting one field: either Found with the
// matched text and its normalized form, or NotFound. Raw may be set on a
// NotFound result when a pattern matched but normalization rejected it.
type FieldResult struct {
	Found bool
	Raw   string
	Value string
}

// Found builds a successful result.
func Found(raw, value string) FieldResult {
	return FieldResult{Found: true, Raw: raw, Value: value}
}

// NotFound builds an empty result.
func NotFound() FieldResult {
	return FieldResult{}
}

// Malformed builds a NotFound result that keeps the matched text.
func Malformed(raw string) FieldResult {
	return FieldResult{Raw: raw}
}

// String returns the normalized value or NotFoundValue.
func (r FieldResult) String() string {
	if !r.Found {
		return NotFoundValue
	}
	return r.Value
}

// MarshalJSON renders the normalized value or the NotFoundValue sentinel.
func (r FieldResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}
