// Package parser extracts statement fields from normalized text. Every field
// has a fixed chain of rules; issuer-specific rules are tried before the
// generic ones and the first accepted match decides the field.
package parser

import (
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
)

// Parser applies the rule tables. It holds no per-document state and is safe
// for concurrent use.
type Parser struct {
	sanitizer *normalizer.MerchantSanitizer
}

// NewParser creates a parser. A nil sanitizer leaves transaction merchants
// and categories empty.
func NewParser(sanitizer *normalizer.MerchantSanitizer) *Parser {
	return &Parser{sanitizer: sanitizer}
}

// ExtractField runs the chain for f. A miss is a NotFound result, never an error.
func (p *Parser) ExtractField(text string, provider sniffer.Provider, f Field) FieldResult {
	if text == "" {
		return NotFound()
	}
	return ChainFor(provider, f).Apply(text)
}

// ExtractTransactions returns the itemized rows in statement order.
func (p *Parser) ExtractTransactions(text string, provider sniffer.Provider) []Transaction {
	return ExtractTransactions(text, provider, p.sanitizer)
}
