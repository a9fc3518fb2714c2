package parser

import (
	"regexp"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/sniffer"
)

// Pattern fragments shared by the rule tables.
const (
	ptCurrency = `(?:Rs\.?|INR|₹|Rupees|` + "`" + `)`
	ptDigits   = `(?:\d{1,3}(?:,\d{2,3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`
	// label-to-value separator, tolerating "(Rs.)" / "(₹)" unit hints. A dash
	// separates only as ":-" or when a space follows it, so "-1,200.00" stays
	// a negative amount.
	ptSep = `(?:\s*:-\s*|[:\s]*(?:-\s+)?)(?:\(\s*(?:in\s*)?` + ptCurrency + `\s*\)[:\s]*)?`
	// signed "-1,200.00" / "Rs. -1,200.00" or bracketed "(1,200.00)"
	ptMoney = `(-?(?:` + ptCurrency + `\s*)?-?` + ptDigits +
		`|\(\s*(?:` + ptCurrency + `\s*)?` + ptDigits + `\s*\))(?:\s*/-)?` + ptGuard
	// stops an amount from being read out of a date such as 05.11.2025
	ptGuard = `(?:[^\d/.\-]|[.\-]\D|[.\-]?$)`

	ptMask    = `[Xx*•●■]`
	ptCardSep = `[\s\-]*`

	ptYear       = `(?:\d{4}|\d{2}|XX|xx)\b`
	ptDay        = `\d{1,2}(?:st|nd|rd|th)?`
	ptMonthName  = `[A-Za-z]{3,9}`
	ptDateWordy  = ptDay + `[\s\-.]+` + ptMonthName + `[\s\-.,]+` + ptYear
	ptDateMonth1 = ptMonthName + `\.?\s+` + ptDay + `,?\s+` + ptYear
	ptDateNum    = `\d{1,2}[/\-]\d{1,2}[/\-]` + ptYear
	ptDateDot    = `\d{1,2}\.\d{1,2}\.` + ptYear
	ptDateAny    = `(?:` + ptDateNum + `|` + ptDateDot + `|` + ptDateWordy + `|` + ptDateMonth1 + `)`

	lbTotalDue = `(?:Total\s*Amount\s*Due|Total\s*Amt\.?\s*Due|Total\s*Dues|Total\s*Due|Amount\s*Payable(?:\s*by\s*Due\s*Date)?|Amount\s*to\s*be\s*Paid|Net\s*Amount\s*Payable)`
	lbBalance  = `(?:Current\s*Balance|Outstanding\s*Amount|Total\s*Outstanding|Closing\s*Balance)`
	lbMinDue   = `(?:Minimum\s*Amount\s*Due|Minimum\s*Amount\s*Payable|Minimum\s*Payment\s*Due|Min\.?\s*Amt\.?\s*Due|Min\.?\s*Due|Minimum\s*Due)`
	lbDueDate  = `(?:Payment\s*Due\s*Date|Payment\s*Due|Due\s*Date|Due\s*Dt\.?|Pay\s*by|Pay\s*on|Due\s*on|Due\s*by|Last\s*date\s*of\s*payment|On\s*or\s*before)`
	lbStmtDate = `(?:Statement\s*Generation\s*Date|Statement\s*Date|Date\s*of\s*Statement|Stmt\.?\s*Date|Bill(?:ing)?\s*Date)`
	lbLimit    = `(?:Total\s*Credit\s*Limit|Credit\s*Limit|Card\s*Limit)`
	lbCard     = `(?:Card\s*Number|Card\s*No\.?|Account\s*Number)`
	lbName     = `(?:Cardmember\s*Name|Card\s*Member\s*Name|Customer\s*Name|Card\s*Holder(?:\s*Name)?|Cardholder(?:\s*Name)?)`
	lbPeriod   = `(?:Statement\s*Period|Billing\s*Period|Statement\s*Cycle|Billing\s*Cycle|Cycle|Period)`
)

// headerValue matches one value token on the line under a summary header.
var headerValue = regexp.MustCompile(ptDateNum + `|` + ptDateWordy + `|(?:` + ptCurrency + `\s*)?\d[\d,]*(?:\.\d{1,2})?`)

var reNomineeLine = regexp.MustCompile(`(?i)nominee`)

func rx(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

func amountRule(name, label string) Rule {
	return Rule{
		Name:      name,
		Find:      submatches(rx(`(?i)`+label+ptSep+ptMoney), 1),
		Normalize: NormalizeAmount,
	}
}

func dateRule(name, label, shape string, accept func(string) bool) Rule {
	return Rule{
		Name:      name,
		Find:      submatches(rx(`(?i)`+label+`[:\s\-]*(`+shape+`)`), 1),
		Accept:    accept,
		Normalize: NormalizeDate,
	}
}

// dateRules expands a label into the four date shapes, month-first first.
func dateRules(prefix, label string) Chain {
	return Chain{
		dateRule(prefix+".month_first", label, ptDateMonth1, hasMonthWord),
		dateRule(prefix+".wordy", label, ptDateWordy, hasMonthWord),
		dateRule(prefix+".numeric", label, ptDateNum, nil),
		dateRule(prefix+".dotted", label, ptDateDot, nil),
	}
}

func cardRule(name, pattern string) Rule {
	return Rule{
		Name:      name,
		Find:      submatches(rx(pattern), 1),
		Normalize: NormalizeCardNumber,
	}
}

func nameRule(name string, find Finder) Rule {
	return Rule{
		Name:      name,
		Find:      find,
		Accept:    isName,
		Normalize: NormalizeName,
	}
}

// genericRules are provider-agnostic and always run last.
var genericRules = map[Field]Chain{
	CardholderName: {
		nameRule("name.labelled_line", perLine(rx(`(?i)(?:`+lbName+`|Name\s*:)[:\s]*([A-Z][A-Z\s.\-]{3,})$`), 1, reNomineeLine)),
		nameRule("name.greeting", submatches(rx(`(?i)Dear\s+(?:(?:Mr|Ms|Mrs|Mx|Dr)\.?\s+)?([A-Z][A-Z \t.\-]+?)\s*(?:,|\n|$)`), 1)),
		nameRule("name.labelled", submatches(rx(`(?i)(?:`+lbName+`|\bName)[:\s]+([A-Z][A-Z\s.]+)`), 1)),
		nameRule("name.honorific", submatches(rx(`\b(?:MR|MS|MRS|MX|Mr|Ms|Mrs|Mx)\.?\s+([A-Z][A-Z ]+)`), 1)),
		nameRule("name.attention", submatches(rx(`(?:Attention|Attn\.?|ATTN\.?|To\s*:)[:\s]*([A-Z][A-Z .]+)`), 1)),
	},
	CardNumber: {
		cardRule("card.labelled_masked", `(?i)`+lbCard+`[:\s]*(`+ptMask+`{4,}(?:`+ptCardSep+ptMask+`{4,}){2,3}`+ptCardSep+`\d{4})`),
		cardRule("card.masked_groups", `(`+ptMask+`{4}(?:`+ptCardSep+ptMask+`{4}){2,3}`+ptCardSep+`\d{4})`),
		cardRule("card.bin_masked", `\b(\d{4,6}`+ptCardSep+ptMask+`{2,}(?:`+ptCardSep+ptMask+`{2,})*`+ptCardSep+`\d{4})\b`),
		cardRule("card.unmasked", `\b((?:\d{4}[\s\-]?){3}\d{4})\b`),
		cardRule("card.ending", `(?i)(?:ending\s*in|ending|ends\s*with)[:\s]*(\d{4})\b`),
	},
	StatementDate: dateRules("statement_date", lbStmtDate),
	DueDate:       dateRules("due_date", lbDueDate),
	BillingPeriod: {
		{
			Name:      "period.month_first",
			Find:      rangeOf(rx(`(?i)` + lbPeriod + `[:\s]*(` + ptDateMonth1 + `)\s*(?:to|-|through)\s*(` + ptDateMonth1 + `)`)),
			Normalize: NormalizePeriod,
		},
		{
			Name:      "period.numeric",
			Find:      rangeOf(rx(`(?i)(?:From|` + lbPeriod + `)[:\s]*(` + ptDateNum + `)\s*(?:to|-|through)\s*(` + ptDateNum + `)`)),
			Normalize: NormalizePeriod,
		},
		{
			Name:      "period.wordy",
			Find:      rangeOf(rx(`(?i)(` + ptDateWordy + `)\s*(?:to|-|through)\s*(` + ptDateWordy + `)`)),
			Accept:    hasMonthWord,
			Normalize: NormalizePeriod,
		},
	},
	TotalAmountDue: {
		amountRule("total.labelled", lbTotalDue),
		amountRule("total.balance", lbBalance),
	},
	MinimumAmountDue: {
		amountRule("minimum.labelled", lbMinDue),
	},
	CreditLimit: {
		{
			Name:      "limit.labelled",
			Find:      submatchesNotAfter(rx(`(?i)`+lbLimit+ptSep+ptMoney), 1, "available"),
			Normalize: NormalizeAmount,
		},
	},
}

// providerChains returns the issuer-specific rules. Every known provider has
// an entry; Unknown has none and falls through to the generic rules only.
func providerChains(p sniffer.Provider) map[Field]Chain {
	switch p {
	case sniffer.HDFC:
		return hdfcRules
	case sniffer.ICICI:
		return iciciRules
	case sniffer.AXIS:
		return axisRules
	case sniffer.KOTAK:
		return kotakRules
	case sniffer.SBI:
		return sbiRules
	default: // sniffer.Unknown
		return nil
	}
}

// HDFC prints the payment summary as a header row with values underneath.
var hdfcSummary = rx(`(?i)Payment\s*Due\s*Date\s+Total\s*Dues\s+Minimum\s*Amount\s*Due`)

var hdfcRules = map[Field]Chain{
	CardholderName: {
		nameRule("hdfc.name", perLine(rx(`(?i)^Name\s*:\s*([A-Za-z][A-Za-z .]+?)(?:\s+Email\b.*)?$`), 1, reNomineeLine)),
	},
	CardNumber: {
		cardRule("hdfc.card_no", `(?i)Card\s*No\s*:?\s*([\dXx*]{4}\s*[\dXx*]{4}\s*[\dXx*]{4}\s*[\dXx*]{2,4}\d)`),
	},
	StatementDate: {
		dateRule("hdfc.statement_date", `Statement\s*Date`, ptDateNum, nil),
	},
	DueDate: {
		{
			Name:      "hdfc.summary_due_date",
			Find:      headerRow(hdfcSummary, headerValue, 0),
			Normalize: NormalizeDate,
		},
	},
	TotalAmountDue: {
		{
			Name:      "hdfc.summary_total_dues",
			Find:      headerRow(hdfcSummary, headerValue, 1),
			Normalize: NormalizeAmount,
		},
	},
	MinimumAmountDue: {
		{
			Name:      "hdfc.summary_minimum_due",
			Find:      headerRow(hdfcSummary, headerValue, 2),
			Normalize: NormalizeAmount,
		},
	},
	CreditLimit: {
		{
			Name:      "hdfc.summary_credit_limit",
			Find:      headerRow(rx(`(?i)^Credit\s*Limit\s+Available\s*Credit\s*Limit`), headerValue, 0),
			Normalize: NormalizeAmount,
		},
	},
}

var iciciRules = map[Field]Chain{
	CardNumber: {
		cardRule("icici.card", `\b(\d{4}\s?X{4}\s?X{4}\s?\d{4})\b`),
	},
	StatementDate: {
		dateRule("icici.statement_date", `STATEMENT\s*DATE`, ptDateMonth1, hasMonthWord),
	},
	DueDate: {
		dateRule("icici.due_date", `PAYMENT\s*DUE\s*DATE`, ptDateMonth1, hasMonthWord),
	},
	TotalAmountDue: {
		amountRule("icici.total_amount_due", `Total\s*Amount\s*due`),
	},
	MinimumAmountDue: {
		amountRule("icici.minimum_amount_due", `Minimum\s*Amount\s*due`),
	},
	CreditLimit: {
		amountRule("icici.credit_limit", `Credit\s*Limit\s*\(\s*Including\s*cash\s*\)`),
	},
	BillingPeriod: {
		{
			Name:      "icici.statement_period",
			Find:      rangeOf(rx(`(?i)Statement\s*period\s*:?\s*(` + ptDateMonth1 + `)\s*to\s*(` + ptDateMonth1 + `)`)),
			Normalize: NormalizePeriod,
		},
	},
}

var axisRules = map[Field]Chain{
	CardNumber: {
		cardRule("axis.card_no", `(?i)Card\s*No\.?[:\s]*(\d{6}\*{6}\d{4})`),
	},
	StatementDate: {
		dateRule("axis.statement_generation_date", `Statement\s*Generation\s*Date`, ptDateAny, nil),
	},
	DueDate: {
		dateRule("axis.payment_due_date", `Payment\s*Due\s*Date`, ptDateNum, nil),
	},
	TotalAmountDue: {
		amountRule("axis.total_payment_due", `Total\s*Payment\s*Due`),
	},
	MinimumAmountDue: {
		amountRule("axis.minimum_payment_due", `Minimum\s*Payment\s*Due`),
	},
}

var kotakRules = map[Field]Chain{
	CardNumber: {
		cardRule("kotak.primary_card", `(?i)Primary\s*Card\s*(?:Number|No\.?)[:\s]*([\dXx*]{4}(?:[\s\-]*[\dXx*]{4}){2}[\s\-]*\d{4})`),
	},
	DueDate: {
		dateRule("kotak.remember_to_pay_by", `Remember\s*to\s*Pay\s*By`, ptDateAny, nil),
	},
	TotalAmountDue: {
		amountRule("kotak.tad", `Total\s*Amount\s*Due\s*\(\s*TAD\s*\)`),
	},
	MinimumAmountDue: {
		amountRule("kotak.mad", `Minimum\s*Amount\s*Due\s*\(\s*MAD\s*\)`),
	},
	CreditLimit: {
		amountRule("kotak.total_credit_limit", `Total\s*Credit\s*Limit`),
	},
}

var sbiRules = map[Field]Chain{
	CardNumber: {
		cardRule("sbi.credit_card_number", `(?i)Credit\s*Card\s*Number[:\s]*([\dXx*]{4}(?:[\s\-]*[\dXx*]{4}){2}[\s\-]*[\dXx*]{0,2}\d{2,4})`),
	},
	TotalAmountDue: {
		amountRule("sbi.total_amount_due", `\*?Total\s*Amount\s*Due`),
		amountRule("sbi.total_outstanding", `Total\s*Outstanding`),
	},
}

// ChainFor returns the full rule chain for a field: provider rules first,
// then the generic ones.
func ChainFor(p sniffer.Provider, f Field) Chain {
	specific := providerChains(p)[f]
	generic := genericRules[f]
	chain := make(Chain, 0, len(specific)+len(generic))
	chain = append(chain, specific...)
	return append(chain, generic...)
}
