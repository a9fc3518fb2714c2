package normalizer

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MerchantInfo contains normalized merchant information
type MerchantInfo struct {
	OriginalName   string `json:"original_name"`
	NormalizedName string `json:"normalized_name"`
	Category       string `json:"category,omitempty"`
	Subcategory    string `json:"subcategory,omitempty"`
}

// MerchantPattern defines a pattern for matching and normalizing merchants
type MerchantPattern struct {
	Pattern     *regexp.Regexp
	Key         string // compact upper-case token used for fuzzy fallback
	Name        string
	Category    string
	Subcategory string
}

// MerchantSanitizer normalizes merchant names and detects categories.
// It is safe for concurrent use once built.
type MerchantSanitizer struct {
	patterns []MerchantPattern
	keys     []string
}

var (
	reRefNumber  = regexp.MustCompile(`\s+[A-Z]*\d{5,}[A-Z\d]*$`)
	reTrailCity  = regexp.MustCompile(`\s+(?:IN|IND|INDIA)$`)
	reMultiSpace = regexp.MustCompile(`\s+`)
	reNonAlnum   = regexp.MustCompile(`[^A-Z0-9]`)
)

// Common card-network prefixes found on Indian statement lines.
var descriptionPrefixes = []string{
	"POS ", "ECOM ", "ECS ", "NEFT ", "IMPS ", "UPI-", "UPI/", "UPI ",
	"PURCHASE ", "PAYMENT ", "PYMT ", "EMI ", "SI ", "AUTOPAY ",
}

// NewMerchantSanitizer creates a new sanitizer with common merchant patterns
func NewMerchantSanitizer() *MerchantSanitizer {
	patterns := defaultMerchantPatterns()
	keys := make([]string, len(patterns))
	for i, p := range patterns {
		keys[i] = p.Key
	}
	return &MerchantSanitizer{
		patterns: patterns,
		keys:     keys,
	}
}

// Sanitize normalizes a merchant name and detects its category
func (s *MerchantSanitizer) Sanitize(rawMerchant string) MerchantInfo {
	result := MerchantInfo{
		OriginalName:   rawMerchant,
		NormalizedName: rawMerchant,
	}

	cleaned := CleanDescription(rawMerchant)
	result.NormalizedName = cleaned
	upper := strings.ToUpper(cleaned)

	// cleaned text first, then the raw description ("PAYMENT RECEIVED")
	for _, candidate := range []string{upper, strings.ToUpper(strings.TrimSpace(rawMerchant))} {
		for _, pattern := range s.patterns {
			if pattern.Pattern.MatchString(candidate) {
				return s.fill(result, pattern)
			}
		}
	}

	// OCR'd statements garble merchant names ("AMAZN", "SWIGY"); try the
	// first word against the known keys before giving up.
	if words := strings.Fields(upper); len(words) > 0 {
		token := reNonAlnum.ReplaceAllString(words[0], "")
		if len(token) >= 4 {
			if ranks := fuzzy.RankFindNormalizedFold(token, s.keys); len(ranks) > 0 {
				best := ranks[0]
				for _, r := range ranks[1:] {
					if r.Distance < best.Distance || (r.Distance == best.Distance && r.OriginalIndex < best.OriginalIndex) {
						best = r
					}
				}
				if best.Distance <= 2 {
					return s.fill(result, s.patterns[best.OriginalIndex])
				}
			}
		}
	}

	result.NormalizedName = titleCase(cleaned)
	return result
}

func (s *MerchantSanitizer) fill(result MerchantInfo, p MerchantPattern) MerchantInfo {
	result.NormalizedName = p.Name
	result.Category = p.Category
	result.Subcategory = p.Subcategory
	return result
}

// AddPattern adds a custom merchant pattern
func (s *MerchantSanitizer) AddPattern(pattern string, name, category, subcategory string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	key := reNonAlnum.ReplaceAllString(strings.ToUpper(name), "")
	s.patterns = append(s.patterns, MerchantPattern{
		Pattern:     re,
		Key:         key,
		Name:        name,
		Category:    category,
		Subcategory: subcategory,
	})
	s.keys = append(s.keys, key)
	return nil
}

// CleanDescription removes network prefixes, reference numbers and country
// suffixes from a transaction description.
func CleanDescription(raw string) string {
	result := strings.TrimSpace(raw)

	upper := strings.ToUpper(result)
	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(upper, prefix) {
			result = result[len(prefix):]
			break
		}
	}

	result = reMultiSpace.ReplaceAllString(result, " ")
	result = strings.TrimSpace(result)
	result = reRefNumber.ReplaceAllString(result, "")
	result = reTrailCity.ReplaceAllString(result, "")

	return strings.TrimSpace(result)
}

// titleCase converts a string to title case
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// defaultMerchantPatterns returns common merchant patterns for India
func defaultMerchantPatterns() []MerchantPattern {
	patterns := []MerchantPattern{
		// Food delivery (before the generic ride-hailing rules)
		{regexp.MustCompile(`SWIGGY`), "SWIGGY", "Swiggy", "Food & Drink", "Delivery"},
		{regexp.MustCompile(`ZOMATO`), "ZOMATO", "Zomato", "Food & Drink", "Delivery"},
		{regexp.MustCompile(`UBER\s*EATS`), "UBEREATS", "Uber Eats", "Food & Drink", "Delivery"},
		{regexp.MustCompile(`STARBUCKS`), "STARBUCKS", "Starbucks", "Food & Drink", "Coffee"},
		{regexp.MustCompile(`MC\s*DONALDS|MCDONALD`), "MCDONALDS", "McDonald's", "Food & Drink", "Fast Food"},
		{regexp.MustCompile(`DOMINO`), "DOMINOS", "Domino's", "Food & Drink", "Fast Food"},

		// Groceries
		{regexp.MustCompile(`BIG\s*BASKET|BIGBASKET`), "BIGBASKET", "BigBasket", "Groceries", "Online"},
		{regexp.MustCompile(`BLINKIT|GROFERS`), "BLINKIT", "Blinkit", "Groceries", "Quick Commerce"},
		{regexp.MustCompile(`ZEPTO`), "ZEPTO", "Zepto", "Groceries", "Quick Commerce"},
		{regexp.MustCompile(`D\s*MART|DMART|AVENUE\s*SUPERMARTS`), "DMART", "DMart", "Groceries", "Supermarket"},
		{regexp.MustCompile(`RELIANCE\s*(?:FRESH|SMART|RETAIL)`), "RELIANCE", "Reliance Retail", "Groceries", "Supermarket"},

		// Transport
		{regexp.MustCompile(`\bUBER\b`), "UBER", "Uber", "Transport", "Rideshare"},
		{regexp.MustCompile(`\bOLA\b|OLACABS|ANI\s*TECHNOLOGIES`), "OLACABS", "Ola", "Transport", "Rideshare"},
		{regexp.MustCompile(`RAPIDO`), "RAPIDO", "Rapido", "Transport", "Rideshare"},
		{regexp.MustCompile(`IRCTC`), "IRCTC", "IRCTC", "Transport", "Train"},
		{regexp.MustCompile(`INDIGO|INTERGLOBE`), "INDIGO", "IndiGo", "Transport", "Flights"},
		{regexp.MustCompile(`AIR\s*INDIA`), "AIRINDIA", "Air India", "Transport", "Flights"},
		{regexp.MustCompile(`FASTAG`), "FASTAG", "FASTag", "Transport", "Tolls"},
		{regexp.MustCompile(`INDIAN\s*OIL|IOCL|HPCL|BPCL|BHARAT\s*PETROLEUM|FUEL`), "FUEL", "Fuel", "Transport", "Fuel"},

		// Utilities
		{regexp.MustCompile(`AIRTEL`), "AIRTEL", "Airtel", "Utilities", "Telecom"},
		{regexp.MustCompile(`JIO\b|RELIANCE\s*JIO`), "JIO", "Jio", "Utilities", "Telecom"},
		{regexp.MustCompile(`VODAFONE|\bVI\b`), "VODAFONE", "Vi", "Utilities", "Telecom"},
		{regexp.MustCompile(`BESCOM|TATA\s*POWER|ADANI\s*ELEC|ELECTRICITY`), "ELECTRICITY", "Electricity", "Utilities", "Electricity"},

		// Shopping
		{regexp.MustCompile(`AMAZON|AMZN`), "AMAZON", "Amazon", "Shopping", "Online"},
		{regexp.MustCompile(`FLIPKART`), "FLIPKART", "Flipkart", "Shopping", "Online"},
		{regexp.MustCompile(`MYNTRA`), "MYNTRA", "Myntra", "Shopping", "Clothing"},
		{regexp.MustCompile(`AJIO`), "AJIO", "AJIO", "Shopping", "Clothing"},
		{regexp.MustCompile(`NYKAA`), "NYKAA", "Nykaa", "Shopping", "Beauty"},
		{regexp.MustCompile(`CROMA`), "CROMA", "Croma", "Shopping", "Electronics"},
		{regexp.MustCompile(`IKEA`), "IKEA", "IKEA", "Shopping", "Home"},

		// Entertainment
		{regexp.MustCompile(`NETFLIX`), "NETFLIX", "Netflix", "Entertainment", "Streaming"},
		{regexp.MustCompile(`SPOTIFY`), "SPOTIFY", "Spotify", "Entertainment", "Streaming"},
		{regexp.MustCompile(`HOTSTAR|DISNEY`), "HOTSTAR", "Disney+ Hotstar", "Entertainment", "Streaming"},
		{regexp.MustCompile(`BOOKMYSHOW|BIGTREE`), "BOOKMYSHOW", "BookMyShow", "Entertainment", "Events"},
		{regexp.MustCompile(`APPLE\.COM|APPLE\s*SERVICES|ITUNES`), "APPLE", "Apple", "Entertainment", "Streaming"},
		{regexp.MustCompile(`GOOGLE\s*(?:PLAY|\*)`), "GOOGLEPLAY", "Google Play", "Entertainment", "Apps"},

		// Health
		{regexp.MustCompile(`APOLLO\s*PHARM|PHARMACY|MEDPLUS|1MG`), "PHARMACY", "Pharmacy", "Health", "Pharmacy"},

		// Card account entries
		{regexp.MustCompile(`PAYMENT\s*RECEIVED|THANK\s*YOU|BBPS|AUTO\s*DEBIT\s*PAYMENT`), "PAYMENTRECEIVED", "Payment Received", "Finance", "Card Payment"},
		{regexp.MustCompile(`CASHBACK|REWARD`), "CASHBACK", "Cashback", "Finance", "Rewards"},
		{regexp.MustCompile(`FINANCE\s*CHARGE|INTEREST`), "INTEREST", "Interest", "Finance", "Charges"},
		{regexp.MustCompile(`\bGST\b|IGST|CGST|SGST`), "GST", "GST", "Finance", "Taxes"},
		{regexp.MustCompile(`LATE\s*(?:PAYMENT\s*)?FEE|ANNUAL\s*FEE|MEMBERSHIP\s*FEE`), "FEE", "Card Fee", "Finance", "Fees"},
		{regexp.MustCompile(`PAYTM`), "PAYTM", "Paytm", "Finance", "Wallet"},
	}
	return patterns
}
