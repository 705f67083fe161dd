package service

import (
	"regexp"
	"strconv"
	"strings"

	"credit-negotiator/domain"
)

// The extractor runs an ordered list of pattern rules over the raw text.
// First match wins per field, and purpose is whatever survives once the
// matched spans and the usual lead-in phrases are cut away. Order matters:
// the amount span must go before the income phrase is matched, otherwise the
// income numeral would be eaten as a second amount.
var (
	amountPattern   = regexp.MustCompile(`\$?\d+(?:,\d{3})*(?:\.\d{2})?`)
	durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:months?|years?)\b`)
	incomePattern   = regexp.MustCompile(`(?i)(?:with\s+)?(?:expected|income|revenue|earnings|profit)(?:\s+(?:income|revenue|earnings|profit))?\s*(?:of|is|will\s+be|about)?\s*(\$?\d+(?:,\d{3})*(?:\.\d{2})?)`)

	// secondary purpose patterns, tried only when the remainder is empty
	purposeAfterPrep = regexp.MustCompile(`(?i)\b(?:for|to)\s+(\S.*)`)
	purposeAfterVerb = regexp.MustCompile(`(?i)\b(?:start|open|build|buy|invest in)\s+(\S.*)`)
)

// lead-in phrases stripped while deriving the purpose, longest first
var purposeLeadIns = []string{
	"i need a loan for",
	"i need a loan",
	"i need",
	"i want to borrow",
	"loan for",
	"borrow",
}

// FieldExtractor is the deterministic fallback parser used whenever the
// language model is unavailable or returns unusable output. It never fails;
// fields it cannot find stay nil.
type FieldExtractor struct{}

func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract pulls amount, duration, purpose and expected income out of raw
// text. Identical input always yields identical output.
func (e *FieldExtractor) Extract(text string) domain.ExtractedRequest {
	var out domain.ExtractedRequest

	if m := amountPattern.FindString(text); m != "" {
		if v, err := parseMoney(m); err == nil {
			out.Amount = &v
		}
	}

	// Duration keeps the literal number: "2 years" yields 2, not 24.
	// Lenders receive the value exactly as the user stated it.
	if m := durationPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			out.Duration = &v
		}
	}

	if m := incomePattern.FindStringSubmatch(text); m != nil {
		if v, err := parseMoney(m[1]); err == nil {
			out.ExpectedIncome = v
		}
	}

	if p := derivePurpose(text); p != "" {
		out.Purpose = &p
	}
	return out
}

// derivePurpose removes, in a fixed order, the first span matched by the
// amount, duration and income patterns, then the boilerplate lead-ins, and
// returns the trimmed remainder. An empty remainder falls through to the
// secondary patterns on the original text.
func derivePurpose(text string) string {
	remainder := text
	for _, p := range []*regexp.Regexp{amountPattern, durationPattern, incomePattern} {
		if loc := p.FindStringIndex(remainder); loc != nil {
			remainder = remainder[:loc[0]] + remainder[loc[1]:]
		}
	}

	for _, phrase := range purposeLeadIns {
		if i := strings.Index(strings.ToLower(remainder), phrase); i >= 0 {
			remainder = remainder[:i] + remainder[i+len(phrase):]
		}
	}

	remainder = strings.Join(strings.Fields(remainder), " ")
	remainder = stripLeadingConnectors(remainder)

	if remainder != "" {
		return remainder
	}

	if m := purposeAfterPrep.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := purposeAfterVerb.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func stripLeadingConnectors(s string) string {
	for {
		lower := strings.ToLower(s)
		switch {
		case strings.HasPrefix(lower, "to "):
			s = s[3:]
		case strings.HasPrefix(lower, "for "):
			s = s[4:]
		case lower == "to" || lower == "for":
			return ""
		default:
			return strings.TrimSpace(s)
		}
	}
}

func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}
