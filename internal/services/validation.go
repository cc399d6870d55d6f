package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// amountEpsilon is the tolerance used when comparing a payment with its due.
var amountEpsilon = decimal.New(1, -4)

var maxID = decimal.NewFromInt(math.MaxInt32)

// CardNumber is a card number sent either as a JSON string or a JSON number.
type CardNumber string

func (c *CardNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = CardNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = CardNumber(n.String())
	return nil
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ValidateCard accepts exactly 16 ASCII digits (whitespace ignored) that pass
// the Luhn checksum.
func ValidateCard(number string) error {
	digits := stripSpaces(number)
	if len(digits) != 16 {
		return ErrInvalidCard
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return ErrInvalidCard
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	if sum%10 != 0 {
		return ErrInvalidCard
	}
	return nil
}

// MaskCard keeps only the last four digits of a card number.
func MaskCard(number string) string {
	digits := stripSpaces(number)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "**** **** **** " + digits
}

func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return ErrInvalidPeriod
	}
	return nil
}

// ParseAmount parses a JSON number or numeric string that must be strictly
// positive and representable as a finite, non-zero float64.
func ParseAmount(raw json.Number) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// amountsMatch compares two amounts within amountEpsilon.
func amountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountEpsilon)
}

// parseID accepts ids sent either as JSON numbers or numeric strings.
func parseID(raw json.Number) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw.String()))
	if err != nil || !d.IsInteger() || !d.IsPositive() || d.GreaterThan(maxID) {
		return 0, false
	}
	return int(d.IntPart()), true
}
