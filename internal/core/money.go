// Package core provides the lab's value records and money handling.
//
// This file contains parsing of rupee amounts typed into forms and the small
// arithmetic helpers used by the ledger. Amounts are always held in paise.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseRupeesToPaise converts a decimal rupee string to paise.
//
// It accepts dot (12.34) or comma (12,34) separators, an optional leading ₹
// sign and thousands separators in the Indian or western style when a dot is
// used for decimals (1,25,000.50). A third decimal digit rounds half-up.
// Negative and zero amounts are rejected.
//
// Examples:
//
//	ParseRupeesToPaise("12.34")     -> 1234, nil
//	ParseRupeesToPaise("₹1,500")    -> 150000, nil
//	ParseRupeesToPaise("12,34")     -> 1234, nil
//	ParseRupeesToPaise("12.346")    -> 1235, nil
func ParseRupeesToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	switch {
	case strings.Contains(s, "."):
		// Dot is the decimal separator, commas are grouping.
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && len(s)-strings.Index(s, ",")-1 <= 2:
		// A single comma followed by at most two digits is a decimal comma.
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(s, ",", "")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	paise := iv*100 + frac
	if paise <= 0 {
		return 0, ErrInvalidAmount
	}
	return paise, nil
}

// Rupees builds a Money value from whole rupees.
func Rupees(r int64) Money {
	return Money{Paise: r * 100}
}

func (m Money) Add(o Money) Money { return Money{Paise: m.Paise + o.Paise} }

func (m Money) Sub(o Money) Money { return Money{Paise: m.Paise - o.Paise} }

func (m Money) IsZero() bool { return m.Paise == 0 }

func (m Money) IsNegative() bool { return m.Paise < 0 }

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m.Paise < 0 {
		return Money{Paise: -m.Paise}
	}
	return m
}

// String renders the plain decimal rupee value ("2500.00") without symbol or
// grouping, so free-text search over records matches typed amounts.
func (m Money) String() string {
	p := m.Paise
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	frac := strconv.FormatInt(p%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(p/100, 10) + "." + frac
}
