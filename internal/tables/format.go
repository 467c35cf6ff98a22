package tables

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"labdesk/internal/core"
	"labdesk/internal/finance"
)

var printer = message.NewPrinter(language.English)

// Rupees formats an amount for display: "₹2,500", "₹2,500.50", "-₹500".
func Rupees(m core.Money) string {
	p := m.Paise
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	s := sign + "₹" + printer.Sprintf("%d", p/100)
	if frac := p % 100; frac != 0 {
		s += fmt.Sprintf(".%02d", frac)
	}
	return s
}

// LongDate formats d as "August 10, 2023".
func LongDate(d core.Date) string { return d.Format("January 2, 2006") }

// ShortDate formats d as "8/10/2023".
func ShortDate(d core.Date) string { return d.Format("1/2/2006") }

func MethodLabel(m core.PaymentMethod) string {
	switch m {
	case core.MethodUPI:
		return "UPI"
	case core.MethodCash:
		return "Cash"
	case core.MethodCard:
		return "Card"
	case core.MethodOther:
		return "Other"
	}
	return string(m)
}

func GenderLabel(g core.Gender) string {
	switch g {
	case core.GenderMale:
		return "Male"
	case core.GenderFemale:
		return "Female"
	}
	return "Other"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func joinTests(names []string) string { return strings.Join(names, ", ") }

// Chip is the shared shape of status chips.
type Chip struct {
	Label string
	Tone  finance.Tone
}

func bookingChip(s core.BookingStatus) Chip {
	return Chip{Label: finance.BookingStatusLabel(s), Tone: finance.BookingTone(s)}
}

func paymentChip(s finance.PaymentStatus) Chip {
	return Chip{Label: s.Label(), Tone: finance.PaymentTone(s)}
}
