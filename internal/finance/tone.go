package finance

import (
	"fmt"

	"labdesk/internal/core"
)

// Tone is a presentation token. Renderers map it to a CSS class, a terminal
// color or a sheet cell format.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Tones lists every tone.
func Tones() []Tone {
	return []Tone{ToneNeutral, ToneInfo, ToneWarning, ToneSuccess, ToneDanger}
}

// BookingTone maps each booking status to its tone. An unknown status is a
// programming error.
func BookingTone(s core.BookingStatus) Tone {
	switch s {
	case core.StatusBooked:
		return ToneInfo
	case core.StatusInProgress:
		return ToneWarning
	case core.StatusCompleted:
		return ToneSuccess
	}
	panic(fmt.Sprintf("finance: no tone for booking status %q", s))
}

// PaymentTone maps each payment status to its tone.
func PaymentTone(s PaymentStatus) Tone {
	switch s {
	case Unpaid:
		return ToneDanger
	case Partial:
		return ToneWarning
	case Paid:
		return ToneSuccess
	}
	panic(fmt.Sprintf("finance: no tone for payment status %q", s))
}

// AnomalyTone is the tone of every flagged state.
func AnomalyTone(core.AnomalyKind) Tone {
	return ToneDanger
}
