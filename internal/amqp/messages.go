package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"labdesk/internal/core"
	"labdesk/internal/finance"
)

// EventType names what happened to a booking's ledger.
type EventType string

const (
	EventPaymentRecorded EventType = "payment.recorded"
	EventBookingUpdated  EventType = "booking.updated"
)

var ErrUnknownEvent = errors.New("unknown ledger event type")

func (t EventType) Valid() bool {
	return t == EventPaymentRecorded || t == EventBookingUpdated
}

// LedgerEvent is the snapshot of a booking's billing after a mutation.
// Amounts are in paise.
type LedgerEvent struct {
	Type           EventType `json:"type"`
	BookingID      string    `json:"booking_id"`
	PaymentID      string    `json:"payment_id,omitempty"`
	PayablePaise   int64     `json:"payable_paise"`
	PaidPaise      int64     `json:"paid_paise"`
	RemainingPaise int64     `json:"remaining_paise"`
	PaymentStatus  string    `json:"payment_status"`
	Overpaid       bool      `json:"overpaid"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewLedgerEvent derives an event from the booking as it stands after the
// change.
func NewLedgerEvent(t EventType, b core.Booking) *LedgerEvent {
	l := finance.BookingLedger(b)
	return &LedgerEvent{
		Type:           t,
		BookingID:      b.ID,
		PayablePaise:   l.Payable.Paise,
		PaidPaise:      l.Paid.Paise,
		RemainingPaise: l.Remaining.Paise,
		PaymentStatus:  string(l.Status),
		Overpaid:       l.Overpaid(),
		Timestamp:      time.Now(),
	}
}

// NewPaymentEvent is a payment.recorded event for payment p of b.
func NewPaymentEvent(b core.Booking, p core.Payment) *LedgerEvent {
	e := NewLedgerEvent(EventPaymentRecorded, b)
	e.PaymentID = p.ID
	return e
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event and rejects unknown types.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	if e.BookingID == "" {
		return nil, fmt.Errorf("ledger event without booking id")
	}
	return &e, nil
}
