package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"labdesk/internal/amqp"
	"labdesk/internal/core"
	"labdesk/internal/finance"
	"labdesk/internal/ingest"
	"labdesk/internal/log"
	"labdesk/internal/store"
)

// Publisher sends ledger events, usually to the AMQP exchange.
type Publisher interface {
	Publish(ctx context.Context, e *amqp.LedgerEvent) error
}

// EventRecorder counts publish outcomes, typically into metrics.
type EventRecorder interface {
	LedgerEventPublished(eventType string)
	LedgerEventFailed(eventType string)
}

// LabService applies form edits to the store and announces ledger changes.
type LabService struct {
	store     store.Store
	publisher Publisher
	recorder  EventRecorder
	anomalies ingest.AnomalyRecorder
	ingest    *ingest.Ingester
	logger    *log.Logger
	today     func() core.Date
	newID     func() string
}

type Option func(*LabService)

// WithEventRecorder counts every publish attempt.
func WithEventRecorder(r EventRecorder) Option {
	return func(s *LabService) { s.recorder = r }
}

// WithAnomalyRecorder counts anomalies found in edited bookings.
func WithAnomalyRecorder(r ingest.AnomalyRecorder) Option {
	return func(s *LabService) { s.anomalies = r }
}

// WithClock overrides the date stamped on new payments.
func WithClock(today func() core.Date) Option {
	return func(s *LabService) { s.today = today }
}

// WithIDGenerator overrides payment id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *LabService) { s.newID = newID }
}

// NewLabService wires the service. publisher may be nil, in which case no
// events are sent.
func NewLabService(st store.Store, publisher Publisher, logger *log.Logger, opts ...Option) *LabService {
	if logger == nil {
		logger = log.Discard()
	}
	s := &LabService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		today:     core.Today,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ingest = ingest.New(logger, s.anomalies)
	return s
}

// BookingEdit is the booking edit form. Zero Date and empty Status keep the
// stored values; Total and Discount are always applied.
type BookingEdit struct {
	Date        core.Date
	Status      core.BookingStatus
	Total       core.Money
	Discount    core.Money
	AddTests    []string
	RemoveTests []string
}

// EditBooking applies e and recomputes the payable amount. The change is
// applied atomically against the stored booking.
func (s *LabService) EditBooking(ctx context.Context, id string, e BookingEdit) (core.Booking, error) {
	b, err := s.store.UpdateBooking(ctx, id, func(b *core.Booking) error {
		if !e.Date.IsZero() {
			b.Date = e.Date
		}
		if e.Status != "" {
			if err := b.SetStatus(e.Status); err != nil {
				return invalid("status", MsgInvalidStatus, err)
			}
		}
		if err := b.SetAmounts(e.Total, e.Discount); err != nil {
			switch {
			case errors.Is(err, core.ErrDiscountExceedsTotal):
				return invalid("discount", MsgDiscountTooHigh, err)
			case e.Discount.IsNegative():
				return invalid("discount", MsgNegativeAmount, err)
			default:
				return invalid("total", MsgNegativeAmount, err)
			}
		}
		for _, name := range e.RemoveTests {
			b.RemoveTest(name)
		}
		for _, name := range e.AddTests {
			b.AddTest(name)
		}
		return s.admit(b)
	})
	if err != nil {
		return core.Booking{}, updateError(id, err)
	}

	s.logger.InfoContext(ctx, "Booking updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldBookingID, b.ID,
		log.FieldAmountPaise, b.PayableAmount.Paise)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventBookingUpdated, b))
	return b, nil
}

// PaymentInput is the add payment form.
type PaymentInput struct {
	Amount    core.Money
	Method    core.PaymentMethod
	Reference string
}

// AddPayment records a payment dated today. An amount above the remaining
// balance is reduced to the remaining balance.
func (s *LabService) AddPayment(ctx context.Context, bookingID string, in PaymentInput) (core.Booking, core.Payment, error) {
	if in.Amount.Paise <= 0 {
		return core.Booking{}, core.Payment{}, invalid("amount", MsgAmountRequired, core.ErrInvalidAmount)
	}
	if !in.Method.Valid() {
		return core.Booking{}, core.Payment{}, invalid("method", MsgInvalidMethod, core.ErrInvalidMethod)
	}

	var p core.Payment
	b, err := s.store.UpdateBooking(ctx, bookingID, func(b *core.Booking) error {
		remaining := finance.BookingLedger(*b).Remaining
		if remaining.Paise <= 0 {
			return invalid("amount", MsgAlreadyPaid, nil)
		}
		amount := in.Amount
		if amount.Paise > remaining.Paise {
			s.logger.DebugContext(ctx, "Payment clamped to remaining balance",
				log.FieldBookingID, b.ID,
				log.FieldAmountPaise, in.Amount.Paise,
				log.FieldDuePaise, remaining.Paise)
			amount = remaining
		}

		p = core.Payment{
			ID:        s.newID(),
			Amount:    amount,
			Method:    in.Method,
			Date:      s.today(),
			Reference: strings.TrimSpace(in.Reference),
		}
		if err := b.AppendPayment(p); err != nil {
			return invalid("amount", MsgAmountRequired, err)
		}
		return s.admit(b)
	})
	if err != nil {
		return core.Booking{}, core.Payment{}, updateError(bookingID, err)
	}

	l := finance.BookingLedger(b)
	fields := log.NewFields().
		WithOperation(log.OpAddPayment).
		WithLedger(b.ID, l.Paid.Paise, l.Remaining.Paise)
	fields[log.FieldAmountPaise] = p.Amount.Paise
	s.logger.InfoContext(ctx, "Payment added", fields.ToSlice()...)
	s.publish(ctx, amqp.NewPaymentEvent(b, p))
	return b, p, nil
}

// PatientEdit is the patient edit form.
type PatientEdit struct {
	Name          string
	Gender        core.Gender
	Age           int
	ContactNumber string
	Email         string
	Address       string
}

func (s *LabService) EditPatient(ctx context.Context, id string, e PatientEdit) (core.Patient, error) {
	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return core.Patient{}, err
	}

	p.Name = strings.TrimSpace(e.Name)
	p.Gender = e.Gender
	p.Age = e.Age
	p.ContactNumber = strings.TrimSpace(e.ContactNumber)
	p.Email = strings.TrimSpace(e.Email)
	p.Address = strings.TrimSpace(e.Address)

	if err := p.Validate(); err != nil {
		return core.Patient{}, patientError(err)
	}
	if err := s.store.SavePatient(ctx, p); err != nil {
		return core.Patient{}, fmt.Errorf("save patient %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Patient updated", log.FieldOperation, log.OpUpdate, log.FieldPatientID, p.ID)
	return p, nil
}

func patientError(err error) error {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return invalid("name", MsgNameRequired, err)
	case errors.Is(err, core.ErrInvalidAge):
		return invalid("age", MsgInvalidAge, err)
	case errors.Is(err, core.ErrInvalidGender):
		return invalid("gender", MsgInvalidGender, err)
	case errors.Is(err, core.ErrInvalidEmail):
		return invalid("email", MsgInvalidEmail, err)
	}
	return invalid("name", err.Error(), err)
}

// TestEdit is the catalog test edit form.
type TestEdit struct {
	Name                string
	Category            string
	Price               core.Money
	Description         string
	NormalRange         string
	PreparationRequired string
}

func (s *LabService) EditTest(ctx context.Context, id string, e TestEdit) (core.Test, error) {
	t, err := s.store.GetTest(ctx, id)
	if err != nil {
		return core.Test{}, err
	}

	t.Name = strings.TrimSpace(e.Name)
	t.Category = strings.TrimSpace(e.Category)
	t.Price = e.Price
	t.Description = strings.TrimSpace(e.Description)
	t.NormalRange = strings.TrimSpace(e.NormalRange)
	t.PreparationRequired = strings.TrimSpace(e.PreparationRequired)

	if err := t.Validate(); err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyName):
			return core.Test{}, invalid("name", MsgNameRequired, err)
		case errors.Is(err, core.ErrEmptyCategory):
			return core.Test{}, invalid("category", MsgCategoryNeeded, err)
		default:
			return core.Test{}, invalid("price", MsgNegativeAmount, err)
		}
	}
	if err := s.store.SaveTest(ctx, t); err != nil {
		return core.Test{}, fmt.Errorf("save test %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Test updated", log.FieldOperation, log.OpUpdate, log.FieldTestID, t.ID)
	return t, nil
}

// admit runs an edited booking through the same checks as ingested data, so
// an edit that overpays a booking is flagged and counted like one loaded at
// startup.
func (s *LabService) admit(b *core.Booking) error {
	checked, _, err := s.ingest.Booking(*b)
	if err != nil {
		return err
	}
	*b = checked
	return nil
}

// updateError passes validation and lookup failures through and wraps
// anything else.
func updateError(id string, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, store.ErrNotFound) {
		return err
	}
	return fmt.Errorf("update booking %s: %w", id, err)
}

// publish sends e and only logs failures: the mutation is already stored.
func (s *LabService) publish(ctx context.Context, e *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldOperation, log.OpPublish,
			log.FieldEvent, e.Type,
			log.FieldBookingID, e.BookingID,
			log.FieldError, err)
		if s.recorder != nil {
			s.recorder.LedgerEventFailed(string(e.Type))
		}
		return
	}
	if s.recorder != nil {
		s.recorder.LedgerEventPublished(string(e.Type))
	}
}
