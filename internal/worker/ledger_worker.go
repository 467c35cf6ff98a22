package worker

import (
	"context"
	"sync"
	"time"

	"labdesk/internal/amqp"
	"labdesk/internal/core"
	"labdesk/internal/log"
)

// AnomalyRecorder counts anomalies, typically into metrics.
type AnomalyRecorder interface {
	RecordAnomaly(kind core.AnomalyKind)
}

// Summary is what the worker has seen since it started.
type Summary struct {
	Events   map[amqp.EventType]int
	Overpaid map[string]int64 // booking id to overpaid paise
	Stale    int
}

// LedgerWorker audits ledger events. Every event flagged as overpaid is
// logged at WARN; events older than one already seen for the same booking
// are counted as stale and otherwise ignored.
type LedgerWorker struct {
	logger   *log.Logger
	recorder AnomalyRecorder

	mu       sync.Mutex
	lastSeen map[string]time.Time
	summary  Summary
}

// NewLedgerWorker returns a worker. recorder may be nil.
func NewLedgerWorker(logger *log.Logger, recorder AnomalyRecorder) *LedgerWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerWorker{
		logger:   logger.WithComponent(log.ComponentWorker),
		recorder: recorder,
		lastSeen: make(map[string]time.Time),
		summary: Summary{
			Events:   make(map[amqp.EventType]int),
			Overpaid: make(map[string]int64),
		},
	}
}

// HandleLedgerEvent processes a single event delivered by the consumer.
func (w *LedgerWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.lastSeen[e.BookingID]; ok && e.Timestamp.Before(last) {
		w.summary.Stale++
		w.logger.DebugContext(ctx, "Skipping stale ledger event",
			log.FieldEvent, e.Type,
			log.FieldBookingID, e.BookingID)
		return nil
	}
	w.lastSeen[e.BookingID] = e.Timestamp
	w.summary.Events[e.Type]++

	w.logger.InfoContext(ctx, "Ledger event",
		log.FieldEvent, e.Type,
		log.FieldBookingID, e.BookingID,
		log.FieldPaidPaise, e.PaidPaise,
		log.FieldDuePaise, e.RemainingPaise,
		"payment_status", e.PaymentStatus)

	if e.Overpaid {
		w.summary.Overpaid[e.BookingID] = -e.RemainingPaise
		w.logger.WarnContext(ctx, "Overpaid booking",
			log.FieldEvent, e.Type,
			log.FieldBookingID, e.BookingID,
			log.FieldPaidPaise, e.PaidPaise,
			log.FieldAmountPaise, e.PayablePaise,
			log.FieldAnomaly, core.AnomalyOverpaid)
		if w.recorder != nil {
			w.recorder.RecordAnomaly(core.AnomalyOverpaid)
		}
	} else {
		delete(w.summary.Overpaid, e.BookingID)
	}
	return nil
}

// Summary returns a copy of the audit counters.
func (w *LedgerWorker) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Summary{
		Events:   make(map[amqp.EventType]int, len(w.summary.Events)),
		Overpaid: make(map[string]int64, len(w.summary.Overpaid)),
		Stale:    w.summary.Stale,
	}
	for k, v := range w.summary.Events {
		s.Events[k] = v
	}
	for k, v := range w.summary.Overpaid {
		s.Overpaid[k] = v
	}
	return s
}
