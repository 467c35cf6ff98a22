package worker

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"labdesk/internal/amqp"
	"labdesk/internal/core"
	"labdesk/internal/log"
)

type anomalyCounter map[core.AnomalyKind]int

func (c anomalyCounter) RecordAnomaly(k core.AnomalyKind) { c[k]++ }

func event(t amqp.EventType, id string, remaining int64, at time.Time) *amqp.LedgerEvent {
	return &amqp.LedgerEvent{
		Type:           t,
		BookingID:      id,
		PayablePaise:   200000,
		PaidPaise:      200000 - remaining,
		RemainingPaise: remaining,
		Overpaid:       remaining < 0,
		Timestamp:      at,
	}
}

func TestHandleLedgerEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})})
	rec := anomalyCounter{}
	w := NewLedgerWorker(logger, rec)
	ctx := context.Background()
	t0 := time.Date(2023, 8, 12, 10, 0, 0, 0, time.UTC)

	steps := []*amqp.LedgerEvent{
		event(amqp.EventPaymentRecorded, "BK001", 100000, t0),
		event(amqp.EventBookingUpdated, "BK001", -50000, t0.Add(time.Minute)),
		event(amqp.EventPaymentRecorded, "BK002", 0, t0.Add(time.Minute)),
		event(amqp.EventBookingUpdated, "BK001", 100000, t0.Add(30*time.Second)), // stale
	}
	for _, e := range steps {
		if err := w.HandleLedgerEvent(ctx, e); err != nil {
			t.Fatalf("HandleLedgerEvent() = %v", err)
		}
	}

	s := w.Summary()
	if s.Events[amqp.EventPaymentRecorded] != 2 || s.Events[amqp.EventBookingUpdated] != 1 {
		t.Errorf("events = %v", s.Events)
	}
	if s.Stale != 1 {
		t.Errorf("stale = %d, want 1", s.Stale)
	}
	if s.Overpaid["BK001"] != 50000 || len(s.Overpaid) != 1 {
		t.Errorf("overpaid = %v", s.Overpaid)
	}
	if rec[core.AnomalyOverpaid] != 1 {
		t.Errorf("recorded anomalies = %v", rec)
	}

	out := buf.String()
	if strings.Count(out, "level=WARN") != 1 {
		t.Errorf("expected exactly one WARN line:\n%s", out)
	}
	if !strings.Contains(out, "booking_id=BK001") || !strings.Contains(out, "component=worker") {
		t.Errorf("audit line missing fields:\n%s", out)
	}
}

func TestOverpaidClearedBySettlement(t *testing.T) {
	w := NewLedgerWorker(nil, nil)
	ctx := context.Background()
	t0 := time.Now()

	_ = w.HandleLedgerEvent(ctx, event(amqp.EventBookingUpdated, "BK005", -100, t0))
	_ = w.HandleLedgerEvent(ctx, event(amqp.EventBookingUpdated, "BK005", 0, t0.Add(time.Second)))

	if len(w.Summary().Overpaid) != 0 {
		t.Errorf("overpaid = %v, want empty", w.Summary().Overpaid)
	}
}

func TestSummaryIsACopy(t *testing.T) {
	w := NewLedgerWorker(nil, nil)
	_ = w.HandleLedgerEvent(context.Background(), event(amqp.EventPaymentRecorded, "BK001", 0, time.Now()))
	s := w.Summary()
	s.Events[amqp.EventPaymentRecorded] = 99
	if w.Summary().Events[amqp.EventPaymentRecorded] != 1 {
		t.Error("Summary() should not expose internal maps")
	}
}
