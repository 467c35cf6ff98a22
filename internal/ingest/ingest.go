// Package ingest admits raw records into a dataset the dashboard can render.
//
// Malformed records are rejected with the validation error that disqualified
// them. Records that are well formed but suspicious are kept and flagged with
// a core.Anomaly: a stale payable amount is corrected, an overpaid booking
// and a test whose status counts exceed its bookings are only reported.
package ingest

import (
	"errors"
	"fmt"

	"labdesk/internal/core"
	"labdesk/internal/finance"
	"labdesk/internal/log"
)

var ErrDuplicateID = errors.New("duplicate id")

// Dataset is everything the three tables display.
type Dataset struct {
	Bookings []core.Booking
	Patients []core.Patient
	Tests    []core.Test
}

// Rejection records one record left out of the dataset.
type Rejection struct {
	Kind     string // "booking", "patient" or "test"
	RecordID string
	Err      error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s %q rejected: %v", r.Kind, r.RecordID, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Report summarizes an ingestion run.
type Report struct {
	Accepted   int
	Rejections []Rejection
	Anomalies  []core.Anomaly
}

// Err joins every rejection, or returns nil when all records were accepted.
func (r Report) Err() error {
	if len(r.Rejections) == 0 {
		return nil
	}
	errs := make([]error, len(r.Rejections))
	for i, rej := range r.Rejections {
		errs[i] = rej
	}
	return errors.Join(errs...)
}

// AnomalyRecorder counts anomalies, typically into metrics.
type AnomalyRecorder interface {
	RecordAnomaly(kind core.AnomalyKind)
}

type Ingester struct {
	logger   *log.Logger
	recorder AnomalyRecorder
}

// New returns an Ingester. recorder may be nil.
func New(logger *log.Logger, recorder AnomalyRecorder) *Ingester {
	if logger == nil {
		logger = log.Discard()
	}
	return &Ingester{logger: logger.WithComponent(log.ComponentIngest), recorder: recorder}
}

// Load ingests a whole dataset. The returned dataset holds deep copies of
// the accepted records in their original order.
func (in *Ingester) Load(raw Dataset) (Dataset, Report) {
	var (
		out Dataset
		rep Report
	)
	out.Bookings = in.bookings(raw.Bookings, &rep)
	out.Patients = in.patients(raw.Patients, &rep)
	out.Tests = in.tests(raw.Tests, &rep)

	in.logger.Info("Dataset ingested",
		log.FieldOperation, log.OpIngest,
		"accepted", rep.Accepted,
		"rejected", len(rep.Rejections),
		"anomalies", len(rep.Anomalies))
	return out, rep
}

// Booking ingests a single booking, as used after a mutation.
func (in *Ingester) Booking(b core.Booking) (core.Booking, []core.Anomaly, error) {
	var rep Report
	got := in.bookings([]core.Booking{b}, &rep)
	if len(got) == 0 {
		return core.Booking{}, nil, rep.Rejections[0]
	}
	return got[0], rep.Anomalies, nil
}

func (in *Ingester) reject(rep *Report, kind, id string, err error) {
	rej := Rejection{Kind: kind, RecordID: id, Err: err}
	rep.Rejections = append(rep.Rejections, rej)
	in.logger.Warn("Record rejected",
		log.FieldRecordID, id,
		"kind", kind,
		log.FieldError, err)
}

func (in *Ingester) flag(rep *Report, a core.Anomaly) {
	rep.Anomalies = append(rep.Anomalies, a)
	if in.recorder != nil {
		in.recorder.RecordAnomaly(a.Kind)
	}
	in.logger.Warn("Data anomaly",
		log.FieldAnomaly, string(a.Kind),
		log.FieldRecordID, a.RecordID,
		"detail", a.Detail)
}

func (in *Ingester) bookings(raw []core.Booking, rep *Report) []core.Booking {
	seen := make(map[string]bool, len(raw))
	out := make([]core.Booking, 0, len(raw))
	for _, b := range raw {
		b = b.Clone()
		if err := b.Validate(); err != nil {
			in.reject(rep, "booking", b.ID, err)
			continue
		}
		if seen[b.ID] {
			in.reject(rep, "booking", b.ID, ErrDuplicateID)
			continue
		}
		seen[b.ID] = true

		stale := b.PayableAmount
		if b.Recompute() {
			in.flag(rep, core.Anomaly{
				Kind:     core.AnomalyPayableMismatch,
				RecordID: b.ID,
				Detail:   fmt.Sprintf("payable %s corrected to %s", stale, b.PayableAmount),
			})
		}
		if l := finance.BookingLedger(b); l.Overpaid() {
			in.flag(rep, core.Anomaly{
				Kind:     core.AnomalyOverpaid,
				RecordID: b.ID,
				Detail:   fmt.Sprintf("paid %s against payable %s", l.Paid, l.Payable),
			})
		}
		out = append(out, b)
		rep.Accepted++
	}
	return out
}

func (in *Ingester) patients(raw []core.Patient, rep *Report) []core.Patient {
	seen := make(map[string]bool, len(raw))
	out := make([]core.Patient, 0, len(raw))
	for _, p := range raw {
		if err := p.Validate(); err != nil {
			in.reject(rep, "patient", p.ID, err)
			continue
		}
		if seen[p.ID] {
			in.reject(rep, "patient", p.ID, ErrDuplicateID)
			continue
		}
		seen[p.ID] = true
		out = append(out, p.Clone())
		rep.Accepted++
	}
	return out
}

func (in *Ingester) tests(raw []core.Test, rep *Report) []core.Test {
	seen := make(map[string]bool, len(raw))
	out := make([]core.Test, 0, len(raw))
	for _, t := range raw {
		if err := t.Validate(); err != nil {
			in.reject(rep, "test", t.ID, err)
			continue
		}
		if seen[t.ID] {
			in.reject(rep, "test", t.ID, ErrDuplicateID)
			continue
		}
		seen[t.ID] = true
		if t.CountsExceedBookings() {
			in.flag(rep, core.Anomaly{
				Kind:     core.AnomalyCountsExceedBookings,
				RecordID: t.ID,
				Detail: fmt.Sprintf("%d completed + %d in progress + %d pending > %d bookings",
					t.CompletedCount, t.InProgressCount, t.PendingCount, t.BookingCount),
			})
		}
		out = append(out, t)
		rep.Accepted++
	}
	return out
}
