package core

import (
	"fmt"
	"slices"
	"strings"
)

// NewBooking builds a booking with its payable amount derived from total and
// discount. Test names are normalized the same way AddTest does.
func NewBooking(id, patientID, patientName string, date Date, tests []string, total, discount Money, status BookingStatus) (Booking, error) {
	b := Booking{
		ID:          id,
		PatientID:   patientID,
		PatientName: patientName,
		Date:        date,
		TotalAmount: total,
		Discount:    discount,
		Status:      status,
	}
	for _, t := range tests {
		b.AddTest(t)
	}
	b.recompute()
	if err := b.Validate(); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (b *Booking) recompute() {
	b.PayableAmount = b.TotalAmount.Sub(b.Discount)
}

// Recompute re-derives PayableAmount and reports whether the stored value
// was stale.
func (b *Booking) Recompute() (changed bool) {
	before := b.PayableAmount
	b.recompute()
	return before != b.PayableAmount
}

// SetAmounts changes total and discount together, so a form that lowers the
// total and the discount at once is validated against the final pair.
func (b *Booking) SetAmounts(total, discount Money) error {
	if err := total.Validate(); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	if err := discount.Validate(); err != nil {
		return fmt.Errorf("discount: %w", err)
	}
	if discount.Paise > total.Paise {
		return ErrDiscountExceedsTotal
	}
	b.TotalAmount = total
	b.Discount = discount
	b.recompute()
	return nil
}

func (b *Booking) SetStatus(s BookingStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	b.Status = s
	return nil
}

// AddTest appends a trimmed test name. Blank and duplicate names are ignored.
func (b *Booking) AddTest(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(b.TestNames, name) {
		return false
	}
	b.TestNames = append(b.TestNames, name)
	return true
}

// RemoveTest drops a test by exact name, keeping the order of the rest.
func (b *Booking) RemoveTest(name string) bool {
	i := slices.Index(b.TestNames, name)
	if i < 0 {
		return false
	}
	b.TestNames = slices.Delete(slices.Clone(b.TestNames), i, i+1)
	return true
}

// AppendPayment records a payment. Payments are never edited or reordered.
func (b *Booking) AppendPayment(p Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	b.Payments = append(slices.Clone(b.Payments), p)
	return nil
}

// Clone returns a deep copy so callers never share slices with a store.
func (b Booking) Clone() Booking {
	b.TestNames = slices.Clone(b.TestNames)
	b.Payments = slices.Clone(b.Payments)
	return b
}

// Clone returns a deep copy of the patient and its history.
func (p Patient) Clone() Patient {
	h := make([]TestRecord, len(p.TestHistory))
	for i, r := range p.TestHistory {
		r.TestNames = slices.Clone(r.TestNames)
		h[i] = r
	}
	if p.TestHistory == nil {
		h = nil
	}
	p.TestHistory = h
	return p
}

// LatestRecord returns the most recent history entry by date. Entries on the
// same date keep their original relative order.
func (p Patient) LatestRecord() (TestRecord, bool) {
	if len(p.TestHistory) == 0 {
		return TestRecord{}, false
	}
	sorted := p.HistoryNewestFirst()
	return sorted[0], true
}

// HistoryNewestFirst returns the history sorted by date, most recent first.
func (p Patient) HistoryNewestFirst() []TestRecord {
	sorted := slices.Clone(p.TestHistory)
	slices.SortStableFunc(sorted, func(a, b TestRecord) int {
		return b.Date.Compare(a.Date.Time)
	})
	return sorted
}
