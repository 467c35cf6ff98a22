package core

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	StatusBooked     BookingStatus = "booked"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
)

const (
	MethodCash  PaymentMethod = "cash"
	MethodUPI   PaymentMethod = "upi"
	MethodCard  PaymentMethod = "card"
	MethodOther PaymentMethod = "other"
)

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type (
	BookingStatus string
	PaymentMethod string
	Gender        string

	Date struct {
		time.Time
	}

	Money struct {
		Paise int64
	}

	Payment struct {
		ID        string
		Amount    Money
		Method    PaymentMethod
		Date      Date
		Reference string // optional
	}

	Booking struct {
		ID            string
		PatientID     string
		PatientName   string
		Date          Date
		TestNames     []string
		TotalAmount   Money
		Discount      Money
		PayableAmount Money // derived: TotalAmount - Discount
		Payments      []Payment
		Status        BookingStatus
	}

	TestRecord struct {
		ID        string
		Date      Date
		TestNames []string
		BookingID string
		Status    BookingStatus
		ReportURL string // optional
	}

	Patient struct {
		ID            string
		Name          string
		Gender        Gender
		Age           int
		ContactNumber string
		Email         string
		Address       string
		TestHistory   []TestRecord
	}

	// Test is a catalog entry, not a test name booked on a visit.
	Test struct {
		ID                  string
		Name                string
		Category            string
		Date                Date
		Price               Money
		Description         string
		NormalRange         string // optional
		PreparationRequired string // optional
		BookingCount        int
		CompletedCount      int
		InProgressCount     int
		PendingCount        int
		TotalRevenue        Money
	}
)

var (
	ErrEmptyID              = errors.New("empty id")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidMethod        = errors.New("invalid payment method")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidGender        = errors.New("invalid gender")
	ErrInvalidAge           = errors.New("invalid age")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidCount         = errors.New("invalid count")
	ErrEmptyName            = errors.New("empty name")
	ErrEmptyCategory        = errors.New("empty category")
	ErrDiscountExceedsTotal = errors.New("discount exceeds total amount")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses an ISO date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the ISO form, which is also the grouping key for dated tables.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Paise < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodCard, MethodOther:
		return true
	}
	return false
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Short returns the single-letter form shown next to a patient's name.
func (g Gender) Short() string {
	switch g {
	case GenderMale:
		return "M"
	case GenderFemale:
		return "F"
	default:
		return "O"
	}
}

// BookingStatuses lists every booking status in workflow order.
func BookingStatuses() []BookingStatus {
	return []BookingStatus{StatusBooked, StatusInProgress, StatusCompleted}
}

// PaymentMethods lists every payment method in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodCash, MethodUPI, MethodCard, MethodOther}
}

func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, p.Method)
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (b Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if err := b.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.PatientName) == "" {
		return ErrEmptyName
	}
	if err := b.TotalAmount.Validate(); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	if err := b.Discount.Validate(); err != nil {
		return fmt.Errorf("discount: %w", err)
	}
	if b.Discount.Paise > b.TotalAmount.Paise {
		return ErrDiscountExceedsTotal
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, b.Status)
	}
	for _, p := range b.Payments {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("payment %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r TestRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	return nil
}

func (p Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGender, p.Gender)
	}
	if p.Age < 0 || p.Age > 150 {
		return ErrInvalidAge
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidEmail, p.Email)
		}
	}
	for _, r := range p.TestHistory {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("history %s: %w", r.ID, err)
		}
	}
	return nil
}

func (t Test) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Price.Validate(); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if err := t.TotalRevenue.Validate(); err != nil {
		return fmt.Errorf("revenue: %w", err)
	}
	if t.BookingCount < 0 || t.CompletedCount < 0 || t.InProgressCount < 0 || t.PendingCount < 0 {
		return ErrInvalidCount
	}
	if t.BookingCount == 0 && t.TotalRevenue.Paise != 0 {
		return fmt.Errorf("%w: revenue without bookings", ErrInvalidCount)
	}
	return nil
}

// CountsExceedBookings reports whether the status counts add up to more
// than the number of bookings for the test.
func (t Test) CountsExceedBookings() bool {
	return t.CompletedCount+t.InProgressCount+t.PendingCount > t.BookingCount
}
