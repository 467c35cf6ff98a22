package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"

	"labdesk/internal/core"
	"labdesk/internal/services"
)

func TestParseBookingEdit(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantField string // empty when parsing should succeed
	}{
		{
			name: "full form",
			form: url.Values{"date": {"2023-08-12"}, "status": {"completed"}, "total": {"2,500"}, "discount": {"250.50"}},
		},
		{
			name: "blank date and discount",
			form: url.Values{"status": {"booked"}, "total": {"1800"}},
		},
		{
			name:      "missing total",
			form:      url.Values{"status": {"booked"}},
			wantField: "total",
		},
		{
			name:      "bad date",
			form:      url.Values{"date": {"12/08/2023"}, "total": {"100"}},
			wantField: "date",
		},
		{
			name:      "bad discount",
			form:      url.Values{"total": {"100"}, "discount": {"-5"}},
			wantField: "discount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBookingEdit(tt.form)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fe *FormError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormError, got %v", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}
}

func TestParseBookingEditValues(t *testing.T) {
	form := url.Values{
		"date":         {"2023-08-12"},
		"status":       {"completed"},
		"total":        {"₹2,500"},
		"discount":     {"250.50"},
		"add_tests":    {"Lipid Profile, HbA1c\nVitamin B12"},
		"remove_tests": {"X-Ray", "Blood Sugar"},
	}
	e, err := ParseBookingEdit(form)
	if err != nil {
		t.Fatalf("ParseBookingEdit: %v", err)
	}
	if e.Date.String() != "2023-08-12" {
		t.Errorf("Date = %v", e.Date)
	}
	if e.Status != core.StatusCompleted {
		t.Errorf("Status = %q", e.Status)
	}
	if e.Total.Paise != 250000 || e.Discount.Paise != 25050 {
		t.Errorf("Total = %d, Discount = %d", e.Total.Paise, e.Discount.Paise)
	}
	if want := []string{"Lipid Profile", "HbA1c", "Vitamin B12"}; !slices.Equal(e.AddTests, want) {
		t.Errorf("AddTests = %q, want %q", e.AddTests, want)
	}
	if want := []string{"X-Ray", "Blood Sugar"}; !slices.Equal(e.RemoveTests, want) {
		t.Errorf("RemoveTests = %q, want %q", e.RemoveTests, want)
	}
}

func TestParsePaymentInput(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantPaise  int64
		wantMethod core.PaymentMethod
		wantErr    bool
	}{
		{"upi payment", url.Values{"amount": {"1,500"}, "method": {"upi"}, "reference": {" UPI99 "}}, 150000, core.MethodUPI, false},
		{"decimal comma", url.Values{"amount": {"12,34"}, "method": {"cash"}}, 1234, core.MethodCash, false},
		{"blank amount is zero", url.Values{"method": {"card"}}, 0, core.MethodCard, false},
		{"letters", url.Values{"amount": {"abc"}, "method": {"cash"}}, 0, "", true},
		{"zero is rejected by the parser", url.Values{"amount": {"0"}, "method": {"cash"}}, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParsePaymentInput(tt.form)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if msg, ok := userMessage(err); !ok || msg != msgInvalidAmount {
					t.Errorf("userMessage = %q, %v", msg, ok)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Amount.Paise != tt.wantPaise {
				t.Errorf("Amount = %d, want %d", in.Amount.Paise, tt.wantPaise)
			}
			if in.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", in.Method, tt.wantMethod)
			}
		})
	}
}

func TestParsePatientEdit(t *testing.T) {
	e, err := ParsePatientEdit(url.Values{
		"name": {"  Jane Doe "}, "gender": {"female"}, "age": {"32"},
		"contact_number": {"+91 98765 43211"}, "email": {"jane@example.com"}, "address": {"Chennai"},
	})
	if err != nil {
		t.Fatalf("ParsePatientEdit: %v", err)
	}
	if e.Name != "Jane Doe" || e.Age != 32 || e.Gender != core.GenderFemale {
		t.Errorf("unexpected edit: %+v", e)
	}

	_, err = ParsePatientEdit(url.Values{"name": {"Jane"}, "age": {"thirty"}})
	if msg, ok := userMessage(err); !ok || msg != services.MsgInvalidAge {
		t.Errorf("userMessage = %q, %v", msg, ok)
	}
}

func TestParseTestEdit(t *testing.T) {
	e, err := ParseTestEdit(url.Values{"name": {"Vitamin D"}, "category": {"Biochemistry"}, "price": {"1200"}})
	if err != nil {
		t.Fatalf("ParseTestEdit: %v", err)
	}
	if e.Price.Paise != 120000 {
		t.Errorf("Price = %d", e.Price.Paise)
	}

	_, err = ParseTestEdit(url.Values{"name": {"Vitamin D"}})
	if msg, ok := userMessage(err); !ok || msg != msgPriceRequired {
		t.Errorf("userMessage = %q, %v", msg, ok)
	}
}

func TestUserMessage(t *testing.T) {
	if _, ok := userMessage(errors.New("disk full")); ok {
		t.Error("plain errors are not user errors")
	}
	ve := &services.ValidationError{Field: "amount", Message: services.MsgAlreadyPaid}
	if msg, ok := userMessage(ve); !ok || msg != services.MsgAlreadyPaid {
		t.Errorf("userMessage = %q, %v", msg, ok)
	}
}

func TestParseForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/bookings/BK001", strings.NewReader("total=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, resp := parseForm(req); resp == nil {
		t.Fatal("expected a bad request response")
	}

	req = httptest.NewRequest(http.MethodPost, "/bookings/BK001?total=1", strings.NewReader("total=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	form, resp := parseForm(req)
	if resp != nil {
		t.Fatal("unexpected error response")
	}
	if form.Get("total") != "2" || len(form["total"]) != 1 {
		t.Errorf("form should hold only the body values: %v", form)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"line1\nline2", "line1\nline2"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
