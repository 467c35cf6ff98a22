package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyString("test").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger should not be set without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerTableRefresh("bookings").
		TriggerRecordUpdated("booking", "BK001").
		TriggerFormReset().
		TriggerSuccessNotification("Payment added").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	expectedParts := []string{
		`"table:refresh"`,
		`"table":"bookings"`,
		`"record:updated"`,
		`"kind":"booking"`,
		`"id":"BK001"`,
		`"form:reset"`,
		`"show-notification"`,
		`"type":"success"`,
		`"duration":3000`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_Notifications(t *testing.T) {
	tests := []struct {
		name         string
		build        func(*HTMXResponseBuilder) *HTMXResponseBuilder
		wantType     string
		wantDuration string
	}{
		{"success", func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerSuccessNotification("ok") }, "success", "3000"},
		{"warning", func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerWarningNotification("careful") }, "warning", "5000"},
		{"error", func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerErrorNotification("failed") }, "error", "5000"},
		{"info", func(b *HTMXResponseBuilder) *HTMXResponseBuilder {
			return b.TriggerNotification(NotificationInfo, "fyi", 1000)
		}, "info", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.build(NewHTMXResponse()).Write(w)
			trigger := w.Header().Get("HX-Trigger")
			if !strings.Contains(trigger, `"type":"`+tt.wantType+`"`) {
				t.Errorf("HX-Trigger = %s, want type %s", trigger, tt.wantType)
			}
			if !strings.Contains(trigger, `"duration":`+tt.wantDuration) {
				t.Errorf("HX-Trigger = %s, want duration %s", trigger, tt.wantDuration)
			}
		})
	}
}

func TestHTMXResponseBuilder_BodyTemplate(t *testing.T) {
	tmpl := template.Must(template.New("x").Parse(`{{define "hello"}}<p>{{.}}</p>{{end}}`))

	w := httptest.NewRecorder()
	b := NewHTMXResponse()
	if err := b.BodyTemplate(tmpl, "hello", "<b>world</b>"); err != nil {
		t.Fatalf("BodyTemplate: %v", err)
	}
	b.Write(w)
	if got := w.Body.String(); got != "<p>&lt;b&gt;world&lt;/b&gt;</p>" {
		t.Errorf("Body = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	w = httptest.NewRecorder()
	b = NewHTMXResponse().TriggerSuccessNotification("never sent")
	if err := b.BodyTemplate(tmpl, "missing", nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
	b.Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("a failed render should drop pending triggers")
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{"bad request", BadRequestError("Bad input"), http.StatusBadRequest, "Bad input"},
		{"not found", NotFoundError("Booking not found"), http.StatusNotFound, "Booking not found"},
		{"unprocessable", UnprocessableEntityError("Invalid amount"), http.StatusUnprocessableEntity, "Invalid amount"},
		{"internal", InternalServerError("Server error"), http.StatusInternalServerError, "Server error"},
		{"unavailable", ServiceUnavailableError("Slow store"), http.StatusServiceUnavailable, "Slow store"},
		{"escaped", BadRequestError("<script>alert(1)</script>"), http.StatusBadRequest, "&lt;script&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("Body = %q, want to contain %q", body, tt.wantBody)
			}
			if !strings.Contains(body, `class="error"`) {
				t.Errorf("Body missing error class: %q", body)
			}
		})
	}

	w := httptest.NewRecorder()
	UnprocessableEntityError("Invalid amount").Write(w)
	if !strings.Contains(w.Header().Get("HX-Trigger"), `"type":"error"`) {
		t.Error("422 should raise an error toast")
	}

	w = httptest.NewRecorder()
	ServiceUnavailableError("x").Write(w)
	if w.Header().Get("Retry-After") != "5" {
		t.Error("503 should carry Retry-After")
	}
}
