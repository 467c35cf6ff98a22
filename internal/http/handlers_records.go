package http

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"labdesk/internal/services"
	"labdesk/internal/store"
	"labdesk/internal/tables"
)

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

func isTimeout(err error) bool { return errors.Is(err, context.DeadlineExceeded) }

// viewMode returns the mode query parameter when it is one of allowed, or ""
// for the read-only view.
func viewMode(r *http.Request, allowed ...string) string {
	m := r.URL.Query().Get("mode")
	if slices.Contains(allowed, m) {
		return m
	}
	return ""
}

type bookingPage struct {
	tables.BookingDetails
	Mode    string
	Choices formChoices
}

type patientPage struct {
	tables.PatientProfile
	Mode    string
	Choices formChoices
}

type testPage struct {
	tables.TestDetails
	Mode string
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	b, err := s.store.GetBooking(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "Booking", err)
		return
	}
	s.render(w, r, NewHTMXResponse(), "booking", bookingPage{
		BookingDetails: tables.NewBookingDetails(b),
		Mode:           viewMode(r, "edit", "payment"),
		Choices:        choices,
	})
}

func (s *Server) handleEditBooking(w http.ResponseWriter, r *http.Request) {
	form, errResp := parseForm(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	edit, err := ParseBookingEdit(form)
	if err != nil {
		s.fail(w, r, "Booking", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	b, err := s.service.EditBooking(ctx, r.PathValue("id"), edit)
	if err != nil {
		s.fail(w, r, "Booking", err)
		return
	}

	d := tables.NewBookingDetails(b)
	resp := NewHTMXResponse().
		TriggerTableRefresh(tables.BookingsID).
		TriggerRecordUpdated("booking", b.ID)
	if d.Ledger.Overpaid() {
		resp.TriggerWarningNotification(services.MsgBookingUpdated + ". The amount paid now exceeds the payable amount.")
	} else {
		resp.TriggerSuccessNotification(services.MsgBookingUpdated)
	}
	s.render(w, r, resp, "booking", bookingPage{BookingDetails: d, Choices: choices})
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	form, errResp := parseForm(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	in, err := ParsePaymentInput(form)
	if err != nil {
		s.fail(w, r, "Booking", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	b, p, err := s.service.AddPayment(ctx, r.PathValue("id"), in)
	if err != nil {
		s.fail(w, r, "Booking", err)
		return
	}

	resp := NewHTMXResponse().
		TriggerTableRefresh(tables.BookingsID).
		TriggerRecordUpdated("booking", b.ID)
	if p.Amount.Paise < in.Amount.Paise {
		resp.TriggerWarningNotification(services.MsgPaymentAdded + ". The amount was reduced to the remaining balance of " + tables.Rupees(p.Amount) + ".")
	} else {
		resp.TriggerSuccessNotification(services.MsgPaymentAdded)
	}
	s.render(w, r, resp, "booking", bookingPage{BookingDetails: tables.NewBookingDetails(b), Choices: choices})
}

func (s *Server) handlePatient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	p, err := s.store.GetPatient(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "Patient", err)
		return
	}
	s.render(w, r, NewHTMXResponse(), "patient", patientPage{
		PatientProfile: tables.NewPatientProfile(p),
		Mode:           viewMode(r, "edit", "history"),
		Choices:        choices,
	})
}

func (s *Server) handleEditPatient(w http.ResponseWriter, r *http.Request) {
	form, errResp := parseForm(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	edit, err := ParsePatientEdit(form)
	if err != nil {
		s.fail(w, r, "Patient", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	p, err := s.service.EditPatient(ctx, r.PathValue("id"), edit)
	if err != nil {
		s.fail(w, r, "Patient", err)
		return
	}

	resp := NewHTMXResponse().
		TriggerSuccessNotification(services.MsgPatientUpdated).
		TriggerTableRefresh(tables.PatientsID).
		TriggerRecordUpdated("patient", p.ID)
	s.render(w, r, resp, "patient", patientPage{PatientProfile: tables.NewPatientProfile(p), Choices: choices})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	t, err := s.store.GetTest(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "Test", err)
		return
	}
	s.render(w, r, NewHTMXResponse(), "test", testPage{
		TestDetails: tables.NewTestDetails(t),
		Mode:        viewMode(r, "edit"),
	})
}

func (s *Server) handleEditTest(w http.ResponseWriter, r *http.Request) {
	form, errResp := parseForm(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	edit, err := ParseTestEdit(form)
	if err != nil {
		s.fail(w, r, "Test", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	t, err := s.service.EditTest(ctx, r.PathValue("id"), edit)
	if err != nil {
		s.fail(w, r, "Test", err)
		return
	}

	resp := NewHTMXResponse().
		TriggerSuccessNotification(services.MsgTestUpdated).
		TriggerTableRefresh(tables.TestsID).
		TriggerRecordUpdated("test", t.ID)
	s.render(w, r, resp, "test", testPage{TestDetails: tables.NewTestDetails(t)})
}

