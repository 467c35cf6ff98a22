// Package memory is the in-process record store. It can simulate storage
// latency so the UI's loading states are exercised during development.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"labdesk/internal/core"
	"labdesk/internal/ingest"
	"labdesk/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	bookings []core.Booking
	patients []core.Patient
	tests    []core.Test
	latency  time.Duration
}

var _ store.Store = (*Store)(nil)

// New seeds a store with ds. Every call pays latency before touching the
// data, or returns early with the context's error.
func New(ds ingest.Dataset, latency time.Duration) *Store {
	s := &Store{latency: latency}
	for _, b := range ds.Bookings {
		s.bookings = append(s.bookings, b.Clone())
	}
	for _, p := range ds.Patients {
		s.patients = append(s.patients, p.Clone())
	}
	s.tests = slices.Clone(ds.Tests)
	return s
}

func (s *Store) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, store.ErrNotFound)
}

func (s *Store) ListBookings(ctx context.Context) ([]core.Booking, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Booking, len(s.bookings))
	for i, b := range s.bookings {
		out[i] = b.Clone()
	}
	return out, nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (core.Booking, error) {
	if err := s.wait(ctx); err != nil {
		return core.Booking{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b.Clone(), nil
		}
	}
	return core.Booking{}, notFound("booking", id)
}

func (s *Store) SaveBooking(ctx context.Context, b core.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == b.ID {
			s.bookings[i] = b.Clone()
			return nil
		}
	}
	return notFound("booking", b.ID)
}

func (s *Store) UpdateBooking(ctx context.Context, id string, fn func(*core.Booking) error) (core.Booking, error) {
	if err := s.wait(ctx); err != nil {
		return core.Booking{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}
		b := s.bookings[i].Clone()
		if err := fn(&b); err != nil {
			return core.Booking{}, err
		}
		if b.ID != id {
			return core.Booking{}, fmt.Errorf("booking %q: id changed to %q", id, b.ID)
		}
		if err := b.Validate(); err != nil {
			return core.Booking{}, err
		}
		s.bookings[i] = b.Clone()
		return b, nil
	}
	return core.Booking{}, notFound("booking", id)
}

func (s *Store) ListPatients(ctx context.Context) ([]core.Patient, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Patient, len(s.patients))
	for i, p := range s.patients {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *Store) GetPatient(ctx context.Context, id string) (core.Patient, error) {
	if err := s.wait(ctx); err != nil {
		return core.Patient{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return core.Patient{}, notFound("patient", id)
}

func (s *Store) SavePatient(ctx context.Context, p core.Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].ID == p.ID {
			s.patients[i] = p.Clone()
			return nil
		}
	}
	return notFound("patient", p.ID)
}

func (s *Store) ListTests(ctx context.Context) ([]core.Test, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tests), nil
}

func (s *Store) GetTest(ctx context.Context, id string) (core.Test, error) {
	if err := s.wait(ctx); err != nil {
		return core.Test{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tests {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Test{}, notFound("test", id)
}

func (s *Store) SaveTest(ctx context.Context, t core.Test) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tests {
		if s.tests[i].ID == t.ID {
			s.tests[i] = t
			return nil
		}
	}
	return notFound("test", t.ID)
}
