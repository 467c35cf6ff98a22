// Package store defines the ports the dashboard reads and mutates lab
// records through.
package store

import (
	"context"
	"errors"

	"labdesk/internal/core"
)

var ErrNotFound = errors.New("record not found")

// Ports for the record store. Readers return copies; mutating a returned
// record never changes the store until it is saved back.
type (
	BookingReader interface {
		ListBookings(ctx context.Context) ([]core.Booking, error)
		GetBooking(ctx context.Context, id string) (core.Booking, error)
	}

	BookingWriter interface {
		// SaveBooking replaces the stored booking with the same ID.
		SaveBooking(ctx context.Context, b core.Booking) error
		// UpdateBooking applies fn to a copy of the stored booking and saves
		// the result, with no other write to that booking in between. An
		// error from fn leaves the store untouched and is returned as is.
		UpdateBooking(ctx context.Context, id string, fn func(*core.Booking) error) (core.Booking, error)
	}

	PatientReader interface {
		ListPatients(ctx context.Context) ([]core.Patient, error)
		GetPatient(ctx context.Context, id string) (core.Patient, error)
	}

	PatientWriter interface {
		SavePatient(ctx context.Context, p core.Patient) error
	}

	TestReader interface {
		ListTests(ctx context.Context) ([]core.Test, error)
		GetTest(ctx context.Context, id string) (core.Test, error)
	}

	TestWriter interface {
		SaveTest(ctx context.Context, t core.Test) error
	}

	// Store is the full read/write surface.
	Store interface {
		BookingReader
		BookingWriter
		PatientReader
		PatientWriter
		TestReader
		TestWriter
	}
)
