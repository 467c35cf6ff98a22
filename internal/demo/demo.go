// Package demo provides the sample lab data the dashboard starts with when
// no other source is configured.
package demo

import (
	"labdesk/internal/core"
	"labdesk/internal/ingest"
)

func day(m, d int) core.Date { return core.NewDate(2023, m, d) }

func pay(id string, rupees int64, method core.PaymentMethod, date core.Date, ref string) core.Payment {
	return core.Payment{ID: id, Amount: core.Rupees(rupees), Method: method, Date: date, Reference: ref}
}

func booking(id, patientID, patient string, date core.Date, tests []string, total, discount int64, status core.BookingStatus, payments ...core.Payment) core.Booking {
	return core.Booking{
		ID:            id,
		PatientID:     patientID,
		PatientName:   patient,
		Date:          date,
		TestNames:     tests,
		TotalAmount:   core.Rupees(total),
		Discount:      core.Rupees(discount),
		PayableAmount: core.Rupees(total - discount),
		Payments:      payments,
		Status:        status,
	}
}

// Bookings returns BK001 to BK005.
func Bookings() []core.Booking {
	return []core.Booking{
		booking("BK001", "PT001", "John Smith", day(8, 10), []string{"Blood Test", "Urinalysis"}, 2500, 500, core.StatusCompleted,
			pay("P1", 1000, core.MethodCash, day(8, 10), ""),
			pay("P2", 1000, core.MethodUPI, day(8, 12), "UPI123456")),
		booking("BK002", "PT002", "Jane Doe", day(8, 10), []string{"X-Ray", "Blood Sugar"}, 3000, 0, core.StatusInProgress,
			pay("P3", 1500, core.MethodCard, day(8, 10), "")),
		booking("BK003", "PT003", "Robert Johnson", day(8, 11), []string{"Liver Function", "Thyroid Panel"}, 4500, 500, core.StatusBooked),
		booking("BK004", "PT004", "Sarah Williams", day(8, 11), []string{"Complete Blood Count", "Vitamin D"}, 1800, 0, core.StatusCompleted,
			pay("P4", 1800, core.MethodCash, day(8, 11), "")),
		booking("BK005", "PT005", "Michael Brown", day(8, 12), []string{"COVID-19 Antibody", "Cholesterol"}, 3500, 350, core.StatusInProgress,
			pay("P5", 1500, core.MethodUPI, day(8, 12), "")),
	}
}

func rec(id string, date core.Date, bookingID string, status core.BookingStatus, tests ...string) core.TestRecord {
	return core.TestRecord{ID: id, Date: date, TestNames: tests, BookingID: bookingID, Status: status}
}

// Patients returns PT001 to PT005 with their test history.
func Patients() []core.Patient {
	return []core.Patient{
		{
			ID: "PT001", Name: "John Smith", Gender: core.GenderMale, Age: 45,
			ContactNumber: "+91 98765 43210", Email: "john.smith@example.com", Address: "123 Main St, Bangalore",
			TestHistory: []core.TestRecord{
				rec("TH001", day(8, 10), "BK001", core.StatusCompleted, "Blood Test", "Urinalysis"),
				rec("TH002", day(7, 15), "BK010", core.StatusCompleted, "Cholesterol"),
			},
		},
		{
			ID: "PT002", Name: "Jane Doe", Gender: core.GenderFemale, Age: 32,
			ContactNumber: "+91 87654 32109", Email: "jane.doe@example.com", Address: "456 Park Ave, Mumbai",
			TestHistory: []core.TestRecord{
				rec("TH003", day(8, 10), "BK002", core.StatusInProgress, "X-Ray", "Blood Sugar"),
			},
		},
		{
			ID: "PT003", Name: "Robert Johnson", Gender: core.GenderMale, Age: 56,
			ContactNumber: "+91 76543 21098", Email: "robert.johnson@example.com", Address: "789 Elm St, Delhi",
			TestHistory: []core.TestRecord{
				rec("TH004", day(8, 11), "BK003", core.StatusBooked, "Liver Function", "Thyroid Panel"),
			},
		},
		{
			ID: "PT004", Name: "Sarah Williams", Gender: core.GenderFemale, Age: 28,
			ContactNumber: "+91 65432 10987", Email: "sarah.williams@example.com", Address: "101 Oak Rd, Chennai",
			TestHistory: []core.TestRecord{
				rec("TH005", day(8, 11), "BK004", core.StatusCompleted, "Complete Blood Count", "Vitamin D"),
				rec("TH006", day(6, 20), "BK011", core.StatusCompleted, "Thyroid Panel"),
			},
		},
		{
			ID: "PT005", Name: "Michael Brown", Gender: core.GenderMale, Age: 39,
			ContactNumber: "+91 54321 09876", Email: "michael.brown@example.com", Address: "202 Pine Ln, Hyderabad",
			TestHistory: []core.TestRecord{
				rec("TH007", day(8, 12), "BK005", core.StatusInProgress, "COVID-19 Antibody", "Cholesterol"),
			},
		},
	}
}

// Tests returns the catalog entries T001 to T006.
func Tests() []core.Test {
	return []core.Test{
		{
			ID: "T001", Name: "Complete Blood Count (CBC)", Category: "Hematology", Date: day(8, 10),
			Price: core.Rupees(500), BookingCount: 45, CompletedCount: 38, PendingCount: 2, InProgressCount: 5,
			TotalRevenue: core.Rupees(22500),
			Description: "A blood test that evaluates the cells that circulate in blood. It measures the levels of " +
				"red blood cells, white blood cells, platelets, hemoglobin, and hematocrit.",
			NormalRange: "WBC: 4.5-11.0 x10^9/L\nRBC: 4.5-5.9 x10^12/L\nHemoglobin: 14-18 g/dL\n" +
				"Hematocrit: 42-52%\nPlatelets: 150-450 x10^9/L",
			PreparationRequired: "No special preparation required. Fasting is not necessary.",
		},
		{
			ID: "T002", Name: "Blood Sugar", Category: "Biochemistry", Date: day(8, 10),
			Price: core.Rupees(300), BookingCount: 72, CompletedCount: 65, PendingCount: 3, InProgressCount: 4,
			TotalRevenue: core.Rupees(21600),
		},
		{
			ID: "T003", Name: "Thyroid Panel", Category: "Endocrinology", Date: day(8, 11),
			Price: core.Rupees(1200), BookingCount: 25, CompletedCount: 18, PendingCount: 5, InProgressCount: 2,
			TotalRevenue: core.Rupees(30000),
		},
		{
			ID: "T004", Name: "Vitamin D", Category: "Biochemistry", Date: day(8, 11),
			Price: core.Rupees(900), BookingCount: 30, CompletedCount: 22, PendingCount: 4, InProgressCount: 4,
			TotalRevenue: core.Rupees(27000),
		},
		{
			ID: "T005", Name: "Liver Function Test", Category: "Hepatology", Date: day(8, 12),
			Price: core.Rupees(800), BookingCount: 35, CompletedCount: 28, PendingCount: 3, InProgressCount: 4,
			TotalRevenue: core.Rupees(28000),
		},
		{
			ID: "T006", Name: "COVID-19 Antibody", Category: "Immunology", Date: day(8, 12),
			Price: core.Rupees(1500), BookingCount: 15, CompletedCount: 10, PendingCount: 2, InProgressCount: 3,
			TotalRevenue: core.Rupees(22500),
		},
	}
}

// Dataset bundles the sample records, ready for ingestion.
func Dataset() ingest.Dataset {
	return ingest.Dataset{Bookings: Bookings(), Patients: Patients(), Tests: Tests()}
}
