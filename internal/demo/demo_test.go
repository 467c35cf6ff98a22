package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdesk/internal/finance"
	"labdesk/internal/ingest"
)

func TestSampleDataIngestsCleanly(t *testing.T) {
	ds, rep := ingest.New(nil, nil).Load(Dataset())
	require.NoError(t, rep.Err())
	assert.Empty(t, rep.Anomalies)
	assert.Len(t, ds.Bookings, 5)
	assert.Len(t, ds.Patients, 5)
	assert.Len(t, ds.Tests, 6)
}

func TestSampleLedgers(t *testing.T) {
	want := map[string]finance.PaymentStatus{
		"BK001": finance.Paid,
		"BK002": finance.Partial,
		"BK003": finance.Unpaid,
		"BK004": finance.Paid,
		"BK005": finance.Partial,
	}
	for _, b := range Bookings() {
		assert.Equal(t, want[b.ID], finance.BookingLedger(b).Status, b.ID)
	}

	bk5 := Bookings()[4]
	assert.Equal(t, int64(165000), finance.BookingLedger(bk5).Remaining.Paise)
}

func TestFreshCopies(t *testing.T) {
	a := Bookings()
	a[0].TestNames[0] = "changed"
	assert.Equal(t, "Blood Test", Bookings()[0].TestNames[0])
}
