package core

import "testing"

func TestParseRupeesToPaise(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"₹1,500", 150000, true},
		{"1,25,000.50", 12500050, true},
		{"2,500", 250000, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"₹", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseRupeesToPaise(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Rupees(2500)
	b := Rupees(500)
	if got := a.Sub(b); got.Paise != 200000 {
		t.Fatalf("Sub = %d", got.Paise)
	}
	if got := a.Add(b); got.Paise != 300000 {
		t.Fatalf("Add = %d", got.Paise)
	}
	neg := b.Sub(a)
	if !neg.IsNegative() || neg.Abs().Paise != 200000 {
		t.Fatalf("Abs/IsNegative wrong for %d", neg.Paise)
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:       "0.00",
		5:       "0.05",
		250000:  "2500.00",
		123456:  "1234.56",
		-50000:  "-500.00",
	}
	for paise, want := range cases {
		if got := (Money{Paise: paise}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", paise, got, want)
		}
	}
}
