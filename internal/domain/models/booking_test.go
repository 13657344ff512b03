package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
		{BookingCompleted, BookingCancelled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNormalizeTravelersDropsEmptyRows(t *testing.T) {
	in := []Traveler{
		{Name: "  Asha  ", Age: 30, Phone: " 98765 "},
		{Name: "", Age: 0, Phone: ""},
		{Name: "Ravi", Age: 8},
	}
	out := NormalizeTravelers(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 travelers, got %d", len(out))
	}
	if out[0].Name != "Asha" || out[0].Phone != "98765" {
		t.Errorf("first traveler not trimmed: %+v", out[0])
	}
	if out[1].Name != "Ravi" {
		t.Errorf("second traveler wrong: %+v", out[1])
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
		if !ValidStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidStatus("shipped") {
		t.Error("unknown status accepted")
	}
}
