package orders

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false, want true", s)
		}
	}
	if ValidStatus("refunded") {
		t.Error("ValidStatus(refunded) = true, want false")
	}
	if ValidStatus("") {
		t.Error("ValidStatus(empty) = true, want false")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusCancelled, StatusShipped, true}, // only delivered is guarded
		{StatusCancelled, StatusProcessing, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusProcessing, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusProcessing, "refunded", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusDelivered) {
		t.Error("delivered must be terminal")
	}
	for _, s := range []Status{StatusProcessing, StatusShipped, StatusCancelled} {
		if Terminal(s) {
			t.Errorf("%s must not be terminal", s)
		}
	}
}
