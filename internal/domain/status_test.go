package domain

import "testing"

func TestStatus_Machine(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusAccepted}:     true,
		{StatusPending, StatusRejected}:     true,
		{StatusAccepted, StatusInProgress}:  true,
		{StatusAccepted, StatusCancelled}:   true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusInProgress, StatusCancelled}: true,
	}
	all := []Status{StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusRejected:  true,
		StatusCompleted: true,
		StatusCancelled: true,
	}
	for _, s := range []Status{StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted, StatusCancelled} {
		if got := s.Terminal(); got != terminal[s] {
			t.Errorf("%s.Terminal() = %v", s, got)
		}
	}
	if Status("bogus").Terminal() {
		t.Errorf("unknown status must not be terminal")
	}
}

func TestStatus_Valid(t *testing.T) {
	if Status("bogus").Valid() || Status("").Valid() {
		t.Fatalf("unknown statuses must be invalid")
	}
	if !StatusPending.Valid() {
		t.Fatalf("pending must be valid")
	}
}

func TestNotificationIDs(t *testing.T) {
	if got := MessageNotificationID("m1"); got != "msg-m1" {
		t.Fatalf("message id = %q", got)
	}
	if got := NewBookingNotificationID("b1"); got != "new-booking-b1" {
		t.Fatalf("new booking id = %q", got)
	}
	// Completed notifies both sides; the role keeps the ids distinct.
	client := StatusNotificationID("b1", StatusCompleted, RoleClient)
	worker := StatusNotificationID("b1", StatusCompleted, RoleWorker)
	if client != "booking-b1-completed-client" || worker != "booking-b1-completed-worker" {
		t.Fatalf("status ids: %q / %q", client, worker)
	}
}
