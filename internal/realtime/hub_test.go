package realtime

import (
	"testing"
	"time"
)

type row struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func TestNewEvent_EncodeDecode(t *testing.T) {
	e, err := NewEvent(TableMessages, ActionUpdate, row{ID: "a", Body: "new"}, row{ID: "a", Body: "old"})
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	var n, o row
	if err := e.DecodeNew(&n); err != nil || n.Body != "new" {
		t.Fatalf("DecodeNew: %v %+v", err, n)
	}
	if err := e.DecodeOld(&o); err != nil || o.Body != "old" {
		t.Fatalf("DecodeOld: %v %+v", err, o)
	}
}

func TestNewEvent_NilOld(t *testing.T) {
	e, err := NewEvent(TableBookings, ActionInsert, row{ID: "b"}, nil)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if e.Old != nil {
		t.Fatalf("expected empty Old for insert, got %s", e.Old)
	}
}

func TestHub_FanOutToAllSubscribers(t *testing.T) {
	h := NewHub()
	defer h.Close()

	s1 := h.Subscribe(4, nil)
	defer s1.Close()
	s2 := h.Subscribe(4, nil)
	defer s2.Close()

	e, _ := NewEvent(TableMessages, ActionInsert, row{ID: "m1"}, nil)
	h.Publish(e)

	for i, s := range []*Subscription{s1, s2} {
		select {
		case got := <-s.C:
			if got.Table != TableMessages || got.Action != ActionInsert {
				t.Fatalf("subscriber %d: unexpected event %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: no event delivered", i)
		}
	}
}

func TestHub_FilterSelectsTable(t *testing.T) {
	h := NewHub()
	defer h.Close()

	s := h.Subscribe(4, TableFilter(TablePresence))
	defer s.Close()

	em, _ := NewEvent(TableMessages, ActionInsert, row{ID: "m"}, nil)
	ep, _ := NewEvent(TablePresence, ActionUpdate, row{ID: "p"}, nil)
	h.Publish(em)
	h.Publish(ep)

	select {
	case got := <-s.C:
		if got.Table != TablePresence {
			t.Fatalf("filter leaked %q", got.Table)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
	select {
	case got := <-s.C:
		t.Fatalf("unexpected second event %+v", got)
	default:
	}
}

func TestHub_DropsWhenSubscriberFull(t *testing.T) {
	h := NewHub()
	defer h.Close()

	s := h.Subscribe(1, nil)
	defer s.Close()

	e, _ := NewEvent(TableMessages, ActionInsert, row{ID: "1"}, nil)
	h.Publish(e) // fills the buffer
	h.Publish(e) // must not block; dropped

	<-s.C
	select {
	case got, ok := <-s.C:
		if ok {
			t.Fatalf("expected dropped event, got %+v", got)
		}
	default:
	}
}

func TestSubscription_CloseIdempotent_AndDetaches(t *testing.T) {
	h := NewHub()
	defer h.Close()

	s := h.Subscribe(1, nil)
	s.Close()
	s.Close() // second close must not panic

	if _, ok := <-s.C; ok {
		t.Fatalf("channel should be closed")
	}

	// A publish after close must not panic or deliver.
	e, _ := NewEvent(TableMessages, ActionInsert, row{ID: "x"}, nil)
	h.Publish(e)
}
