package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("net.", 10)
	defer unsub()

	b.Emit(KindOnline, nil)

	select {
	case evt := <-ch:
		if evt.Kind != KindOnline {
			t.Errorf("got kind %q, want %q", evt.Kind, KindOnline)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit should stamp the event time")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("sync.", 10)
	defer unsub()

	b.Emit(KindOnline, nil)
	b.Emit(KindSyncCompleted, nil)

	select {
	case evt := <-ch:
		if evt.Kind != KindSyncCompleted {
			t.Errorf("got kind %q, want %q", evt.Kind, KindSyncCompleted)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// The net.* event must not have been delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("order.", 10)
	unsub()

	b.Emit(KindOrderSaved, "o1")

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	_, unsub := b.Subscribe("order.", 1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Emit(KindOrderSaved, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}
