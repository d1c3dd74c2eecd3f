package bus

import (
	"testing"
	"time"

	"stockengine/internal/model"
)

func TestBus_SubscribeReceivesPublished(t *testing.T) {
	b := New(4)
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	b.Publish(model.CycleProgress{AnalyzedInCycle: 1})

	select {
	case got := <-sub.C:
		if got.AnalyzedInCycle != 1 {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published snapshot")
	}
}

func TestBus_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	b := New(1)
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(model.CycleProgress{AnalyzedInCycle: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// Eventually consistent with the latest value once drained.
	var last model.CycleProgress
	for {
		select {
		case v := <-sub.C:
			last = v
		default:
			goto drained
		}
	}
drained:
	if last.AnalyzedInCycle < 0 {
		t.Errorf("unexpected final snapshot: %+v", last)
	}
	if b.Snapshot().AnalyzedInCycle != 99 {
		t.Errorf("expected latest snapshot to be 99, got %d", b.Snapshot().AnalyzedInCycle)
	}
}

func TestBus_DynamicSubscribeAndUnsubscribe(t *testing.T) {
	b := New(4)
	sub1 := b.Subscribe()
	b.Publish(model.CycleProgress{AnalyzedInCycle: 1})
	sub1.Unsubscribe()

	sub2 := b.Subscribe()
	defer sub2.Unsubscribe()

	// sub2 should see the latest snapshot immediately on join.
	select {
	case got := <-sub2.C:
		if got.AnalyzedInCycle != 1 {
			t.Errorf("expected replay of latest snapshot, got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replayed snapshot")
	}

	// Drain the snapshot sub1 buffered before it unsubscribed; a closed
	// channel still delivers its buffered values first.
	<-sub1.C
	if _, ok := <-sub1.C; ok {
		t.Error("expected sub1's channel to be closed after Unsubscribe")
	}
}
