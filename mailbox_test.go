package worker

import (
	"testing"
)

func TestPriorityMailboxAscendingOrder(t *testing.T) {
	box := newPriorityMailbox[int](initialMailboxCapacity)
	for i, prio := range scrambledPriorities {
		box.push(Message[int]{Priority: prio, Payload: i, seq: uint64(i + 1)})
	}

	want := []struct {
		prio    int
		payload int
	}{
		{0, 4}, {0, 7},
		{1, 6}, {1, 11}, {1, 12},
		{3, 3}, {4, 2}, {5, 8}, {10, 5}, {20, 0}, {40, 1},
		{50, 9}, {50, 10},
	}
	if box.len() != len(want) {
		t.Fatalf("len = %d; want %d", box.len(), len(want))
	}
	for i, w := range want {
		msg, ok := box.pop()
		if !ok {
			t.Fatalf("pop %d: mailbox empty", i)
		}
		if msg.Priority != w.prio {
			t.Fatalf("pop %d: priority = %d; want %d", i, msg.Priority, w.prio)
		}
		if msg.Payload != w.payload {
			t.Fatalf("pop %d: payload = %d; want %d (ties must keep arrival order)",
				i, msg.Payload, w.payload)
		}
	}
	if _, ok := box.pop(); ok {
		t.Fatal("pop on empty mailbox returned a message")
	}
}

func TestPriorityMailboxEmpty(t *testing.T) {
	box := newPriorityMailbox[string](initialMailboxCapacity)
	if box.len() != 0 {
		t.Fatalf("len = %d; want 0", box.len())
	}
	if _, ok := box.pop(); ok {
		t.Fatal("pop on fresh mailbox returned a message")
	}
}

func TestFifoMailboxArrivalOrder(t *testing.T) {
	box := newFifoMailbox[int](2) // force several grows
	const n = 20
	for i := 0; i < n; i++ {
		box.push(Message[int]{Priority: n - i, Payload: i})
	}
	if box.len() != n {
		t.Fatalf("len = %d; want %d", box.len(), n)
	}
	for i := 0; i < n; i++ {
		msg, ok := box.pop()
		if !ok {
			t.Fatalf("pop %d: mailbox empty", i)
		}
		if msg.Payload != i {
			t.Fatalf("pop %d: payload = %d; want %d", i, msg.Payload, i)
		}
	}
}

func TestFifoMailboxGrowWrapped(t *testing.T) {
	box := newFifoMailbox[int](4)
	// Advance head so the buffer wraps before growing.
	for i := 0; i < 3; i++ {
		box.push(Message[int]{Payload: i})
	}
	for i := 0; i < 3; i++ {
		if msg, _ := box.pop(); msg.Payload != i {
			t.Fatalf("warmup pop = %d; want %d", msg.Payload, i)
		}
	}
	for i := 0; i < 10; i++ {
		box.push(Message[int]{Payload: 100 + i})
	}
	for i := 0; i < 10; i++ {
		msg, ok := box.pop()
		if !ok || msg.Payload != 100+i {
			t.Fatalf("pop %d = %v, %v; want %d", i, msg.Payload, ok, 100+i)
		}
	}
	if box.len() != 0 {
		t.Fatalf("len = %d; want 0", box.len())
	}
}

func TestNewMailboxSelectsOrdering(t *testing.T) {
	if _, ok := newMailbox[int](PriorityOrder).(*priorityMailbox[int]); !ok {
		t.Fatal("PriorityOrder did not build a priority mailbox")
	}
	if _, ok := newMailbox[int](ArrivalOrder).(*fifoMailbox[int]); !ok {
		t.Fatal("ArrivalOrder did not build a FIFO mailbox")
	}
}
