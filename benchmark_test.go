package worker

import (
	"sync/atomic"
	"testing"
)

func BenchmarkEnqueueProcess(b *testing.B) {
	var processed atomic.Int64
	w, _ := New(func(int, Message[int]) error {
		processed.Add(1)
		return nil
	}, Options{})
	w.Start()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Enqueue(Message[int]{Priority: i & 7, Payload: i})
	}
	w.Stop()
	b.StopTimer()

	if got := processed.Load(); got != int64(b.N) {
		b.Fatalf("processed = %d; want %d", got, b.N)
	}
}

func BenchmarkPriorityMailbox(b *testing.B) {
	box := newPriorityMailbox[int](initialMailboxCapacity)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		box.push(Message[int]{Priority: i & 63, Payload: i, seq: uint64(i)})
		if i&1 == 1 {
			box.pop()
		}
	}
}

func BenchmarkFifoMailbox(b *testing.B) {
	box := newFifoMailbox[int](initialMailboxCapacity)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		box.push(Message[int]{Payload: i})
		if i&1 == 1 {
			box.pop()
		}
	}
}
