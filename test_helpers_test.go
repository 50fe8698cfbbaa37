package worker

import (
	"runtime"
	"testing"
	"time"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

// scrambledPriorities is an enqueue order that exercises duplicates and
// out-of-order arrival. Ascending with ties in arrival order:
// 0,0,1,1,1,3,4,5,10,20,40,50,50.
var scrambledPriorities = []int{20, 40, 4, 3, 0, 10, 1, 0, 5, 50, 50, 1, 1}
