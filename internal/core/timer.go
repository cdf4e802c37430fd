package core

import (
	"runtime"
	"time"
)

// StageTimer measures the wall-clock time and heap growth of one stage.
type StageTimer struct {
	start time.Time
	heap  uint64
}

// StartStage snapshots the clock and the live heap.
func StartStage() *StageTimer {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &StageTimer{start: time.Now(), heap: ms.HeapAlloc}
}

// Stop returns the elapsed time and the heap delta in bytes since StartStage.
// The delta is best effort: a collection during the stage can make it negative.
func (t *StageTimer) Stop() (time.Duration, int64) {
	elapsed := time.Since(t.start)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return elapsed, int64(ms.HeapAlloc) - int64(t.heap)
}
