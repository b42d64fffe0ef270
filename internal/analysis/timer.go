package analysis

import (
	"math"
	"sync"
	"time"
)

// StageTimer records wall-clock duration per pipeline stage
type StageTimer struct {
	mu        sync.Mutex
	durations map[string]time.Duration
}

// NewStageTimer creates an empty stage timer
func NewStageTimer() *StageTimer {
	return &StageTimer{durations: make(map[string]time.Duration)}
}

// Start begins timing a stage; calling the returned function stops it
func (t *StageTimer) Start(stage string) func() {
	began := time.Now()
	return func() {
		elapsed := time.Since(began)
		t.mu.Lock()
		t.durations[stage] = elapsed
		t.mu.Unlock()
	}
}

// Seconds returns each recorded stage duration in seconds, rounded to
// three decimals.
func (t *StageTimer) Seconds() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.durations))
	for stage, d := range t.durations {
		out[stage] = math.Round(d.Seconds()*1000) / 1000
	}
	return out
}
