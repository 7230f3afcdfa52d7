package batch

import (
	"sync"
	"time"
)

// percentMultiplier converts a ratio to a percentage (0-100).
const percentMultiplier = 100

// Progress tracks a run's batch counters: how many batches have been
// submitted and how many have reached a terminal state. It provides
// thread-safe access for UI updates. The completed counter is monotone
// non-decreasing and reaches TotalBatches exactly when the run finishes.
type Progress struct {
	// TotalItems is the total number of keywords in the run.
	TotalItems int

	// TotalBatches is the total number of batches in the run.
	TotalBatches int

	// SubmittedBatches is the number of batches handed to the provider
	// (successfully or not).
	SubmittedBatches int

	// CompletedBatches is the number of batches in a terminal state.
	CompletedBatches int

	// CompletedItems is the number of keywords in terminal batches.
	CompletedItems int

	// StartTime is when the run started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	// mu protects concurrent access to the counters.
	mu sync.RWMutex
}

// NewProgress creates a progress tracker for a run.
func NewProgress(totalItems, totalBatches int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		TotalBatches:   totalBatches,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddSubmitted records one batch handed to the provider.
func (p *Progress) AddSubmitted() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SubmittedBatches++
	p.LastUpdateTime = time.Now()
}

// AddCompleted records one batch reaching a terminal state along with its
// keyword count.
func (p *Progress) AddCompleted(items int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.CompletedBatches++
	p.CompletedItems += items
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the completion percentage (0-100) by item count.
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.percentCompleteUnsafe()
}

// IsComplete reports whether every batch has reached a terminal state.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.CompletedBatches >= p.TotalBatches
}

// ElapsedTime returns the time elapsed since the run started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return time.Since(p.StartTime)
}

// Snapshot returns a thread-safe copy of the current progress state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Snapshot{
		TotalItems:       p.TotalItems,
		TotalBatches:     p.TotalBatches,
		SubmittedBatches: p.SubmittedBatches,
		CompletedBatches: p.CompletedBatches,
		CompletedItems:   p.CompletedItems,
		PercentComplete:  p.percentCompleteUnsafe(),
		ElapsedTime:      time.Since(p.StartTime),
	}
}

// Snapshot is an immutable copy of progress state.
type Snapshot struct {
	TotalItems       int
	TotalBatches     int
	SubmittedBatches int
	CompletedBatches int
	CompletedItems   int
	PercentComplete  float64
	ElapsedTime      time.Duration
}

// percentCompleteUnsafe calculates percent complete without locking.
// Should only be called when already holding the lock.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.CompletedItems) / float64(p.TotalItems)) * percentMultiplier
}
