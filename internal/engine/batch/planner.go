package batch

import (
	"errors"
	"fmt"
)

// Batch size bounds. MaxSize mirrors the provider's per-task keyword cap.
const (
	// DefaultSize is the default number of keywords per batch.
	DefaultSize = 500

	// MinSize is the minimum allowed batch size.
	MinSize = 1

	// MaxSize is the maximum allowed batch size.
	MaxSize = 1000
)

// Planner errors.
var (
	ErrInvalidSize = fmt.Errorf("batch size must be between %d and %d", MinSize, MaxSize)
	ErrEmptyItems  = errors.New("keyword list cannot be empty")
)

// Batch is one bounded-size group of keywords submitted as a single remote
// task. Seq is the 1-based position of the batch within the run.
type Batch struct {
	Seq      int
	Keywords []string
}

// Plan splits keywords into ceil(N/size) batches of at most size keywords,
// preserving input order. Every keyword appears in exactly one batch, and the
// concatenation of all batches equals the input. The partition is
// deterministic: same input and size always produce the same batches.
//
// The returned batches alias the input slice; callers must not mutate the
// keyword list afterwards.
func Plan(keywords []string, size int) ([]Batch, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if len(keywords) == 0 {
		return nil, ErrEmptyItems
	}

	total := Count(len(keywords), size)
	batches := make([]Batch, 0, total)

	for start := 0; start < len(keywords); start += size {
		end := start + size
		if end > len(keywords) {
			end = len(keywords)
		}
		batches = append(batches, Batch{
			Seq:      len(batches) + 1,
			Keywords: keywords[start:end],
		})
	}

	return batches, nil
}

// Count returns the number of batches needed for totalItems at the given
// batch size.
func Count(totalItems, size int) int {
	count := totalItems / size
	if totalItems%size > 0 {
		count++
	}
	return count
}
