// Package photos assigns position slots to review photo uploads.
package photos

import (
	"errors"
	"fmt"
)

// MaxPerReview is the hard cap on photos attached to a single review.
const MaxPerReview = 4

var ErrLimitExceeded = errors.New("photo limit exceeded")

// AllocatePositions assigns the lowest unused slots in [0,MaxPerReview)
// to count new photos, given the slots already held by surviving photos.
// Each slot is marked used as soon as it is handed out, so a single
// batch never assigns the same slot twice. The limit is checked up
// front: callers must not have touched the filesystem yet.
func AllocatePositions(occupied []int, count int) ([]int, error) {
	used := [MaxPerReview]bool{}

	for _, position := range occupied {
		if position < 0 || position >= MaxPerReview {
			return nil, fmt.Errorf("position %d out of range", position)
		}

		used[position] = true
	}

	if len(occupied)+count > MaxPerReview {
		return nil, fmt.Errorf("%w: %d existing + %d new exceeds %d", ErrLimitExceeded, len(occupied), count, MaxPerReview)
	}

	assigned := make([]int, 0, count)

	for slot := 0; slot < MaxPerReview && len(assigned) < count; slot++ {
		if !used[slot] {
			used[slot] = true

			assigned = append(assigned, slot)
		}
	}

	return assigned, nil
}
