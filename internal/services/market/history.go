package market

import "github.com/vadiminshakov/bitflow/internal/domain"

// History is a fixed-capacity rolling window of recent price points.
// Mutation is confined to the single tick driver; Snapshot returns a
// copy, so concurrent readers never need a lock.
type History struct {
	capacity int
	points   []domain.PricePoint
}

// NewHistory creates a rolling window holding at most capacity points.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		points:   make([]domain.PricePoint, 0, capacity),
	}
}

// Append inserts a point at the end, evicting the oldest when the
// window is full.
func (h *History) Append(point domain.PricePoint) {
	h.points = append(h.points, point)
	if len(h.points) > h.capacity {
		h.points = h.points[1:]
	}
}

// Snapshot returns a copy of the window in chronological order.
func (h *History) Snapshot() []domain.PricePoint {
	snapshot := make([]domain.PricePoint, len(h.points))
	copy(snapshot, h.points)
	return snapshot
}

// Len returns the number of points currently held.
func (h *History) Len() int {
	return len(h.points)
}

// Last returns the most recent point, if any.
func (h *History) Last() (domain.PricePoint, bool) {
	if len(h.points) == 0 {
		return domain.PricePoint{}, false
	}
	return h.points[len(h.points)-1], true
}

// Capacity returns the maximum number of points the window holds.
func (h *History) Capacity() int {
	return h.capacity
}
