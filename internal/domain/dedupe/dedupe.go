// Package dedupe tracks event ids that have already been counted.
package dedupe

import "context"

// Deduper records seen event IDs to ensure at-most-once counting.
type Deduper interface {
	// Seen reports whether id was already recorded.
	Seen(ctx context.Context, id string) bool

	// SeenAndRecord checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// IDs returns every recorded id in first-seen order.
	IDs() []string

	Size() int64
}

// SeenSet implements Deduper with an unbounded map plus an insertion-order
// log used for persistence. Ids are never evicted: eviction would let a
// replayed report be counted twice. SeenSet is not safe for concurrent use;
// the tracker owns it from a single goroutine.
type SeenSet struct {
	seen  map[string]struct{}
	order []string
}

// NewSeenSet creates a SeenSet with configuration options.
func NewSeenSet(opts ...Option) *SeenSet {
	s := &SeenSet{seen: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seen reports whether id was already recorded.
func (s *SeenSet) Seen(_ context.Context, id string) bool {
	_, ok := s.seen[id]
	return ok
}

// SeenAndRecord checks if id was seen and records it if not.
func (s *SeenSet) SeenAndRecord(_ context.Context, id string) bool {
	if _, ok := s.seen[id]; ok {
		return true
	}
	s.add(id)
	return false
}

func (s *SeenSet) add(id string) {
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

// IDs returns every recorded id in first-seen order.
func (s *SeenSet) IDs() []string {
	return append(make([]string, 0, len(s.order)), s.order...)
}

// Size returns the current number of entries.
func (s *SeenSet) Size() int64 {
	return int64(len(s.order))
}
