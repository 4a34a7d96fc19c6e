package dedupe

// Option applies a configuration option to the SeenSet.
type Option func(*SeenSet)

// WithIDs preloads ids restored from storage. Duplicates in the input are
// collapsed; empty ids are ignored.
func WithIDs(ids []string) Option {
	return func(s *SeenSet) {
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := s.seen[id]; !ok {
				s.add(id)
			}
		}
	}
}
