package pathconv

import "sync"

// SyncResolver serializes every call to a Resolver under one mutex.
type SyncResolver struct {
	mu sync.Mutex
	r  *Resolver
}

// NewSyncResolver wraps r.
func NewSyncResolver(r *Resolver) *SyncResolver {
	return &SyncResolver{r: r}
}

// SetCoding calls Resolver.SetCoding under the lock.
func (s *SyncResolver) SetCoding(c Coding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.SetCoding(c)
}

// Coding returns the current coding.
func (s *SyncResolver) Coding() Coding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Coding()
}

// AddSourcemap calls Resolver.AddSourcemap under the lock.
func (s *SyncResolver) AddSourcemap(server, client string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.AddSourcemap(server, client)
}

// ClearSourcemap calls Resolver.ClearSourcemap under the lock.
func (s *SyncResolver) ClearSourcemap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.ClearSourcemap()
}

// Sourcemaps returns a copy of the rules in match order.
func (s *SyncResolver) Sourcemaps() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Sourcemaps()
}

// Resolve calls Resolver.Resolve under the lock.
func (s *SyncResolver) Resolve(raw string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Resolve(raw)
}

// Map calls Resolver.Map under the lock.
func (s *SyncResolver) Map(server string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Map(server)
}

// Normalize calls Resolver.Normalize under the lock.
func (s *SyncResolver) Normalize(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Normalize(path)
}
