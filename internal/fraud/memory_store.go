package fraud

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu     sync.RWMutex
	checks map[string][]*CheckResult // sessionID → results
}

// NewMemoryStore creates an in-memory check result store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		checks: make(map[string][]*CheckResult),
	}
}

func (s *MemoryStore) Record(ctx context.Context, result *CheckResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[result.SessionID] = append(s.checks[result.SessionID], cloneResult(result))
	return nil
}

func (s *MemoryStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]*CheckResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.checks[sessionID]
	if len(all) == 0 {
		return nil, nil
	}

	// Most recent first, up to limit
	start := len(all) - limit
	if start < 0 {
		start = 0
	}
	out := make([]*CheckResult, 0, len(all)-start)
	for i := len(all) - 1; i >= start; i-- {
		out = append(out, cloneResult(all[i]))
	}
	return out, nil
}

func cloneResult(r *CheckResult) *CheckResult {
	c := *r
	c.Reasons = append([]string(nil), r.Reasons...)
	return &c
}
