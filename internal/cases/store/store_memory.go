package store

import (
	"context"
	"fmt"
	"sync"

	"kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/platform/sentinel"
)

// InMemoryCaseStore holds the working set of cases for the life of the process.
//
// Error Contract:
//   - Return sentinel.ErrNotFound when the case does not exist
//   - Return the validate callback's error unchanged, without mutating
//
// Reads return deep copies; the only way to change a case is Execute.
type InMemoryCaseStore struct {
	mu    sync.RWMutex
	order []id.CaseID
	cases map[id.CaseID]*models.Case
}

// New seeds the store with copies of the given cases, preserving their order.
func New(seed []*models.Case) *InMemoryCaseStore {
	s := &InMemoryCaseStore{cases: make(map[id.CaseID]*models.Case, len(seed))}
	for _, c := range seed {
		if c == nil {
			continue
		}
		if _, dup := s.cases[c.ID]; !dup {
			s.order = append(s.order, c.ID)
		}
		s.cases[c.ID] = c.Clone()
	}
	return s
}

func (s *InMemoryCaseStore) List(_ context.Context) ([]*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Case, 0, len(s.order))
	for _, caseID := range s.order {
		out = append(out, s.cases[caseID].Clone())
	}
	return out, nil
}

func (s *InMemoryCaseStore) FindByID(_ context.Context, caseID id.CaseID) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	return c.Clone(), nil
}

// Execute runs validate then mutate against the stored case while holding the
// write lock, and returns a copy of the result. mutate is skipped when
// validate fails.
func (s *InMemoryCaseStore) Execute(_ context.Context, caseID id.CaseID, validate func(*models.Case) error, mutate func(*models.Case)) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	if validate != nil {
		if err := validate(c); err != nil {
			return c.Clone(), err
		}
	}
	if mutate != nil {
		mutate(c)
	}
	return c.Clone(), nil
}
