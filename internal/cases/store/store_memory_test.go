package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/platform/sentinel"

	"github.com/stretchr/testify/suite"
)

type CaseStoreSuite struct {
	suite.Suite
	store *InMemoryCaseStore
	ctx   context.Context
}

func (s *CaseStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New([]*models.Case{
		{ID: "C-1", Status: models.CaseStatusIngestion, CreatedAt: time.Unix(0, 0).UTC()},
		{ID: "C-2", Status: models.CaseStatusScreening, CreatedAt: time.Unix(0, 0).UTC()},
	})
}

func TestCaseStoreSuite(t *testing.T) {
	suite.Run(t, new(CaseStoreSuite))
}

func (s *CaseStoreSuite) TestLookup() {
	s.Run("lists in seed order", func() {
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal(id.CaseID("C-1"), all[0].ID)
		s.Equal(id.CaseID("C-2"), all[1].ID)
	})

	s.Run("returns ErrNotFound for unknown case", func() {
		_, err := s.store.FindByID(s.ctx, "C-404")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned copies do not alias the working set", func() {
		c, err := s.store.FindByID(s.ctx, "C-1")
		s.Require().NoError(err)
		c.Status = models.CaseStatusRejected
		c.Documents = append(c.Documents, models.Document{ID: "DOC-x"})

		again, err := s.store.FindByID(s.ctx, "C-1")
		s.Require().NoError(err)
		s.Equal(models.CaseStatusIngestion, again.Status)
		s.Empty(again.Documents)
	})

	s.Run("seed mutation after construction is not visible", func() {
		seed := &models.Case{ID: "C-9", Status: models.CaseStatusIntake}
		st := New([]*models.Case{seed})
		seed.Status = models.CaseStatusApproved

		c, err := st.FindByID(s.ctx, "C-9")
		s.Require().NoError(err)
		s.Equal(models.CaseStatusIntake, c.Status)
	})
}

func (s *CaseStoreSuite) TestExecute() {
	s.Run("applies mutation and returns updated copy", func() {
		updated, err := s.store.Execute(s.ctx, "C-2", nil, func(c *models.Case) {
			c.ApplyDecision(models.DecisionApprove, "ok")
		})
		s.Require().NoError(err)
		s.Equal(models.CaseStatusApproved, updated.Status)

		stored, _ := s.store.FindByID(s.ctx, "C-2")
		s.Equal("ok", stored.DecisionNote)
	})

	s.Run("skips mutation when validation fails", func() {
		boom := errors.New("nope")
		_, err := s.store.Execute(s.ctx, "C-1",
			func(*models.Case) error { return boom },
			func(c *models.Case) { c.Status = models.CaseStatusRejected },
		)
		s.Require().ErrorIs(err, boom)

		stored, _ := s.store.FindByID(s.ctx, "C-1")
		s.Equal(models.CaseStatusIngestion, stored.Status)
	})

	s.Run("unknown case returns ErrNotFound", func() {
		_, err := s.store.Execute(s.ctx, "C-404", nil, func(*models.Case) {})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("concurrent uploads are all recorded", func() {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, _ = s.store.Execute(s.ctx, "C-1", nil, func(c *models.Case) {
					c.AddDocument(models.Document{ID: id.DocumentID("DOC-" + string(rune('a'+n)))})
				})
			}(i)
		}
		wg.Wait()

		stored, err := s.store.FindByID(s.ctx, "C-1")
		s.Require().NoError(err)
		s.Len(stored.Documents, 20)
		s.Equal(models.CaseStatusIntake, stored.Status)
	})
}
