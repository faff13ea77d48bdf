package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
	"github.com/vytor/flashstudy/internal/repository/sqlite"
	"github.com/vytor/flashstudy/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	sets  repository.SetRepository
	repo  repository.ProgressRepository
	setID uuid.UUID
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.sets = sqlite.NewSetRepository(s.db)
	s.repo = sqlite.NewProgressRepository(s.db)

	id, err := s.sets.Create(context.Background(), models.FlashcardSet{Title: "Deck"}, testutil.Cards(3))
	s.Require().NoError(err)
	s.setID = id
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestSaveInsertsThenUpdates() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Save(ctx, models.SetProgress{SetID: s.setID, Mode: models.ModeStudy}))

	p, err := s.repo.Get(ctx, s.setID)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal(models.ModeStudy, p.Mode)
	s.Assert().Zero(p.CurrentIndex)

	p.CurrentIndex = 2
	p.Known = 1
	p.NotKnown = 1
	s.Require().NoError(s.repo.Save(ctx, *p))

	updated, err := s.repo.Get(ctx, s.setID)
	s.Require().NoError(err)
	s.Assert().Equal(2, updated.CurrentIndex)
	s.Assert().Equal(1, updated.Known)
	s.Assert().Equal(1, updated.NotKnown)
}

func (s *ProgressRepositorySuite) TestGetMissing() {
	p, err := s.repo.Get(context.Background(), uuid.New())
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func (s *ProgressRepositorySuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, models.SetProgress{SetID: s.setID}))
	s.Require().NoError(s.repo.Delete(ctx, s.setID))

	p, err := s.repo.Get(ctx, s.setID)
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func (s *ProgressRepositorySuite) TestDeletingSetRemovesProgress() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, models.SetProgress{SetID: s.setID}))
	s.Require().NoError(s.sets.Delete(ctx, s.setID))

	p, err := s.repo.Get(ctx, s.setID)
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
