package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
	"github.com/vytor/lute/internal/repository/sqlite"
	"github.com/vytor/lute/internal/testutil"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type CardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.CardRepository
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	testutil.SeedDeck(s.T(), s.db, "d1", "French")
	testutil.SeedDeck(s.T(), s.db, "d2", "German")
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	c := flashcard.NewCard("c1", "d1", "bonjour", "hello", now)

	s.Require().NoError(s.repo.Insert(ctx, c))

	got, err := s.repo.Get(ctx, "c1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(c, *got)

	missing, err := s.repo.Get(ctx, "nope")
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *CardRepositorySuite) TestInsertRequiresDeck() {
	err := s.repo.Insert(context.Background(), flashcard.NewCard("c1", "ghost", "q", "a", now))
	s.Assert().Error(err)
}

func (s *CardRepositorySuite) TestUpdate() {
	ctx := context.Background()
	c := flashcard.NewCard("c1", "d1", "bonjour", "hello", now)
	s.Require().NoError(s.repo.Insert(ctx, c))

	updated := flashcard.ApplyReview(c, models.GradeEasy, now)
	s.Require().NoError(s.repo.Update(ctx, updated))

	got, err := s.repo.Get(ctx, "c1")
	s.Require().NoError(err)
	s.Assert().Equal(models.StatusReview, got.Status)
	s.Assert().Equal(4, got.Interval)
	s.Assert().Equal(updated.NextReview, got.NextReview)

	s.Assert().ErrorIs(s.repo.Update(ctx, flashcard.NewCard("ghost", "d1", "q", "a", now)), sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestListFilters() {
	ctx := context.Background()
	due := flashcard.NewCard("due", "d1", "q", "a", now.Add(-time.Hour))
	due.Status = models.StatusReview
	later := flashcard.NewCard("later", "d1", "q", "a", now.Add(time.Hour))
	later.Status = models.StatusReview
	fresh := flashcard.NewCard("fresh", "d1", "q", "a", now.Add(-2*time.Hour))
	other := flashcard.NewCard("other", "d2", "q", "a", now.Add(-time.Hour))
	s.Require().NoError(s.repo.SaveBatch(ctx, []models.Card{due, later, fresh, other}))

	cards, err := s.repo.List(ctx, models.CardFilter{DeckID: "d1"})
	s.Require().NoError(err)
	s.Assert().Len(cards, 3)
	s.Assert().Equal("fresh", cards[0].ID, "ordered by next review")

	cards, err = s.repo.List(ctx, models.CardFilter{DeckID: "d1", Status: models.StatusReview})
	s.Require().NoError(err)
	s.Assert().Len(cards, 2)

	cutoff := now
	cards, err = s.repo.List(ctx, models.CardFilter{DeckID: "d1", Status: models.StatusReview, DueBefore: &cutoff})
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Assert().Equal("due", cards[0].ID)

	cards, err = s.repo.List(ctx, models.CardFilter{Limit: 2, Offset: 1})
	s.Require().NoError(err)
	s.Assert().Len(cards, 2)
}

func (s *CardRepositorySuite) TestSaveBatchUpserts() {
	ctx := context.Background()
	a := flashcard.NewCard("a", "d1", "q", "a", now)
	b := flashcard.NewCard("b", "d1", "q", "a", now)
	s.Require().NoError(s.repo.SaveBatch(ctx, []models.Card{a, b}))

	a = flashcard.ApplyReview(a, models.GradeGood, now)
	s.Require().NoError(s.repo.SaveBatch(ctx, []models.Card{a}))

	cards, err := s.repo.ListByDeck(ctx, "d1")
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	got, err := s.repo.Get(ctx, "a")
	s.Require().NoError(err)
	s.Assert().Equal(models.StatusLearning, got.Status)
}

func (s *CardRepositorySuite) TestSaveBatchIsAtomic() {
	ctx := context.Background()
	good := flashcard.NewCard("good", "d1", "q", "a", now)
	bad := flashcard.NewCard("bad", "ghost", "q", "a", now)

	s.Assert().Error(s.repo.SaveBatch(ctx, []models.Card{good, bad}))

	got, err := s.repo.Get(ctx, "good")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
