package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/abelzeko/treehouse/internal/entities"
	"github.com/abelzeko/treehouse/internal/repository"
	"github.com/alecthomas/assert/v2"
)

func newSeededUseCase(t *testing.T) *TreehouseUseCase {
	t.Helper()
	repo, err := repository.NewSQLiteVisitorRepository("")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	uc := NewTreehouseUseCase(repo)
	assert.NoError(t, uc.SeedDefaultVisitors(context.Background()))
	return uc
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "bert", NormalizeName("  Bert\r\n"))
	assert.Equal(t, "", NormalizeName(" \n"))
}

func TestCheckInKnownVisitors(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
	}{
		{"bert", []string{"Hello Bert, enjoy your treehouse.", "Welcome to the tree house, bert"}},
		{"steve", []string{
			"Hi Steve. Your milk is in the fridge.",
			"Welcome to the tree house, steve",
			"Lactose-free milk is in the fridge",
			"Do not serve alcohol to steve",
		}},
		{"fred", []string{"Wow, who invited Fred?", "Do not allow fred in!"}},
	}

	uc := newSeededUseCase(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := uc.CheckIn(context.Background(), tt.name)
			assert.NoError(t, err)
			assert.False(t, res.Done)
			assert.Equal(t, tt.expected, res.Lines)
		})
	}
}

func TestCheckInUnknownVisitorGoesOnProbation(t *testing.T) {
	ctx := context.Background()
	uc := newSeededUseCase(t)

	res, err := uc.CheckIn(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice is not on the visitor list."}, res.Lines)

	res, err = uc.CheckIn(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, []string{"New friend", "alice is now a probationary member"}, res.Lines)

	visitors, err := uc.Visitors(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(visitors))
	last := visitors[3]
	assert.Equal(t, "alice", last.Name)
	assert.Equal(t, entities.Probation, last.Action.Kind)
	assert.Equal(t, int8(0), last.Age)
}

func TestCheckInEmptyNameEndsSession(t *testing.T) {
	ctx := context.Background()
	uc := newSeededUseCase(t)

	res, err := uc.CheckIn(ctx, "")
	assert.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, 0, len(res.Lines))

	visitors, err := uc.Visitors(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(visitors))
}

func TestCheckInIsCaseSensitiveOnStoredNames(t *testing.T) {
	uc := newSeededUseCase(t)

	// names are stored lowercased, callers normalise before checking in
	res, err := uc.CheckIn(context.Background(), "Bert")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Bert is not on the visitor list."}, res.Lines)
}

func TestGreetVisitorAdultWithNote(t *testing.T) {
	v := entities.NewVisitor("dora", "Hi Dora.", entities.AcceptWithNoteAction("Bring snacks"), 21)

	assert.Equal(t, []string{"Hi Dora.", "Welcome to the tree house, dora", "Bring snacks"}, GreetVisitor(v))
}

type failingRepository struct {
	repository.VisitorRepository
	err error
}

func (f failingRepository) FindVisitorByName(context.Context, string) (entities.Visitor, bool, error) {
	return entities.Visitor{}, false, f.err
}

func (f failingRepository) AddVisitor(context.Context, entities.Visitor) (entities.Visitor, error) {
	return entities.Visitor{}, f.err
}

func TestCheckInPropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("boom")
	uc := NewTreehouseUseCase(failingRepository{err: boom})

	_, err := uc.CheckIn(context.Background(), "bert")
	assert.True(t, errors.Is(err, boom))

	err = uc.SeedDefaultVisitors(context.Background())
	assert.True(t, errors.Is(err, boom))
}
