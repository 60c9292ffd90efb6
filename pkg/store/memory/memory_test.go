package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsbeams/pipeline/pkg/errors"
	"github.com/sportsbeams/pipeline/pkg/pipeline"
	"github.com/sportsbeams/pipeline/pkg/store"
)

func newProspect(name string) *pipeline.Prospect {
	return &pipeline.Prospect{
		Name:      name,
		VenueType: pipeline.VenueHighSchoolOther,
		State:     pipeline.StateOH,
		Status:    pipeline.StatusIdentified,
	}
}

func TestProspectLookups(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := newProspect("Westerville North High School")
	require.NoError(t, s.CreateProspect(ctx, p))
	assert.NotEmpty(t, p.ID, "create assigns an ID")
	assert.False(t, p.CreatedAt.IsZero(), "create assigns timestamps")

	got, err := s.ProspectByName(ctx, "Westerville North High School")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.ProspectByName(ctx, "westerville north high school")
	assert.ErrorIs(t, err, errors.ErrNotFound, "exact lookup is case-sensitive")

	got, err = s.ProspectByFuzzyName(ctx, "WESTERVILLE NORTH")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID, "fuzzy lookup is a case-insensitive substring match")

	_, err = s.ProspectByFuzzyName(ctx, "Southerville")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	got, err = s.Prospect(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Westerville North High School", got.Name)
}

func TestLookupsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := newProspect("Copy Test School")
	require.NoError(t, s.CreateProspect(ctx, p))

	got, err := s.ProspectByName(ctx, "Copy Test School")
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := s.Prospect(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy Test School", again.Name, "callers cannot mutate stored state through a lookup result")
}

func TestSoftDeletedProspectsAreInvisible(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := newProspect("Closed Academy")
	require.NoError(t, s.CreateProspect(ctx, p))

	now := time.Now().UTC()
	p.DeletedAt = &now
	require.NoError(t, s.UpdateProspect(ctx, p))

	_, err := s.Prospect(ctx, p.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = s.ProspectByName(ctx, "Closed Academy")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = s.ProspectByFuzzyName(ctx, "closed")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestContactByEmailScopedToProspect(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := newProspect("School A")
	b := newProspect("School B")
	require.NoError(t, s.CreateProspect(ctx, a))
	require.NoError(t, s.CreateProspect(ctx, b))

	require.NoError(t, s.CreateContact(ctx, &pipeline.Contact{
		ProspectID: a.ID,
		Name:       "Pat Jones",
		Email:      "pj@example.edu",
	}))

	got, err := s.ContactByEmail(ctx, a.ID, "pj@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "Pat Jones", got.Name)

	_, err = s.ContactByEmail(ctx, b.ID, "pj@example.edu")
	assert.ErrorIs(t, err, errors.ErrNotFound, "the same email under another prospect does not match")
}

func TestScoreLookup(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := newProspect("Scored School")
	require.NoError(t, s.CreateProspect(ctx, p))

	require.NoError(t, s.CreateScore(ctx, &pipeline.ProspectScore{
		ProspectID: p.ID,
		Dimension:  pipeline.DimBudgetSignals,
		Score:      7,
		Weight:     3,
	}))

	got, err := s.Score(ctx, p.ID, pipeline.DimBudgetSignals)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Score)
	assert.False(t, got.ScoredAt.IsZero())

	_, err = s.Score(ctx, p.ID, pipeline.DimGeography)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTransactRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()

	keeper := newProspect("Keeper School")
	require.NoError(t, s.CreateProspect(ctx, keeper))

	failed := errors.New("record failed")
	err := s.Transact(ctx, func(tx store.Store) error {
		if err := tx.CreateProspect(ctx, newProspect("Doomed School")); err != nil {
			return err
		}
		if err := tx.CreateContact(ctx, &pipeline.Contact{ProspectID: keeper.ID, Name: "Doomed Contact"}); err != nil {
			return err
		}
		keeper.City = "Mutated"
		if err := tx.UpdateProspect(ctx, keeper); err != nil {
			return err
		}
		return failed
	})
	require.ErrorIs(t, err, failed)

	_, err = s.ProspectByName(ctx, "Doomed School")
	assert.ErrorIs(t, err, errors.ErrNotFound, "creates inside a failed transaction are rolled back")

	got, err := s.ProspectByName(ctx, "Keeper School")
	require.NoError(t, err)
	assert.Empty(t, got.City, "updates inside a failed transaction are rolled back")

	prospects, contacts, scores, activities := s.Counts()
	assert.Equal(t, 1, prospects)
	assert.Zero(t, contacts+scores+activities)
}

func TestTransactRollbackPreservesConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	entered := make(chan struct{})
	release := make(chan struct{})
	failed := errors.New("record failed")

	doomed := make(chan error, 1)
	go func() {
		doomed <- s.Transact(ctx, func(tx store.Store) error {
			close(entered)
			if err := tx.CreateProspect(ctx, newProspect("Doomed School")); err != nil {
				return err
			}
			<-release
			return failed
		})
	}()

	// A second batch commits while the first is still open. It must
	// serialize behind the open transaction, not interleave with it.
	<-entered
	committed := make(chan error, 1)
	go func() {
		committed <- s.Transact(ctx, func(tx store.Store) error {
			return tx.CreateProspect(ctx, newProspect("Committed Elsewhere"))
		})
	}()

	close(release)
	require.ErrorIs(t, <-doomed, failed)
	require.NoError(t, <-committed)

	_, err := s.ProspectByName(ctx, "Committed Elsewhere")
	assert.NoError(t, err, "a rollback must not erase another batch's commit")
	_, err = s.ProspectByName(ctx, "Doomed School")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTransactCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Transact(ctx, func(tx store.Store) error {
		if err := tx.CreateProspect(ctx, newProspect("Committed School")); err != nil {
			return err
		}
		return tx.CreateActivity(ctx, &pipeline.Activity{
			Type:        pipeline.ActivityNote,
			Description: "created",
			AgentID:     "test",
		})
	})
	require.NoError(t, err)

	_, err = s.ProspectByName(ctx, "Committed School")
	assert.NoError(t, err)
	assert.Len(t, s.Activities(), 1)
}

func TestUpdateMissingEntities(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := newProspect("Ghost School")
	p.ID = pipeline.NewID()
	assert.ErrorIs(t, s.UpdateProspect(ctx, p), errors.ErrNotFound)

	c := &pipeline.Contact{ID: pipeline.NewID(), Name: "Ghost"}
	assert.ErrorIs(t, s.UpdateContact(ctx, c), errors.ErrNotFound)
}
