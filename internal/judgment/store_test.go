package judgment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkovacevic/qrel-judge/internal/domain"
	"github.com/mkovacevic/qrel-judge/internal/loader"
	"github.com/mkovacevic/qrel-judge/internal/storage"
	"github.com/mkovacevic/qrel-judge/internal/storage/inmem"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	questions := []domain.Question{
		{ID: "q1", Text: "First [A]", Group: "A"},
		{ID: "q2", Text: "No candidates [A]", Group: "A"},
		{ID: "q3", Text: "Third [B]", Group: "B"},
	}
	candidates := loader.CandidateSet{
		"q1": {"docA", "docB"},
		"q3": {"docC"},
	}
	return NewStore(questions, candidates, inmem.NewStore())
}

func TestNewStoreFiltersEmptyQuestions(t *testing.T) {
	s := testStore(t)

	ids := make([]string, 0, len(s.Questions()))
	for _, q := range s.Questions() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"q1", "q3"}, ids, "questions without pooled candidates never show up")
}

func TestSetLabel(t *testing.T) {
	ctx := context.Background()

	t.Run("records and reads back", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.Relevant))
		assert.Equal(t, domain.Relevant, s.Label("q1", "docA"))
		assert.Equal(t, domain.Unset, s.Label("q1", "docB"))
	})

	t.Run("overwrite flips the verdict", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.Relevant))
		require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.NotRelevant))
		assert.Equal(t, domain.NotRelevant, s.Label("q1", "docA"))
	})

	t.Run("clearing a verdict is rejected", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.Relevant))
		require.Error(t, s.SetLabel(ctx, "q1", "docA", domain.Unset))
		assert.Equal(t, domain.Relevant, s.Label("q1", "docA"))
	})

	t.Run("in-memory value sticks when persistence fails", func(t *testing.T) {
		s := NewStore(
			[]domain.Question{{ID: "q1"}},
			loader.CandidateSet{"q1": {"docA"}},
			&failingStore{},
		)
		err := s.SetLabel(ctx, "q1", "docA", domain.Relevant)
		require.Error(t, err)
		assert.Equal(t, domain.Relevant, s.Label("q1", "docA"))
	})
}

func TestSeedRestoresState(t *testing.T) {
	ctx := context.Background()
	durable := inmem.NewStore()

	s := NewStore(
		[]domain.Question{{ID: "q1"}},
		loader.CandidateSet{"q1": {"docA"}},
		durable,
	)
	require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.NotRelevant))
	require.NoError(t, s.SetComment(ctx, "q1", "docA", "blurry scan"))

	restarted := NewStore(
		[]domain.Question{{ID: "q1"}},
		loader.CandidateSet{"q1": {"docA"}},
		durable,
	)
	require.NoError(t, restarted.Seed(ctx))
	assert.Equal(t, domain.NotRelevant, restarted.Label("q1", "docA"))
	assert.Equal(t, "blurry scan", restarted.Comment("q1", "docA"))
}

func TestCompleteness(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	assert.False(t, s.IsFullyAnswered("q1"))
	answered, total := s.AnsweredCount()
	assert.Equal(t, 0, answered)
	assert.Equal(t, 3, total)

	require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.Relevant))
	assert.False(t, s.IsFullyAnswered("q1"))

	require.NoError(t, s.SetLabel(ctx, "q1", "docB", domain.NotRelevant))
	assert.True(t, s.IsFullyAnswered("q1"))
	assert.False(t, s.IsFullyAnswered("q3"))

	answered, total = s.AnsweredCount()
	assert.Equal(t, 2, answered)
	assert.Equal(t, 3, total)
}

func TestUnanswered(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	t.Run("lists pairs in question then candidate order", func(t *testing.T) {
		pairs := s.Unanswered()
		require.Len(t, pairs, 3)
		assert.Equal(t, domain.Unanswered{QuestionIndex: 0, QuestionID: "q1", DocID: "docA"}, pairs[0])
		assert.Equal(t, domain.Unanswered{QuestionIndex: 0, QuestionID: "q1", DocID: "docB"}, pairs[1])
		assert.Equal(t, domain.Unanswered{QuestionIndex: 1, QuestionID: "q3", DocID: "docC"}, pairs[2])
	})

	t.Run("shrinks as verdicts land", func(t *testing.T) {
		require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.Relevant))
		pairs := s.Unanswered()
		require.Len(t, pairs, 2)
		assert.Equal(t, "docB", pairs[0].DocID)
	})

	t.Run("empty once everything is judged", func(t *testing.T) {
		require.NoError(t, s.SetLabel(ctx, "q1", "docB", domain.NotRelevant))
		require.NoError(t, s.SetLabel(ctx, "q3", "docC", domain.Relevant))
		assert.Empty(t, s.Unanswered())
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	durable := inmem.NewStore()
	s := NewStore(
		[]domain.Question{{ID: "q1"}},
		loader.CandidateSet{"q1": {"docA"}},
		durable,
	)
	require.NoError(t, s.SetLabel(ctx, "q1", "docA", domain.Relevant))
	require.NoError(t, s.SetComment(ctx, "q1", "docA", "keep"))

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, domain.Unset, s.Label("q1", "docA"))
	assert.Equal(t, "", s.Comment("q1", "docA"))

	labels, err := durable.LoadLabels(ctx)
	require.NoError(t, err)
	assert.Nil(t, labels)
}

// failingStore rejects every write so tests can exercise the persist-failure
// path without a real backend.
type failingStore struct{}

var errBackend = errors.New("backend down")

func (f *failingStore) LoadLabels(context.Context) (storage.Labels, error)     { return nil, nil }
func (f *failingStore) SaveLabels(context.Context, storage.Labels) error       { return errBackend }
func (f *failingStore) LoadComments(context.Context) (storage.Comments, error) { return nil, nil }
func (f *failingStore) SaveComments(context.Context, storage.Comments) error   { return errBackend }
func (f *failingStore) LoadIndex(context.Context) (int, bool, error)           { return 0, false, nil }
func (f *failingStore) SaveIndex(context.Context, int) error                   { return errBackend }
func (f *failingStore) Clear(context.Context) error                            { return errBackend }
func (f *failingStore) Close() error                                           { return nil }
