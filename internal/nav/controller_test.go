package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkovacevic/qrel-judge/internal/domain"
	"github.com/mkovacevic/qrel-judge/internal/judgment"
	"github.com/mkovacevic/qrel-judge/internal/loader"
	"github.com/mkovacevic/qrel-judge/internal/storage/inmem"
)

// fixture: two active questions, q1 with two docs, q2 with one.
func fixture(t *testing.T) (*Controller, *judgment.Store, *inmem.Store) {
	t.Helper()
	durable := inmem.NewStore()
	store := judgment.NewStore(
		[]domain.Question{{ID: "q1"}, {ID: "q2"}},
		loader.CandidateSet{
			"q1": {"docA", "docB"},
			"q2": {"docC"},
		},
		durable,
	)
	return NewController(store, durable), store, durable
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("no persisted index starts at zero", func(t *testing.T) {
		c, _, _ := fixture(t)
		require.NoError(t, c.Seed(ctx))
		assert.Equal(t, 0, c.Current())
	})

	t.Run("persisted index is restored", func(t *testing.T) {
		c, _, durable := fixture(t)
		require.NoError(t, durable.SaveIndex(ctx, 1))
		require.NoError(t, c.Seed(ctx))
		assert.Equal(t, 1, c.Current())
	})

	t.Run("out-of-range index clamps to zero", func(t *testing.T) {
		c, _, durable := fixture(t)
		require.NoError(t, durable.SaveIndex(ctx, 99))
		require.NoError(t, c.Seed(ctx))
		assert.Equal(t, 0, c.Current())
	})
}

func TestPrevNext(t *testing.T) {
	ctx := context.Background()
	c, _, durable := fixture(t)

	t.Run("prev at the first question stays put", func(t *testing.T) {
		tr, err := c.Prev(ctx)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, tr.Effect)
		assert.Equal(t, 0, tr.Index)
	})

	t.Run("next advances and persists", func(t *testing.T) {
		tr, err := c.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, EffectShowQuestion, tr.Effect)
		assert.Equal(t, 1, tr.Index)

		idx, ok, err := durable.LoadIndex(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("next at the last question stays put", func(t *testing.T) {
		tr, err := c.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, tr.Effect)
		assert.Equal(t, 1, tr.Index)
	})
}

func TestJumpTo(t *testing.T) {
	ctx := context.Background()
	c, _, _ := fixture(t)

	tr, err := c.JumpTo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Index)

	_, err = c.JumpTo(ctx, 2)
	require.Error(t, err)
	_, err = c.JumpTo(ctx, -1)
	require.Error(t, err)
}

func TestSubmitEnabled(t *testing.T) {
	ctx := context.Background()
	c, store, _ := fixture(t)

	t.Run("off the last question the gate is closed", func(t *testing.T) {
		require.NoError(t, store.SetLabel(ctx, "q2", "docC", domain.Relevant))
		assert.False(t, c.SubmitEnabled())
	})

	t.Run("last question fully answered opens the gate", func(t *testing.T) {
		_, err := c.JumpTo(ctx, 1)
		require.NoError(t, err)
		assert.True(t, c.SubmitEnabled())
	})

	t.Run("earlier questions may stay incomplete", func(t *testing.T) {
		assert.False(t, store.IsFullyAnswered("q1"))
		assert.True(t, c.SubmitEnabled())
	})
}

func TestAfterLabel(t *testing.T) {
	ctx := context.Background()

	t.Run("not relevant focuses the comment field", func(t *testing.T) {
		c, _, _ := fixture(t)
		tr, err := c.AfterLabel(ctx, "q1", "docA", domain.NotRelevant)
		require.NoError(t, err)
		assert.Equal(t, EffectFocusComment, tr.Effect)
		assert.Equal(t, "docA", tr.DocID)
		assert.Equal(t, 0, tr.Index)
	})

	t.Run("relevant scrolls to the next document", func(t *testing.T) {
		c, _, _ := fixture(t)
		tr, err := c.AfterLabel(ctx, "q1", "docA", domain.Relevant)
		require.NoError(t, err)
		assert.Equal(t, EffectScrollNextDoc, tr.Effect)
		assert.Equal(t, "docB", tr.DocID)
		assert.Equal(t, 0, tr.Index)
	})

	t.Run("relevant on the last document advances a question", func(t *testing.T) {
		c, _, _ := fixture(t)
		tr, err := c.AfterLabel(ctx, "q1", "docB", domain.Relevant)
		require.NoError(t, err)
		assert.Equal(t, EffectShowQuestion, tr.Effect)
		assert.Equal(t, 1, tr.Index)
	})

	t.Run("relevant on the very last document stays", func(t *testing.T) {
		c, _, _ := fixture(t)
		_, err := c.JumpTo(ctx, 1)
		require.NoError(t, err)

		tr, err := c.AfterLabel(ctx, "q2", "docC", domain.Relevant)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, tr.Effect)
		assert.Equal(t, 1, tr.Index)
	})
}

func TestJumpToIncomplete(t *testing.T) {
	ctx := context.Background()

	t.Run("navigates to the first unanswered pair with a highlight", func(t *testing.T) {
		c, store, _ := fixture(t)
		require.NoError(t, store.SetLabel(ctx, "q1", "docA", domain.Relevant))
		_, err := c.JumpTo(ctx, 1)
		require.NoError(t, err)

		tr, ok, err := c.JumpToIncomplete(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, EffectHighlightDoc, tr.Effect)
		assert.Equal(t, 0, tr.Index)
		assert.Equal(t, "docB", tr.DocID)
		assert.Equal(t, 3000, tr.HighlightMS)
	})

	t.Run("fully answered session reports ok false", func(t *testing.T) {
		c, store, _ := fixture(t)
		require.NoError(t, store.SetLabel(ctx, "q1", "docA", domain.Relevant))
		require.NoError(t, store.SetLabel(ctx, "q1", "docB", domain.NotRelevant))
		require.NoError(t, store.SetLabel(ctx, "q2", "docC", domain.Relevant))

		tr, ok, err := c.JumpToIncomplete(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, EffectNone, tr.Effect)
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	c, _, _ := fixture(t)
	_, err := c.JumpTo(ctx, 1)
	require.NoError(t, err)

	c.Reset()
	assert.Equal(t, 0, c.Current())
}
