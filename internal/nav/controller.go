// Package nav tracks which question the annotator is looking at and decides
// where the view should go next. States are exactly the indices of the
// active question list; every transition persists the new index and
// recomputes the submit gate.
package nav

import (
	"context"
	"fmt"
	"time"

	"github.com/mkovacevic/qrel-judge/internal/domain"
	"github.com/mkovacevic/qrel-judge/internal/judgment"
	"github.com/mkovacevic/qrel-judge/internal/storage"
)

// HighlightDuration is how long the view keeps the jumped-to document
// highlighted before clearing it.
const HighlightDuration = 3 * time.Second

// Effect tells the view what to do after a transition or a recorded verdict.
// It replaces the reference behavior's DOM-attribute conventions with a
// structured payload.
type Effect string

const (
	// EffectShowQuestion: display the question at Index, scroll to its top.
	EffectShowQuestion Effect = "show_question"
	// EffectScrollNextDoc: stay on the question, scroll to the next document.
	EffectScrollNextDoc Effect = "scroll_next_doc"
	// EffectFocusComment: focus the comment field of the judged document.
	EffectFocusComment Effect = "focus_comment"
	// EffectHighlightDoc: show the question at Index and highlight DocID for
	// HighlightMS milliseconds.
	EffectHighlightDoc Effect = "highlight_doc"
	// EffectNone: nothing to do.
	EffectNone Effect = "none"
)

// Transition is the outcome of a navigation action.
type Transition struct {
	Effect        Effect `json:"effect"`
	Index         int    `json:"index"`
	DocID         string `json:"doc_id,omitempty"`
	SubmitEnabled bool   `json:"submit_enabled"`
	HighlightMS   int    `json:"highlight_ms,omitempty"`
}

// Controller is the navigation state machine over the active question list.
type Controller struct {
	index   int
	store   *judgment.Store
	durable storage.Store
}

func NewController(store *judgment.Store, durable storage.Store) *Controller {
	return &Controller{store: store, durable: durable}
}

// Seed restores the persisted index, clamping it into the active list.
// Missing or out-of-range state starts at the first question.
func (c *Controller) Seed(ctx context.Context) error {
	index, ok, err := c.durable.LoadIndex(ctx)
	if err != nil {
		return fmt.Errorf("seed index: %w", err)
	}
	if !ok || index < 0 || index >= c.questionCount() {
		index = 0
	}
	c.index = index
	return nil
}

func (c *Controller) Current() int {
	return c.index
}

// SubmitEnabled is the sole export gate: the annotator must be on the last
// question and the last question must be fully answered. Earlier questions
// may stay incomplete.
func (c *Controller) SubmitEnabled() bool {
	last := c.questionCount() - 1
	if last < 0 || c.index != last {
		return false
	}
	return c.store.IsFullyAnswered(c.store.Questions()[last].ID)
}

// Prev moves one question back. At the first question it stays put.
func (c *Controller) Prev(ctx context.Context) (Transition, error) {
	if c.index > 0 {
		return c.jump(ctx, c.index-1)
	}
	return c.stay(), nil
}

// Next moves one question forward. At the last question it stays put.
func (c *Controller) Next(ctx context.Context) (Transition, error) {
	if c.index < c.questionCount()-1 {
		return c.jump(ctx, c.index+1)
	}
	return c.stay(), nil
}

// JumpTo moves to an absolute index.
func (c *Controller) JumpTo(ctx context.Context, index int) (Transition, error) {
	if index < 0 || index >= c.questionCount() {
		return Transition{}, fmt.Errorf("jump to %d: index out of range [0, %d)", index, c.questionCount())
	}
	return c.jump(ctx, index)
}

// AfterLabel applies the auto-advance rule once a verdict is recorded.
// Relevant: scroll to the question's next document, or advance to the next
// question when this was the last document, or stay when it was the last
// document of the last question. NotRelevant: focus the comment field.
func (c *Controller) AfterLabel(ctx context.Context, questionID, docID string, label domain.Label) (Transition, error) {
	if label == domain.NotRelevant {
		t := c.stay()
		t.Effect = EffectFocusComment
		t.DocID = docID
		return t, nil
	}

	candidates := c.store.Candidates(questionID)
	for i, id := range candidates {
		if id == docID && i < len(candidates)-1 {
			t := c.stay()
			t.Effect = EffectScrollNextDoc
			t.DocID = candidates[i+1]
			return t, nil
		}
	}

	if c.index < c.questionCount()-1 {
		return c.jump(ctx, c.index+1)
	}
	return c.stay(), nil
}

// JumpToIncomplete finds the first unanswered pair and navigates there,
// asking the view to highlight the document briefly. ok is false when the
// whole session is answered.
func (c *Controller) JumpToIncomplete(ctx context.Context) (t Transition, ok bool, err error) {
	pairs := c.store.Unanswered()
	if len(pairs) == 0 {
		return c.stay(), false, nil
	}

	first := pairs[0]
	t, err = c.jump(ctx, first.QuestionIndex)
	if err != nil {
		return Transition{}, false, err
	}
	t.Effect = EffectHighlightDoc
	t.DocID = first.DocID
	t.HighlightMS = int(HighlightDuration.Milliseconds())
	return t, true, nil
}

// Reset returns to the first question without persisting; the durable index
// was already cleared by the export pipeline.
func (c *Controller) Reset() {
	c.index = 0
}

func (c *Controller) questionCount() int {
	return len(c.store.Questions())
}

func (c *Controller) jump(ctx context.Context, index int) (Transition, error) {
	c.index = index
	if err := c.durable.SaveIndex(ctx, index); err != nil {
		return Transition{}, fmt.Errorf("persist index: %w", err)
	}
	return Transition{
		Effect:        EffectShowQuestion,
		Index:         index,
		SubmitEnabled: c.SubmitEnabled(),
	}, nil
}

func (c *Controller) stay() Transition {
	return Transition{
		Effect:        EffectNone,
		Index:         c.index,
		SubmitEnabled: c.SubmitEnabled(),
	}
}
