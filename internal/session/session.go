// Package session owns one annotation session end to end: the three
// immutable tables loaded at startup, the judgment store, and the navigation
// controller. The HTTP layer talks to the session only; the lock makes the
// concurrent HTTP callbacks behave like the single event loop the judging
// flow assumes.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/mkovacevic/qrel-judge/internal/apperr"
	"github.com/mkovacevic/qrel-judge/internal/domain"
	"github.com/mkovacevic/qrel-judge/internal/judgment"
	"github.com/mkovacevic/qrel-judge/internal/loader"
	"github.com/mkovacevic/qrel-judge/internal/nav"
	"github.com/mkovacevic/qrel-judge/internal/storage"
)

type Session struct {
	ID uuid.UUID

	mu        sync.Mutex
	store     *judgment.Store
	nav       *nav.Controller
	locations map[string]domain.DocumentLocation
}

// New wires a session over the loaded tables and a durable store. Call Init
// before serving.
func New(
	questions []domain.Question,
	candidates loader.CandidateSet,
	locations map[string]domain.DocumentLocation,
	durable storage.Store,
) *Session {
	store := judgment.NewStore(questions, candidates, durable)
	return &Session{
		ID:        uuid.New(),
		store:     store,
		nav:       nav.NewController(store, durable),
		locations: locations,
	}
}

// Init seeds judgments and the current index from durable storage.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.store.Questions()) == 0 {
		return fmt.Errorf("no active questions: every question in the topics file is missing pool candidates")
	}
	if err := s.store.Seed(ctx); err != nil {
		return err
	}
	return s.nav.Seed(ctx)
}

// State is the bootstrap payload the view renders the whole session from.
type State struct {
	SessionID     string           `json:"session_id"`
	Questions     []QuestionView   `json:"questions"`
	Labels        storage.Labels   `json:"labels"`
	Comments      storage.Comments `json:"comments"`
	Index         int              `json:"index"`
	SubmitEnabled bool             `json:"submit_enabled"`
	Progress      Progress         `json:"progress"`
}

type QuestionView struct {
	domain.Question
	Docs []DocView `json:"docs"`
}

// DocView carries the resolved location of a pooled document. Mapped is
// false when the mapping file has no entry; the view skips rendering those,
// as the reference tool does, but they still count toward completeness.
type DocView struct {
	ID     string `json:"doc_id"`
	File   string `json:"file,omitempty"`
	Page   int    `json:"page,omitempty"`
	Mapped bool   `json:"mapped"`
}

type Progress struct {
	QuestionCount int `json:"question_count"`
	Answered      int `json:"answered"`
	Total         int `json:"total"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.store.Questions()
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		qv := QuestionView{Question: q}
		for _, docID := range s.store.Candidates(q.ID) {
			dv := DocView{ID: docID}
			if loc, ok := s.locations[docID]; ok {
				dv.File = loc.File
				dv.Page = loc.Page
				dv.Mapped = true
			}
			qv.Docs = append(qv.Docs, dv)
		}
		views = append(views, qv)
	}

	answered, total := s.store.AnsweredCount()

	return State{
		SessionID:     s.ID.String(),
		Questions:     views,
		Labels:        s.store.Labels(),
		Comments:      s.store.Comments(),
		Index:         s.nav.Current(),
		SubmitEnabled: s.nav.SubmitEnabled(),
		Progress: Progress{
			QuestionCount: len(questions),
			Answered:      answered,
			Total:         total,
		},
	}
}

// EnsureCurrent rejects callers whose bootstrap predates the last export
// reset: the session id rotates on export, so a stale id means the caller is
// judging against state that no longer exists and must reload. An empty id
// passes; it is a caller that has not bootstrapped yet.
func (s *Session) EnsureCurrent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && id != s.ID.String() {
		return apperr.NewValidation("stale session: judgments were exported and the session reset, reload the page")
	}
	return nil
}

// SetLabel records a verdict and returns the auto-advance effect.
func (s *Session) SetLabel(ctx context.Context, questionID, docID string, label domain.Label) (nav.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !label.Set() {
		return nav.Transition{}, apperr.NewValidation(fmt.Sprintf("invalid label %q: want %q or %q", label, domain.Relevant, domain.NotRelevant))
	}
	if !s.store.HasPair(questionID, docID) {
		return nav.Transition{}, apperr.NewNotFound(fmt.Sprintf("pair %s/%s is not in the pool", questionID, docID))
	}

	if err := s.store.SetLabel(ctx, questionID, docID, label); err != nil {
		return nav.Transition{}, err
	}
	return s.nav.AfterLabel(ctx, questionID, docID, label)
}

// SetComment records a comment for a pooled pair.
func (s *Session) SetComment(ctx context.Context, questionID, docID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasPair(questionID, docID) {
		return apperr.NewNotFound(fmt.Sprintf("pair %s/%s is not in the pool", questionID, docID))
	}
	return s.store.SetComment(ctx, questionID, docID, text)
}

func (s *Session) Prev(ctx context.Context) (nav.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Prev(ctx)
}

func (s *Session) Next(ctx context.Context) (nav.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Next(ctx)
}

func (s *Session) JumpTo(ctx context.Context, index int) (nav.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.nav.JumpTo(ctx, index)
	if err != nil {
		return nav.Transition{}, apperr.NewValidationWrap("jump target", err)
	}
	return t, nil
}

// JumpToIncomplete navigates to the first unanswered pair. ok is false when
// everything is answered.
func (s *Session) JumpToIncomplete(ctx context.Context) (nav.Transition, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.JumpToIncomplete(ctx)
}

// Export writes the qrels file to w, then unconditionally clears durable
// storage and resets in-memory state to a fresh session. The serialization
// happens into a buffer first so a write failure never half-resets the
// session.
func (s *Session) Export(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.nav.SubmitEnabled() {
		return apperr.NewValidation("submission gate: the last question is not fully answered")
	}

	var buf bytes.Buffer
	if err := s.store.WriteQrels(&buf); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.nav.Reset()

	// Rotate the id so clients still holding the exported session get told
	// to reload instead of judging into the fresh one.
	s.ID = uuid.New()
	return nil
}
