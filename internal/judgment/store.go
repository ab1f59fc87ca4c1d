// Package judgment holds the session's judgment state: which pooled
// documents the annotator has labeled for which questions, and the comments
// that go with the labels. Every mutation is written through to durable
// storage in the same call, so closing the browser or killing the server
// loses at most the event in flight.
package judgment

import (
	"context"
	"fmt"

	"github.com/mkovacevic/qrel-judge/internal/domain"
	"github.com/mkovacevic/qrel-judge/internal/loader"
	"github.com/mkovacevic/qrel-judge/internal/storage"
)

// Store is the single-writer judgment state for one annotation session.
// Callers serialize access; the HTTP layer does that with the session lock.
type Store struct {
	questions  []domain.Question
	candidates loader.CandidateSet

	labels   storage.Labels
	comments storage.Comments

	durable storage.Store
}

// NewStore builds the store over the active question list: questions without
// any pooled candidate are dropped here and never shown.
func NewStore(questions []domain.Question, candidates loader.CandidateSet, durable storage.Store) *Store {
	active := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if len(candidates[q.ID]) > 0 {
			active = append(active, q)
		}
	}

	return &Store{
		questions:  active,
		candidates: candidates,
		labels:     make(storage.Labels),
		comments:   make(storage.Comments),
		durable:    durable,
	}
}

// Seed restores labels and comments from durable storage. Absent or corrupt
// state means a fresh session; only a real storage failure is an error.
func (s *Store) Seed(ctx context.Context) error {
	labels, err := s.durable.LoadLabels(ctx)
	if err != nil {
		return fmt.Errorf("seed labels: %w", err)
	}
	if labels != nil {
		s.labels = labels
	}

	comments, err := s.durable.LoadComments(ctx)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	if comments != nil {
		s.comments = comments
	}
	return nil
}

// Questions returns the active question list in display order.
func (s *Store) Questions() []domain.Question {
	return s.questions
}

// Candidates returns the pooled document ids for a question, display order.
func (s *Store) Candidates(questionID string) []string {
	return s.candidates[questionID]
}

// HasPair reports whether the (question, document) pair is part of the pool.
func (s *Store) HasPair(questionID, docID string) bool {
	for _, id := range s.candidates[questionID] {
		if id == docID {
			return true
		}
	}
	return false
}

// SetLabel records the verdict for a pair and persists the full label
// projection. The in-memory value sticks even when persistence fails, which
// keeps the session usable and the loss bounded to this one event.
func (s *Store) SetLabel(ctx context.Context, questionID, docID string, label domain.Label) error {
	if !label.Set() {
		return fmt.Errorf("label for %s/%s: clearing a verdict is not supported", questionID, docID)
	}
	if s.labels[questionID] == nil {
		s.labels[questionID] = make(map[string]domain.Label)
	}
	s.labels[questionID][docID] = label

	if err := s.durable.SaveLabels(ctx, s.labels); err != nil {
		return fmt.Errorf("persist labels: %w", err)
	}
	return nil
}

// SetComment records the free-text comment for a pair; empty overwrites.
func (s *Store) SetComment(ctx context.Context, questionID, docID, text string) error {
	if s.comments[questionID] == nil {
		s.comments[questionID] = make(map[string]string)
	}
	s.comments[questionID][docID] = text

	if err := s.durable.SaveComments(ctx, s.comments); err != nil {
		return fmt.Errorf("persist comments: %w", err)
	}
	return nil
}

// Label returns the recorded verdict for a pair, Unset when there is none.
func (s *Store) Label(questionID, docID string) domain.Label {
	return s.labels[questionID][docID]
}

// Comment returns the recorded comment for a pair, "" when there is none.
func (s *Store) Comment(questionID, docID string) string {
	return s.comments[questionID][docID]
}

// Labels exposes the label projection for the bootstrap payload.
func (s *Store) Labels() storage.Labels {
	return s.labels
}

// Comments exposes the comment projection for the bootstrap payload.
func (s *Store) Comments() storage.Comments {
	return s.comments
}

// IsFullyAnswered reports whether every pooled document of the question has
// a verdict.
func (s *Store) IsFullyAnswered(questionID string) bool {
	for _, docID := range s.candidates[questionID] {
		if !s.labels[questionID][docID].Set() {
			return false
		}
	}
	return true
}

// Unanswered scans the whole session and returns every pair still missing a
// verdict, question order then candidate order. It is recomputed on every
// call; caching would go stale the moment a label lands.
func (s *Store) Unanswered() []domain.Unanswered {
	var pairs []domain.Unanswered
	for qIdx, q := range s.questions {
		for _, docID := range s.candidates[q.ID] {
			if !s.labels[q.ID][docID].Set() {
				pairs = append(pairs, domain.Unanswered{
					QuestionIndex: qIdx,
					QuestionID:    q.ID,
					DocID:         docID,
				})
			}
		}
	}
	return pairs
}

// AnsweredCount returns how many pooled pairs have a verdict, and the total.
func (s *Store) AnsweredCount() (answered, total int) {
	for _, q := range s.questions {
		for _, docID := range s.candidates[q.ID] {
			total++
			if s.labels[q.ID][docID].Set() {
				answered++
			}
		}
	}
	return answered, total
}

// Reset drops all judgment state, durable and in-memory. Part of the export
// pipeline; there is no partial reset.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.durable.Clear(ctx); err != nil {
		return fmt.Errorf("clear durable state: %w", err)
	}
	s.labels = make(storage.Labels)
	s.comments = make(storage.Comments)
	return nil
}
