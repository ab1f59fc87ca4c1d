package judgment

import (
	"fmt"
	"io"
	"strings"
)

// WriteQrels serializes the session as a qrels file: one line per pooled
// (question, document) pair, question order then candidate order,
//
//	qid 0 docid relevance comment
//
// Relevance is 1 only for an explicit Relevant verdict; NotRelevant and
// unjudged both emit 0. Every pooled pair gets a row regardless of how
// complete the earlier questions are; the submit gate only covers the last
// question.
func (s *Store) WriteQrels(w io.Writer) error {
	for _, q := range s.questions {
		for _, docID := range s.candidates[q.ID] {
			label := s.labels[q.ID][docID]
			comment := sanitizeComment(s.comments[q.ID][docID])

			line := fmt.Sprintf("%s 0 %s %d %s\n", q.ID, docID, label.RelevanceFlag(), comment)
			if _, err := io.WriteString(w, line); err != nil {
				return fmt.Errorf("write qrels line for %s/%s: %w", q.ID, docID, err)
			}
		}
	}
	return nil
}

// sanitizeComment keeps the output one record per line: embedded newlines in
// a comment would otherwise split the record.
func sanitizeComment(comment string) string {
	comment = strings.ReplaceAll(comment, "\r", " ")
	comment = strings.ReplaceAll(comment, "\n", " ")
	return strings.TrimSpace(comment)
}
