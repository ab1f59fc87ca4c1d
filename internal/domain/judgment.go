package domain

// Label is the binary relevance verdict for a (question, document) pair.
// The zero value means the annotator has not judged the pair yet.
type Label string

const (
	Unset       Label = ""
	Relevant    Label = "Yes"
	NotRelevant Label = "No"
)

// Set reports whether the label carries a verdict.
func (l Label) Set() bool {
	return l == Relevant || l == NotRelevant
}

// RelevanceFlag is the qrels relevance column for the label: 1 for a
// Relevant verdict, 0 for everything else. An unjudged pooled document
// counts as not relevant on export.
func (l Label) RelevanceFlag() int {
	if l == Relevant {
		return 1
	}
	return 0
}

// ParseLabel maps the durable "Yes"/"No" encoding back to a Label. Anything
// else is Unset: corrupt stored values degrade to "not judged yet".
func ParseLabel(s string) Label {
	switch Label(s) {
	case Relevant:
		return Relevant
	case NotRelevant:
		return NotRelevant
	default:
		return Unset
	}
}

// Unanswered identifies one pooled document still waiting for a verdict.
type Unanswered struct {
	QuestionIndex int    `json:"question_index"`
	QuestionID    string `json:"question_id"`
	DocID         string `json:"doc_id"`
}
