package domain

import "regexp"

// Question is one judging topic. Group is the bracketed label extracted from
// the question text and drives the display ordering; it is empty when the
// text carries no brackets.
type Question struct {
	ID    string `json:"question_id"`
	Text  string `json:"text"`
	Group string `json:"group"`
}

var groupRe = regexp.MustCompile(`\[(.*?)\]`)

// ExtractGroup returns the first bracketed substring of text, without the
// brackets, or "" when there is none.
func ExtractGroup(text string) string {
	m := groupRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
