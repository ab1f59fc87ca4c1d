package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mkovacevic/qrel-judge/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Topics loads the question file: a JSON object mapping question id to
// question text. Questions come back sorted by their bracketed group label
// using locale-aware collation, so related questions sit next to each other;
// questions sharing a group keep their order in the file.
func Topics(src string) ([]domain.Question, error) {
	data, err := readResource(src)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	return ParseTopics(data)
}

// ParseTopics walks the object with a token decoder instead of unmarshalling
// into a map: map iteration would scramble the file order the stable group
// sort is supposed to preserve for ties.
func ParseTopics(data []byte) ([]domain.Question, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse topics JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parse topics JSON: want an object of question id to text")
	}

	var questions []domain.Question
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse topics JSON: %w", err)
		}
		id := tok.(string)

		var text string
		if err := dec.Decode(&text); err != nil {
			return nil, fmt.Errorf("parse topics JSON: question %s: %w", id, err)
		}

		questions = append(questions, domain.Question{
			ID:    id,
			Text:  text,
			Group: domain.ExtractGroup(text),
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse topics JSON: %w", err)
	}

	c := collate.New(language.Und)
	sort.SliceStable(questions, func(i, j int) bool {
		return c.CompareString(questions[i].Group, questions[j].Group) < 0
	})

	return questions, nil
}
