package loader

import (
	"encoding/json"
	"fmt"

	"github.com/mkovacevic/qrel-judge/internal/domain"
)

// Mapping loads the document-mapping file: a JSON object from document id to
// a combined "<filename>-<page>" location string. A malformed location makes
// the whole load fail; the mapping generator never emits one, so a bad entry
// means the file is corrupt.
func Mapping(src string) (map[string]domain.DocumentLocation, error) {
	data, err := readResource(src)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}
	return ParseMapping(data)
}

func ParseMapping(data []byte) (map[string]domain.DocumentLocation, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mapping JSON: %w", err)
	}

	locations := make(map[string]domain.DocumentLocation, len(raw))
	for docID, combined := range raw {
		loc, err := domain.ParseLocation(combined)
		if err != nil {
			return nil, fmt.Errorf("mapping for doc %s: %w", docID, err)
		}
		locations[docID] = loc
	}
	return locations, nil
}
