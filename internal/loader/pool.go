package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// CandidateSet maps a question id to its pooled document ids, first-seen
// order, duplicates removed.
type CandidateSet map[string][]string

// Pool loads the relevance-pool file: one whitespace-delimited record per
// line, qrels layout `qid iter docid ...`. Lines with fewer than four tokens
// (and blank lines) are skipped, not rejected; pool files in the wild carry
// trailing junk.
func Pool(src string) (CandidateSet, error) {
	data, err := readResource(src)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	return ParsePool(data)
}

func ParsePool(data []byte) (CandidateSet, error) {
	set := make(CandidateSet)
	seen := make(map[string]map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		qid, docID := fields[0], fields[2]
		if seen[qid] == nil {
			seen[qid] = make(map[string]bool)
		}
		if seen[qid][docID] {
			continue
		}
		seen[qid][docID] = true
		set[qid] = append(set[qid], docID)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan pool: %w", err)
	}

	return set, nil
}
