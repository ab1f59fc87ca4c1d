package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentLocation resolves a document id to a page of a source file.
type DocumentLocation struct {
	File string `json:"file"`
	Page int    `json:"page"`
}

// ParseLocation splits a combined "<filename>-<page>" identifier. Filenames
// may themselves contain hyphens, so only the last hyphen separates the page
// suffix. A missing hyphen or a non-numeric suffix means the mapping file is
// corrupt and is an error.
func ParseLocation(combined string) (DocumentLocation, error) {
	i := strings.LastIndex(combined, "-")
	if i <= 0 || i == len(combined)-1 {
		return DocumentLocation{}, fmt.Errorf("location %q: want <filename>-<page>", combined)
	}
	page, err := strconv.Atoi(combined[i+1:])
	if err != nil {
		return DocumentLocation{}, fmt.Errorf("location %q: page suffix is not a number", combined)
	}
	return DocumentLocation{File: combined[:i], Page: page}, nil
}
