package main

import (
	"fmt"
	"os"
	"regexp"
)

// pageObjRe matches page object dictionaries. The \b keeps /Pages (the page
// tree node) from counting.
var pageObjRe = regexp.MustCompile(`/Type\s*/Page\b`)

// countPDFPages counts page objects by scanning the raw file. This covers
// the plain PDFs scanners and exporters produce; files that keep their page
// dictionaries inside compressed object streams come back as 0 and need the
// -pages-file override.
func countPDFPages(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return len(pageObjRe.FindAll(data, -1)), nil
}
