// judge_prepare builds the startup resources for a judging campaign: the
// document-mapping JSON from a directory of PDFs, and the topics JSON from a
// plain list of questions.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type cliConfig struct {
	Mode string

	PDFDir     string
	MappingOut string
	ReverseOut string
	PagesFile  string

	QueriesIn string
	TopicsOut string
}

func main() {
	cfg := parseFlags()

	switch cfg.Mode {
	case "mapping":
		runMapping(cfg)
	case "topics":
		runTopics(cfg)
	default:
		slog.Error("Unknown mode", "mode", cfg.Mode)
		os.Exit(1)
	}
}

func parseFlags() cliConfig {
	var cfg cliConfig
	flag.StringVar(&cfg.Mode, "mode", "mapping", "mapping | topics")
	flag.StringVar(&cfg.PDFDir, "pdf-dir", "", "directory of PDF files to map")
	flag.StringVar(&cfg.MappingOut, "mapping-out", "mapping.json", "output: doc_id -> filename-page")
	flag.StringVar(&cfg.ReverseOut, "reverse-out", "", "optional output: filename-page -> doc_id")
	flag.StringVar(&cfg.PagesFile, "pages-file", "", "optional JSON {filename: page count} overriding the scan")
	flag.StringVar(&cfg.QueriesIn, "queries", "", "input: one question per line")
	flag.StringVar(&cfg.TopicsOut, "topics-out", "topics.json", "output: question_id -> question text")
	flag.Parse()
	return cfg
}

func runMapping(cfg cliConfig) {
	if cfg.PDFDir == "" {
		slog.Error("mapping mode requires -pdf-dir")
		os.Exit(1)
	}

	pages, err := pageCounts(cfg)
	if err != nil {
		slog.Error("Failed to determine page counts", "error", err)
		os.Exit(1)
	}

	mapping := make(map[string]string)
	reverse := make(map[string]string)
	for filename, total := range pages {
		for page := 1; page <= total; page++ {
			combined := combineFilenamePage(filename, page)
			docID := shortHash(combined, 8)
			mapping[docID] = combined
			reverse[combined] = docID
		}
	}

	if err := writeJSON(cfg.MappingOut, mapping); err != nil {
		slog.Error("Failed to write mapping", "path", cfg.MappingOut, "error", err)
		os.Exit(1)
	}
	slog.Info("Wrote mapping", "path", cfg.MappingOut, "documents", len(mapping))

	if cfg.ReverseOut != "" {
		if err := writeJSON(cfg.ReverseOut, reverse); err != nil {
			slog.Error("Failed to write reverse mapping", "path", cfg.ReverseOut, "error", err)
			os.Exit(1)
		}
	}
}

func runTopics(cfg cliConfig) {
	if cfg.QueriesIn == "" {
		slog.Error("topics mode requires -queries")
		os.Exit(1)
	}

	data, err := os.ReadFile(cfg.QueriesIn)
	if err != nil {
		slog.Error("Failed to read queries", "path", cfg.QueriesIn, "error", err)
		os.Exit(1)
	}

	topics := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		topics[shortHash(query, 5)] = query
	}

	if err := writeJSON(cfg.TopicsOut, topics); err != nil {
		slog.Error("Failed to write topics", "path", cfg.TopicsOut, "error", err)
		os.Exit(1)
	}
	slog.Info("Wrote topics", "path", cfg.TopicsOut, "questions", len(topics))
}

func pageCounts(cfg cliConfig) (map[string]int, error) {
	if cfg.PagesFile != "" {
		data, err := os.ReadFile(cfg.PagesFile)
		if err != nil {
			return nil, fmt.Errorf("read pages file: %w", err)
		}
		var pages map[string]int
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("parse pages file: %w", err)
		}
		return pages, nil
	}

	entries, err := os.ReadDir(cfg.PDFDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", cfg.PDFDir, err)
	}

	pages := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		count, err := countPDFPages(cfg.PDFDir + "/" + entry.Name())
		if err != nil {
			slog.Warn("Skipping unreadable PDF", "file", entry.Name(), "error", err)
			continue
		}
		if count == 0 {
			slog.Warn("No page objects found, use -pages-file for this one", "file", entry.Name())
			continue
		}
		pages[entry.Name()] = count
	}
	return pages, nil
}

func shortHash(text string, length int) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:length]
}

func combineFilenamePage(filename string, page int) string {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		filename += ".pdf"
	}
	return fmt.Sprintf("%s-%d", filename, page)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
