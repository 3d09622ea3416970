// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import (
	"iter"
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// FileRecord is the measurement of one scanned file.
type FileRecord struct {
	Path  string `json:"path"`
	Lines int64  `json:"lines"`
	Size  int64  `json:"size"`
}

// LanguageSummary aggregates the files of one language. TotalLines and
// TotalSize always equal the sums over Files; use Add to keep it that way.
type LanguageSummary struct {
	Files      []FileRecord `json:"files"`
	TotalLines int64        `json:"total_lines"`
	TotalSize  int64        `json:"total_size"`
}

// NewLanguageSummary returns an empty summary with a non-nil file list.
func NewLanguageSummary() *LanguageSummary {
	return &LanguageSummary{Files: []FileRecord{}}
}

// Add appends record and updates both totals.
func (s *LanguageSummary) Add(record FileRecord) {
	s.Files = append(s.Files, record)
	s.TotalLines += record.Lines
	s.TotalSize += record.Size
}

// Consistent reports whether the totals match the sums over Files.
func (s *LanguageSummary) Consistent() bool {
	var lines, size int64
	for _, f := range s.Files {
		lines += f.Lines
		size += f.Size
	}
	return lines == s.TotalLines && size == s.TotalSize
}

// ScanResult maps language labels to summaries, preserving the order in
// which languages were first seen. The zero value is ready to use.
type ScanResult struct {
	languages *orderedmap.OrderedMap[string, *LanguageSummary]
}

// NewScanResult returns an empty ScanResult.
func NewScanResult() *ScanResult {
	return &ScanResult{languages: orderedmap.NewOrderedMap[string, *LanguageSummary]()}
}

func (r *ScanResult) m() *orderedmap.OrderedMap[string, *LanguageSummary] {
	if r.languages == nil {
		r.languages = orderedmap.NewOrderedMap[string, *LanguageSummary]()
	}
	return r.languages
}

// Add records a file under language, creating the summary on first use.
func (r *ScanResult) Add(language string, record FileRecord) {
	summary, ok := r.m().Get(language)
	if !ok {
		summary = NewLanguageSummary()
		r.m().Set(language, summary)
	}
	summary.Add(record)
}

// Get returns the summary for language.
func (r *ScanResult) Get(language string) (*LanguageSummary, bool) {
	return r.m().Get(language)
}

// Len returns the number of languages.
func (r *ScanResult) Len() int {
	return r.m().Len()
}

// Languages returns the language labels in insertion order.
func (r *ScanResult) Languages() []string {
	keys := make([]string, 0, r.Len())
	for el := r.m().Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

// All iterates languages and their summaries in insertion order.
func (r *ScanResult) All() iter.Seq2[string, *LanguageSummary] {
	return func(yield func(string, *LanguageSummary) bool) {
		for el := r.m().Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

// Totals returns the file, line and byte counts across all languages.
func (r *ScanResult) Totals() (files int, lines, size int64) {
	for _, s := range r.All() {
		files += len(s.Files)
		lines += s.TotalLines
		size += s.TotalSize
	}
	return files, lines, size
}

// ScanStats contains statistics about one scan.
type ScanStats struct {
	FilesVisited int           // Non-directory entries recorded
	ReadErrors   int           // Files whose lines could not be counted
	StatErrors   int           // Files whose size could not be determined
	WalkErrors   int           // Directories that could not be read
	Duration     time.Duration // Time taken for the walk
}
