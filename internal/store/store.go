// Package store persists scan results as pretty-printed JSON files.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dbsmedya/langscan/internal/types"
)

// DefaultIndent matches the layout of result files written by earlier releases.
const DefaultIndent = "    "

// PersistError reports a result file that could not be written.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to write results to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Store reads and writes result files on a filesystem.
type Store struct {
	fs     afero.Fs
	indent string
}

// New creates a Store. A nil fs means the OS filesystem; an empty indent
// means DefaultIndent.
func New(fs afero.Fs, indent string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if indent == "" {
		indent = DefaultIndent
	}
	return &Store{fs: fs, indent: indent}
}

// ResultPath returns where the results for root are written.
func ResultPath(root, filename string) string {
	return filepath.Join(root, filename)
}

// Encode renders result exactly as Persist writes it.
func (s *Store) Encode(result *types.ScanResult) ([]byte, error) {
	raw, err := result.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", s.indent); err != nil {
		return nil, fmt.Errorf("indent results: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Persist writes result to destination, replacing any existing file.
// The write is not atomic.
func (s *Store) Persist(result *types.ScanResult, destination string) error {
	content, err := s.Encode(result)
	if err != nil {
		return &PersistError{Path: destination, Err: err}
	}

	if err := afero.WriteFile(s.fs, destination, content, 0o644); err != nil {
		return &PersistError{Path: destination, Err: err}
	}
	return nil
}

// ReadRaw returns the bytes of a persisted result file.
func (s *Store) ReadRaw(path string) ([]byte, error) {
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return content, nil
}

// Decode parses result file content.
func Decode(content []byte) (*types.ScanResult, error) {
	result := types.NewScanResult()
	if err := json.Unmarshal(content, result); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return result, nil
}
