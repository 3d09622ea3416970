// Package scanner walks a directory tree and aggregates per-language file
// measurements into a ScanResult.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/dbsmedya/langscan/internal/inspector"
	"github.com/dbsmedya/langscan/internal/languages"
	"github.com/dbsmedya/langscan/internal/logger"
	"github.com/dbsmedya/langscan/internal/types"
)

// ErrNotDirectory is the cause of an InvalidRootError for existing non-directories.
var ErrNotDirectory = errors.New("not a directory")

// InvalidRootError reports a scan root that is not an existing directory.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid directory %q: %v", e.Path, e.Err)
}

func (e *InvalidRootError) Unwrap() error {
	return e.Err
}

// ValidateRoot returns an *InvalidRootError unless root is an existing directory.
// Walker.Scan does not validate its root; callers do it first.
func ValidateRoot(fs afero.Fs, root string) error {
	if root == "" {
		return &InvalidRootError{Path: root, Err: errors.New("empty path")}
	}
	info, err := fs.Stat(root)
	if err != nil {
		return &InvalidRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &InvalidRootError{Path: root, Err: ErrNotDirectory}
	}
	return nil
}

// Walker traverses a directory tree sequentially.
type Walker struct {
	fs         afero.Fs
	classifier *languages.Classifier
	inspector  *inspector.Inspector
	logger     *logger.Logger
}

// NewWalker creates a Walker. A nil fs means the OS filesystem, a nil
// classifier the built-in extension table, and a nil log the default logger.
func NewWalker(fs afero.Fs, classifier *languages.Classifier, log *logger.Logger) *Walker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if classifier == nil {
		classifier = languages.NewDefaultClassifier()
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Walker{
		fs:         fs,
		classifier: classifier,
		inspector:  inspector.New(fs, log),
		logger:     log,
	}
}

// Scan visits every file under root and returns the aggregated result.
func (w *Walker) Scan(root string) *types.ScanResult {
	result, _ := w.ScanWithStats(root)
	return result
}

// ScanWithStats is Scan plus traversal statistics.
//
// Every non-directory entry is recorded, including hidden files, empty files
// and symlinks. Symlinks that resolve to directories are neither followed nor
// recorded, except root itself, which is followed. Unreadable directories are
// logged and skipped.
func (w *Walker) ScanWithStats(root string) (*types.ScanResult, types.ScanStats) {
	var stats types.ScanStats
	result := types.NewScanResult()
	log := w.logger.WithRoot(root)
	start := time.Now()

	log.Debug("Starting directory walk")

	visit := func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			stats.WalkErrors++
			log.Errorw("Failed to read directory entry",
				"path", path,
				"error", walkErr,
			)
			return nil
		}

		if info.IsDir() || w.isDirSymlink(path, info) {
			return nil
		}

		lang := w.classifier.Classify(filepath.Base(path))
		m := w.inspector.Measure(path)

		result.Add(lang, types.FileRecord{
			Path:  path,
			Lines: m.Lines,
			Size:  m.Size,
		})

		stats.FilesVisited++
		if m.ReadErr != nil {
			stats.ReadErrors++
		}
		if m.StatErr != nil {
			stats.StatErrors++
		}

		log.WithLanguage(lang).Debugw("Scanned file",
			"path", path,
			"lines", m.Lines,
			"size", m.Size,
		)
		return nil
	}

	// The visit callback never returns an error, so neither does Walk.
	if w.rootIsDirSymlink(root) {
		// afero.Walk lstats its root and would stop at the link, so the
		// first level is listed here. Paths keep the link as their prefix.
		entries, err := afero.ReadDir(w.fs, root)
		if err != nil {
			_ = visit(root, nil, err)
		}
		for _, entry := range entries {
			_ = afero.Walk(w.fs, filepath.Join(root, entry.Name()), visit)
		}
	} else {
		_ = afero.Walk(w.fs, root, visit)
	}

	stats.Duration = time.Since(start)
	return result, stats
}

// isDirSymlink reports whether info describes a symlink whose target is a directory.
func (w *Walker) isDirSymlink(path string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := w.fs.Stat(path)
	return err == nil && target.IsDir()
}

func (w *Walker) rootIsDirSymlink(root string) bool {
	lstater, ok := w.fs.(afero.Lstater)
	if !ok {
		return false
	}
	info, lstatCalled, err := lstater.LstatIfPossible(root)
	if err != nil || !lstatCalled {
		return false
	}
	return w.isDirSymlink(root, info)
}
