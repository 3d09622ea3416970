// Package verifier checks that a persisted result file matches the scan that produced it.
package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dbsmedya/langscan/internal/logger"
	"github.com/dbsmedya/langscan/internal/store"
	"github.com/dbsmedya/langscan/internal/types"
)

// VerificationMethod defines how a result file is checked.
type VerificationMethod string

const (
	// MethodCount compares file counts and totals per language (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 compares hashes of each language entry and of the whole file
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// VerifyResult holds the verification outcome for one language.
type VerifyResult struct {
	Language      string
	Method        VerificationMethod
	ExpectedFiles int
	StoredFiles   int
	ExpectedHash  string
	StoredHash    string
	Match         bool
	ErrorMessage  string
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	LanguagesVerified int
	LanguagesPassed   int
	LanguagesFailed   int
	TotalFiles        int
	Method            VerificationMethod
}

// Verifier reads a result file back through a Store and compares it with
// the in-memory result.
type Verifier struct {
	store  *store.Store
	method VerificationMethod
	logger *logger.Logger
}

// NewVerifier creates a verifier. An empty method means MethodCount.
func NewVerifier(st *store.Store, method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if st == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	switch method {
	case "":
		method = MethodCount
	case MethodCount, MethodSHA256, MethodSkip:
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}

	return &Verifier{
		store:  st,
		method: method,
		logger: log,
	}, nil
}

// Verify checks the file at path against result. It stops at the first
// mismatching language and returns an error describing it.
func (v *Verifier) Verify(ctx context.Context, result *types.ScanResult, path string) (*VerifyStats, error) {
	if v.method == MethodSkip {
		v.logger.Info("Verification SKIPPED (method=skip)")
		return &VerifyStats{Method: MethodSkip}, nil
	}

	stats := &VerifyStats{Method: v.method}

	raw, err := v.store.ReadRaw(path)
	if err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}
	stored, err := store.Decode(raw)
	if err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}

	v.logger.Infof("Starting verification (method=%s) for %d languages", v.method, result.Len())

	// sha256 compares against result as it reads back from its own encoding,
	// so lossy steps such as invalid UTF-8 in paths apply to both sides.
	var encoded []byte
	canonical := result
	if v.method == MethodSHA256 {
		if encoded, err = v.store.Encode(result); err != nil {
			return stats, fmt.Errorf("verification failed: %w", err)
		}
		if canonical, err = store.Decode(encoded); err != nil {
			return stats, fmt.Errorf("verification failed: %w", err)
		}
	}

	if stored.Len() != result.Len() {
		return stats, fmt.Errorf("verification mismatch: expected %d languages, file has %d",
			result.Len(), stored.Len())
	}

	for lang, expected := range result.All() {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("verification interrupted: %w", err)
		}

		actual, ok := stored.Get(lang)
		if !ok {
			stats.LanguagesFailed++
			v.logger.Errorf("Verification FAILED for language %q: missing from %s", lang, path)
			return stats, fmt.Errorf("verification mismatch: language %s missing from file", lang)
		}

		var res *VerifyResult
		switch v.method {
		case MethodCount:
			res = v.verifyByCount(lang, expected, actual)
		case MethodSHA256:
			normalized, _ := canonical.Get(lang)
			res, err = v.verifyBySHA256(lang, normalized, actual)
			if err != nil {
				return stats, fmt.Errorf("verification failed for language %s: %w", lang, err)
			}
		}

		stats.LanguagesVerified++
		stats.TotalFiles += res.ExpectedFiles

		if !res.Match {
			stats.LanguagesFailed++
			v.logger.Errorf("Verification FAILED for language %q: %s", lang, res.ErrorMessage)
			return stats, fmt.Errorf("verification mismatch in language %s: %s", lang, res.ErrorMessage)
		}
		stats.LanguagesPassed++
		v.logger.Debugf("Verification PASSED for language %q (%d files)", lang, res.ExpectedFiles)
	}

	if v.method == MethodSHA256 {
		if err := v.verifyFileHash(encoded, raw); err != nil {
			return stats, err
		}
	}

	v.logger.Infof("Verification complete: %d languages verified, %d passed, %d failed, %d total files",
		stats.LanguagesVerified, stats.LanguagesPassed, stats.LanguagesFailed, stats.TotalFiles)

	return stats, nil
}

// verifyByCount compares file counts and both totals, and checks that the
// stored totals agree with the stored file list.
func (v *Verifier) verifyByCount(lang string, expected, actual *types.LanguageSummary) *VerifyResult {
	res := &VerifyResult{
		Language:      lang,
		Method:        MethodCount,
		ExpectedFiles: len(expected.Files),
		StoredFiles:   len(actual.Files),
	}

	switch {
	case res.ExpectedFiles != res.StoredFiles:
		res.ErrorMessage = fmt.Sprintf("file count mismatch: expected=%d, stored=%d", res.ExpectedFiles, res.StoredFiles)
	case expected.TotalLines != actual.TotalLines:
		res.ErrorMessage = fmt.Sprintf("total_lines mismatch: expected=%d, stored=%d", expected.TotalLines, actual.TotalLines)
	case expected.TotalSize != actual.TotalSize:
		res.ErrorMessage = fmt.Sprintf("total_size mismatch: expected=%d, stored=%d", expected.TotalSize, actual.TotalSize)
	case !actual.Consistent():
		res.ErrorMessage = "stored totals do not match the stored file list"
	default:
		res.Match = true
	}

	return res
}

// verifyBySHA256 compares hashes of the canonical encoding of both summaries.
func (v *Verifier) verifyBySHA256(lang string, expected, actual *types.LanguageSummary) (*VerifyResult, error) {
	expectedHash, err := summaryHash(expected)
	if err != nil {
		return nil, fmt.Errorf("failed to hash expected summary: %w", err)
	}
	storedHash, err := summaryHash(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to hash stored summary: %w", err)
	}

	res := &VerifyResult{
		Language:      lang,
		Method:        MethodSHA256,
		ExpectedFiles: len(expected.Files),
		StoredFiles:   len(actual.Files),
		ExpectedHash:  expectedHash,
		StoredHash:    storedHash,
		Match:         expectedHash == storedHash && len(expected.Files) == len(actual.Files),
	}

	if !res.Match {
		if res.ExpectedFiles != res.StoredFiles {
			res.ErrorMessage = fmt.Sprintf("file count mismatch: expected=%d, stored=%d", res.ExpectedFiles, res.StoredFiles)
		} else {
			res.ErrorMessage = fmt.Sprintf("hash mismatch: expected=%s, stored=%s", expectedHash[:16], storedHash[:16])
		}
	}

	return res, nil
}

// verifyFileHash compares the file bytes with a fresh encoding of the result,
// which catches differences in key order and layout.
func (v *Verifier) verifyFileHash(encoded, raw []byte) error {
	want := sha256.Sum256(encoded)
	got := sha256.Sum256(raw)
	if want != got {
		wantHex, gotHex := hex.EncodeToString(want[:]), hex.EncodeToString(got[:])
		v.logger.Errorf("Verification FAILED for result file: hash mismatch")
		return fmt.Errorf("verification mismatch in result file: hash mismatch: expected=%s, stored=%s",
			wantHex[:16], gotHex[:16])
	}
	return nil
}

func summaryHash(s *types.LanguageSummary) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// GetMethod returns the configured verification method.
func (v *Verifier) GetMethod() VerificationMethod {
	return v.method
}
