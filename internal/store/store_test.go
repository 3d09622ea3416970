package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/langscan/internal/types"
)

func sampleResult() *types.ScanResult {
	r := types.NewScanResult()
	r.Add("Python", types.FileRecord{Path: "/repo/a.py", Lines: 3, Size: 25})
	r.Add("Unknown", types.FileRecord{Path: "/repo/README", Lines: 1, Size: 10})
	r.Add("Python", types.FileRecord{Path: "/repo/pkg/b.py", Lines: 7, Size: 90})
	r.Add("HTML", types.FileRecord{Path: "/repo/<index>&.html", Lines: 2, Size: 40})
	return r
}

func TestPersistLayout(t *testing.T) {
	memFs := afero.NewMemMapFs()
	s := New(memFs, "")

	r := types.NewScanResult()
	r.Add("Go", types.FileRecord{Path: "/r/main.go", Lines: 2, Size: 30})

	require.NoError(t, s.Persist(r, "/r/scan_results.json"))

	got, err := afero.ReadFile(memFs, "/r/scan_results.json")
	require.NoError(t, err)

	want := `{
    "Go": {
        "files": [
            {
                "path": "/r/main.go",
                "lines": 2,
                "size": 30
            }
        ],
        "total_lines": 2,
        "total_size": 30
    }
}
`
	assert.Equal(t, want, string(got))
}

func TestPersistEmptyResult(t *testing.T) {
	memFs := afero.NewMemMapFs()
	s := New(memFs, "")

	require.NoError(t, s.Persist(types.NewScanResult(), "/empty.json"))

	got, err := afero.ReadFile(memFs, "/empty.json")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))
}

func TestPersistIsByteIdenticalAcrossRuns(t *testing.T) {
	memFs := afero.NewMemMapFs()
	s := New(memFs, "")

	require.NoError(t, s.Persist(sampleResult(), "/one.json"))
	require.NoError(t, s.Persist(sampleResult(), "/two.json"))

	one, err := afero.ReadFile(memFs, "/one.json")
	require.NoError(t, err)
	two, err := afero.ReadFile(memFs, "/two.json")
	require.NoError(t, err)
	assert.Equal(t, one, two)
}

func TestPersistOverwrites(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/out.json", []byte("stale content that is much longer than {}"), 0o644))

	require.NoError(t, New(memFs, "").Persist(types.NewScanResult(), "/out.json"))

	got, err := afero.ReadFile(memFs, "/out.json")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))
}

func TestPersistKeepsHTMLCharacters(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, New(memFs, "").Persist(sampleResult(), "/out.json"))

	got, err := afero.ReadFile(memFs, "/out.json")
	require.NoError(t, err)
	assert.Contains(t, string(got), `"/repo/<index>&.html"`)
}

func TestPersistCustomIndent(t *testing.T) {
	memFs := afero.NewMemMapFs()
	r := types.NewScanResult()
	r.Add("R", types.FileRecord{Path: "/x.r", Lines: 1, Size: 2})

	require.NoError(t, New(memFs, "\t").Persist(r, "/out.json"))

	got, err := afero.ReadFile(memFs, "/out.json")
	require.NoError(t, err)
	assert.Contains(t, string(got), "\n\t\"R\": {\n\t\t\"files\"")
}

func TestRoundTrip(t *testing.T) {
	memFs := afero.NewMemMapFs()
	s := New(memFs, "")
	original := sampleResult()

	require.NoError(t, s.Persist(original, "/out.json"))

	raw, err := s.ReadRaw("/out.json")
	require.NoError(t, err)
	loaded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, original.Languages(), loaded.Languages(), "language order survives the round trip")
	for lang, want := range original.All() {
		got, ok := loaded.Get(lang)
		require.True(t, ok, lang)
		assert.Equal(t, want, got)
	}
}

func TestRoundTripEmpty(t *testing.T) {
	memFs := afero.NewMemMapFs()
	s := New(memFs, "")

	require.NoError(t, s.Persist(types.NewScanResult(), "/out.json"))

	raw, err := s.ReadRaw("/out.json")
	require.NoError(t, err)
	loaded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestPersistReadOnlyFilesystem(t *testing.T) {
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "")

	err := s.Persist(sampleResult(), "/out.json")
	require.Error(t, err)

	var persistErr *PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "/out.json", persistErr.Path)
	assert.Contains(t, err.Error(), "/out.json")
}

func TestPersistMissingParentOnOS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "scan_results.json")

	err := New(nil, "").Persist(sampleResult(), path)

	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestPersistReadOnlyDirectoryOnOS(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := New(nil, "").Persist(sampleResult(), ResultPath(dir, "scan_results.json"))

	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestReadErrors(t *testing.T) {
	s := New(afero.NewMemMapFs(), "")

	_, err := s.ReadRaw("/missing.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Decode([]byte(`["not", "an", "object"]`))
	assert.Error(t, err)
}

func TestResultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", "scan_results.json"), ResultPath("/repo", "scan_results.json"))
	assert.Equal(t, filepath.Join("rel", "out.json"), ResultPath("rel/", "out.json"))
}
