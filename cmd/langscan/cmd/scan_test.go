package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/langscan/internal/store"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func loadResults(t *testing.T, path string) map[string]int {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	result, err := store.Decode(content)
	require.NoError(t, err)

	files := make(map[string]int)
	for lang, summary := range result.All() {
		files[lang] = len(summary.Files)
	}
	return files
}

func TestScan_WithArgument(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":        "import os\nprint(os.sep)\nprint('done')\n",
		"web/b.js":    "1\n2\n3\n4\n5",
		"README":      "hello\n",
		"web/c/style": "",
	})

	out, err := executeRoot(t, nil, root)
	require.NoError(t, err)

	resultFile := filepath.Join(root, "scan_results.json")
	assert.True(t, strings.HasPrefix(out, "Scanning: "+root+"\n"))
	assert.True(t, strings.HasSuffix(out, "Results saved: "+resultFile+"\n"))
	assert.NotContains(t, out, "Directory to scan:")
	assert.Contains(t, out, "Python:\n  Files:     1\n  Lines:     3\n")
	assert.Contains(t, out, "JavaScript:\n  Files:     1\n  Lines:     5\n")
	assert.Contains(t, out, "Unknown:\n  Files:     2\n  Lines:     1\n  Size (KB): 0.01\n")

	assert.Equal(t, map[string]int{"Python": 1, "JavaScript": 1, "Unknown": 2}, loadResults(t, resultFile))
}

func TestScan_Prompt(t *testing.T) {
	root := writeTree(t, map[string]string{"main.go": "package main\n"})

	out, err := executeRoot(t, strings.NewReader(root+"\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Directory to scan: Scanning: "+root+"\n"))
	assert.Contains(t, out, "Go:\n  Files:     1\n")
	assert.FileExists(t, filepath.Join(root, "scan_results.json"))
}

func TestScan_PromptKeepsTrailingSpace(t *testing.T) {
	root := filepath.Join(t.TempDir(), "notes ")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "todo.sh"), []byte("echo todo\n"), 0o644))

	out, err := executeRoot(t, strings.NewReader(root+"\r\n"))
	require.NoError(t, err)

	assert.Contains(t, out, "Scanning: "+root+"\n")
	assert.Contains(t, out, "Shell:\n  Files:     1\n")
	assert.FileExists(t, filepath.Join(root, "scan_results.json"))
}

func TestScan_SymlinkedRoot(t *testing.T) {
	target := writeTree(t, map[string]string{"a.py": "x = 1\n", "lib/b.go": "package lib\n"})
	link := filepath.Join(t.TempDir(), "project")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	out, err := executeRoot(t, nil, "--verify", "sha256", link)
	require.NoError(t, err)

	assert.Contains(t, out, "Python:\n  Files:     1\n")
	assert.Contains(t, out, "Go:\n  Files:     1\n")
	assert.Equal(t, map[string]int{"Python": 1, "Go": 1}, loadResults(t, filepath.Join(link, "scan_results.json")))
}

func TestScan_SHA256WithNonUTF8FileName(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "caf\xe9.py"), []byte("print(1)\n"), 0o644); err != nil {
		t.Skipf("filesystem rejects non-UTF-8 names: %v", err)
	}

	out, err := executeRoot(t, nil, "--verify", "sha256", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Python:\n  Files:     1\n")
}

func TestScan_LogsTotalsAndVerification(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "1\n2\n3\n", "b.sql": "select 1;\n"})
	logDir := t.TempDir()
	logFile := filepath.Join(logDir, "langscan.log")
	cfgPath := filepath.Join(logDir, "langscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  format: json\n  output: "+logFile+"\n"), 0o644))

	_, err := executeRoot(t, nil, "--config", cfgPath, "--log-level", "debug", "--verify", "sha256", root)
	require.NoError(t, err)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	logs := string(content)

	assert.Contains(t, logs, `"msg":"Scan complete"`)
	assert.Contains(t, logs, `"languages":["Python","SQL"]`)
	assert.Contains(t, logs, `"lines":4`)
	assert.Contains(t, logs, `"bytes":16`)
	assert.Contains(t, logs, `"msg":"Result file checked"`)
	assert.Contains(t, logs, `"method":"sha256"`)
	assert.Contains(t, logs, `"language":"Python"`)
}

func TestScan_InvalidDirectory(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
		},
		{
			name: "regular file",
			path: func(t *testing.T) string {
				return filepath.Join(writeTree(t, map[string]string{"file.txt": "x"}), "file.txt")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)

			out, err := executeRoot(t, nil, path)
			require.NoError(t, err, "an invalid directory is reported, not returned")

			assert.True(t, strings.HasPrefix(out, "Error: invalid directory"))
			assert.NotContains(t, out, "Scanning:")
			assert.NoFileExists(t, filepath.Join(path, "scan_results.json"))
		})
	}
}

func TestScan_EmptyPromptInput(t *testing.T) {
	out, err := executeRoot(t, strings.NewReader("\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "Error: invalid directory")
}

func TestScan_EmptyDirectory(t *testing.T) {
	root := t.TempDir()

	out, err := executeRoot(t, nil, root)
	require.NoError(t, err)

	resultFile := filepath.Join(root, "scan_results.json")
	assert.Equal(t, "Scanning: "+root+"\nResults saved: "+resultFile+"\n", out)

	content, err := os.ReadFile(resultFile)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(content))
}

func TestScan_RescanCountsResultFile(t *testing.T) {
	root := writeTree(t, map[string]string{"tool.sh": "echo hi\n"})

	_, err := executeRoot(t, nil, root)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Shell": 1}, loadResults(t, filepath.Join(root, "scan_results.json")))

	_, err = executeRoot(t, nil, root)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Shell": 1, "Unknown": 1}, loadResults(t, filepath.Join(root, "scan_results.json")))
}

func TestScan_PersistFailure(t *testing.T) {
	root := writeTree(t, map[string]string{"a.rb": "puts 1\n"})

	resetRoot(t)
	scanFs = afero.NewReadOnlyFs(afero.NewOsFs())

	out, err := executeRoot(t, nil, root)
	require.Error(t, err)

	var persistErr *store.PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, filepath.Join(root, "scan_results.json"), persistErr.Path)
	assert.NotContains(t, out, "Ruby:", "no report after a failed save")
	assert.NotContains(t, out, "Results saved:")
}

func TestScan_VerifyMethods(t *testing.T) {
	for _, method := range []string{"count", "sha256", "skip"} {
		t.Run(method, func(t *testing.T) {
			root := writeTree(t, map[string]string{"q.sql": "select 1;\n", "x.cs": "class X {}\n"})

			out, err := executeRoot(t, nil, "--verify", method, root)
			require.NoError(t, err)
			assert.Contains(t, out, "Results saved:")
		})
	}
}

func TestScan_InvalidVerifyMethod(t *testing.T) {
	root := t.TempDir()

	_, err := executeRoot(t, nil, "--verify", "md5", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification.method")
	assert.NoFileExists(t, filepath.Join(root, "scan_results.json"))
}

func TestScan_ConfigFile(t *testing.T) {
	root := writeTree(t, map[string]string{"index.html": "<html></html>\n"})
	cfgPath := filepath.Join(t.TempDir(), "langscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  filename: report.json\n  indent: \"\\t\"\n"), 0o644))

	out, err := executeRoot(t, nil, "--config", cfgPath, root)
	require.NoError(t, err)

	resultFile := filepath.Join(root, "report.json")
	assert.Contains(t, out, "Results saved: "+resultFile)

	content, err := os.ReadFile(resultFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "{\n\t\"HTML\": {\n"))
	assert.NoFileExists(t, filepath.Join(root, "scan_results.json"))
}

func TestScan_TooManyArguments(t *testing.T) {
	_, err := executeRoot(t, nil, "a", "b")
	assert.Error(t, err)
}

func TestPromptDirectory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "line", input: "/tmp/project\n", want: "/tmp/project"},
		{name: "crlf", input: "/tmp/project\r\n", want: "/tmp/project"},
		{name: "no newline", input: "/tmp/project", want: "/tmp/project"},
		{name: "surrounding spaces kept", input: "  /tmp/my project \n", want: "  /tmp/my project "},
		{name: "only first line", input: "/a\n/b\n", want: "/a"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got, err := promptDirectory(strings.NewReader(tt.input), &out, "dir? ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "dir? ", out.String())
		})
	}
}

func TestPromptDirectory_ReadError(t *testing.T) {
	boom := errors.New("terminal gone")
	var out strings.Builder

	_, err := promptDirectory(iotest.ErrReader(boom), &out, "dir? ")
	assert.ErrorIs(t, err, boom)
}
