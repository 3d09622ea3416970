// Package report renders scan results for the console.
package report

import (
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/langscan/internal/types"
)

const (
	labelFiles = "Files:"
	labelLines = "Lines:"
	labelSize  = "Size (KB):"
)

var labelWidth = max(
	runewidth.StringWidth(labelFiles),
	runewidth.StringWidth(labelLines),
	runewidth.StringWidth(labelSize),
)

// Reporter formats results and status lines, optionally with ANSI colors.
type Reporter struct {
	colored bool
}

// New creates a Reporter.
func New(colored bool) *Reporter {
	return &Reporter{colored: colored}
}

// Render yields the report lines for result, one language block at a time,
// in the order languages were first seen.
func (r *Reporter) Render(result *types.ScanResult) iter.Seq[string] {
	return func(yield func(string) bool) {
		for lang, summary := range result.All() {
			lines := []string{
				r.paint(color.Green, lang+":"),
				r.field(color.Blue, labelFiles, strconv.Itoa(len(summary.Files))),
				r.field(color.Magenta, labelLines, strconv.FormatInt(summary.TotalLines, 10)),
				r.field(color.Yellow, labelSize, KB(summary.TotalSize)),
			}
			for _, line := range lines {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Write renders result to w, one line per report line.
func (r *Reporter) Write(w io.Writer, result *types.ScanResult) error {
	for line := range r.Render(result) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Banner is printed before a scan starts.
func (r *Reporter) Banner(root string) string {
	return r.paint(color.Cyan, "Scanning: "+root)
}

// Saved is printed after the results file has been written.
func (r *Reporter) Saved(path string) string {
	return r.paint(color.Cyan, "Results saved: "+path)
}

// Prompt asks for the directory to scan.
func (r *Reporter) Prompt() string {
	return r.paint(color.Yellow, "Directory to scan: ")
}

// Failure formats an error for the console.
func (r *Reporter) Failure(err error) string {
	return r.paint(color.Red, "Error: "+err.Error())
}

// KB formats a byte count as kilobytes with two decimals.
func KB(size int64) string {
	return strconv.FormatFloat(float64(size)/1024, 'f', 2, 64)
}

func (r *Reporter) field(c color.Color, label, value string) string {
	return "  " + r.paint(c, runewidth.FillRight(label, labelWidth)) + " " + value
}

func (r *Reporter) paint(c color.Color, s string) string {
	if !r.colored {
		return s
	}
	return c.Render(s)
}
