// Package inspector measures individual files: line count and byte size.
package inspector

import (
	"errors"
	"io"

	"github.com/spf13/afero"

	"github.com/dbsmedya/langscan/internal/logger"
)

// Measurement is the outcome of inspecting one file. A failed measurement
// leaves the corresponding value at zero and records the cause.
type Measurement struct {
	Lines   int64
	Size    int64
	ReadErr error
	StatErr error
}

// Inspector measures files on a filesystem. Failures are logged, never returned.
type Inspector struct {
	fs     afero.Fs
	logger *logger.Logger
}

// New creates an Inspector. A nil fs means the OS filesystem; a nil log
// means the default logger.
func New(fs afero.Fs, log *logger.Logger) *Inspector {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Inspector{fs: fs, logger: log}
}

// Inspect returns the line count and byte size of path. Either value is 0
// when it could not be determined.
func (i *Inspector) Inspect(path string) (lines, size int64) {
	m := i.Measure(path)
	return m.Lines, m.Size
}

// Measure inspects path and reports which parts failed.
func (i *Inspector) Measure(path string) Measurement {
	var m Measurement

	m.Lines, m.ReadErr = i.countFileLines(path)
	if m.ReadErr != nil {
		m.Lines = 0
		i.logger.WithPath(path).Errorw("Failed to read file", "error", m.ReadErr)
	}

	info, err := i.fs.Stat(path)
	if err != nil {
		m.StatErr = err
		i.logger.WithPath(path).Errorw("Failed to stat file", "error", err)
	} else {
		m.Size = info.Size()
	}

	return m
}

func (i *Inspector) countFileLines(path string) (int64, error) {
	file, err := i.fs.Open(path)
	if err != nil {
		return 0, err
	}

	lines, countErr := CountLines(file)
	closeErr := file.Close()
	if countErr != nil {
		return 0, countErr
	}
	if closeErr != nil {
		return 0, closeErr
	}
	return lines, nil
}

// CountLines counts the lines in r. "\n", "\r\n" and a lone "\r" each end a
// line, and a final line without a terminator still counts. The count is
// byte-oriented: invalid UTF-8 is tolerated, never rejected.
func CountLines(r io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)

	var (
		count     int64
		seen      bool
		prevCR    bool
		lastEnded bool
	)

	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			seen = true
			switch b {
			case '\n':
				if !prevCR {
					count++
				}
				prevCR = false
				lastEnded = true
			case '\r':
				count++
				prevCR = true
				lastEnded = true
			default:
				prevCR = false
				lastEnded = false
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	if seen && !lastEnded {
		count++
	}
	return count, nil
}
