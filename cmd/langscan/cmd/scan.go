package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/langscan/internal/config"
	"github.com/dbsmedya/langscan/internal/languages"
	"github.com/dbsmedya/langscan/internal/logger"
	"github.com/dbsmedya/langscan/internal/report"
	"github.com/dbsmedya/langscan/internal/scanner"
	"github.com/dbsmedya/langscan/internal/store"
	"github.com/dbsmedya/langscan/internal/verifier"
)

// scanFs is the filesystem scans run against.
var scanFs = afero.NewOsFs()

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	out := cmd.OutOrStdout()
	rep := report.New(cfg.Report.Color)

	var root string
	if len(args) == 1 {
		root = args[0]
	} else {
		root, err = promptDirectory(cmd.InOrStdin(), out, rep.Prompt())
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}
	}

	if err := scanner.ValidateRoot(scanFs, root); err != nil {
		var invalid *scanner.InvalidRootError
		if errors.As(err, &invalid) {
			fmt.Fprintln(out, rep.Failure(err))
			return nil
		}
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return scanAndReport(ctx, out, cfg, log, rep, root)
}

// scanAndReport runs scan, persist, verify and report for a validated root.
func scanAndReport(ctx context.Context, out io.Writer, cfg *config.Config, log *logger.Logger, rep *report.Reporter, root string) error {
	fmt.Fprintln(out, rep.Banner(root))

	walker := scanner.NewWalker(scanFs, languages.NewDefaultClassifier(), log)
	result, stats := walker.ScanWithStats(root)

	_, totalLines, totalSize := result.Totals()
	log.WithRoot(root).Infow("Scan complete",
		"languages", result.Languages(),
		"files", stats.FilesVisited,
		"lines", totalLines,
		"bytes", totalSize,
		"read_errors", stats.ReadErrors,
		"stat_errors", stats.StatErrors,
		"walk_errors", stats.WalkErrors,
		"duration", stats.Duration,
	)

	st := store.New(scanFs, cfg.Output.Indent)
	resultFile := store.ResultPath(root, cfg.Output.Filename)
	if err := st.Persist(result, resultFile); err != nil {
		return err
	}

	v, err := verifier.NewVerifier(st, verifier.VerificationMethod(cfg.Verification.Method), log)
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}
	verified, err := v.Verify(ctx, result, resultFile)
	if err != nil {
		return err
	}
	log.WithFields(map[string]interface{}{
		"path":      resultFile,
		"method":    string(v.GetMethod()),
		"languages": verified.LanguagesVerified,
		"files":     verified.TotalFiles,
	}).Debug("Result file checked")

	if err := rep.Write(out, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(out, rep.Saved(resultFile))
	return nil
}

// promptDirectory writes prompt to out and reads one line from in.
// Only the line terminator is removed, so names with leading or trailing
// spaces survive. End of input without a newline is accepted; empty input
// is returned as an empty path.
func promptDirectory(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}
