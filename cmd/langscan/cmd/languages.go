package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/langscan/internal/languages"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List recognized languages and extensions",
	Long: `Languages prints the built-in extension table used to classify files.

Matching is exact and case-sensitive: "main.PY" is not Python.
Files whose extension is not listed are reported as Unknown.`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "LANGUAGE\tEXTENSIONS"); err != nil {
		return err
	}

	for _, lang := range languages.NewDefaultClassifier().Languages() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", lang.Name, strings.Join(lang.Extensions, ", ")); err != nil {
			return err
		}
	}

	return w.Flush()
}
