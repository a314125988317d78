package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabbot/internal/config"
	"github.com/example/vocabbot/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect word lists",
}

var corpusCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Load a word list and report its ranges and skipped rows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path = resolveCorpusPath(cmd, cfg.CorpusPath)
		}

		c, result, err := corpus.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range c.Ranges() {
			fmt.Fprintf(out, "%-12s %-30s %d words\n", r.Key, r.Title, len(r.Items))
		}
		fmt.Fprintf(out, "\n%d words imported, %d skipped\n", result.Imported, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintln(out, "  "+e)
		}
		if empty := c.EmptyRanges(); len(empty) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: ranges without words: %v\n", empty)
		}
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusCheckCmd)
}
