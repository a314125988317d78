package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vocabbot",
	Short: "Gamified vocabulary drill bot",
	Long:  "vocabbot quizzes learners on vocabulary over Telegram, weighting words they miss and rewarding fast streaks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("corpus", "", "Path to the word list (overrides CORPUS_PATH env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(corpusCmd)
}

// resolveCorpusPath returns the --corpus flag if set, otherwise fallback
func resolveCorpusPath(cmd *cobra.Command, fallback string) string {
	if p, _ := cmd.Flags().GetString("corpus"); p != "" {
		return p
	}
	return fallback
}
