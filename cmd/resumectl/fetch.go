package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumematch/internal/fetch"
)

var (
	fetchTimeout time.Duration
	fetchName    string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Download a résumé and extract it",
	Long: `Downloads URL and runs extraction on the body. A failed download is not an
error: the placeholder document is extracted instead, as the worker does.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", fetch.DefaultTimeout, "download timeout")
	fetchCmd.Flags().StringVar(&fetchName, "name", "", "file name to use for format detection (default: last URL segment)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	rec, err := newPipeline(cmd, fetchTimeout).DispatchURL(cmd.Context(), args[0], mimeType, fetchName)
	if err != nil {
		return err
	}
	return printRecord(cmd, rec)
}
