package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumematch/internal/fetch"
	"github.com/muhammadolammi/resumematch/internal/pipeline"
	"github.com/muhammadolammi/resumematch/internal/resume"
)

var (
	mimeType   string
	pdfTimeout time.Duration
	maxBytes   int64
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Inspect résumé extraction",
	Long: `resumectl runs the same extraction pipeline as the worker and prints the
canonical record, so parsing problems can be reproduced without a queue.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&mimeType, "mime", "", "declared MIME type (default: detect from the file name)")
	rootCmd.PersistentFlags().DurationVar(&pdfTimeout, "pdf-timeout", 10*time.Second, "bound on PDF decoding")
	rootCmd.PersistentFlags().Int64Var(&maxBytes, "max-bytes", fetch.DefaultMaxBytes, "reject documents larger than this")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline warnings to stderr")
}

func newPipeline(cmd *cobra.Command, fetchTimeout time.Duration) *pipeline.Pipeline {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	fetcher := fetch.NewClient(fetchTimeout, fetch.DefaultUserAgent, maxBytes, logger)
	return pipeline.New(pdfTimeout, fetcher, maxBytes, logger)
}

func printRecord(cmd *cobra.Command, rec resume.CanonicalResumeExtraction) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
