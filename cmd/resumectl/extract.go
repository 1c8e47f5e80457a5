package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Extract a résumé from a local file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	rec, err := newPipeline(cmd, 0).Dispatch(cmd.Context(), &resume.RawDocument{
		Bytes:            data,
		DeclaredMimeType: mimeType,
		FileName:         filepath.Base(path),
	})
	if err != nil {
		return err
	}
	return printRecord(cmd, rec)
}
