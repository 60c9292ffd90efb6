package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sportsbeams/pipeline/internal/config"
	"github.com/sportsbeams/pipeline/pkg/importer"
	"github.com/sportsbeams/pipeline/pkg/logging"
)

var importPreview bool

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import research-tool JSON export files",
	Long: `Import reads one or more JSON export files, detects each file's
schema variant, and reconciles its records into the pipeline store.
Each file is one batch; a bad record is isolated and reported without
rolling back its siblings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Load()

		if importPreview {
			return runPreview(args)
		}

		session, closeStore, err := newSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			ctx := logging.WithBatchID(ctx, path)
			result, err := session.Import(ctx, data)
			if err != nil {
				logging.Default().Error().Err(err).Str("file", path).Msg("Import failed")
				failed++
				continue
			}
			if !result.Success {
				failed++
			}
			printJSON(cmd, result)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) had errors", failed, len(args))
		}
		return nil
	},
}

// runPreview summarizes the files without touching the store.
func runPreview(paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		preview, err := importer.PreviewImport(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out, err := json.MarshalIndent(preview, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	cmd.Println(string(out))
}

func init() {
	importCmd.Flags().BoolVar(&importPreview, "preview", false, "show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}
