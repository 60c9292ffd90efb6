package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sportsbeams/pipeline/internal/config"
	"github.com/sportsbeams/pipeline/internal/watcher"
)

var watchProcessExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a folder and import dropped JSON files",
	Long: `Watch monitors a directory for JSON export files and imports them
automatically once they stop changing. Imported files move to
processed/, failures to failed/ with a sibling error log.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := config.Load()

		session, closeStore, err := newSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		w := watcher.New(session, watcher.Config{
			Dir:             cfg.WatchDir,
			Settle:          cfg.WatchSettle,
			PollInterval:    cfg.WatchPollInterval,
			ProcessExisting: watchProcessExisting,
		})
		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().String("dir", "imports", "directory to watch for JSON files")
	watchCmd.Flags().Duration("settle", 2*time.Second, "quiet period before a file is imported")
	watchCmd.Flags().Duration("poll-interval", 5*time.Second, "fallback scan interval")
	watchCmd.Flags().BoolVar(&watchProcessExisting, "process-existing", false, "import files already in the watch directory")

	cobra.CheckErr(viper.BindPFlag("watch.dir", watchCmd.Flags().Lookup("dir")))
	cobra.CheckErr(viper.BindPFlag("watch.settle", watchCmd.Flags().Lookup("settle")))
	cobra.CheckErr(viper.BindPFlag("watch.poll_interval", watchCmd.Flags().Lookup("poll-interval")))

	rootCmd.AddCommand(watchCmd)
}
