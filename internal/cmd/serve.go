package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sportsbeams/pipeline/internal/config"
	"github.com/sportsbeams/pipeline/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP import API",
	Long: `Serve exposes the import engine over HTTP: JSON and multipart
import submission, dry-run preview, a health check, and Prometheus
metrics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := config.Load()

		session, closeStore, err := newSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		srvCfg := server.DefaultConfig()
		srvCfg.Address = cfg.ServerAddress
		return server.New(session, srvCfg).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("address", ":8080", "listen address")
	cobra.CheckErr(viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address")))
	rootCmd.AddCommand(serveCmd)
}
