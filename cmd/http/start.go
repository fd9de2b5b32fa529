package http

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/internal/api/http"
	"github.com/maherraissi/MedFlow/pkg/logs"
	"github.com/maherraissi/MedFlow/pkg/util/password"
)

func NewStartCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the MedFlow HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to read config flag: %w", err)
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			slog.SetDefault(logs.New(cfg))
			password.Configure(password.FromCentralConfig(cfg.Password))

			http.Start(cfg, shutdownTimeout)

			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Grace period for in-flight requests on shutdown")

	return cmd
}
