package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skilltree/internal/server"
	"skilltree/internal/skill"
)

// Commit is stamped at build time via -ldflags "-X skilltree/cmd.Commit=...".
var Commit = "dev"

var (
	serveAddr    string
	serveLogMode string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(serveLogMode)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		st, closer, err := OpenStore()
		if err != nil {
			return err
		}
		defer closer()

		srv := server.New(server.Config{
			Service: skill.NewService(st),
			Log:     log,
			Commit:  Commit,
		})

		log.Infow("listening", "addr", serveAddr)
		return srv.Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Listen address")
	serveCmd.Flags().StringVar(&serveLogMode, "log-mode", "dev", "Log mode: dev or prod")
	rootCmd.AddCommand(serveCmd)
}

func newLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
