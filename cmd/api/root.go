package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"membership-api/internal/config"
)

// NewRootCmd crea el comando raiz; sin subcomando se comporta como serve.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "membership-api",
		Short:        "User accounts with JWT authentication",
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig lee .env si existe y valida la configuracion.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	return config.LoadConfig()
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zcfg.Level = lvl
	}
	return zcfg.Build()
}
