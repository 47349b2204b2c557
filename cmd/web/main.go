package main

import (
	"database/sql"
	"fmt"
	"net"
	"os"

	"github.com/finboard/finboard/pkg/server"
	"github.com/finboard/finboard/pkg/services/config"
	"github.com/finboard/finboard/pkg/services/report"
	"github.com/finboard/finboard/pkg/services/source"
	"github.com/finboard/finboard/pkg/store/events"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the FinBoard reporting server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "finboard.yaml",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		return fmt.Errorf("no database URL configured")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	eventStore, err := events.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create event store: %w", err)
	}

	recordSource := source.NewSQLSource(db)
	assembler := report.NewAssembler(recordSource)

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(cfg.Host, cfg.Port),
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Assembler: assembler,
			Events:    eventStore,
		},
	})

	return webAPI.Start()
}
