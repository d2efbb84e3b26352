package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Shourya4641/Lending-Protocol/internal/api"
	apifeed "github.com/Shourya4641/Lending-Protocol/internal/api/feed"
	"github.com/Shourya4641/Lending-Protocol/internal/api/position"
	"github.com/Shourya4641/Lending-Protocol/internal/config"
	"github.com/Shourya4641/Lending-Protocol/internal/db"
	"github.com/Shourya4641/Lending-Protocol/internal/engine"
	"github.com/Shourya4641/Lending-Protocol/internal/ledger"
	"github.com/Shourya4641/Lending-Protocol/internal/logger"
	"github.com/Shourya4641/Lending-Protocol/internal/oracle"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: Could not load .env file, using system environment variables")
	}

	log := logger.New()

	var port int

	rootCmd := &cobra.Command{
		Use:   "lending-protocol",
		Short: "Collateralized-debt accounting service",
		Long:  "lending-protocol runs the solvency engine behind an HTTP API: deposit collateral, mint synth against it, and liquidate under-collateralized accounts.",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.NewConfig()
			cfg.LoadFromEnvironment()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				log.Fatal().Err(err).Msg("invalid configuration")
			}

			// Event sink: Postgres when configured, logger otherwise
			var sink engine.EventSink = engine.LogSink{Log: log}
			if cfg.DatabaseURL != "" {
				pool, err := db.NewConnection(context.Background(), cfg.DatabaseURL)
				if err != nil {
					log.Fatal().Err(err).Msg("failed to connect to database")
				}
				defer pool.Close()

				store := db.NewEventStore(pool)
				if err := store.Migrate(context.Background()); err != nil {
					log.Fatal().Err(err).Msg("failed to migrate event store")
				}
				sink = store
			}

			// One manual feed and one balance ledger per collateral asset
			feeds := make(map[string]*oracle.ManualFeed, len(cfg.Assets))
			engineFeeds := make([]oracle.Feed, 0, len(cfg.Assets))
			ledgers := make([]ledger.AssetLedger, 0, len(cfg.Assets))
			for _, asset := range cfg.Assets {
				f := oracle.NewManualFeed(asset)
				feeds[asset] = f
				engineFeeds = append(engineFeeds, f)
				ledgers = append(ledgers, ledger.NewToken(asset, engine.CustodyAccount))
			}
			synth := ledger.NewToken("SYNTH", engine.CustodyAccount)

			eng, err := engine.New(cfg.Assets, engineFeeds, ledgers, synth, sink, log)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to build engine")
			}

			app := fiber.New()
			api.InitializeRoutes(app, position.NewService(eng), apifeed.NewService(feeds))

			log.Info().Int("port", cfg.Port).Strs("assets", cfg.Assets).Msg("listening")
			if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
				log.Fatal().Err(err).Msg("server stopped")
			}
		},
	}

	rootCmd.Flags().IntVar(&port, "port", 8000, "HTTP listen port")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
