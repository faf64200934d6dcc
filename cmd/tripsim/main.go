// Package main provides the synthetic trip dataset generator CLI.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tripcast/tripcast/internal/database"
	"github.com/tripcast/tripcast/internal/dataset"
	"github.com/tripcast/tripcast/internal/synth"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "tripsim").
		Str("version", Version).
		Logger()

	rootCmd := &cobra.Command{
		Use:   "tripsim",
		Short: "Generate a synthetic trip dataset for delay model training",
		Long: `tripsim generates synthetic trips with randomized distances, departure
times, days of week and road types, and derives a travel time that
reflects rush hour traffic. The dataset is written as CSV and can
optionally be mirrored into PostgreSQL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), log)
		},
	}

	flags := rootCmd.Flags()
	flags.Int("samples", synth.DefaultSamples, "number of trips to generate")
	flags.Int64("seed", 0, "random seed (0 uses the current time)")
	flags.String("out", "trip_data.csv", "output CSV file path")
	flags.Bool("postgres", false, "also insert the dataset into PostgreSQL")

	if err := viper.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("failed to bind flags")
	}
	viper.SetEnvPrefix("TRIPSIM")
	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}
}

func run(ctx context.Context, log zerolog.Logger) error {
	gen := synth.NewGenerator(synth.Config{
		Samples: viper.GetInt("samples"),
		Seed:    viper.GetInt64("seed"),
		Logger:  log,
	})

	start := time.Now()
	trips := gen.Generate()

	outPath := viper.GetString("out")
	if err := dataset.WriteFile(outPath, trips); err != nil {
		return err
	}
	log.Info().
		Int("samples", len(trips)).
		Str("path", outPath).
		Dur("elapsed", time.Since(start)).
		Msg("dataset written")

	if !viper.GetBool("postgres") {
		return nil
	}

	pool, err := database.Connect(ctx, databaseConfig())
	if err != nil {
		return err
	}
	defer pool.Close()

	sink := synth.NewPostgresSink(pool, log)
	if err := sink.EnsureTable(ctx); err != nil {
		return err
	}
	if err := sink.Insert(ctx, trips); err != nil {
		return err
	}
	log.Info().Int("rows", len(trips)).Msg("dataset inserted into postgres")

	return nil
}

func databaseConfig() database.Config {
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_user", "tripcast")
	viper.SetDefault("db_name", "tripcast")
	viper.SetDefault("db_sslmode", "disable")

	return database.Config{
		Host:     viper.GetString("db_host"),
		Port:     viper.GetInt("db_port"),
		User:     viper.GetString("db_user"),
		Password: viper.GetString("db_password"),
		Database: viper.GetString("db_name"),
		SSLMode:  viper.GetString("db_sslmode"),
	}
}
