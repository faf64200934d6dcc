// Package main provides the delay model training CLI.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tripcast/tripcast/internal/dataset"
	"github.com/tripcast/tripcast/internal/model"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "trainer").
		Str("version", Version).
		Logger()

	rootCmd := &cobra.Command{
		Use:   "trainer",
		Short: "Train the travel delay regression model",
		Long: `trainer reads a trip dataset CSV, holds out a test split, fits a
regression forest on the remainder and reports test error before
writing the model artifact.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(log)
		},
	}

	flags := rootCmd.Flags()
	flags.String("data", "trip_data.csv", "trip dataset CSV path")
	flags.String("out", "delay_model.gob", "model artifact output path")
	flags.Int("trees", 100, "number of trees in the forest")
	flags.Int64("seed", 42, "random seed for split and bagging")
	flags.Float64("test-fraction", 0.2, "fraction of samples held out for testing")
	flags.Int("min-leaf", 1, "minimum samples per leaf node")

	if err := viper.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("failed to bind flags")
	}
	viper.SetEnvPrefix("TRAINER")
	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
}

func run(log zerolog.Logger) error {
	dataPath := viper.GetString("data")
	trips, err := dataset.ReadFile(dataPath)
	if err != nil {
		return err
	}
	log.Info().Int("samples", len(trips)).Str("path", dataPath).Msg("dataset loaded")

	start := time.Now()
	report, err := model.Train(trips, model.TrainConfig{
		Trees:        viper.GetInt("trees"),
		Seed:         viper.GetInt64("seed"),
		TestFraction: viper.GetFloat64("test-fraction"),
		MinLeafSize:  viper.GetInt("min-leaf"),
		Logger:       log,
	})
	if err != nil {
		return err
	}

	log.Info().
		Float64("mse", report.MSE).
		Float64("mae", report.MAE).
		Int("train_size", report.TrainSize).
		Int("test_size", report.TestSize).
		Dur("elapsed", time.Since(start)).
		Msg("model trained")

	outPath := viper.GetString("out")
	if err := model.SaveArtifact(outPath, report.Forest); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Msg("model artifact written")

	return nil
}
