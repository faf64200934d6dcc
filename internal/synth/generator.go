// Package synth generates synthetic trip datasets for delay model training.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/dataset"
)

// DefaultSamples is the dataset size when none is configured.
const DefaultSamples = 1000

// roadSpeedFactors scale the nominal speed during travel time derivation.
// Distinct from the training-time road encoding, which keeps highway at 1.0.
var roadSpeedFactors = map[string]float64{
	dataset.RoadHighway: 1.2,
	dataset.RoadCity:    0.8,
	dataset.RoadRural:   1.0,
}

var roadTypes = []string{dataset.RoadHighway, dataset.RoadCity, dataset.RoadRural}

// Config holds generator configuration.
type Config struct {
	// Samples is the number of trips to generate. Defaults to DefaultSamples.
	Samples int

	// Seed seeds the random source. Zero uses the current time.
	Seed int64

	Logger zerolog.Logger
}

// Generator produces randomized trips with derived travel times.
type Generator struct {
	samples int
	rng     *rand.Rand
	logger  zerolog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.Samples <= 0 {
		cfg.Samples = DefaultSamples
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		samples: cfg.Samples,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  cfg.Logger.With().Str("component", "synth").Logger(),
	}
}

// Generate produces the configured number of trips.
func (g *Generator) Generate() []dataset.Trip {
	trips := make([]dataset.Trip, g.samples)
	for i := range trips {
		trips[i] = g.trip()
	}

	g.logger.Debug().Int("samples", len(trips)).Msg("trips generated")
	return trips
}

func (g *Generator) trip() dataset.Trip {
	distance := float64(5 + g.rng.Intn(46))
	day := 1 + g.rng.Intn(7)
	speed := float64(30 + g.rng.Intn(31))
	road := roadTypes[g.rng.Intn(len(roadTypes))]
	hour, startTime := g.startTime()

	adjustedSpeed := speed * roadSpeedFactors[road]
	travel := distance / adjustedSpeed * 60.0 * g.trafficFactor(hour)

	return dataset.Trip{
		StartTime:         startTime,
		RouteDistanceKm:   distance,
		DayOfWeek:         day,
		AvgSpeedKmh:       speed,
		RoadType:          road,
		TravelTimeMinutes: round2(travel),
	}
}

// startTime picks a departure between 06:00 and 21:00.
func (g *Generator) startTime() (hour int, formatted string) {
	minutes := 6*60 + g.rng.Intn(15*60+1)
	hour = minutes / 60
	return hour, fmt.Sprintf("%02d:%02d", hour, minutes%60)
}

// trafficFactor models congestion: rush hours 08:00-09:00 and 16:00-18:00
// draw a factor from [1.2, 1.5), off-peak from [1.0, 1.2).
func (g *Generator) trafficFactor(hour int) float64 {
	if hour == 8 || hour == 16 || hour == 17 {
		return 1.2 + g.rng.Float64()*0.3
	}
	return 1.0 + g.rng.Float64()*0.2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
