// Package dataset defines the trip dataset schema, its CSV encoding and the
// feature extraction used by the delay model.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Road types present in the dataset.
const (
	RoadHighway = "highway"
	RoadCity    = "city"
	RoadRural   = "rural"
)

// Trip is one row of the trip dataset.
type Trip struct {
	// StartTime is the departure time as "HH:MM".
	StartTime string

	RouteDistanceKm float64

	// DayOfWeek is 1 (Monday) through 7 (Sunday).
	DayOfWeek int

	AvgSpeedKmh float64

	RoadType string

	TravelTimeMinutes float64
}

var csvHeader = []string{
	"start_time",
	"route_distance",
	"day_of_week",
	"avg_speed",
	"road_type",
	"travel_time",
}

// WriteCSV writes the trips as CSV with a header row.
func WriteCSV(w io.Writer, trips []Trip) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range trips {
		record := []string{
			t.StartTime,
			strconv.FormatFloat(t.RouteDistanceKm, 'f', -1, 64),
			strconv.Itoa(t.DayOfWeek),
			strconv.FormatFloat(t.AvgSpeedKmh, 'f', -1, 64),
			t.RoadType,
			strconv.FormatFloat(t.TravelTimeMinutes, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads trips from CSV, validating the header row.
func ReadCSV(r io.Reader) ([]Trip, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i, header[i], name)
		}
	}

	var trips []Trip
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		trip, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// WriteFile writes the trips as a CSV file.
func WriteFile(path string, trips []Trip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, trips); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads trips from a CSV file.
func ReadFile(path string) ([]Trip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

func parseRecord(record []string) (Trip, error) {
	var trip Trip
	var err error

	trip.StartTime = record[0]
	if _, err = TimeToDecimal(trip.StartTime); err != nil {
		return Trip{}, err
	}

	if trip.RouteDistanceKm, err = strconv.ParseFloat(record[1], 64); err != nil {
		return Trip{}, fmt.Errorf("route_distance: %w", err)
	}
	if trip.DayOfWeek, err = strconv.Atoi(record[2]); err != nil {
		return Trip{}, fmt.Errorf("day_of_week: %w", err)
	}
	if trip.DayOfWeek < 1 || trip.DayOfWeek > 7 {
		return Trip{}, fmt.Errorf("day_of_week: %d out of range", trip.DayOfWeek)
	}
	if trip.AvgSpeedKmh, err = strconv.ParseFloat(record[3], 64); err != nil {
		return Trip{}, fmt.Errorf("avg_speed: %w", err)
	}

	trip.RoadType = record[4]
	if _, err = EncodeRoadType(trip.RoadType); err != nil {
		return Trip{}, err
	}

	if trip.TravelTimeMinutes, err = strconv.ParseFloat(record[5], 64); err != nil {
		return Trip{}, fmt.Errorf("travel_time: %w", err)
	}

	return trip, nil
}
