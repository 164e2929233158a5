// Command rectify scans a birth-time window against a file of dated life
// events and prints the ranked candidate instants.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/rectify"
	"github.com/skyasground/truenorth/pkg/zodiac"
)

// eventsFile is the YAML shape of an events file:
//
//	events:
//	  - date: 1996-06-01
//	    type: marriage
//	    description: wedding in Auckland
//	    intensity: 8
type eventsFile struct {
	Events []struct {
		Date        string `yaml:"date"`
		Type        string `yaml:"type"`
		Description string `yaml:"description,omitempty"`
		Intensity   int    `yaml:"intensity,omitempty"`
	} `yaml:"events"`
}

func main() {
	var dateStr, timeStr, eventsPath string
	var lat, lon float64
	var window, step time.Duration
	var top, workers int
	flag.StringVar(&dateStr, "date", "", "approximate birth date, UTC (YYYY-MM-DD)")
	flag.StringVar(&timeStr, "time", "12:00:00", "approximate birth time of day, UTC (HH:MM:SS or HH:MM)")
	flag.Float64Var(&lat, "lat", 0, "birth latitude, degrees north")
	flag.Float64Var(&lon, "lon", 0, "birth longitude, degrees east")
	flag.DurationVar(&window, "window", 2*time.Hour, "half-width of the search window")
	flag.DurationVar(&step, "step", 10*time.Minute, "candidate step")
	flag.StringVar(&eventsPath, "events", "", "YAML file with dated life events (omit for a natal-only scan)")
	flag.IntVar(&top, "top", 5, "number of candidates to print")
	flag.IntVar(&workers, "workers", 0, "concurrent chart workers (0 = all CPUs)")
	flag.Parse()

	if dateStr == "" {
		fmt.Fprintln(os.Stderr, "-date is required")
		flag.Usage()
		os.Exit(1)
	}

	approx, err := parseInstant(dateStr, timeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing birth time: %v\n", err)
		os.Exit(1)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		fmt.Fprintf(os.Stderr, "Location %v, %v outside -90..90, -180..180\n", lat, lon)
		os.Exit(1)
	}

	events, err := loadEvents(eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading events: %v\n", err)
		os.Exit(1)
	}

	scanner, err := rectify.New(ephemeris.NewMeeus(), zodiac.Default(), workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scanner: %v\n", err)
		os.Exit(1)
	}

	res, err := scanner.Scan(context.Background(), rectify.Request{
		Approx:    approx,
		Window:    window,
		Step:      step,
		Latitude:  lat,
		Longitude: lon,
		Events:    events,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(rectify.Report(res, top))
}

// loadEvents reads the events file. An empty path means a natal-only
// scan with no events at all.
func loadEvents(path string) ([]rectify.Event, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file eventsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}

	events := make([]rectify.Event, 0, len(file.Events))
	for i, in := range file.Events {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): cannot parse date %q", i+1, in.Type, in.Date)
		}
		events = append(events, rectify.Event{
			Date:        date,
			Type:        in.Type,
			Description: in.Description,
			Intensity:   in.Intensity,
		})
	}
	return events, nil
}

func parseInstant(dateStr, timeStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, dateStr+" "+timeStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q %q as a UTC date and time", dateStr, timeStr)
}
