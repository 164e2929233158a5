// Command natal-chart computes a single natal chart and prints the
// plain-text report.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/zodiac"
)

func main() {
	var dateStr, timeStr string
	var lat, lon float64
	flag.StringVar(&dateStr, "date", "", "birth date, UTC (YYYY-MM-DD)")
	flag.StringVar(&timeStr, "time", "12:00:00", "birth time of day, UTC (HH:MM:SS or HH:MM)")
	flag.Float64Var(&lat, "lat", 0, "birth latitude, degrees north")
	flag.Float64Var(&lon, "lon", 0, "birth longitude, degrees east")
	flag.Parse()

	if dateStr == "" {
		fmt.Fprintln(os.Stderr, "-date is required")
		flag.Usage()
		os.Exit(1)
	}

	instant, err := parseInstant(dateStr, timeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing birth time: %v\n", err)
		os.Exit(1)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		fmt.Fprintf(os.Stderr, "Location %v, %v outside -90..90, -180..180\n", lat, lon)
		os.Exit(1)
	}

	builder := chart.NewBuilder(ephemeris.NewMeeus(), zodiac.Default())
	ch, err := builder.Build(instant, lat, lon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(chart.Report(ch, time.Now().UTC()))
}

func parseInstant(dateStr, timeStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, dateStr+" "+timeStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q %q as a UTC date and time", dateStr, timeStr)
}
