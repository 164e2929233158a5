// Command moon-phase prints the Moon's phase at a UTC instant, computed
// from the same ephemeris that feeds natal charts.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/lunar"
)

func main() {
	var timeStr string
	flag.StringVar(&timeStr, "time", "", "UTC time to calculate phase for (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	flag.Parse()

	var t time.Time
	if timeStr == "" {
		t = time.Now().UTC()
	} else {
		var err error
		t, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	provider := ephemeris.NewMeeus()
	sun, err := provider.Position(t, ephemeris.Sun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing Sun position: %v\n", err)
		os.Exit(1)
	}
	moon, err := provider.Position(t, ephemeris.Moon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing Moon position: %v\n", err)
		os.Exit(1)
	}

	phase := lunar.FromLongitudes(sun.Longitude, moon.Longitude)

	fmt.Printf("Moon Phase for %s\n", t.Format(time.RFC3339))
	fmt.Printf("  Phase:        %.1f%% (%.4f)\n", phase.Phase*100, phase.Phase)
	fmt.Printf("  Phase Name:   %s\n", phase.Name)
	fmt.Printf("  Illumination: %.1f%%\n", phase.Illumination*100)
	fmt.Printf("  Age:          %.1f days\n", phase.AgeDays)
	fmt.Printf("  Elongation:   %.1f°\n", phase.Elongation)
	if phase.Waxing {
		fmt.Printf("  Direction:    Waxing\n")
	} else {
		fmt.Printf("  Direction:    Waning\n")
	}
}
