package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skyasground/truenorth/pkg/dasha"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/zodiac"
)

// FormatDMS renders a non-negative degree value as degrees, minutes and
// seconds, e.g. 17°42'08".
func FormatDMS(deg float64) string {
	total := int(math.Round(deg * 3600))
	return fmt.Sprintf("%d°%02d'%02d\"", total/3600, total%3600/60, total%60)
}

// Report renders a chart as a plain-text summary: placements with arc
// positions and boundary markers, the Moon's phase, angles, houses, and
// the period timeline with the period active at now.
func Report(c *Chart, now time.Time) string {
	var b strings.Builder

	b.WriteString("TrueNorth natal chart\n")
	fmt.Fprintf(&b, "Instant:  %s\n", c.Instant.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Location: %.4f, %.4f\n", c.Latitude, c.Longitude)

	b.WriteString("\nPlacements\n")
	for _, p := range c.OrderedPlacements() {
		b.WriteString("  " + placementLine(p) + "\n")
	}

	if c.MoonPhase != nil {
		fmt.Fprintf(&b, "\nMoon phase: %s (%.1f%% illuminated, day %.1f)\n",
			c.MoonPhase.Name, c.MoonPhase.Illumination*100, c.MoonPhase.AgeDays)
	}

	if c.Angles != nil {
		b.WriteString("\nAngles\n")
		b.WriteString("  " + placementLine(c.Angles.Ascendant) + "\n")
		b.WriteString("  " + placementLine(c.Angles.Midheaven) + "\n")
	}

	if len(c.Houses) > 0 {
		b.WriteString("\nHouses\n")
		for _, h := range c.Houses {
			fmt.Fprintf(&b, "  %2d  %-12s %5.1f° to %5.1f°\n", h.Number, h.Arc.Name, h.Start, h.End)
		}
	}

	if c.Timeline != nil {
		b.WriteString("\nPeriods\n")
		cur, ok := c.Timeline.At(now)
		for _, p := range c.Timeline.Periods {
			marker := "  "
			if ok && p.Arc == cur.Period.Arc && p.Start.Equal(cur.Period.Start) {
				marker = "->"
			}
			fmt.Fprintf(&b, "%s %-12s %s to %s  (%.2f y)\n", marker, p.Arc.Name,
				p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"), p.Years())
		}
		if ok {
			fmt.Fprintf(&b, "\nActive period %s / %s sub-period as of %s\n",
				cur.Period.Arc.Name, cur.SubPeriod.Arc.Name, now.UTC().Format("2006-01-02"))
		} else {
			fmt.Fprintf(&b, "\nNo active period at %s: outside the %d-year cycle\n",
				now.UTC().Format("2006-01-02"), dasha.CycleYears)
		}
	}

	if len(c.Omitted) > 0 {
		b.WriteString("\nUnavailable\n")
		for _, body := range append(ephemeris.Bodies(), ephemeris.Ketu, BodyAscendant, BodyMidheaven) {
			if reason, ok := c.Omitted[body]; ok {
				fmt.Fprintf(&b, "  %-10s %s\n", string(body), reason)
			}
		}
	}

	return b.String()
}

func placementLine(p Placement) string {
	line := fmt.Sprintf("%-10s %9s %-12s", string(p.Body), FormatDMS(p.DegreesInto), p.Arc.Name)
	if p.Retrograde {
		line += " R"
	} else {
		line += "  "
	}
	if p.House > 0 {
		line += fmt.Sprintf("  house %2d", p.House)
	}
	switch p.Status {
	case zodiac.HardTrigger:
		line += "  [on boundary]"
	case zodiac.SoftProximity:
		line += "  [near boundary]"
	}
	return strings.TrimRight(line, " ")
}
