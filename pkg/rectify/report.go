package rectify

import (
	"fmt"
	"strings"

	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/ephemeris"
)

// Report renders a scan result as a plain-text summary of the top n
// candidates with their score breakdowns and notable triggers. A
// non-positive or oversized n includes every candidate.
func Report(res *Result, n int) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	b.WriteString(rule + "\n")
	b.WriteString("TRUENORTH RECTIFICATION SCAN\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Scan:   %s\n", res.ScanID)
	fmt.Fprintf(&b, "Window: %s ±%s, step %s\n",
		res.Request.Approx.UTC().Format("2006-01-02 15:04:05 MST"), res.Request.Window, res.Request.Step)

	if len(res.Rejected) > 0 {
		b.WriteString("\nRejected events:\n")
		for _, r := range res.Rejected {
			label := r.Event.Type
			if label == "" {
				label = "(untyped)"
			}
			fmt.Fprintf(&b, "  %s: %s\n", label, r.Reason)
		}
	}

	if len(res.Candidates) == 0 {
		b.WriteString("\nNo candidates scanned. Check the window and step.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nCandidates: %d   scores %d to %d   mean %.1f   median %.1f   stddev %.1f\n",
		res.Stats.Candidates, res.Stats.Worst, res.Stats.Best,
		res.Stats.Mean, res.Stats.Median, res.Stats.StdDev)

	if n <= 0 || n > len(res.Candidates) {
		n = len(res.Candidates)
	}
	fmt.Fprintf(&b, "\n%s\nTOP %d CANDIDATES\n%s\n", thin, n, thin)

	for i, c := range res.Candidates[:n] {
		fmt.Fprintf(&b, "\n#%d  score %d  %s\n", i+1, c.Score, c.Instant.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(&b, "    dasha correlation   %+d\n", c.Breakdown.DashaCorrelation)
		fmt.Fprintf(&b, "    event type match    %+d\n", c.Breakdown.EventTypeMatch)
		fmt.Fprintf(&b, "    natal boundaries    %+d\n", c.Breakdown.NatalBoundaries)
		fmt.Fprintf(&b, "    transit boundaries  %+d\n", c.Breakdown.TransitBoundaries)
		fmt.Fprintf(&b, "    special patterns    %+d\n", c.Breakdown.SpecialPatterns)

		if c.Chart != nil {
			for _, body := range []ephemeris.Body{ephemeris.Sun, ephemeris.Moon} {
				if p, ok := c.Chart.Placements[body]; ok {
					fmt.Fprintf(&b, "    %-9s %s %s  %s\n", string(body), p.Arc.Name, chart.FormatDMS(p.DegreesInto), p.Status)
				}
			}
			if c.Chart.Angles != nil {
				a := c.Chart.Angles.Ascendant
				fmt.Fprintf(&b, "    %-9s %s %s  %s\n", "Ascendant", a.Arc.Name, chart.FormatDMS(a.DegreesInto), a.Status)
			}
		}

		if len(c.Triggers.NatalHard) > 0 {
			names := make([]string, len(c.Triggers.NatalHard))
			for j, t := range c.Triggers.NatalHard {
				names[j] = fmt.Sprintf("%s in %s", t.Body, t.Arc)
			}
			fmt.Fprintf(&b, "    natal hard: %s\n", strings.Join(names, ", "))
		}
		if len(c.Triggers.Special) > 0 {
			sp := c.Triggers.Special
			if len(sp) > 3 {
				sp = sp[:3]
			}
			fmt.Fprintf(&b, "    special: %s\n", strings.Join(sp, "; "))
		}
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}
