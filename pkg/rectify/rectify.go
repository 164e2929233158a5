// Package rectify searches an uncertain birth-time window for the instant
// whose natal chart best explains a set of reported life events. Every
// candidate instant in the window gets a full chart and a multi-factor
// score; candidates are ranked by score, descending, with ties keeping
// scan order.
package rectify

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/zodiac"
)

// Request describes one scan: the approximate birth instant, the half
// window and step of the search, the birth location, and the events to
// correlate.
type Request struct {
	Approx    time.Time     `json:"approx"`
	Window    time.Duration `json:"window"`
	Step      time.Duration `json:"step"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Events    []Event       `json:"events"`
}

// Candidate is one tested birth instant with its score and its evidence.
type Candidate struct {
	Instant   time.Time    `json:"instant"`
	Score     int          `json:"score"`
	Breakdown Breakdown    `json:"breakdown"`
	Triggers  Triggers     `json:"triggers"`
	Events    []EventMatch `json:"event_matches"`
	Chart     *chart.Chart `json:"chart,omitempty"`
}

// Stats summarizes the candidate scores of one scan.
type Stats struct {
	Candidates int     `json:"candidates"`
	Best       int     `json:"best"`
	Worst      int     `json:"worst"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Median     float64 `json:"median"`
}

// Result is a completed scan: candidates ranked by score descending,
// events that failed validation, and score statistics.
type Result struct {
	ScanID      string          `json:"scan_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Request     Request         `json:"request"`
	Candidates  []Candidate     `json:"candidates"`
	Rejected    []RejectedEvent `json:"rejected_events,omitempty"`
	Stats       Stats           `json:"stats"`
}

// Scanner evaluates rectification scans. It is stateless across scans and
// safe for concurrent use.
type Scanner struct {
	provider ephemeris.Provider
	zod      *zodiac.Zodiac
	builder  *chart.Builder
	workers  int
}

// New constructs a Scanner. workers bounds how many candidate charts are
// evaluated concurrently; zero selects the number of CPUs.
func New(p ephemeris.Provider, z *zodiac.Zodiac, workers int) (*Scanner, error) {
	if p == nil {
		return nil, errors.New("ephemeris provider is required")
	}
	if z == nil {
		return nil, errors.New("arc table is required")
	}
	if workers < 0 {
		return nil, fmt.Errorf("worker count %d is negative", workers)
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return &Scanner{provider: p, zod: z, builder: chart.NewBuilder(p, z), workers: workers}, nil
}

// Scan runs one rectification scan. Candidate instants step from
// approx-window through approx+window inclusive; integer duration
// arithmetic keeps the enumeration exact, and a step that does not divide
// the window simply leaves the tail short of the upper edge. Malformed
// events are rejected up front and reported; the scan proceeds with the
// valid remainder, natal-only when none survive. Cancelling ctx aborts
// the whole scan.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Result, error) {
	if req.Approx.IsZero() {
		return nil, errors.New("approximate birth instant is required")
	}
	if req.Window <= 0 {
		return nil, fmt.Errorf("scan window %v must be positive", req.Window)
	}
	if req.Step <= 0 {
		return nil, fmt.Errorf("scan step %v must be positive", req.Step)
	}

	events, rejected := splitEvents(req.Events)

	var instants []time.Time
	end := req.Approx.Add(req.Window)
	for t := req.Approx.Add(-req.Window); !t.After(end); t = t.Add(req.Step) {
		instants = append(instants, t)
	}

	candidates := make([]Candidate, len(instants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, instant := range instants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ch, err := s.builder.Build(instant, req.Latitude, req.Longitude)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", instant.Format(time.RFC3339), err)
			}
			bd, tr, matches := s.score(ch, events)
			candidates[i] = Candidate{
				Instant:   instant.UTC(),
				Score:     bd.Total(),
				Breakdown: bd,
				Triggers:  tr,
				Events:    matches,
				Chart:     ch,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	return &Result{
		ScanID:      uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Request:     req,
		Candidates:  candidates,
		Rejected:    rejected,
		Stats:       summarize(candidates),
	}, nil
}

// summarize computes score statistics over ranked candidates.
func summarize(ranked []Candidate) Stats {
	st := Stats{Candidates: len(ranked)}
	if len(ranked) == 0 {
		return st
	}

	st.Best = ranked[0].Score
	st.Worst = ranked[len(ranked)-1].Score

	// Quantile wants ascending order; the ranking is descending.
	asc := make([]float64, len(ranked))
	for i, c := range ranked {
		asc[len(ranked)-1-i] = float64(c.Score)
	}
	st.Mean = stat.Mean(asc, nil)
	if len(asc) > 1 {
		st.StdDev = stat.StdDev(asc, nil)
	}
	st.Median = stat.Quantile(0.5, stat.Empirical, asc, nil)
	return st
}
