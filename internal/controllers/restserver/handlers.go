package restserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skyasground/truenorth/internal/constants"
	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/rectify"
	"github.com/skyasground/truenorth/pkg/responseformat"
)

// Handlers contains the HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetHealth reports service liveness, version and uptime
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   constants.Version,
		StartedAt: h.controller.started,
		Uptime:    time.Since(h.controller.started).Round(time.Second).String(),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.controller.logger.Errorf("error writing health response: %v", err)
	}
}

// CreateChart computes a full natal chart for the posted birth data
func (h *Handlers) CreateChart(w http.ResponseWriter, req *http.Request) {
	var cr ChartRequest
	if err := json.NewDecoder(req.Body).Decode(&cr); err != nil {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ch, ok := h.buildChart(w, req, cr)
	if !ok {
		return
	}

	resp := ChartResponse{Chart: ch}
	if pos, found := ch.PeriodAt(time.Now().UTC()); found {
		resp.Current = &pos
	}

	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.controller.logger.Errorf("error writing chart response: %v", err)
	}
}

// CreateChartReport renders the chart as a plain-text report
func (h *Handlers) CreateChartReport(w http.ResponseWriter, req *http.Request) {
	var cr ChartRequest
	if err := json.NewDecoder(req.Body).Decode(&cr); err != nil {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ch, ok := h.buildChart(w, req, cr)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, chart.Report(ch, time.Now().UTC())); err != nil {
		h.controller.logger.Errorf("error writing chart report: %v", err)
	}
}

// CreateTimeline returns the full major-period table for a chart and
// resolves the position at the requested instant (or now). An instant
// past the end of the cycle is not an error: the response says so with
// found=false.
func (h *Handlers) CreateTimeline(w http.ResponseWriter, req *http.Request) {
	var tr TimelineRequest
	if err := json.NewDecoder(req.Body).Decode(&tr); err != nil {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	at := time.Now().UTC()
	if tr.At != "" {
		parsed, err := parseAt(tr.At)
		if err != nil {
			h.writeError(w, req, http.StatusBadRequest, err.Error())
			return
		}
		at = parsed
	}

	ch, ok := h.buildChart(w, req, tr.ChartRequest)
	if !ok {
		return
	}
	if ch.Timeline == nil {
		// Without a Moon position there is no timeline at all.
		h.writeError(w, req, http.StatusInternalServerError,
			fmt.Sprintf("timeline unavailable: %s", ch.Omitted[ephemeris.Moon]))
		return
	}

	resp := TimelineResponse{
		Reference:     ch.Timeline.Reference,
		MoonLongitude: ch.Timeline.MoonLongitude,
		Periods:       ch.Timeline.Periods,
		At:            at,
	}
	if pos, found := ch.Timeline.At(at); found {
		resp.Found = true
		resp.Position = &pos
		resp.SubPeriods = ch.Timeline.SubPeriods(pos.Period)
	}

	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.controller.logger.Errorf("error writing timeline response: %v", err)
	}
}

// CreateRectification runs a birth-time scan, bounded by the configured
// scanner limits. The request context cancels the scan when the client
// goes away.
func (h *Handlers) CreateRectification(w http.ResponseWriter, req *http.Request) {
	var rr RectifyRequest
	if err := json.NewDecoder(req.Body).Decode(&rr); err != nil {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	approx, err := parseInstant(rr.Date, rr.Time)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateLocation(rr.Latitude, rr.Longitude); err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	windowHours := rr.WindowHours
	if windowHours == 0 {
		windowHours = 2
	}
	stepMinutes := rr.StepMinutes
	if stepMinutes == 0 {
		stepMinutes = 10
	}

	limits := h.controller.scannerConfig
	switch {
	case windowHours < 0:
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("window_hours %v must be positive", windowHours))
		return
	case windowHours > limits.MaxWindowHours:
		h.writeError(w, req, http.StatusBadRequest,
			fmt.Sprintf("window_hours %v exceeds the configured maximum %v", windowHours, limits.MaxWindowHours))
		return
	case stepMinutes < 0:
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("step_minutes %v must be positive", stepMinutes))
		return
	case stepMinutes > limits.MaxStepMinutes:
		h.writeError(w, req, http.StatusBadRequest,
			fmt.Sprintf("step_minutes %v exceeds the configured maximum %v", stepMinutes, limits.MaxStepMinutes))
		return
	case len(rr.Events) > limits.MaxEvents:
		h.writeError(w, req, http.StatusBadRequest,
			fmt.Sprintf("%d events exceed the configured maximum %d", len(rr.Events), limits.MaxEvents))
		return
	}

	events, preRejected := convertEvents(rr.Events)

	res, err := h.controller.engine.Scanner.Scan(req.Context(), rectify.Request{
		Approx:    approx,
		Window:    time.Duration(windowHours * float64(time.Hour)),
		Step:      time.Duration(stepMinutes * float64(time.Minute)),
		Latitude:  rr.Latitude,
		Longitude: rr.Longitude,
		Events:    events,
	})
	if err != nil {
		if req.Context().Err() != nil {
			h.controller.logger.Debugf("rectification scan abandoned by client: %v", err)
			return
		}
		h.controller.logger.Errorf("rectification scan failed: %v", err)
		h.writeError(w, req, http.StatusInternalServerError, "rectification scan failed")
		return
	}

	if len(preRejected) > 0 {
		res.Rejected = append(preRejected, res.Rejected...)
	}

	if err := h.formatter.WriteResponse(w, req, res, nil); err != nil {
		h.controller.logger.Errorf("error writing rectification response: %v", err)
	}
}

// buildChart parses and validates the posted birth data and computes its
// chart, writing the HTTP error itself when anything fails.
func (h *Handlers) buildChart(w http.ResponseWriter, req *http.Request, cr ChartRequest) (*chart.Chart, bool) {
	instant, err := parseInstant(cr.Date, cr.Time)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err := validateLocation(cr.Latitude, cr.Longitude); err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ch, err := h.controller.engine.Builder.Build(instant, cr.Latitude, cr.Longitude)
	if err != nil {
		h.controller.logger.Errorf("chart build failed: %v", err)
		h.writeError(w, req, http.StatusInternalServerError, "chart computation failed")
		return nil, false
	}
	return ch, true
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, message string) {
	if err := h.formatter.WriteError(w, req, status, message); err != nil {
		h.controller.logger.Errorf("error writing error response: %v", err)
	}
}

// convertEvents parses posted events into scanner events. An event whose
// date cannot be parsed is rejected here, since the scanner only sees
// time.Time values; the remainder proceed.
func convertEvents(inputs []EventInput) ([]rectify.Event, []rectify.RejectedEvent) {
	var events []rectify.Event
	var rejected []rectify.RejectedEvent
	for _, in := range inputs {
		ev := rectify.Event{Type: in.Type, Description: in.Description, Intensity: in.Intensity}
		date, err := parseEventDate(in.Date)
		if err != nil {
			rejected = append(rejected, rectify.RejectedEvent{Event: ev, Reason: err.Error()})
			continue
		}
		ev.Date = date
		events = append(events, ev)
	}
	return events, rejected
}

// parseInstant combines the date and time-of-day fields, both UTC. An
// empty time means noon, the conventional stand-in for an unknown birth
// time.
func parseInstant(dateStr, timeStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if timeStr == "" {
		timeStr = "12:00:00"
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, dateStr+" "+timeStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q %q as a UTC date and time", dateStr, timeStr)
}

// parseAt accepts an RFC 3339 timestamp or a bare date.
func parseAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as RFC 3339 or YYYY-MM-DD", s)
}

func parseEventDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("event date is missing")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse event date %q", s)
}

func validateLocation(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v outside -90..90", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v outside -180..180", lon)
	}
	return nil
}
