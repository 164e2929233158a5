// Package restserver exposes the chart builder, timeline calculator and
// rectification scanner over an HTTP API.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/skyasground/truenorth/internal/log"
	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/config"
	"github.com/skyasground/truenorth/pkg/rectify"
	"github.com/skyasground/truenorth/pkg/zodiac"
	"go.uber.org/zap"
)

// Engine bundles the computation services the REST API exposes.
type Engine struct {
	Zodiac  *zodiac.Zodiac
	Builder *chart.Builder
	Scanner *rectify.Scanner
}

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	httpConfig     config.HTTPData
	scannerConfig  config.ScannerData
	Server         http.Server
	engine         Engine
	logger         *zap.SugaredLogger
	handlers       *Handlers
	started        time.Time
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, hc config.HTTPData, engine Engine, logger *zap.SugaredLogger) (*Controller, error) {
	if engine.Zodiac == nil || engine.Builder == nil || engine.Scanner == nil {
		return nil, fmt.Errorf("REST server requires a fully populated engine")
	}

	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		httpConfig:     hc,
		engine:         engine,
		logger:         logger,
		started:        time.Now(),
	}

	// Load the scanner limits that bound rectification requests
	scannerCfg, err := configProvider.GetScannerConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading scanner configuration: %v", err)
	}
	ctrl.scannerConfig = *scannerCfg

	if ctrl.scannerConfig.MaxWindowHours == 0 {
		logger.Infof("scanner.max_window_hours not provided; defaulting to %v", config.DefaultMaxWindowHours)
		ctrl.scannerConfig.MaxWindowHours = config.DefaultMaxWindowHours
	}
	if ctrl.scannerConfig.MaxStepMinutes == 0 {
		logger.Infof("scanner.max_step_minutes not provided; defaulting to %v", config.DefaultMaxStepMinutes)
		ctrl.scannerConfig.MaxStepMinutes = config.DefaultMaxStepMinutes
	}
	if ctrl.scannerConfig.MaxEvents == 0 {
		logger.Infof("scanner.max_events not provided; defaulting to %d", config.DefaultMaxEvents)
		ctrl.scannerConfig.MaxEvents = config.DefaultMaxEvents
	}

	// If a listen address was not provided, listen on all interfaces
	if ctrl.httpConfig.ListenAddr == "" {
		logger.Info("http.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.httpConfig.ListenAddr = config.DefaultListenAddr
	}

	// Set default HTTP port if not specified
	if ctrl.httpConfig.Port == 0 {
		logger.Infof("http.port not provided; defaulting to %d", config.DefaultHTTPPort)
		ctrl.httpConfig.Port = config.DefaultHTTPPort
	}

	// Create handlers
	ctrl.handlers = NewHandlers(ctrl)

	// Set up router. No write timeout on the server: rectification scans
	// are allowed to run longer than any fixed deadline and are bounded
	// by the request context instead.
	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.httpConfig.ListenAddr, ctrl.httpConfig.Port)
	ctrl.Server.Handler = router
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.httpConfig.TLSCertPath != "" && c.httpConfig.TLSKeyPath != "" {
			if err := c.Server.ListenAndServeTLS(c.httpConfig.TLSCertPath, c.httpConfig.TLSKeyPath); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.loggingMiddleware)

	router.HandleFunc("/api/health", c.handlers.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/chart", c.handlers.CreateChart).Methods(http.MethodPost)
	router.HandleFunc("/api/chart/report", c.handlers.CreateChartReport).Methods(http.MethodPost)
	router.HandleFunc("/api/timeline", c.handlers.CreateTimeline).Methods(http.MethodPost)
	router.HandleFunc("/api/rectify", c.handlers.CreateRectification).Methods(http.MethodPost)

	return router
}

// loggingMiddleware logs every request along with its handling time
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		c.logger.Infof("%s %s %s %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}
