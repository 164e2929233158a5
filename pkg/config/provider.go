// Package config supplies service configuration from pluggable backends.
// Two backends implement ConfigProvider: YAML files and SQLite databases,
// the latter convertible from the former with the config-convert tool.
// Validation happens at load time; a malformed configuration is fatal to
// the caller, since every component depends on it.
package config

import "fmt"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetHTTPConfig() (*HTTPData, error)
	GetLoggingConfig() (*LoggingData, error)
	GetScannerConfig() (*ScannerData, error)

	// IsReadOnly reports whether the backend can persist changes
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	HTTP    HTTPData    `json:"http"`
	Logging LoggingData `json:"logging,omitempty"`
	Scanner ScannerData `json:"scanner,omitempty"`
}

// HTTPData holds configuration for the REST API listener
type HTTPData struct {
	ListenAddr  string `json:"listen_addr,omitempty"`
	Port        int    `json:"port,omitempty"`
	TLSCertPath string `json:"tls_cert_path,omitempty"`
	TLSKeyPath  string `json:"tls_key_path,omitempty"`
}

// LoggingData holds logging configuration
type LoggingData struct {
	Debug bool   `json:"debug,omitempty"`
	File  string `json:"file,omitempty"`
}

// ScannerData holds the rectification scanner limits. Zero values mean
// "not set" and are defaulted by the consumers at startup.
type ScannerData struct {
	Workers        int     `json:"workers,omitempty"`
	MaxWindowHours float64 `json:"max_window_hours,omitempty"`
	MaxStepMinutes float64 `json:"max_step_minutes,omitempty"`
	MaxEvents      int     `json:"max_events,omitempty"`
}

// Defaults applied by consumers where a value is unset.
const (
	DefaultListenAddr     = "0.0.0.0"
	DefaultHTTPPort       = 8080
	DefaultMaxWindowHours = 12.0
	DefaultMaxStepMinutes = 120.0
	DefaultMaxEvents      = 100
)

// Validate checks a loaded configuration for values no deployment can
// run with. Zero values pass: they mean "use the default".
func (c *ConfigData) Validate() error {
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d outside 0..65535", c.HTTP.Port)
	}
	if (c.HTTP.TLSCertPath == "") != (c.HTTP.TLSKeyPath == "") {
		return fmt.Errorf("http TLS needs both a certificate and a key, got cert=%q key=%q",
			c.HTTP.TLSCertPath, c.HTTP.TLSKeyPath)
	}
	if c.Scanner.Workers < 0 {
		return fmt.Errorf("scanner.workers %d is negative", c.Scanner.Workers)
	}
	if c.Scanner.MaxWindowHours < 0 {
		return fmt.Errorf("scanner.max_window_hours %v is negative", c.Scanner.MaxWindowHours)
	}
	if c.Scanner.MaxStepMinutes < 0 {
		return fmt.Errorf("scanner.max_step_minutes %v is negative", c.Scanner.MaxStepMinutes)
	}
	if c.Scanner.MaxEvents < 0 {
		return fmt.Errorf("scanner.max_events %d is negative", c.Scanner.MaxEvents)
	}
	return nil
}
