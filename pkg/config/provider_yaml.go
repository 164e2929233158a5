package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		HTTP    *HTTPYAML    `yaml:"http,omitempty"`
		Logging *LoggingYAML `yaml:"logging,omitempty"`
		Scanner *ScannerYAML `yaml:"scanner,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{}

	if yamlConfig.HTTP != nil {
		config.HTTP = HTTPData{
			ListenAddr:  yamlConfig.HTTP.ListenAddr,
			Port:        yamlConfig.HTTP.Port,
			TLSCertPath: yamlConfig.HTTP.TLSCertPath,
			TLSKeyPath:  yamlConfig.HTTP.TLSKeyPath,
		}
	}

	if yamlConfig.Logging != nil {
		config.Logging = LoggingData{
			Debug: yamlConfig.Logging.Debug,
			File:  yamlConfig.Logging.File,
		}
	}

	if yamlConfig.Scanner != nil {
		config.Scanner = ScannerData{
			Workers:        yamlConfig.Scanner.Workers,
			MaxWindowHours: yamlConfig.Scanner.MaxWindowHours,
			MaxStepMinutes: yamlConfig.Scanner.MaxStepMinutes,
			MaxEvents:      yamlConfig.Scanner.MaxEvents,
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// GetHTTPConfig returns the HTTP listener configuration
func (y *YAMLProvider) GetHTTPConfig() (*HTTPData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.HTTP, nil
}

// GetLoggingConfig returns the logging configuration
func (y *YAMLProvider) GetLoggingConfig() (*LoggingData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Logging, nil
}

// GetScannerConfig returns the rectification scanner limits
func (y *YAMLProvider) GetScannerConfig() (*ScannerData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Scanner, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type HTTPYAML struct {
	ListenAddr  string `yaml:"listen-addr,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	TLSCertPath string `yaml:"tls-cert,omitempty"`
	TLSKeyPath  string `yaml:"tls-key,omitempty"`
}

type LoggingYAML struct {
	Debug bool   `yaml:"debug,omitempty"`
	File  string `yaml:"file,omitempty"`
}

type ScannerYAML struct {
	Workers        int     `yaml:"workers,omitempty"`
	MaxWindowHours float64 `yaml:"max-window-hours,omitempty"`
	MaxStepMinutes float64 `yaml:"max-step-minutes,omitempty"`
	MaxEvents      int     `yaml:"max-events,omitempty"`
}
