package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `http:
  listen-addr: 127.0.0.1
  port: 9090
  tls-cert: /etc/ssl/truenorth.pem
  tls-key: /etc/ssl/truenorth.key

logging:
  debug: true
  file: /var/log/truenorth.log

scanner:
  workers: 4
  max-window-hours: 6.0
  max-step-minutes: 30
  max-events: 25
`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "truenorth.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeConfigFile(t, sampleYAML))

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.HTTP.ListenAddr != "127.0.0.1" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1", cfg.HTTP.ListenAddr)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.HTTP.TLSCertPath != "/etc/ssl/truenorth.pem" || cfg.HTTP.TLSKeyPath != "/etc/ssl/truenorth.key" {
		t.Errorf("TLS paths = %q/%q", cfg.HTTP.TLSCertPath, cfg.HTTP.TLSKeyPath)
	}
	if !cfg.Logging.Debug {
		t.Error("Logging.Debug = false, want true")
	}
	if cfg.Logging.File != "/var/log/truenorth.log" {
		t.Errorf("Logging.File = %q", cfg.Logging.File)
	}
	if cfg.Scanner.Workers != 4 {
		t.Errorf("Scanner.Workers = %d, want 4", cfg.Scanner.Workers)
	}
	if cfg.Scanner.MaxWindowHours != 6.0 {
		t.Errorf("Scanner.MaxWindowHours = %v, want 6", cfg.Scanner.MaxWindowHours)
	}
	if cfg.Scanner.MaxStepMinutes != 30 {
		t.Errorf("Scanner.MaxStepMinutes = %v, want 30", cfg.Scanner.MaxStepMinutes)
	}
	if cfg.Scanner.MaxEvents != 25 {
		t.Errorf("Scanner.MaxEvents = %d, want 25", cfg.Scanner.MaxEvents)
	}
}

func TestYAMLProviderSectionGetters(t *testing.T) {
	// Getters load lazily without an explicit LoadConfig call.
	provider := NewYAMLProvider(writeConfigFile(t, sampleYAML))

	httpCfg, err := provider.GetHTTPConfig()
	if err != nil {
		t.Fatalf("GetHTTPConfig: %v", err)
	}
	if httpCfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", httpCfg.Port)
	}

	scannerCfg, err := provider.GetScannerConfig()
	if err != nil {
		t.Fatalf("GetScannerConfig: %v", err)
	}
	if scannerCfg.MaxEvents != 25 {
		t.Errorf("MaxEvents = %d, want 25", scannerCfg.MaxEvents)
	}

	loggingCfg, err := provider.GetLoggingConfig()
	if err != nil {
		t.Fatalf("GetLoggingConfig: %v", err)
	}
	if !loggingCfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestYAMLProviderEmptyFile(t *testing.T) {
	// An empty file is a valid configuration: everything defaults.
	provider := NewYAMLProvider(writeConfigFile(t, ""))

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Port != 0 || cfg.Scanner.Workers != 0 {
		t.Errorf("empty file produced non-zero config: %+v", cfg)
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestYAMLProviderMalformedFile(t *testing.T) {
	provider := NewYAMLProvider(writeConfigFile(t, "http: [not: a: mapping"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestYAMLProviderIsReadOnly(t *testing.T) {
	if !NewYAMLProvider("x.yaml").IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestConfigDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ConfigData
		wantErr bool
	}{
		{"zero config", ConfigData{}, false},
		{"full config", ConfigData{
			HTTP:    HTTPData{ListenAddr: "0.0.0.0", Port: 8080, TLSCertPath: "c.pem", TLSKeyPath: "k.pem"},
			Scanner: ScannerData{Workers: 8, MaxWindowHours: 12, MaxStepMinutes: 60, MaxEvents: 50},
		}, false},
		{"negative port", ConfigData{HTTP: HTTPData{Port: -1}}, true},
		{"port too large", ConfigData{HTTP: HTTPData{Port: 70000}}, true},
		{"cert without key", ConfigData{HTTP: HTTPData{TLSCertPath: "c.pem"}}, true},
		{"key without cert", ConfigData{HTTP: HTTPData{TLSKeyPath: "k.pem"}}, true},
		{"negative workers", ConfigData{Scanner: ScannerData{Workers: -2}}, true},
		{"negative window", ConfigData{Scanner: ScannerData{MaxWindowHours: -1}}, true},
		{"negative step", ConfigData{Scanner: ScannerData{MaxStepMinutes: -0.5}}, true},
		{"negative events", ConfigData{Scanner: ScannerData{MaxEvents: -10}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestYAMLProviderRejectsInvalidConfig(t *testing.T) {
	provider := NewYAMLProvider(writeConfigFile(t, "http:\n  port: -4\n"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Fatal("expected validation error for negative port")
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truenorth.db")
	provider, err := NewSQLiteProvider(path)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer provider.Close()

	in := &ConfigData{
		HTTP:    HTTPData{ListenAddr: "127.0.0.1", Port: 9191},
		Logging: LoggingData{Debug: true, File: "/var/log/truenorth.log"},
		Scanner: ScannerData{Workers: 3, MaxWindowHours: 8, MaxStepMinutes: 15, MaxEvents: 40},
	}
	if err := provider.SaveConfig(in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	out, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *out != *in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}

	scannerCfg, err := provider.GetScannerConfig()
	if err != nil {
		t.Fatalf("GetScannerConfig: %v", err)
	}
	if scannerCfg.MaxStepMinutes != 15 {
		t.Errorf("MaxStepMinutes = %v, want 15", scannerCfg.MaxStepMinutes)
	}

	if provider.IsReadOnly() {
		t.Error("SQLite provider should not be read-only")
	}
}

func TestSQLiteProviderOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truenorth.db")
	provider, err := NewSQLiteProvider(path)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer provider.Close()

	if err := provider.SaveConfig(&ConfigData{HTTP: HTTPData{Port: 8001}}); err != nil {
		t.Fatalf("first SaveConfig: %v", err)
	}
	if err := provider.SaveConfig(&ConfigData{HTTP: HTTPData{Port: 8002}}); err != nil {
		t.Fatalf("second SaveConfig: %v", err)
	}

	out, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out.HTTP.Port != 8002 {
		t.Errorf("Port = %d, want the overwritten 8002", out.HTTP.Port)
	}
}

func TestSQLiteProviderEmptyDatabase(t *testing.T) {
	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer provider.Close()

	if _, err := provider.LoadConfig(); err == nil {
		t.Fatal("expected error loading from an empty database")
	}
}

func TestSQLiteProviderRejectsInvalidConfig(t *testing.T) {
	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "bad.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer provider.Close()

	if err := provider.SaveConfig(&ConfigData{Scanner: ScannerData{Workers: -1}}); err == nil {
		t.Fatal("expected validation error for negative workers")
	}
}
