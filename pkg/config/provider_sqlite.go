package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the SQLite database.
// The database is the source of truth, so this rereads on every call
// rather than caching.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	query := `
		SELECT http_listen_addr, http_port, http_tls_cert, http_tls_key,
		       log_debug, log_file,
		       scanner_workers, scanner_max_window_hours,
		       scanner_max_step_minutes, scanner_max_events
		FROM configs
		WHERE name = 'default'
	`

	var listenAddr, tlsCert, tlsKey, logFile sql.NullString
	var port, workers, maxEvents sql.NullInt64
	var maxWindowHours, maxStepMinutes sql.NullFloat64
	var logDebug bool

	err := s.db.QueryRow(query).Scan(
		&listenAddr, &port, &tlsCert, &tlsKey,
		&logDebug, &logFile,
		&workers, &maxWindowHours, &maxStepMinutes, &maxEvents,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no 'default' configuration in %s; populate it with config-convert", s.dbPath)
		}
		return nil, fmt.Errorf("failed to query configuration: %w", err)
	}

	config := &ConfigData{}

	// Convert nullable fields, leaving zero values where NULL
	if listenAddr.Valid {
		config.HTTP.ListenAddr = listenAddr.String
	}
	if port.Valid {
		config.HTTP.Port = int(port.Int64)
	}
	if tlsCert.Valid {
		config.HTTP.TLSCertPath = tlsCert.String
	}
	if tlsKey.Valid {
		config.HTTP.TLSKeyPath = tlsKey.String
	}

	config.Logging.Debug = logDebug
	if logFile.Valid {
		config.Logging.File = logFile.String
	}

	if workers.Valid {
		config.Scanner.Workers = int(workers.Int64)
	}
	if maxWindowHours.Valid {
		config.Scanner.MaxWindowHours = maxWindowHours.Float64
	}
	if maxStepMinutes.Valid {
		config.Scanner.MaxStepMinutes = maxStepMinutes.Float64
	}
	if maxEvents.Valid {
		config.Scanner.MaxEvents = int(maxEvents.Int64)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// GetHTTPConfig returns the HTTP listener configuration
func (s *SQLiteProvider) GetHTTPConfig() (*HTTPData, error) {
	config, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.HTTP, nil
}

// GetLoggingConfig returns the logging configuration
func (s *SQLiteProvider) GetLoggingConfig() (*LoggingData, error) {
	config, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Logging, nil
}

// GetScannerConfig returns the rectification scanner limits
func (s *SQLiteProvider) GetScannerConfig() (*ScannerData, error) {
	config, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Scanner, nil
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig writes the configuration into the database, creating the
// schema on first use. This is what config-convert calls.
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	if err := configData.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureSchema(tx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	query := `
		INSERT INTO configs (
			name, http_listen_addr, http_port, http_tls_cert, http_tls_key,
			log_debug, log_file,
			scanner_workers, scanner_max_window_hours,
			scanner_max_step_minutes, scanner_max_events,
			updated_at
		) VALUES ('default', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET
			http_listen_addr = excluded.http_listen_addr,
			http_port = excluded.http_port,
			http_tls_cert = excluded.http_tls_cert,
			http_tls_key = excluded.http_tls_key,
			log_debug = excluded.log_debug,
			log_file = excluded.log_file,
			scanner_workers = excluded.scanner_workers,
			scanner_max_window_hours = excluded.scanner_max_window_hours,
			scanner_max_step_minutes = excluded.scanner_max_step_minutes,
			scanner_max_events = excluded.scanner_max_events,
			updated_at = datetime('now')
	`

	_, err = tx.Exec(query,
		nullString(configData.HTTP.ListenAddr),
		nullInt(configData.HTTP.Port),
		nullString(configData.HTTP.TLSCertPath),
		nullString(configData.HTTP.TLSKeyPath),
		configData.Logging.Debug,
		nullString(configData.Logging.File),
		nullInt(configData.Scanner.Workers),
		nullFloat64(configData.Scanner.MaxWindowHours),
		nullFloat64(configData.Scanner.MaxStepMinutes),
		nullInt(configData.Scanner.MaxEvents),
	)
	if err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	return tx.Commit()
}

func ensureSchema(tx *sql.Tx) error {
	schema := `
		CREATE TABLE IF NOT EXISTS configs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			http_listen_addr TEXT,
			http_port INTEGER,
			http_tls_cert TEXT,
			http_tls_key TEXT,
			log_debug INTEGER NOT NULL DEFAULT 0,
			log_file TEXT,
			scanner_workers INTEGER,
			scanner_max_window_hours REAL,
			scanner_max_step_minutes REAL,
			scanner_max_events INTEGER,
			updated_at TEXT
		)
	`
	_, err := tx.Exec(schema)
	return err
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func nullFloat64(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
