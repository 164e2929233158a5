// Command config-convert copies a YAML configuration into a SQLite
// configuration database so the server can run from an editable backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skyasground/truenorth/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Check if YAML file exists
	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	if *dryRun {
		fmt.Println("DRY RUN - No changes will be made")
	}

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration...\n")
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	configData, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	// Remove existing SQLite file if force is specified
	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	// Create and populate the SQLite database
	fmt.Printf("Creating SQLite database...\n")
	if err := writeSQLiteConfig(*sqliteFile, configData); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing SQLite configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now run the server from it with: truenorth -config %s\n", *sqliteFile)
}

func writeSQLiteConfig(dbPath string, configData *config.ConfigData) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// SaveConfig creates the schema on first use
	sqliteProvider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create SQLite provider: %w", err)
	}
	defer sqliteProvider.Close()

	fmt.Printf("  Inserting HTTP, logging and scanner configuration...\n")
	if err := sqliteProvider.SaveConfig(configData); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("  Configuration successfully inserted into database\n")
	return nil
}

func printConfigSummary(configData *config.ConfigData) {
	fmt.Println("\nConfiguration Summary:")

	fmt.Printf("HTTP:\n")
	addr := configData.HTTP.ListenAddr
	if addr == "" {
		addr = config.DefaultListenAddr
	}
	port := configData.HTTP.Port
	if port == 0 {
		port = config.DefaultHTTPPort
	}
	fmt.Printf("  - Listen: %s:%d\n", addr, port)
	if configData.HTTP.TLSCertPath != "" {
		fmt.Printf("  - TLS: %s / %s\n", configData.HTTP.TLSCertPath, configData.HTTP.TLSKeyPath)
	}

	fmt.Printf("\nLogging:\n")
	fmt.Printf("  - Debug: %v\n", configData.Logging.Debug)
	if configData.Logging.File != "" {
		fmt.Printf("  - File: %s\n", configData.Logging.File)
	}

	fmt.Printf("\nScanner:\n")
	fmt.Printf("  - Workers: %d\n", configData.Scanner.Workers)
	fmt.Printf("  - Max window hours: %v\n", configData.Scanner.MaxWindowHours)
	fmt.Printf("  - Max step minutes: %v\n", configData.Scanner.MaxStepMinutes)
	fmt.Printf("  - Max events: %d\n", configData.Scanner.MaxEvents)
}
