// Command truenorth runs the chart and rectification service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skyasground/truenorth/internal/app"
	"github.com/skyasground/truenorth/internal/constants"
	"github.com/skyasground/truenorth/internal/log"
	"github.com/skyasground/truenorth/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "truenorth.yaml", "Path to configuration source:\n\t\t\t  YAML: truenorth.yaml\n\t\t\t  SQLite: truenorth.db\n\t\t\t  The backend is inferred from the extension.\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("truenorth %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Open the configuration backend
	provider, err := openConfig(*cfgFile)
	if err != nil {
		log.Errorf("Failed to open configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		log.Errorf("Error reading config file. Did you pass the -config flag? Run with -h for help: %v", err)
		os.Exit(1)
	}

	// Reconfigure logging per the loaded configuration. The -debug flag
	// always wins over the configured level.
	if cfgData.Logging.File != "" {
		if err := log.InitFile(*debug || cfgData.Logging.Debug, cfgData.Logging.File); err != nil {
			log.Errorf("Failed to initialize file logging: %v", err)
			os.Exit(1)
		}
	} else if cfgData.Logging.Debug && !*debug {
		if err := log.Init(true); err != nil {
			log.Errorf("Failed to reinitialize logger: %v", err)
			os.Exit(1)
		}
	}

	// Create and run the application
	application := app.New(provider, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func openConfig(cfgFile string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return config.NewYAMLProvider(filename), nil
	case ".db", ".sqlite":
		provider, err := config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("cannot infer configuration backend from %q: use .yaml/.yml or .db/.sqlite", filepath.Base(filename))
	}
}
