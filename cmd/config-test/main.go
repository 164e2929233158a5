// Command config-test loads the same configuration from a YAML file and a
// SQLite database and reports whether the two agree, section by section.
// Run it after config-convert to verify a conversion.
package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/skyasground/truenorth/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	// Compare configurations
	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	mismatches := 0
	mismatches += compareSection("HTTP", yamlConfig.HTTP, sqliteConfig.HTTP)
	mismatches += compareSection("Logging", yamlConfig.Logging, sqliteConfig.Logging)
	mismatches += compareSection("Scanner", yamlConfig.Scanner, sqliteConfig.Scanner)

	if mismatches > 0 {
		fmt.Printf("\n%d section(s) differ\n", mismatches)
		os.Exit(1)
	}
	fmt.Println("\nConfigurations match")
}

// compareSection prints a per-section verdict and returns 1 on mismatch.
func compareSection(name string, yamlSection, sqliteSection interface{}) int {
	if reflect.DeepEqual(yamlSection, sqliteSection) {
		fmt.Printf("✓ %s matches\n", name)
		return 0
	}
	fmt.Printf("✗ %s differs\n", name)
	fmt.Printf("    YAML:   %+v\n", yamlSection)
	fmt.Printf("    SQLite: %+v\n", sqliteSection)
	return 1
}
