package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/typeinfer/pkg/config"
)

// ExampleDefault shows the defaults the classifier runs with.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Sample Size: %d\n", cfg.Inference.SampleSize)
	fmt.Printf("Match Ratio: %.2f\n", cfg.Inference.MatchRatio)
	fmt.Printf("Delimiters: %q\n", cfg.Loader.Delimiters)

	// Output:
	// Sample Size: 100
	// Match Ratio: 0.80
	// Delimiters: ["," ";"]
}

// ExampleConfig_Validate shows how to validate a configuration
// before using it.
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Inference.SampleSize = 500
	cfg.Export.Compression = "zstd"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid!")

	// Output:
	// Configuration is valid!
}
