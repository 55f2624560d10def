package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/amsterdam/internal/config"
)

func main() {
	// Create a config with defaults applied
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	output, err := render(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := "amsterdam.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		fmt.Print(output)
		return
	}

	if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example settings: %s\n", outputFile)
}

func render(cfg *config.Config) (string, error) {
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	header := "# Amsterdam settings example\n" +
		"# Copy this file to " + config.DefaultSettingsPath + " or point " + config.EnvSettingsPath + " at it.\n" +
		"# Credentials are not kept here, they live in the file named by env_file.\n\n"

	return header + string(yamlData), nil
}
