// Command structured-extract extracts a typed JSON value from a prompt
// using a declarative type table.
//
// Usage:
//
//	structured-extract -types types.yaml -prompt "The capital of France" \
//	    -provider openai -model gpt-4o
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/deepnoodle-ai/structured"
	"github.com/deepnoodle-ai/structured/llm"
	"github.com/deepnoodle-ai/structured/llm/providers/google"
	"github.com/deepnoodle-ai/structured/llm/providers/openai"
	"github.com/deepnoodle-ai/structured/slogger"
	"github.com/deepnoodle-ai/structured/typeconf"
	"github.com/fatih/color"
)

func main() {
	var typesPath, prompt, providerName, modelName, logLevel string
	var timeout time.Duration
	flag.StringVar(&typesPath, "types", "", "path to a YAML or JSON type table")
	flag.StringVar(&prompt, "prompt", "", "prompt describing the value to extract")
	flag.StringVar(&providerName, "provider", "openai", "provider to use (openai or google)")
	flag.StringVar(&modelName, "model", "", "model to use")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "request timeout")
	flag.Parse()

	if typesPath == "" || prompt == "" {
		fmt.Fprintln(os.Stderr, "both -types and -prompt are required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	def, err := typeconf.ParseFile(typesPath)
	if err != nil {
		log.Fatalf("error loading type table: %v", err)
	}
	set, err := def.Build()
	if err != nil {
		log.Fatalf("error building type table: %v", err)
	}
	root := set.Root()
	if root == nil {
		log.Fatalf("type table %s declares no Root type", typesPath)
	}

	var provider llm.Provider
	switch providerName {
	case "openai":
		provider = openai.New()
	case "google":
		provider = google.New()
	default:
		log.Fatalf("unknown provider: %s", providerName)
	}

	extractor, err := structured.NewExtractor(structured.ExtractorOptions{
		Provider: provider,
		Logger:   slogger.New(slogger.LevelFromString(logLevel)),
	})
	if err != nil {
		log.Fatal(err)
	}

	var opts []llm.Option
	if modelName != "" {
		opts = append(opts, llm.WithModel(modelName))
	}

	value, err := extractor.Extract(ctx, root, prompt, opts...)
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}

	output, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "%s\n", root.Name())
	fmt.Println(string(output))
}
