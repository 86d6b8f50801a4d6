// Command twominute-build prepares the data files for the two-minute
// timeline animation.
//
// Usage:
//
//	go run ./cmd/twominute-build -config twominute.yaml
//
// Paths and settings may also come from TMO_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/necrop/twominuteoed-build/internal/app"
	"github.com/necrop/twominuteoed-build/internal/config"
	"github.com/necrop/twominuteoed-build/internal/log"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration (default: environment only)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("twominute-build %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(*debug || cfg.Log.Debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Preparing timeline data...")
	if err := app.New(cfg, log.GetSugaredLogger()).Run(context.Background()); err != nil {
		log.Errorf("Preparation failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
	log.Infof("Data written to %s", cfg.Paths.OutDir)
}
