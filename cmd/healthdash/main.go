package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cli/browser"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/loud-whisper/Health-Dashboard/config"
	"github.com/loud-whisper/Health-Dashboard/pipeline"
	"github.com/loud-whisper/Health-Dashboard/server"
)

func main() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "healthdash.toml", "Path to TOML config file")
		outDir     = flag.String("out", "", "Output directory (overrides config)")
		format     = flag.String("format", "", "Merged daily format: parquet|csv (overrides config)")
		maDays     = flag.Int("ma", 0, "Moving average window in days (overrides config)")
		serve      = flag.Bool("serve", false, "Serve the dashboard after ingesting")
		port       = flag.Int("port", 0, "Server port (overrides config)")
		summary    = flag.Bool("summary", false, "Print the trend summary to stdout")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] export1.csv export2.csv ...\n\nFiles are processed in argument order; later files win merge conflicts.\n\n",
			filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthdash: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *maDays > 0 {
		cfg.MovingAvgDays = *maDays
	}
	if *port > 0 {
		cfg.Port = *port
	}
	setupLogging(cfg.LogLevel)

	result, err := pipeline.Run(pipeline.Options{
		Inputs:        inputs,
		OutDir:        cfg.OutDir,
		Format:        cfg.Format,
		MovingAvgDays: cfg.MovingAvgDays,
		Overwrite:     true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthdash failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("healthdash complete\n")
	fmt.Printf("Output dir:     %s\n", result.OutputDir)
	fmt.Printf("charts:         %s\n", result.ChartsPath)
	fmt.Printf("merged daily:   %s\n", result.MergedDailyPath)
	fmt.Printf("dataset:        %s\n", result.DatasetPath)
	fmt.Printf("ingest report:  %s\n", result.ReportPath)
	for _, w := range result.Warnings {
		fmt.Printf("warning:        %s\n", w)
	}
	if *summary {
		fmt.Printf("\n%s\n", result.Overview.Notes)
	}

	if !*serve {
		return
	}

	srv := server.New(cfg.MovingAvgDays)
	srv.SetSnapshot(&server.Snapshot{
		Dataset:  result.Dataset,
		Overview: result.Overview,
		Report:   result.Report,
		Warnings: result.Warnings,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	if cfg.OpenBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.WithError(err).Warn("could not open browser")
		}
	}
	fmt.Printf("\nServing dashboard at %s (Ctrl-C to stop)\n", url)

	if err := srv.ListenAndServe(ctx, cfg.Port); err != nil {
		fmt.Fprintf(os.Stderr, "healthdash server failed: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
