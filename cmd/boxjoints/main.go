// BoxJoints: CNC Box Joint Generator
//
// A cross-platform desktop application that lays out box joint fingers
// and slots and exports CNC-ready G-code for each piece.
//
// Build:
//   go build -o boxjoints ./cmd/boxjoints
//
// Headless batch run (CSV or Excel joint list):
//   boxjoints -batch joints.csv -out ./programs -units imperial
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/BoxJoints/internal/engine"
	"github.com/piwi3910/BoxJoints/internal/importer"
	"github.com/piwi3910/BoxJoints/internal/model"
	"github.com/piwi3910/BoxJoints/internal/project"
	"github.com/piwi3910/BoxJoints/internal/ui"
)

func main() {
	batch := flag.String("batch", "", "generate programs for every joint in a CSV or Excel file and exit")
	out := flag.String("out", "", "output folder for batch programs (default: configured output folder)")
	units := flag.String("units", "", "units of the batch file: metric or imperial (default: configured units)")
	workers := flag.Int("workers", 0, "batch worker goroutines (default: one per CPU)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *batch != "" {
		if err := runBatch(logger, *batch, *out, *units, *workers); err != nil {
			logger.Error("batch failed", "err", err)
			os.Exit(1)
		}
		return
	}

	application := app.NewWithID("com.piwi3910.boxjoints")
	window := application.NewWindow("BoxJoints: CNC Box Joint Generator")

	appUI := ui.NewApp(application, window, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 820))
	window.CenterOnScreen()
	window.ShowAndRun()
}

// runBatch generates every joint in path without opening a window. Rows
// that fail are logged; the run fails only when no program was written.
func runBatch(logger *slog.Logger, path, outDir, unitName string, workers int) error {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("using default settings", "err", err)
		cfg = model.DefaultAppConfig()
	}

	units := cfg.Units
	switch unitName {
	case "":
	case string(model.UnitsMetric), string(model.UnitsImperial):
		units = model.Units(unitName)
	default:
		return fmt.Errorf("unknown units %q", unitName)
	}
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	outDir = project.ExpandPath(outDir)

	result := importer.ImportFile(path, importer.Options{Base: cfg.LastParameters, Units: units})
	for _, w := range result.Warnings {
		logger.Warn(w, "file", path)
	}
	for _, e := range result.Errors {
		logger.Error(e, "file", path)
	}
	if len(result.Jobs) == 0 {
		return fmt.Errorf("no joints read from %s", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := engine.RunBatch(ctx, result.Jobs, workers)
	paths, err := project.SaveBatch(outDir, results, units)
	if err != nil {
		return err
	}

	saved := 0
	for i, r := range results {
		if r.Err != nil {
			logger.Error("joint refused", "row", r.Job.Row, "name", r.Job.Name, "err", r.Err)
			continue
		}
		saved++
		logger.Info("program saved", "row", r.Job.Row, "name", r.Job.Name, "path", paths[i])
	}
	logger.Info("batch finished", "saved", saved, "jobs", len(results))
	if saved == 0 {
		return fmt.Errorf("no programs generated")
	}
	return nil
}
