package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-ml.dev/pkg/zorros/zlog"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/config"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/evaluate"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/export"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/pipeline"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/plot"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file")
	dataset := flag.String("dataset", "", "data subset FD001..FD004 (overrides config)")
	dataDir := flag.String("data", "", "telemetry directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("config", err)
	}
	if *dataset != "" {
		cfg.Dataset = *dataset
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if cfg.Dataset == "" {
		cfg.Dataset = promptDataset()
	}
	if !config.ValidDataset(cfg.Dataset) {
		fatal("config", fmt.Errorf("dataset `%v` is not one of FD001..FD004", cfg.Dataset))
	}

	trainStore := loadStore(filepath.Join(cfg.DataDir, "train_"+cfg.Dataset+".txt"))
	testStore := loadStore(filepath.Join(cfg.DataDir, "test_"+cfg.Dataset+".txt"))
	zlog.Infof("train: %d units / %d rows, test: %d units / %d rows",
		trainStore.Len(), trainStore.Rows(), testStore.Len(), testStore.Rows())

	rulPath, err := telemetry.ResolvePath(filepath.Join(cfg.DataDir, "RUL_"+cfg.Dataset+".txt"))
	if err != nil {
		fatal("load", err)
	}
	ruls, err := telemetry.LoadRUL(rulPath)
	if err != nil {
		fatal("load", err)
	}
	truth, err := testStore.TerminalLabels(ruls)
	if err != nil {
		fatal("load", err)
	}

	model, err := pipeline.Fit(trainStore, pipeline.Options{
		RULCap:             cfg.RULCap,
		TopFeatures:        cfg.TopFeatures,
		ValidationFraction: cfg.ValidationFraction,
		Seed:               cfg.Seed,
		DisableTuning:      cfg.TuneDisabled,
		Workers:            cfg.Workers,
	})
	if err != nil {
		fatal("train", err)
	}

	report, err := evaluate.Evaluate(model, testStore, truth)
	if err != nil {
		fatal("evaluate", err)
	}
	fmt.Println(report)

	if cfg.OutputDir == "" {
		cfg.OutputDir = fu.ArtifactPath(cfg.Dataset)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fatal("export", err)
	}
	resultsPath := filepath.Join(cfg.OutputDir, "results_"+cfg.Dataset+".csv")
	if err := export.WriteResultsCSV(resultsPath, report); err != nil {
		fatal("export", err)
	}
	importancePath := filepath.Join(cfg.OutputDir, "importance_"+cfg.Dataset+".csv")
	if err := export.WriteImportanceCSV(importancePath, model.Importance); err != nil {
		fatal("export", err)
	}
	zlog.Infof("wrote %v and %v", resultsPath, importancePath)

	if cfg.ResultsDB != "" {
		if err := export.WriteSQLite(cfg.ResultsDB, report, model.Importance); err != nil {
			fatal("export", err)
		}
		zlog.Infof("wrote %v", cfg.ResultsDB)
	}

	if cfg.Plots {
		charts := []struct {
			name string
			fn   func(string) error
		}{
			{"predicted_vs_true_" + cfg.Dataset + ".png",
				func(p string) error { return plot.PredictedVsTrue(p, report) }},
			{"importance_" + cfg.Dataset + ".png",
				func(p string) error { return plot.ImportanceBars(p, model.Importance, 15) }},
			{"trajectories_" + cfg.Dataset + ".png",
				func(p string) error { return plot.Trajectories(p, model, testStore, 10) }},
		}
		for _, c := range charts {
			p := filepath.Join(cfg.OutputDir, c.name)
			if err := c.fn(p); err != nil {
				fatal("plot", err)
			}
			zlog.Infof("wrote %v", p)
		}
	}
}

func loadStore(path string) *telemetry.Store {
	resolved, err := telemetry.ResolvePath(path)
	if err != nil {
		fatal("load", err)
	}
	records, err := telemetry.LoadRecords(resolved)
	if err != nil {
		fatal("load", err)
	}
	store, err := telemetry.NewStore(records)
	if err != nil {
		fatal("load", err)
	}
	return store
}

func promptDataset() string {
	fmt.Print("Select dataset [FD001-FD004]: ")
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		fatal("config", fmt.Errorf("no dataset selected"))
	}
	return strings.ToUpper(strings.TrimSpace(sc.Text()))
}

func fatal(stage string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	os.Exit(1)
}
