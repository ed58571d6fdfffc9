/*
Package config loads the run configuration from a YAML file with
environment overrides and validated defaults.
*/
package config

import (
	"os"
	"strconv"

	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir            string  `yaml:"data_dir"`
	Dataset            string  `yaml:"dataset"` // FD001..FD004, prompted for when empty
	RULCap             int     `yaml:"rul_cap"`
	TopFeatures        int     `yaml:"top_features"`
	ValidationFraction float64 `yaml:"validation_fraction"`
	Seed               int64   `yaml:"seed"`
	TuneDisabled       bool    `yaml:"tune_disabled"`
	Workers            int     `yaml:"workers"`
	OutputDir          string  `yaml:"output_dir"`
	ResultsDB          string  `yaml:"results_db"` // optional sqlite sink
	Plots              bool    `yaml:"plots"`
}

/*
Load reads path when it exists, applies RULPRED_* environment overrides
and fills defaults. Validation failures are errors, not corrections.
*/
func Load(path string) (Config, error) {
	var cfg Config
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, zorros.Wrapf(err, "parse %v: %v", path, err.Error())
		}
		zlog.Infof("loaded config from %v", path)
	}

	envOverride(&cfg.DataDir, "RULPRED_DATA_DIR")
	envOverride(&cfg.Dataset, "RULPRED_DATASET")
	envOverrideInt(&cfg.RULCap, "RULPRED_RUL_CAP")
	envOverrideInt(&cfg.TopFeatures, "RULPRED_TOP_FEATURES")
	envOverride(&cfg.OutputDir, "RULPRED_OUTPUT_DIR")
	envOverride(&cfg.ResultsDB, "RULPRED_RESULTS_DB")

	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.RULCap == 0 {
		cfg.RULCap = 125
	}
	if cfg.TopFeatures == 0 {
		cfg.TopFeatures = 25
	}
	if cfg.ValidationFraction == 0 {
		cfg.ValidationFraction = 0.2
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	if cfg.ValidationFraction <= 0 || cfg.ValidationFraction >= 1 {
		return cfg, zorros.Errorf("validation_fraction %v not in (0,1)", cfg.ValidationFraction)
	}
	if cfg.TopFeatures < 1 {
		return cfg, zorros.Errorf("top_features %d < 1", cfg.TopFeatures)
	}
	if cfg.RULCap < -1 {
		return cfg, zorros.Errorf("rul_cap %d < -1", cfg.RULCap)
	}
	if cfg.Dataset != "" && !ValidDataset(cfg.Dataset) {
		return cfg, zorros.Errorf("dataset `%v` is not one of FD001..FD004", cfg.Dataset)
	}
	return cfg, nil
}

// ValidDataset reports whether s names one of the four data subsets
func ValidDataset(s string) bool {
	switch s {
	case "FD001", "FD002", "FD003", "FD004":
		return true
	}
	return false
}

func envOverride(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

func envOverrideInt(field *int, key string) {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			zlog.Warningf("ignoring %v=%v: %v", key, v, err.Error())
			return
		}
		*field = parsed
	}
}
