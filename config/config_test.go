package config

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func Test_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NilError(t, err)
	assert.Equal(t, cfg.RULCap, 125)
	assert.Equal(t, cfg.TopFeatures, 25)
	assert.Equal(t, cfg.ValidationFraction, 0.2)
	assert.Equal(t, cfg.Seed, int64(42))
	assert.Equal(t, cfg.OutputDir, "")
	assert.Equal(t, cfg.Dataset, "")
	assert.Assert(t, !cfg.TuneDisabled)
}

func Test_LoadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "dataset: FD002\nrul_cap: 130\ntop_features: 15\ntune_disabled: true\n"
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o644))
	cfg, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Dataset, "FD002")
	assert.Equal(t, cfg.RULCap, 130)
	assert.Equal(t, cfg.TopFeatures, 15)
	assert.Assert(t, cfg.TuneDisabled)
}

func Test_EnvOverrides(t *testing.T) {
	t.Setenv("RULPRED_DATASET", "FD003")
	t.Setenv("RULPRED_TOP_FEATURES", "12")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Dataset, "FD003")
	assert.Equal(t, cfg.TopFeatures, 12)
}

func Test_Validation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("validation_fraction: 1.5\n"), 0o644))
	_, err := Load(path)
	assert.Assert(t, err != nil)

	assert.NilError(t, os.WriteFile(path, []byte("dataset: FD009\n"), 0o644))
	_, err = Load(path)
	assert.Assert(t, err != nil)
}

func Test_ValidDataset(t *testing.T) {
	assert.Assert(t, ValidDataset("FD001"))
	assert.Assert(t, ValidDataset("FD004"))
	assert.Assert(t, !ValidDataset("fd001"))
	assert.Assert(t, !ValidDataset(""))
}
