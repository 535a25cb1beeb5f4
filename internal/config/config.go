// Package config provides configuration loading and path utilities for the application.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRIAGE_TRAINING_SEED.
const EnvPrefix = "TRIAGE"

// Default configuration values.
const (
	DefaultTable    = "disaster_messages"
	DefaultTestSize = 0.25
	DefaultSeed     = 42
	DefaultFolds    = 5
)

// Settings holds the resolved configuration for a run.
type Settings struct {
	Table    string
	Training TrainingSettings
}

// TrainingSettings controls the train/test split and the grid search.
type TrainingSettings struct {
	TestSize float64
	Seed     uint64
	Folds    int
	Workers  int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.table", DefaultTable)
	v.SetDefault("training.test_size", DefaultTestSize)
	v.SetDefault("training.seed", DefaultSeed)
	v.SetDefault("training.folds", DefaultFolds)
	v.SetDefault("training.workers", runtime.NumCPU())
}

// BindEnv makes v resolve keys from TRIAGE_ environment variables, with the
// dots of nested keys replaced by underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads Settings from v and validates them.
// Precedence follows viper: flags, then TRIAGE_ env vars, then config file, then defaults.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	s := Settings{
		Table: v.GetString("database.table"),
		Training: TrainingSettings{
			TestSize: v.GetFloat64("training.test_size"),
			Seed:     v.GetUint64("training.seed"),
			Folds:    v.GetInt("training.folds"),
			Workers:  v.GetInt("training.workers"),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every setting is usable.
func (s Settings) Validate() error {
	if s.Table == "" {
		return fmt.Errorf("%w: database.table must not be empty", common.ErrConfig)
	}
	if s.Training.TestSize <= 0 || s.Training.TestSize >= 1 {
		return fmt.Errorf("%w: training.test_size must be in (0, 1), got %v", common.ErrConfig, s.Training.TestSize)
	}
	if s.Training.Folds < 2 {
		return fmt.Errorf("%w: training.folds must be at least 2, got %d", common.ErrConfig, s.Training.Folds)
	}
	if s.Training.Workers < 1 {
		return fmt.Errorf("%w: training.workers must be at least 1, got %d", common.ErrConfig, s.Training.Workers)
	}
	return nil
}
