package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ScottSallinen/cutflow/graph"
)

// Suite is a benchmark description read from a config file. Zero values leave the command line options alone.
type Suite struct {
	Instances   []string `mapstructure:"instances" validate:"required,min=1,dive,required"`
	Engines     []string `mapstructure:"engines" validate:"omitempty,dive,oneof=pseudoflow augment bidir all"`
	Repeat      int      `mapstructure:"repeat" validate:"gte=0,lte=1000"`
	Threads     int      `mapstructure:"threads" validate:"gte=0,lte=1024"`
	LowestLabel bool     `mapstructure:"lowest"`
	FifoBuckets bool     `mapstructure:"fifo"`
	Check       bool     `mapstructure:"check"`
	Output      string   `mapstructure:"output"`
}

// LoadSuite reads and validates a suite. Relative instance paths are taken from the config file's directory.
func LoadSuite(path string) (*Suite, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}
	suite := &Suite{}
	if err := v.Unmarshal(suite); err != nil {
		return nil, fmt.Errorf("decoding suite %s: %w", path, err)
	}
	if err := validator.New().Struct(suite); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, inst := range suite.Instances {
		if !filepath.IsAbs(inst) {
			suite.Instances[i] = filepath.Join(dir, inst)
		}
	}
	return suite, nil
}

// Apply overrides options with whatever the suite sets.
func (s *Suite) Apply(options graph.Options) graph.Options {
	if len(s.Engines) > 0 {
		options.Engines = graph.ParseEngines(strings.Join(s.Engines, ","))
	}
	if s.Repeat > 0 {
		options.Repeat = s.Repeat
	}
	if s.Threads > 0 {
		options.Threads = s.Threads
	}
	if s.Output != "" {
		options.Output = s.Output
	}
	options.LowestLabel = options.LowestLabel || s.LowestLabel
	options.FifoBuckets = options.FifoBuckets || s.FifoBuckets
	if s.Check {
		options.CheckCorrectness = true
		options.RecoverFlow = true
	}
	return options
}
