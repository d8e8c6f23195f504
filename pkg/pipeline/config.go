package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config specifies pipeline-wide tunables that aren't already implied by
// the tech-tree description itself. All fields are optional; the zero
// Config runs the pipeline with its default behavior.
type Config struct {
	// Strict is read from the YAML file but no stage consults it: warnings
	// (such as parse's notice for an item with no tape form) never fail a
	// run, whatever its value.
	Strict bool `yaml:"strict" json:"strict"`

	// EmitDot controls whether the "tech" command writes tech.dot alongside
	// tech.lisp.
	EmitDot bool `yaml:"emitDot" json:"emitDot"`

	// EmitSVG controls whether the "tech" command writes a debug tech.svg
	// layer diagram alongside tech.lisp.
	EmitSVG bool `yaml:"emitSvg" json:"emitSvg"`

	// SVG holds the layout tunables passed to dump.DumpTreeSVG when EmitSVG
	// is set.
	SVG SVGCfg `yaml:"svg" json:"svg"`
}

// SVGCfg mirrors dump.SVGOptions for YAML configurability.
type SVGCfg struct {
	Width      int  `yaml:"width" json:"width"`
	Height     int  `yaml:"height" json:"height"`
	NodeRadius int  `yaml:"nodeRadius" json:"nodeRadius"`
	Margin     int  `yaml:"margin" json:"margin"`
	ShowLabels bool `yaml:"showLabels" json:"showLabels"`
}

// DefaultConfig returns the pipeline's zero-config behavior made explicit:
// dot emitted, svg not.
func DefaultConfig() Config {
	return Config{
		EmitDot: true,
		SVG: SVGCfg{
			Width: 1600, Height: 900,
			NodeRadius: 10, Margin: 40,
			ShowLabels: true,
		},
	}
}

// LoadConfig reads and validates a YAML configuration file. A missing path
// is not an error: it returns DefaultConfig unchanged, since every pipeline
// tunable has a sensible default and a config file is optional.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates YAML config data, starting from
// DefaultConfig so an omitted field keeps its default rather than zeroing.
func LoadConfigFromBytes(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether cfg's values are usable.
func (cfg Config) Validate() error {
	if cfg.EmitSVG {
		if cfg.SVG.Width <= 0 || cfg.SVG.Height <= 0 {
			return fmt.Errorf("pipeline: svg width/height must be positive, got %dx%d",
				cfg.SVG.Width, cfg.SVG.Height)
		}
		if cfg.SVG.NodeRadius <= 0 {
			return fmt.Errorf("pipeline: svg nodeRadius must be positive, got %d", cfg.SVG.NodeRadius)
		}
	}
	return nil
}
