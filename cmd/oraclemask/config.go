package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-separation/dsp/oracle"
	"github.com/cwbudde/algo-separation/dsp/window"
)

// settings holds the analysis and output parameters shared by all
// subcommands. Zero Hop selects the default of Size/2.
type settings struct {
	Window   string `yaml:"window"`
	Size     int    `yaml:"size"`
	Hop      int    `yaml:"hop"`
	Periodic bool   `yaml:"periodic"`
	Binary   bool   `yaml:"binary"`
	Parallel bool   `yaml:"parallel"`
	BitDepth int    `yaml:"bit_depth"`
	OutDir   string `yaml:"out_dir"`
	Prefix   string `yaml:"prefix"`
}

func defaultSettings() settings {
	return settings{
		Window:   window.TypeHamming.String(),
		Size:     window.DefaultSize,
		BitDepth: 16,
		OutDir:   ".",
		Prefix:   "oracle",
	}
}

// loadSettings returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}

	var file settings
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}

	s.merge(file)

	return s, nil
}

// merge copies the non-zero fields of o into s.
func (s *settings) merge(o settings) {
	if o.Window != "" {
		s.Window = o.Window
	}
	if o.Size != 0 {
		s.Size = o.Size
	}
	if o.Hop != 0 {
		s.Hop = o.Hop
	}
	if o.BitDepth != 0 {
		s.BitDepth = o.BitDepth
	}
	if o.OutDir != "" {
		s.OutDir = o.OutDir
	}
	if o.Prefix != "" {
		s.Prefix = o.Prefix
	}

	s.Periodic = s.Periodic || o.Periodic
	s.Binary = s.Binary || o.Binary
	s.Parallel = s.Parallel || o.Parallel
}

// bindFlags registers the settings flags on cmd. Values start at the
// defaults; applyFlags copies only the flags the user actually set.
func bindFlags(cmd *cobra.Command, s *settings) {
	f := cmd.Flags()
	f.StringVarP(&s.Window, "window", "w", s.Window, "window type ("+windowNames()+")")
	f.IntVarP(&s.Size, "size", "n", s.Size, "window length / transform size in samples")
	f.IntVar(&s.Hop, "hop", s.Hop, "frame advance in samples (0 = size/2)")
	f.BoolVar(&s.Periodic, "periodic", s.Periodic, "use the periodic (FFT) window form")
}

func applyFlags(cmd *cobra.Command, dst *settings, flags settings) {
	f := cmd.Flags()
	if f.Changed("window") {
		dst.Window = flags.Window
	}
	if f.Changed("size") {
		dst.Size = flags.Size
	}
	if f.Changed("hop") {
		dst.Hop = flags.Hop
	}
	if f.Changed("periodic") {
		dst.Periodic = flags.Periodic
	}
	if f.Changed("binary") {
		dst.Binary = flags.Binary
	}
	if f.Changed("parallel") {
		dst.Parallel = flags.Parallel
	}
	if f.Changed("bit-depth") {
		dst.BitDepth = flags.BitDepth
	}
	if f.Changed("out-dir") {
		dst.OutDir = flags.OutDir
	}
	if f.Changed("prefix") {
		dst.Prefix = flags.Prefix
	}
}

func (s settings) validate() error {
	if _, err := window.ParseType(s.Window); err != nil {
		return err
	}
	if s.Size <= 0 {
		return fmt.Errorf("size must be > 0: %d", s.Size)
	}
	if s.Hop < 0 || s.Hop > s.Size {
		return fmt.Errorf("hop must be in [0, %d]: %d", s.Size, s.Hop)
	}

	return nil
}

// hop returns the effective frame advance.
func (s settings) hop() int {
	if s.Hop > 0 {
		return s.Hop
	}

	return max(s.Size/2, 1)
}

// coefficients generates the configured window.
func (s settings) coefficients() ([]float64, error) {
	typ, err := window.ParseType(s.Window)
	if err != nil {
		return nil, err
	}

	var opts []window.Option
	if s.Periodic {
		opts = append(opts, window.WithPeriodic())
	}

	return window.Generate(typ, s.Size, opts...), nil
}

// windowSpec maps the settings onto the orchestrator's window selection.
// The symmetric Hamming window is the orchestrator's own default shape.
func (s settings) windowSpec() (oracle.WindowSpec, error) {
	typ, err := window.ParseType(s.Window)
	if err != nil {
		return nil, err
	}

	if typ == window.TypeHamming && !s.Periodic {
		return oracle.FixedSize(s.Size), nil
	}

	coeffs, err := s.coefficients()
	if err != nil {
		return nil, err
	}

	return oracle.Explicit(coeffs), nil
}

func windowNames() string {
	types := window.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	return strings.Join(names, ", ")
}
