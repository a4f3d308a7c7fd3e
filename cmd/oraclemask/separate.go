package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-separation/dsp/core"
	"github.com/cwbudde/algo-separation/dsp/oracle"
	"github.com/cwbudde/algo-separation/internal/wavio"
	"github.com/cwbudde/algo-separation/measure/sdr"
	"github.com/cwbudde/algo-separation/stats/level"
)

func newSeparateCmd(a *app) *cobra.Command {
	var (
		targetPath       string
		interferencePath string
		flags            = defaultSettings()
	)

	cmd := &cobra.Command{
		Use:   "separate",
		Short: "Separate target from interference with oracle masks",
		Long: `Separate the mixture of two mono WAV files with the ideal ratio mask
and, with --binary, the ideal binary mask.

Both files must share one sample rate. The shorter one is zero-padded;
outputs have the length of the longer input and are written as
<out-dir>/<prefix>_ratio.wav and <out-dir>/<prefix>_binary.wav.

An SNR / SI-SDR report against the target is printed to stdout.`,
		Example: `  oraclemask separate -t voice.wav -i noise.wav
  oraclemask separate -t voice.wav -i noise.wav -n 2048 --hop 512 -w hann --binary -o out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(a.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &s, flags)

			if err := s.validate(); err != nil {
				return err
			}

			return a.runSeparate(cmd.OutOrStdout(), s, targetPath, interferencePath)
		},
	}

	bindFlags(cmd, &flags)

	f := cmd.Flags()
	f.StringVarP(&targetPath, "target", "t", "", "target WAV file (required)")
	f.StringVarP(&interferencePath, "interference", "i", "", "interference WAV file (required)")
	f.BoolVar(&flags.Binary, "binary", false, "also write the binary-mask separation")
	f.BoolVar(&flags.Parallel, "parallel", false, "run analyses and syntheses concurrently")
	f.IntVar(&flags.BitDepth, "bit-depth", flags.BitDepth, "output bit depth (16 or 24)")
	f.StringVarP(&flags.OutDir, "out-dir", "o", flags.OutDir, "output directory")
	f.StringVar(&flags.Prefix, "prefix", flags.Prefix, "output file name prefix")

	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("interference")

	return cmd
}

func (a *app) runSeparate(out io.Writer, s settings, targetPath, interferencePath string) error {
	target, err := wavio.ReadFile(targetPath)
	if err != nil {
		return err
	}

	interference, err := wavio.ReadFile(interferencePath)
	if err != nil {
		return err
	}

	a.logger.Debug("loaded inputs",
		"target", targetPath, "target_samples", len(target.Samples),
		"interference", interferencePath, "interference_samples", len(interference.Samples),
		"rate", target.SampleRate)
	a.logLevel("target", target.Samples)
	a.logLevel("interference", interference.Samples)

	if target.SampleRate != interference.SampleRate {
		return fmt.Errorf("sample rate mismatch: %s is %d Hz, %s is %d Hz",
			targetPath, target.SampleRate, interferencePath, interference.SampleRate)
	}

	spec, err := s.windowSpec()
	if err != nil {
		return err
	}

	opts := []oracle.Option{
		oracle.WithWindow(spec),
		oracle.WithSampleRate(float64(target.SampleRate)),
	}
	if s.Hop > 0 {
		opts = append(opts, oracle.WithHop(s.Hop))
	}
	if s.Binary {
		opts = append(opts, oracle.WithBinaryMask())
	}
	if s.Parallel {
		opts = append(opts, oracle.WithParallel())
	}

	res, err := oracle.Separate(target.Samples, interference.Samples, opts...)
	if err != nil {
		return err
	}

	p := res.Params
	a.logger.Info("separated",
		"window", s.Window, "resolved", p.Window, "size", p.Size, "hop", p.Hop,
		"frames", p.Frames, "samples", p.Length)

	if err := os.MkdirAll(s.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	outputs := []namedSignal{{"ratio", res.Ratio}}
	if s.Binary {
		outputs = append(outputs, namedSignal{"binary", res.Binary})
	}

	for _, o := range outputs {
		path := filepath.Join(s.OutDir, s.Prefix+"_"+o.name+".wav")
		clip := wavio.Clip{Samples: o.samples, SampleRate: target.SampleRate}

		if err := wavio.WriteFile(path, clip, s.BitDepth); err != nil {
			return err
		}

		a.logger.Info("wrote output", "mask", o.name, "path", path)
		a.logLevel(o.name, o.samples)
	}

	reference := core.Fit(target.Samples, p.Length)

	mixture, err := core.Sum(reference, core.Fit(interference.Samples, p.Length))
	if err != nil {
		return err
	}

	return a.printReport(out, reference, mixture, outputs)
}

func (a *app) logLevel(name string, x []float64) {
	s := level.Calculate(x)
	a.logger.Debug("level", "signal", name, "rms_db", s.RMSdB, "peak_db", s.PeakdB, "crest_db", s.CrestFactordB)
}

type namedSignal struct {
	name    string
	samples []float64
}

func (a *app) printReport(out io.Writer, reference, mixture []float64, outputs []namedSignal) error {
	if level.Energy(reference) == 0 {
		a.logger.Warn("target is silent, skipping report")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "mask\tSNR in\tSNR out\tSNR gain\tSI-SDR in\tSI-SDR out\tSI-SDR gain\t")

	for _, o := range outputs {
		rep, err := sdr.Evaluate(reference, mixture, o.samples)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n", o.name,
			rep.Input.SNR, rep.Output.SNR, rep.Improvement.SNR,
			rep.Input.SISDR, rep.Output.SISDR, rep.Improvement.SISDR)
	}

	return tw.Flush()
}
