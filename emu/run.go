package emu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/input"
	"nescore/ines"
)

// Options controls how roms are run.
type Options struct {
	Frames  int
	Workers int

	// Trace, if set, receives one line per executed instruction. Tracing
	// forces roms to run one at a time, so does BreakOut.
	Trace       io.Writer
	TraceFormat hw.TraceFormat

	// Breakpoint stops the run right after the instruction at this address
	// has been executed, once the last instructions have been dumped to
	// BreakOut. Negative to disable.
	Breakpoint int
	BreakOut   io.Writer

	// Hold lists the buttons held on the first pad for the whole run.
	Hold []input.PaddleButton

	// SnapshotDir, if not empty, is where the machine state is saved at the
	// end of each run, as <rom name>.state.json.
	SnapshotDir string
}

// OptionsFromConfig converts cfg into run options.
func OptionsFromConfig(cfg *Config) (Options, error) {
	if err := cfg.Check(); err != nil {
		return Options{}, err
	}

	format, _ := hw.ParseTraceFormat(cfg.Trace.Format)
	bp, _ := cfg.Breakpoint()
	opts := Options{
		Frames:      cfg.Emulation.Frames,
		Workers:     cfg.Workers(),
		TraceFormat: format,
		Breakpoint:  bp,
	}
	for _, name := range cfg.Input.Hold {
		btn, _ := input.ButtonByName(name)
		opts.Hold = append(opts.Hold, btn)
	}
	return opts, nil
}

// Result reports the outcome of a rom run.
type Result struct {
	Path     string
	Mapper   uint8
	Frames   int
	Clocks   int64
	PC       uint16
	Hits     int // breakpoint hits
	Duration time.Duration
	Err      error
}

// RunROM loads the rom at path and runs it for opts.Frames frames, or until
// ctx is done. A CPU crash (unknown opcode, bus misuse) ends the run and is
// reported in Result.Err.
func RunROM(ctx context.Context, path string, opts Options) (res Result) {
	res.Path = path
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	rom, err := ines.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Mapper = rom.Mapper()

	nes, err := PowerUp(rom)
	if err != nil {
		res.Err = err
		return res
	}
	for _, btn := range opts.Hold {
		nes.Joypads.Press(0, btn)
	}

	var obs hw.Observers
	if opts.Trace != nil {
		obs = append(obs, hw.NewTracer(opts.Trace, opts.TraceFormat))
	}
	var hist *hw.History
	if opts.Breakpoint >= 0 {
		hist = hw.NewHistory(opts.BreakOut, opts.Breakpoint)
		hist.OnBreak = func(uint16) { nes.Halt() }
		obs = append(obs, hist)
	}
	if len(obs) > 0 {
		nes.CPU.SetObserver(obs)
	}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("cpu crash: %s", log.Recovered(r))
		}
		res.Frames = nes.Frames
		res.Clocks = nes.CPU.Clocks
		res.PC = nes.CPU.PC
		if hist != nil {
			res.Hits = hist.Hits()
		}
		if opts.SnapshotDir != "" && res.Err == nil {
			res.Err = saveSnapshot(nes, opts.SnapshotDir, path)
		}
	}()

	log.ModEmu.InfoZ("running rom").
		String("path", path).
		Int("mapper", int(res.Mapper)).
		Int("frames", opts.Frames).
		End()

	for nes.Frames < opts.Frames && !nes.Halted() {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		nes.RunOneFrame()
	}
	return res
}

func saveSnapshot(nes *NES, dir, rompath string) error {
	buf, err := nes.SaveSnapshot()
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(rompath), filepath.Ext(rompath))
	return os.WriteFile(filepath.Join(dir, name+".state.json"), buf, 0o644)
}

// RunAll runs all roms, with up to opts.Workers of them concurrently. Results
// are in the same order as paths. The returned error is only set if ctx has
// been cancelled, individual failures are reported in each Result.
func RunAll(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 || opts.Trace != nil || opts.BreakOut != nil {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = RunROM(gctx, path, opts)
			if errors.Is(results[i].Err, context.Canceled) {
				return results[i].Err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
