package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case versionMode:
		printVersion(os.Stdout)
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)
	case disasmMode:
		checkf(disasmMain(os.Stdout, cli.Disasm), "disassembly failed")
	case runMode:
		os.Exit(runMain(cli.Run))
	}
}

func printVersion(w io.Writer) {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Fprintln(w, "nescore", version)
}

func disasmMain(w io.Writer, args Disasm) error {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return err
	}
	nes, err := emu.PowerUp(rom)
	if err != nil {
		return err
	}
	return hw.Listing(w, nes.CPU.Bus, uint16(args.Start), uint16(args.End), args.Labels)
}

// loadConfig loads the config file and applies the command line overrides.
func loadConfig(args Run) (emu.Config, error) {
	path := args.Config
	if path == "" {
		var err error
		if path, err = emu.DefaultConfigPath(); err != nil {
			return emu.Config{}, err
		}
	}

	cfg, err := emu.LoadConfig(path)
	if err != nil {
		return emu.Config{}, err
	}
	if args.Frames > 0 {
		cfg.Emulation.Frames = args.Frames
	}
	if args.Workers > 0 {
		cfg.Emulation.Workers = args.Workers
	}
	if args.TraceFormat != "" {
		cfg.Trace.Format = args.TraceFormat
	}
	if args.Break != "" {
		cfg.Trace.Breakpoint = args.Break
	}
	if len(args.Hold) > 0 {
		cfg.Input.Hold = args.Hold
	}
	return cfg, cfg.Check()
}

func runMain(args Run) int {
	if len(args.RomPaths) == 0 {
		fatalf("no rom to run")
	}

	cfg, err := loadConfig(args)
	checkf(err, "invalid configuration")

	if len(cfg.Log.Modules) > 0 {
		mask, _, err := parseLogModules(strings.Join(cfg.Log.Modules, ","))
		checkf(err, "invalid log modules")
		log.EnableDebugModules(mask)
	}

	opts, err := emu.OptionsFromConfig(&cfg)
	checkf(err, "invalid configuration")
	opts.SnapshotDir = args.Snapshot
	if opts.Breakpoint >= 0 {
		opts.BreakOut = os.Stdout
	}
	if args.Trace != nil {
		opts.Trace = args.Trace
		defer args.Trace.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := emu.RunAll(ctx, args.RomPaths, opts)
	printResults(os.Stdout, results)
	if err != nil {
		fmt.Fprintln(os.Stderr, "interrupted:", err)
		return 1
	}
	for _, res := range results {
		if res.Err != nil {
			return 1
		}
	}
	return 0
}

// printResults writes a summary line per rom.
func printResults(w io.Writer, results []emu.Result) {
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROM\tMAPPER\tFRAMES\tCYCLES\tPC\tTIME\tSTATUS")
	for _, res := range results {
		status := green("ok")
		if res.Err != nil {
			status = red("failed") + ": " + res.Err.Error()
		} else if res.Hits > 0 {
			status = green("break")
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t$%04X\t%s\t%s\n",
			res.Path, res.Mapper, res.Frames, res.Clocks, res.PC, res.Duration.Round(time.Microsecond), status)
	}
	tw.Flush()
}
