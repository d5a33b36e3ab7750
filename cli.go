package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"nescore/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run ROMs headless
	romInfosMode             // Show ROM infos
	disasmMode               // Disassemble PRG
	versionMode              // Show nescore version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROMs in the headless emulator." default:"withargs"`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Disasm   Disasm   `cmd:"" help:"Disassemble the PRG ROM as seen by the CPU after reset."`
		Version  Version  `cmd:"" help:"Show nescore version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPaths []string `arg:"" name:"/path/to/rom" help:"ROMs to run." type:"existingfile"`

		Config      string   `name:"config" help:"${config_help}" type:"path"`
		Frames      int      `name:"frames" help:"Number of frames to run each ROM for. (default 60)"`
		Workers     int      `name:"workers" help:"Number of ROMs run concurrently. (default: one per CPU)"`
		Trace       *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		TraceFormat string   `name:"trace-format" help:"Trace log format: text or json."`
		Break       string   `name:"break" help:"${break_help}" placeholder:"ADDR"`
		Snapshot    string   `name:"snapshot" help:"Save machine state in this directory at the end of each run." type:"existingdir"`
		Hold        []string `name:"hold" help:"Buttons held on pad 1 during the whole run." placeholder:"A,B,Start,..."`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Disasm struct {
		RomPath string   `arg:"" name:"/path/to/rom" type:"existingfile"`
		Start   addrFlag `name:"start" help:"First address to disassemble." default:"8000"`
		End     addrFlag `name:"end" help:"Last address to disassemble." default:"FFF9"`
		Labels  bool     `name:"labels" help:"Show register names instead of addresses."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":    "Enable logging for specified modules.",
	"config_help": "Configuration file. (default: config.toml in the user configuration directory)",
	"break_help":  "Stop at this address and dump the last executed instructions.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nescore"),
		kong.Description("Headless NES CPU core."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cfg.mode = commandMode(ctx.Command())
	return cfg
}

func commandMode(cmd string) mode {
	switch {
	case strings.HasPrefix(cmd, "rom-infos"):
		return romInfosMode
	case strings.HasPrefix(cmd, "disasm"):
		return disasmMode
	case cmd == "version":
		return versionMode
	}
	return runMode
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	mask, disable, err := parseLogModules(tok.Value.(string))
	if err != nil {
		return err
	}
	if disable {
		log.Disable()
		return nil
	}
	log.EnableDebugModules(mask)
	return nil
}

// parseLogModules parses a comma-separated list of module names. "no"
// disables all logs, "all" enables all modules.
func parseLogModules(s string) (mask log.ModuleMask, disable bool, err error) {
	nolog := false
	allLogs := false

	for _, v := range strings.Split(s, ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return 0, false, fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return 0, false, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		return 0, true, nil
	}

	if allLogs {
		mask = log.ModuleMaskAll
	}
	return mask, false, nil
}

// addrFlag is a CPU address given in hexadecimal, with an optional $ or 0x
// prefix.
type addrFlag uint16

// Implements kong.MapperValue interface.
func (a *addrFlag) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("address", &s); err != nil {
		return err
	}
	v, err := parseAddr(s)
	if err != nil {
		return err
	}
	*a = addrFlag(v)
	return nil
}

func parseAddr(s string) (uint16, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "$"), "0x")
	v, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
