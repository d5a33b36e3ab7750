package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/input"
)

type Config struct {
	Emulation EmulationConfig `toml:"emulation"`
	Trace     TraceConfig     `toml:"trace"`
	Log       LogConfig       `toml:"log"`
	Input     InputConfig     `toml:"input"`
}

type EmulationConfig struct {
	Frames  int `toml:"frames"`  // frames to run per rom
	Workers int `toml:"workers"` // roms run concurrently, 0 means one per CPU
}

type TraceConfig struct {
	Format     string `toml:"format"`     // "text" or "json"
	Breakpoint string `toml:"breakpoint"` // hexadecimal address, empty to disable
}

type LogConfig struct {
	Modules []string `toml:"modules"` // modules with debug logs enabled
}

type InputConfig struct {
	Hold []string `toml:"hold"` // buttons held on pad 1 during the whole run
}

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Emulation: EmulationConfig{Frames: 60},
		Trace:     TraceConfig{Format: "text"},
	}
}

// Check validates cfg, reporting all invalid fields at once.
func (cfg *Config) Check() error {
	var errs []error

	if cfg.Emulation.Frames < 0 {
		errs = append(errs, fmt.Errorf("emulation.frames: negative value %d", cfg.Emulation.Frames))
	}
	if cfg.Emulation.Workers < 0 {
		errs = append(errs, fmt.Errorf("emulation.workers: negative value %d", cfg.Emulation.Workers))
	}
	if _, err := hw.ParseTraceFormat(cfg.Trace.Format); err != nil {
		errs = append(errs, fmt.Errorf("trace.format: %w", err))
	}
	if _, err := cfg.Breakpoint(); err != nil {
		errs = append(errs, fmt.Errorf("trace.breakpoint: %w", err))
	}
	for _, name := range cfg.Log.Modules {
		if _, ok := log.ModuleByName(name); !ok {
			errs = append(errs, fmt.Errorf("log.modules: unknown module %q", name))
		}
	}
	for _, name := range cfg.Input.Hold {
		if _, ok := input.ButtonByName(name); !ok {
			errs = append(errs, fmt.Errorf("input.hold: unknown button %q", name))
		}
	}
	return errors.Join(errs...)
}

// Workers returns the number of roms to run concurrently.
func (cfg *Config) Workers() int {
	if cfg.Emulation.Workers == 0 {
		return runtime.NumCPU()
	}
	return cfg.Emulation.Workers
}

// Breakpoint returns the breakpoint address, or -1 if there's none.
func (cfg *Config) Breakpoint() (int, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(cfg.Trace.Breakpoint, "$"), "0x")
	if s == "" {
		return -1, nil
	}
	addr, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return -1, fmt.Errorf("invalid address %q", cfg.Trace.Breakpoint)
	}
	return int(addr), nil
}

const cfgFilename = "config.toml"

// ConfigDir returns the nescore configuration directory, creating it if
// needed.
func ConfigDir() (string, error) {
	dir := configdir.LocalConfig("nescore")
	if err := configdir.MakePath(dir); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultConfigPath returns the path of the config file in the configuration
// directory.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cfgFilename), nil
}

// LoadConfig loads the configuration at path. A missing file is not an error,
// the default configuration is returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.DebugZ("no config file, using defaults").String("path", path).End()
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		log.ModEmu.WarnZ("unknown config keys").
			String("path", path).
			String("keys", fmt.Sprint(undec)).
			End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg at path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0o644)
}
