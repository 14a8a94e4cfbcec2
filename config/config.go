// Package config loads and saves the emulator's TOML configuration file,
// in the same shape and path convention as the teacher's config package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the emulator's top-level configuration.
type Config struct {
	Execution struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		ROMPath      string `toml:"rom_path"`
		ROMBankSize  uint32 `toml:"rom_bank_size"`
		EnableTrace  bool   `toml:"enable_trace"`
		EnableStats  bool   `toml:"enable_stats"`
	} `toml:"execution"`

	MMU struct {
		Architecture string `toml:"architecture"` // "v3" or "v4"
		Enabled      bool   `toml:"enabled_at_reset"`
	} `toml:"mmu"`

	Bus struct {
		LCDLimit  uint32 `toml:"lcd_limit"`
		BigEndian bool   `toml:"big_endian"`
	} `toml:"bus"`

	Trace struct {
		OutputFile    string `toml:"output_file"`
		IncludeFlags  bool   `toml:"include_flags"`
		IncludeRegs   bool   `toml:"include_registers"`
		MaxEntries    int    `toml:"max_entries"`
	} `toml:"trace"`

	Statistics struct {
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // json or text
	} `toml:"statistics"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.ROMPath = "rom.bin"
	cfg.Execution.ROMBankSize = 256 << 20
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false

	cfg.MMU.Architecture = "v4"
	cfg.MMU.Enabled = false

	cfg.Bus.LCDLimit = 0x20000
	cfg.Bus.BigEndian = false

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.IncludeFlags = true
	cfg.Trace.IncludeRegs = true
	cfg.Trace.MaxEntries = 100_000

	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	return platformPath("config.toml", func(home string) string {
		switch runtime.GOOS {
		case "windows":
			return filepath.Join(appData(), "arm710emu")
		default:
			return filepath.Join(home, ".config", "arm710emu")
		}
	})
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	return platformPath("logs", func(home string) string {
		switch runtime.GOOS {
		case "windows":
			return filepath.Join(appData(), "arm710emu", "logs")
		default:
			return filepath.Join(home, ".local", "share", "arm710emu", "logs")
		}
	})
}

func appData() string {
	if v := os.Getenv("APPDATA"); v != "" {
		return v
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
}

func platformPath(fallback string, dir func(home string) string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	d := dir(home)
	if err := os.MkdirAll(d, 0o750); err != nil {
		return fallback
	}
	if fallback == "config.toml" {
		return filepath.Join(d, "config.toml")
	}
	return d
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults if the
// file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
