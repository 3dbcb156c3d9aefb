package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig is the optional dewyc.toml driver config: trace verbosity,
// whether to dump the SPPF on accept, and a start-symbol override, none of
// which the core dewy package itself knows or cares about.
type fileConfig struct {
	Trace       bool   `toml:"trace"`
	DumpSPPF    bool   `toml:"dump_sppf"`
	DumpTable   bool   `toml:"dump_table"`
	StartSymbol string `toml:"start_symbol"`
}

// loadConfig reads path if it exists, returning a zero-valued fileConfig
// (every feature off) if path is empty or the file is not present; a
// present-but-malformed file is a fatal error, since the user explicitly
// pointed dewyc at it.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("dewyc: load config %s: %w", path, err)
	}
	return cfg, nil
}
