package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/semihalev/zlog/v2"
)

const configver = "1.0.0"

// DefaultMaxDepth is the CNAME chase limit used when none is configured.
const DefaultMaxDepth = 7

// Config type. It is built once and passed by value.
type Config struct {
	Version     string
	LoadFile    string `toml:"load"`
	SaveFile    string `toml:"save"`
	ReadStdin   bool   `toml:"read"`
	Printer     string
	Transformer string
	Filters     []string
	MaxDepth    int
	LogLevel    string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version:  configver,
		MaxDepth: DefaultMaxDepth,
		LogLevel: "warn",
	}
}

var defaultConfig = `
# Config version, config and build versions can be different.
version = "%s"

# Snapshot to load before anything else, left blank for disabled
# load = "cache.snap"

# Where the filtered result is saved as a snapshot, left blank for disabled
# save = "cache.snap"

# Read an unbound cache dump from standard input. Records from the dump replace
# the same name and type loaded from the snapshot.
read = false

# Output format, one of [hosts, unbound_local, unbound_local_remove, unbound_cache, zone]
# left blank to print nothing
printer = ""

# Transformer applied before filtering, one of [CNAME], left blank for none
transformer = ""

# Filter tokens in RPN order. Leaves: type:<T>, name:<regex>, ip:<regex>, net:<cidr>[,<cidr>]
# Operators: and, or, not
# filters = ["type:A", "type:AAAA", "or"]
filters = []

# Maximum CNAME chain length followed by the CNAME transformer
maxdepth = %d

# What kind of information should be logged, Log verbosity level [error,warn,info,debug]
loglevel = "warn"
`

// Load loads the given config file on top of the defaults.
func Load(cfgfile string) (Config, error) {
	config := Default()

	zlog.Debug("Loading config file", "path", cfgfile)

	if _, err := toml.DecodeFile(cfgfile, &config); err != nil {
		return Config{}, fmt.Errorf("could not load config: %w", err)
	}

	if config.Version != configver {
		zlog.Warn("Config file is out of version, you can generate new one and check the changes.")
	}

	return config, nil
}

// Generate writes a commented default config file to path.
func Generate(path string) error {
	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not generate config: %w", err)
	}

	defer func() {
		err := output.Close()
		if err != nil {
			zlog.Warn("Config generation failed while file closing", "error", err.Error())
		}
	}()

	r := strings.NewReader(fmt.Sprintf(defaultConfig, configver, DefaultMaxDepth))
	if _, err := io.Copy(output, r); err != nil {
		return fmt.Errorf("could not copy default config: %w", err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		zlog.Info("Default config file generated", "config", abs)
	}

	return nil
}
