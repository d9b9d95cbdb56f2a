// This file provides convenience routines for resolving a solver from
// the environment.

package composites

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// A solverConfig holds connection parameters read from a configuration
// file.
type solverConfig struct {
	URL    string `toml:"url"`
	Token  string `toml:"token"`
	Proxy  string `toml:"proxy"`
	Solver string `toml:"solver"`
}

// ConfigFile returns the path of the configuration file NewSolver falls
// back to when the environment does not name a solver: $DW_CONFIG if
// set, otherwise $HOME/.config/dw/dw.toml.
func ConfigFile() string {
	if path := os.Getenv("DW_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dw", "dw.toml")
}

// loadConfig merges the DW_INTERNAL__* environment variables over the
// contents of the configuration file.  A missing file is not an error;
// a malformed one is.
func loadConfig() (solverConfig, error) {
	var cfg solverConfig
	if path := ConfigFile(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return solverConfig{}, err
			}
		}
	}
	if url := os.Getenv("DW_INTERNAL__HTTPLINK"); url != "" {
		cfg.URL = url
	}
	if token := os.Getenv("DW_INTERNAL__TOKEN"); token != "" {
		cfg.Token = token
	}
	if proxy, found := os.LookupEnv("DW_INTERNAL__HTTPPROXY"); found {
		cfg.Proxy = proxy
	}
	if solver := os.Getenv("DW_INTERNAL__SOLVER"); solver != "" {
		cfg.Solver = solver
	}
	return cfg, nil
}

// NewSolver is a convenience function that resolves a solver from the
// environment.  It queries the environment for the solver URL
// (DW_INTERNAL__HTTPLINK), API token (DW_INTERNAL__TOKEN), proxy URL
// (DW_INTERNAL__HTTPPROXY), and solver name (DW_INTERNAL__SOLVER),
// falling back to the TOML file named by ConfigFile for any parameter
// the environment leaves unset, and returns the named solver from a
// local connection.  The URL, token, and proxy are recorded on the
// connection for diagnostic purposes; remote solving is not supported.
func NewSolver(opts ...ConnectionOption) (*Solver, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	conn := LocalConnection(opts...)
	conn.URL = cfg.URL
	conn.Token = cfg.Token
	conn.Proxy = cfg.Proxy
	if cfg.URL != "" {
		conn.log.Debug().Str("url", cfg.URL).Msg("remote solving is not supported; using local solvers")
	}
	if cfg.Solver == "" {
		return nil, newErrorf(ErrInvalidParameter, "A solver must be named via the DW_INTERNAL__SOLVER environment variable or the %s configuration file", ConfigFile())
	}
	return conn.Solver(cfg.Solver)
}
