// Package config loads CLI-front-end settings the way the teacher
// project does: via viper, reading a YAML dotfile from the user's home
// directory, overridable by environment variables. Nothing in the
// assembler, parser, linker or loader core reads this package — it only
// shapes how cmd/vmasm and cmd/vmlink start up.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the set of settings a CLI front-end may read from
// ~/.vmtoolrc.yaml or the environment.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogFile, if set, is a path the JSON-fanout log handler appends to.
	LogFile string

	// ObjectExt is the extension assemble uses when -o is not given.
	ObjectExt string
}

const defaultConfigName = ".vmtoolrc"

// Load reads the dotfile (if present) and environment overrides into a
// Config. explicitPath, if non-empty, is used instead of the default
// home-directory search (mirrors a CLI's --config flag).
func Load(explicitPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("loglevel", "info")
	v.SetDefault("logfile", "")
	v.SetDefault("objectext", ".vmo")

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(defaultConfigName)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return &Config{
		LogLevel:  v.GetString("loglevel"),
		LogFile:   v.GetString("logfile"),
		ObjectExt: v.GetString("objectext"),
	}, nil
}
