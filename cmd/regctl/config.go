package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/joshuapare/regkit/pkg/registry"
)

const (
	configDirName  = "regctl"
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "REGCTL"

	cfgKeyBackend   = "backend"
	cfgKeyDB        = "db"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
	cfgKeyLogDir    = "log_dir"
	cfgKeyPolicy    = "policy"

	defaultDBName = "registry.db"
)

// settings is the resolved configuration of one regctl run.
type settings struct {
	Backend   registry.Backend
	DB        string
	LogLevel  string
	LogFormat string
	LogDir    string
	Policy    registry.Policy
}

// defaultBackend is the live registry on Windows and a bolt file elsewhere.
func defaultBackend() registry.Backend {
	if runtime.GOOS == "windows" {
		return registry.BackendNative
	}
	return registry.BackendFile
}

// defaultConfigDir is $XDG_CONFIG_HOME/regctl or its platform equivalent.
func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, configDirName)
}

// loadConfig reads the config file with Viper. An explicit path must
// exist; the default config.yaml is optional. REGCTL_* environment
// variables override file values.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, string(defaultBackend()))
	v.SetDefault(cfgKeyDB, filepath.Join(defaultConfigDir(), defaultDBName))
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeyLogDir, "")
	v.SetDefault(cfgKeyPolicy, registry.FailFast.String())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(defaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// settingsFrom validates the loaded values.
func settingsFrom(v *viper.Viper) (settings, error) {
	backend, err := registry.ParseBackend(v.GetString(cfgKeyBackend))
	if err != nil {
		return settings{}, err
	}
	policy, err := registry.ParsePolicy(v.GetString(cfgKeyPolicy))
	if err != nil {
		return settings{}, err
	}
	return settings{
		Backend:   backend,
		DB:        v.GetString(cfgKeyDB),
		LogLevel:  v.GetString(cfgKeyLogLevel),
		LogFormat: v.GetString(cfgKeyLogFormat),
		LogDir:    v.GetString(cfgKeyLogDir),
		Policy:    policy,
	}, nil
}
