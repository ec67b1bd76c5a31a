package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to bfcrypt.
type Config struct {
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	Crypto struct {
		// Number of goroutines used to encrypt or decrypt blocks. 0 uses one per CPU.
		Workers int `mapstructure:"workers"`
	} `mapstructure:"crypto"`

	Files struct {
		// Suffix appended to the input file name when encrypting.
		EncryptedSuffix string `mapstructure:"encrypted_suffix"`
		// Suffix appended when decrypting a file that doesn't end in EncryptedSuffix.
		DecryptedSuffix string `mapstructure:"decrypted_suffix"`
		// Replace output files that already exist.
		Overwrite bool `mapstructure:"overwrite"`
	} `mapstructure:"files"`
}

const envVarPrefix = "BFCRYPT"

var defaults = map[string]interface{}{
	"log_file_path":          "",
	"log_level":              "info",
	"crypto.workers":         1,
	"files.encrypted_suffix": ".bf",
	"files.decrypted_suffix": ".out",
	"files.overwrite":        false,
}

// LoadConfig reads config.yaml from configPath if there is one and layers any
// BFCRYPT_ environment variables on top. A missing config file is not an
// error; the defaults are used instead.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, crypto.workers can be set using: <envVarPrefix>_CRYPTO_WORKERS
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshaling config object: %w", err)
	}
	return config, nil
}

// WorkerCount returns the number of goroutines to spread block processing across.
func (c *Config) WorkerCount() int {
	if c.Crypto.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Crypto.Workers
}
