package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configFileName = "frontier"
	configFileType = "yaml"
	envPrefix      = "FRONTIER"

	cfgKeyEndpoint      = "endpoint"
	cfgKeySchema        = "schema"
	cfgKeyMutation      = "mutation"
	cfgKeyResetOnSave   = "reset_on_save"
	cfgKeyOrder         = "order"
	cfgKeyLogLevel      = "log_level"
	cfgKeyListen        = "listen"
	cfgKeyHeaders       = "headers"
	cfgKeyInitialValues = "initial_values"
	cfgKeyTimeout       = "timeout"
)

// config is the resolved CLI configuration: flags over FRONTIER_* env vars
// over frontier.yaml.
type config struct {
	Endpoint      string
	Schema        string
	Mutation      string
	ResetOnSave   bool
	Order         []string
	LogLevel      string
	Listen        string
	Headers       map[string]string
	InitialValues map[string]any
	Timeout       time.Duration
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default ./frontier.yaml)")
	flags.String("endpoint", "", "GraphQL endpoint used for submits and, without --schema, introspection")
	flags.String("schema", "", "schema document: SDL, introspection JSON or JSON schema (file or URL)")
	flags.String("mutation", "", "mutation document (file or inline)")
	flags.Bool("reset-on-save", false, "reset values after a successful submit")
	flags.StringSlice("order", nil, "field paths to show first")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("initial-values", "", "JSON file with initial form values")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout for schema loads and submits")

	_ = v.BindPFlag(cfgKeyEndpoint, flags.Lookup("endpoint"))
	_ = v.BindPFlag(cfgKeySchema, flags.Lookup("schema"))
	_ = v.BindPFlag(cfgKeyMutation, flags.Lookup("mutation"))
	_ = v.BindPFlag(cfgKeyResetOnSave, flags.Lookup("reset-on-save"))
	_ = v.BindPFlag(cfgKeyOrder, flags.Lookup("order"))
	_ = v.BindPFlag(cfgKeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(cfgKeyInitialValues, flags.Lookup("initial-values"))
	_ = v.BindPFlag(cfgKeyTimeout, flags.Lookup("timeout"))
}

// loadConfig reads the config file, if any, and resolves every key. A
// missing default frontier.yaml is not an error; a missing --config is.
func loadConfig(v *viper.Viper, path string) (config, error) {
	v.SetDefault(cfgKeyListen, ":8080")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := config{
		Endpoint:      strings.TrimSpace(v.GetString(cfgKeyEndpoint)),
		Schema:        strings.TrimSpace(v.GetString(cfgKeySchema)),
		Mutation:      strings.TrimSpace(v.GetString(cfgKeyMutation)),
		ResetOnSave:   v.GetBool(cfgKeyResetOnSave),
		Order:         v.GetStringSlice(cfgKeyOrder),
		LogLevel:      v.GetString(cfgKeyLogLevel),
		Listen:        v.GetString(cfgKeyListen),
		Headers:       v.GetStringMapString(cfgKeyHeaders),
		Timeout:       v.GetDuration(cfgKeyTimeout),
	}
	if path := strings.TrimSpace(v.GetString(cfgKeyInitialValues)); path != "" {
		values, err := readInitialValues(path)
		if err != nil {
			return config{}, err
		}
		cfg.InitialValues = values
	}
	if cfg.Mutation == "" {
		return config{}, errors.New("mutation is required (--mutation, FRONTIER_MUTATION or frontier.yaml)")
	}
	if cfg.Schema == "" && cfg.Endpoint == "" {
		return config{}, errors.New("either schema or endpoint is required")
	}
	return cfg, nil
}

// readInitialValues decodes a JSON object of seed values. It is kept out of
// the YAML file because viper lowercases map keys and GraphQL names are
// case sensitive.
func readInitialValues(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("initial values: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("initial values %s: %w", path, err)
	}
	return values, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
