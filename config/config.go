// Package config provides the color scheme and configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/aallbrig/clause/models"
)

// ColorScheme defines the palette for listings and diagnostics.
type ColorScheme struct {
	Base     string // title color (hex)
	Subcmd   string // sub-command color
	Group    string // group command color
	Global   string // global command color
	Modifier string // modifier command color
	Option   string // option color
	Pos      string // positional argument color
	Value    string // value/type color
	Warn     string // warning color
	Invalid  string // invalid/error color
	Selected string // selected item in TUI
}

// DefaultColors returns the default color scheme.
func DefaultColors() ColorScheme {
	return ColorScheme{
		Base:     "#FFFFFF",
		Subcmd:   "#5EA4F5",
		Group:    "#BD93F9",
		Global:   "#50FA7B",
		Modifier: "#FFB86C",
		Option:   "#8BE9FD",
		Pos:      "#F1FA8C",
		Value:    "#FF79C6",
		Warn:     "#F1FA8C",
		Invalid:  "#FF5555",
		Selected: "#00BFFF",
	}
}

// Config holds all clause configuration.
type Config struct {
	Colors     ColorScheme
	NoColor    bool
	LogLevel   string
	Strict     bool
	NoHistory  bool
	HistoryDir string
	Manifest   string
	// Commands seeds argument values per command name, before tokens are read.
	Commands map[string]models.Args
}

// Dir returns the clause home directory (~/.clause).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clause")
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	historyDir := os.Getenv("CLAUSE_HISTORY_DIR")
	if historyDir == "" {
		historyDir = Dir()
	}
	return &Config{
		Colors:     DefaultColors(),
		NoColor:    os.Getenv("NO_COLOR") != "" || os.Getenv("CLAUSE_NO_COLOR") != "",
		LogLevel:   "warn",
		HistoryDir: historyDir,
		Commands:   map[string]models.Args{},
	}
}

// Load reads the config file at path, or config.yaml in Dir() when path is
// empty, and applies CLAUSE_* environment overrides. A missing default file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(Dir())
	}
	v.SetEnvPrefix("CLAUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("strict", false)
	v.SetDefault("no_color", false)
	v.SetDefault("no_history", false)
	v.SetDefault("history_dir", cfg.HistoryDir)
	v.SetDefault("manifest", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.LogLevel = v.GetString("log_level")
	cfg.Strict = v.GetBool("strict")
	cfg.NoColor = cfg.NoColor || v.GetBool("no_color")
	cfg.NoHistory = v.GetBool("no_history")
	cfg.HistoryDir = v.GetString("history_dir")
	cfg.Manifest = v.GetString("manifest")
	applyColors(&cfg.Colors, v.GetStringMapString("colors"))

	commands, err := decodeCommands(v.Get("commands"))
	if err != nil {
		return nil, err
	}
	cfg.Commands = commands
	return cfg, nil
}

func applyColors(c *ColorScheme, m map[string]string) {
	fields := map[string]*string{
		"base":     &c.Base,
		"subcmd":   &c.Subcmd,
		"group":    &c.Group,
		"global":   &c.Global,
		"modifier": &c.Modifier,
		"option":   &c.Option,
		"pos":      &c.Pos,
		"value":    &c.Value,
		"warn":     &c.Warn,
		"invalid":  &c.Invalid,
		"selected": &c.Selected,
	}
	for k, val := range m {
		if f, ok := fields[strings.ToLower(k)]; ok && val != "" {
			*f = val
		}
	}
}

// decodeCommands turns the commands section into per-command argument maps.
// Keys arrive lowercased from viper; lookups through CommandConfig fold case.
func decodeCommands(raw any) (map[string]models.Args, error) {
	out := map[string]models.Args{}
	if raw == nil {
		return out, nil
	}
	section, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("config commands section: %w", err)
	}
	for name, entry := range section {
		args, err := cast.ToStringMapE(entry)
		if err != nil {
			return nil, fmt.Errorf("config commands.%s: %w", name, err)
		}
		out[name] = models.Args(args)
	}
	return out, nil
}

// CommandConfig returns the configured arguments for a command, matching the
// command name without regard to case.
func (c *Config) CommandConfig(name string) models.Args {
	if args, ok := c.Commands[name]; ok {
		return args
	}
	return c.Commands[strings.ToLower(name)]
}
