// Package config handles meetup configuration and listing files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/r3d91ll/meetup/pkg/agent"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
	"github.com/r3d91ll/meetup/pkg/export"
)

// Config is the root configuration structure.
type Config struct {
	Listing []agent.Agent `yaml:"listing"`
	Output  OutputConfig  `yaml:"output"`
	Shell   ShellConfig   `yaml:"shell"`
}

// OutputConfig controls how a round's result is written.
type OutputConfig struct {
	Format export.Format `yaml:"format"` // table, yaml, json or csv
	Color  string        `yaml:"color"`  // auto, always or never
}

// ShellConfig holds interactive shell settings.
type ShellConfig struct {
	HistoryFile string `yaml:"history_file"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Listing: []agent.Agent{
			agent.New("a", agent.Sick),
			agent.New("b", agent.Dying),
			agent.New("c", agent.Healthy),
			agent.New("d", agent.Cure),
		},
		Output: OutputConfig{
			Format: export.FormatTable,
			Color:  ColorAuto,
		},
		Shell: ShellConfig{
			HistoryFile: defaultHistoryFile(),
		},
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".meetup_history")
}

// Load loads configuration from a file. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, parseError(path, err)
	}
	if err := cfg.Validate(); err != nil {
		if me, ok := merrors.AsMeetupError(err); ok {
			me.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns the default if the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// LoadListing reads a listing file. The file may hold either a bare YAML
// sequence of agents or a config document with a listing key.
func LoadListing(path string) ([]agent.Agent, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(path, err)
	}

	var listing []agent.Agent
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		if !hasKey(doc.Content[0], "listing") {
			return nil, merrors.AttachSuggestions(merrors.Config(merrors.ErrConfigInvalid,
				"listing file must be a sequence of agents or have a 'listing' key").
				WithContext("path", path))
		}
		var wrapper struct {
			Listing []agent.Agent `yaml:"listing"`
		}
		if err := doc.Decode(&wrapper); err != nil {
			return nil, parseError(path, err)
		}
		listing = wrapper.Listing
	} else if len(doc.Content) > 0 {
		if err := doc.Decode(&listing); err != nil {
			return nil, parseError(path, err)
		}
	}

	if err := ValidateListing(listing); err != nil {
		if me, ok := merrors.AsMeetupError(err); ok {
			me.WithContext("path", path)
		}
		return nil, err
	}
	return listing, nil
}

// hasKey reports whether a mapping node has the given top-level key.
func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

// SaveListing writes a listing as a bare YAML sequence.
func SaveListing(path string, listing []agent.Agent) error {
	if listing == nil {
		listing = []agent.Agent{}
	}
	data, err := yaml.Marshal(listing)
	if err != nil {
		return merrors.Wrap(err, merrors.ErrInternal, merrors.CategoryInternal, "failed to marshal listing")
	}
	return writeFile(path, data)
}

// Validate checks the listing and output settings.
func (c *Config) Validate() error {
	if err := ValidateListing(c.Listing); err != nil {
		return err
	}
	if _, err := export.ParseFormat(string(c.Output.Format)); err != nil {
		return merrors.AttachSuggestions(merrors.Config(merrors.ErrConfigInvalid,
			fmt.Sprintf("unknown output format %q", c.Output.Format)).
			WithContext("field", "output.format").
			WithCause(err))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return merrors.Config(merrors.ErrConfigInvalid,
			fmt.Sprintf("unknown color mode %q", c.Output.Color)).
			WithContext("field", "output.color").
			WithSuggestion("Use one of: auto, always, never")
	}
	return nil
}

// ValidateListing requires every agent to have a name and a valid condition.
func ValidateListing(listing []agent.Agent) error {
	for i, a := range listing {
		if strings.TrimSpace(a.Name) == "" {
			return merrors.AttachSuggestions(merrors.Config(merrors.ErrAgentNameRequired,
				fmt.Sprintf("listing entry %d has no name", i)).
				WithContext("index", fmt.Sprint(i)))
		}
		if err := a.Validate(); err != nil {
			return merrors.AttachSuggestions(merrors.ConfigWrap(err, merrors.ErrConditionInvalid,
				fmt.Sprintf("agent %q has an invalid condition", a.Name)).
				WithContext("index", fmt.Sprint(i)).
				WithContext("name", a.Name))
		}
	}
	return nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return merrors.Wrap(err, merrors.ErrInternal, merrors.CategoryInternal, "failed to marshal config")
	}
	return writeFile(path, data)
}

// DefaultConfigPath returns config.yaml, preferring config/config.yaml when
// only that one exists.
func DefaultConfigPath() string {
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	if _, err := os.Stat("config/config.yaml"); err == nil {
		return "config/config.yaml"
	}
	return "config.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Default().Save(path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if os.IsNotExist(err) {
		return nil, merrors.AttachSuggestions(merrors.ConfigWrap(err, merrors.ErrConfigNotFound,
			"file not found").
			WithContext("path", path))
	}
	return nil, merrors.AttachSuggestions(merrors.ConfigWrap(err, merrors.ErrConfigReadFailed,
		"failed to read file").
		WithContext("path", path))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return merrors.AttachSuggestions(merrors.ConfigWrap(err, merrors.ErrConfigWriteFailed,
				"failed to create directory").
				WithContext("path", dir))
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return merrors.AttachSuggestions(merrors.ConfigWrap(err, merrors.ErrConfigWriteFailed,
			"failed to write file").
			WithContext("path", path))
	}
	return nil
}

func parseError(path string, err error) error {
	return merrors.AttachSuggestions(merrors.ConfigWrap(err, merrors.ErrConfigParseFailed,
		"failed to parse YAML").
		WithContext("path", path))
}
