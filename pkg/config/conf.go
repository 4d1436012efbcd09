// Package config persists user defaults for the analyzer in a YAML file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	defaultTopK      = 5
	defaultBins      = 20
	defaultColumn    = 2
	defaultFormat    = "json"
	defaultDelimiter = "\t"
)

// Config represents app config object.
type Config struct {
	// TopK is the default number of ranked proteins to print.
	TopK int `yaml:"topK"`
	// Bins is the default histogram bin count.
	Bins             int     `yaml:"bins"`
	Delimiter        string  `yaml:"delimiter"`
	AnnotationColumn int     `yaml:"annotationColumn"`
	MinScore         float64 `yaml:"minScore"`
	// Workers caps the neighborhood engine pool, zero means one per CPU.
	Workers  int    `yaml:"workers"`
	Format   string `yaml:"format"`
	PlotDir  string `yaml:"plotDir,omitempty"`
	CacheDir string `yaml:"cacheDir,omitempty"`
}

// Default returns the config used when no file exists yet.
func Default() *Config {
	return &Config{
		TopK:             defaultTopK,
		Bins:             defaultBins,
		Delimiter:        defaultDelimiter,
		AnnotationColumn: defaultColumn,
		Format:           defaultFormat,
	}
}

// fill replaces invalid values with defaults.
func (c *Config) fill() {
	d := Default()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.Bins <= 0 {
		c.Bins = d.Bins
	}
	if c.Delimiter == "" {
		c.Delimiter = d.Delimiter
	}
	if c.Format == "" {
		c.Format = d.Format
	}
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	// keys missing from the file keep their default
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	c.fill()
	return c, nil
}

// GetOrCreateHomeDir returns the home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		err := os.Mkdir(dir, dirMode)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
