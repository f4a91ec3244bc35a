package models

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	"gopkg.in/yaml.v3"
)

const ConfigFile = "config.yaml"

type Config struct {
	Arch     string   `yaml:"arch"`
	Base     uint64   `yaml:"base"`
	Entry    []uint64 `yaml:"entry"`
	Syntax   string   `yaml:"syntax"`
	Color    bool     `yaml:"color"`
	Demangle bool     `yaml:"demangle"`
	DisBytes bool     `yaml:"disbytes"`
	Emulate  bool     `yaml:"emulate"`
	EmuSteps int      `yaml:"emu_steps"`
	Verbose  bool     `yaml:"verbose"`
	Listing  string   `yaml:"listing"`

	Output io.WriteCloser `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{EmuSteps: 10000}
}

// Parse overlays yaml data on top of c.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "failed to parse config")
	}
	return nil
}

// LoadConfig reads config.yaml from the first user or system config folder
// that has one. A missing file is not an error.
func LoadConfig(vendor, app string) (*Config, error) {
	c := DefaultConfig()
	dirs := configdir.New(vendor, app)
	folder := dirs.QueryFolderContainsFile(ConfigFile)
	if folder == nil {
		return c, nil
	}
	data, err := folder.ReadFile(ConfigFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", ConfigFile)
	}
	if err := c.Parse(data); err != nil {
		return nil, err
	}
	return c, nil
}
