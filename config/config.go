package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/AcalephStorage/circleci-cli/util"
)

const (
	// FileName is the name of the config file in the user's home directory
	FileName = ".circleci-config"

	// DefaultHost is the CircleCI host used when the config file names none
	DefaultHost = "https://circleci.com"
)

var configLog = util.NewContextLogger("config")

type (
	// Config holds the settings of one invocation. Optional fields are empty
	// when absent.
	Config struct {
		Token   string `mapstructure:"circleci_token" json:"circleci_token"`
		Project string `mapstructure:"project" json:"project,omitempty"`
		Tag     string `mapstructure:"tag" json:"tag,omitempty"`
		Branch  string `mapstructure:"branch" json:"branch,omitempty"`
		Host    string `mapstructure:"host" json:"host,omitempty"`
	}

	// Args are the overrides given on the command line
	Args struct {
		Project string
		Tag     string
		Branch  string
	}
)

// DefaultPath returns the location of the config file in the home directory
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "unable to locate home directory")
	}
	return filepath.Join(home, FileName), nil
}

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	log := configLog.InFunc("Load")
	log.Debugf("Getting the config from %s", path)

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", path)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file %s", path)
	}

	config := &Config{}
	if err := v.Unmarshal(config, strictTypes); err != nil {
		return nil, errors.Wrapf(err, "unexpected content in config file %s", path)
	}

	if err := config.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}

	log.Debugf("Config found\n%s", config)
	return config, nil
}

// strictTypes rejects values of the wrong YAML type instead of coercing them.
func strictTypes(dc *mapstructure.DecoderConfig) {
	dc.WeaklyTypedInput = false
}

// Merge returns the effective config: each override given in args wins over
// the value from the file.
func Merge(config *Config, args Args) *Config {
	log := configLog.InFunc("Merge")
	log.Debug("Merging config with args")

	merged := &Config{
		Token:   config.Token,
		Host:    config.Host,
		Project: firstOf(args.Project, config.Project),
		Tag:     firstOf(args.Tag, config.Tag),
		Branch:  firstOf(args.Branch, config.Branch),
	}

	log.Debugf("Received project %s tag %s and branch %s", merged.Project, merged.Tag, merged.Branch)
	return merged
}

// HostURL returns the configured host without a trailing slash
func (c *Config) HostURL() string {
	if c.Host == "" {
		return DefaultHost
	}
	return strings.TrimRight(c.Host, "/")
}

// String renders the config as YAML with the token redacted
func (c *Config) String() string {
	redacted := *c
	if redacted.Token != "" {
		redacted.Token = "********"
	}
	out, err := yaml.Marshal(redacted)
	if err != nil {
		return fmt.Sprintf("%+v", redacted)
	}
	return string(out)
}

func (c *Config) validate() error {
	missing := []string{}
	if len(strings.TrimSpace(c.Token)) == 0 {
		missing = append(missing, "circleci_token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("Missing configuration: [%s]", strings.Join(missing, ", "))
	}
	return nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
