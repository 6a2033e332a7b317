package util

import (
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoggingConfig is the content of the logging configuration file
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ReadLoggingConfig parses the logging configuration file. A missing file
// yields the defaults.
func ReadLoggingConfig(path string) (*LoggingConfig, error) {
	cfg := &LoggingConfig{Level: "info", Format: "text"}

	content, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read logging config %s", path)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "unable to parse logging config %s", path)
	}
	return cfg, nil
}

// ConfigureLogging sets up the global logrus logger from the file at path.
// The returned closer releases the log file, if any.
func ConfigureLogging(path string) (io.Closer, error) {
	cfg, err := ReadLoggingConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Apply(logrus.StandardLogger())
}

// Apply configures the given logger. DEBUG=true in the environment always
// wins over the configured level.
func (cfg *LoggingConfig) Apply(logger *logrus.Logger) (io.Closer, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrap(err, "invalid log level")
		}
		level = parsed
	}
	if GetEnv("DEBUG", "false") == "true" {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.Output == "" {
		logger.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open log file %s", cfg.Output)
	}
	logger.SetOutput(file)
	return file, nil
}

// GetEnv returns the environment variable key, or defaultStr when unset
func GetEnv(key, defaultStr string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultStr
	}
	return value
}
