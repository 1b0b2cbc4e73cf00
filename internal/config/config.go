package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
	"go.uber.org/zap"

	"go-etl-pipeline/pkg/utils"
)

const (
	DefaultSourceURL      = "https://jsonplaceholder.typicode.com/posts"
	DefaultOutputFile     = "processed_posts.csv"
	DefaultOutputDir      = "outputs"
	DefaultDBPath         = "pipeline.db"
	DefaultListenAddr     = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultFilterUserID   = 1
)

// Config holds everything the CLI and API need to build a pipeline
type Config struct {
	SourceURL      string `json:"sourceUrl"`
	OutputFile     string `json:"outputFile"`
	OutputDir      string `json:"outputDir"` // per-run outputs of API-triggered runs
	FilterUserID   int    `json:"filterUserId"`
	RequestTimeout string `json:"requestTimeout"` // e.g. "30s"
	DBPath         string `json:"dbPath"`
	ListenAddr     string `json:"listenAddr"`
	Verbose        bool   `json:"verbose"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		SourceURL:      DefaultSourceURL,
		OutputFile:     DefaultOutputFile,
		OutputDir:      DefaultOutputDir,
		FilterUserID:   DefaultFilterUserID,
		RequestTimeout: DefaultRequestTimeout.String(),
		DBPath:         DefaultDBPath,
		ListenAddr:     DefaultListenAddr,
	}
}

// Timeout parses RequestTimeout, falling back to DefaultRequestTimeout
func (c Config) Timeout() time.Duration {
	return utils.ParseDuration(c.RequestTimeout, DefaultRequestTimeout)
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// ReadConfig reads a JSON5 file and merges <name>.local.<ext> over it when present.
// Returns os.ErrNotExist when neither file exists.
func ReadConfig[T any](name string, logger *zap.Logger) (T, error) {
	var out T
	allNotFound := true

	if logger == nil {
		logger = zap.NewNop()
	}

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		if err := json5.Unmarshal(localFile, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		logger.Info("merging config with local overrides", zap.String("local", localFilepath))
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Load reads the config file at path (if any) and fills unset fields from Default.
// An empty path or a missing file yields the defaults.
// A zero filterUserId counts as unset.
func Load(path string, logger *zap.Logger) (Config, error) {
	cfg := Config{}
	if path != "" {
		read, err := ReadConfig[Config](path, logger)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			cfg = read
		}
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
