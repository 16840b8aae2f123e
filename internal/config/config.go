// Package config loads lint-runner settings.
//
// Every setting has a built-in default matching the checks the repository
// ships with; an optional YAML file at the repository root and command-line
// flags may override them. Precedence (highest to lowest): flags > file > defaults.
// Environment variables are deliberately not consulted.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFileName is looked up in the repository root when no --config is given.
const DefaultFileName = ".lint-runner.yaml"

// Defaults.
const (
	DefaultSubtreeScript    = "test/lint/git-subtree-check.sh"
	DefaultForbiddenPattern = "std::filesystem"
	DefaultDocScript        = "test/lint/check-doc.py"
	DefaultScriptsDir       = "test/lint"
	DefaultScriptsPrefix    = "lint-"
	DefaultScriptsSuffix    = ".py"
	DefaultInterpreter      = "python3"
)

// DefaultSubtrees are the vendored directories that must stay pure subtrees.
var DefaultSubtrees = []string{
	"src/crypto/ctaes",
	"src/secp256k1",
	"src/minisketch",
	"src/leveldb",
	"src/crc32c",
}

// DefaultForbiddenMessage explains why the forbidden API must not be used.
const DefaultForbiddenMessage = `
^^^
Direct use of std::filesystem may be dangerous and buggy. Please include <util/fs.h> and use the
fs:: namespace, which has unsafe filesystem functions marked as deleted.
`

// SubtreeConfig configures the subtree purity check.
type SubtreeConfig struct {
	Script string   `koanf:"script" yaml:"script"`
	Dirs   []string `koanf:"dirs" yaml:"dirs"`
}

// ForbiddenConfig configures the forbidden-API usage check.
type ForbiddenConfig struct {
	Pattern string   `koanf:"pattern" yaml:"pattern"`
	Paths   []string `koanf:"paths" yaml:"paths"`
	Exclude []string `koanf:"exclude" yaml:"exclude"`
	Message string   `koanf:"message" yaml:"message"`
}

// DocConfig configures the documentation completeness check.
type DocConfig struct {
	Script string `koanf:"script" yaml:"script"`
}

// ScriptsConfig configures the auxiliary lint script sweep.
type ScriptsConfig struct {
	Dir         string `koanf:"dir" yaml:"dir"`
	Prefix      string `koanf:"prefix" yaml:"prefix"`
	Suffix      string `koanf:"suffix" yaml:"suffix"`
	Interpreter string `koanf:"interpreter" yaml:"interpreter"`
}

// Config is the effective lint-runner configuration.
type Config struct {
	Subtree   SubtreeConfig   `koanf:"subtree" yaml:"subtree"`
	Forbidden ForbiddenConfig `koanf:"forbidden" yaml:"forbidden"`
	Doc       DocConfig       `koanf:"doc" yaml:"doc"`
	Scripts   ScriptsConfig   `koanf:"scripts" yaml:"scripts"`

	// StateDir, when set, persists run results there. Relative paths are
	// resolved against the repository root.
	StateDir string `koanf:"state_dir" yaml:"state_dir,omitempty"`
	Verbose  bool   `koanf:"verbose" yaml:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-" yaml:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"subtree.script":      DefaultSubtreeScript,
		"subtree.dirs":        append([]string(nil), DefaultSubtrees...),
		"forbidden.pattern":   DefaultForbiddenPattern,
		"forbidden.paths":     []string{"./src/"},
		"forbidden.exclude":   []string{"src/util/fs.h"},
		"forbidden.message":   DefaultForbiddenMessage,
		"doc.script":          DefaultDocScript,
		"scripts.dir":         DefaultScriptsDir,
		"scripts.prefix":      DefaultScriptsPrefix,
		"scripts.suffix":      DefaultScriptsSuffix,
		"scripts.interpreter": DefaultInterpreter,
		"state_dir":           "",
		"verbose":             false,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("", "", nil)
	if err != nil {
		// Only defaults are loaded; failure here is a programming error.
		panic(err)
	}
	return cfg
}

// Load builds the configuration for the repository at root.
// cfgFile is an explicit config file; when empty, root/.lint-runner.yaml is
// used if it exists. Only flags that were explicitly set override lower layers.
func Load(root, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findConfigFile(root, cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"state-dir": "state_dir",
	"verbose":   "verbose",
}

func findConfigFile(root, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if root == "" {
		return "", nil
	}
	candidate := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

// Validate rejects settings that would make a check meaningless.
func (c *Config) Validate() error {
	var errs []error
	if c.Subtree.Script == "" {
		errs = append(errs, errors.New("subtree.script must not be empty"))
	}
	if strings.TrimSpace(c.Forbidden.Pattern) == "" {
		errs = append(errs, errors.New("forbidden.pattern must not be empty"))
	}
	if c.Doc.Script == "" {
		errs = append(errs, errors.New("doc.script must not be empty"))
	}
	if c.Scripts.Dir == "" {
		errs = append(errs, errors.New("scripts.dir must not be empty"))
	}
	if c.Scripts.Interpreter == "" {
		errs = append(errs, errors.New("scripts.interpreter must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// ResolveStateDir returns StateDir anchored at root, or "" when unset.
func (c *Config) ResolveStateDir(root string) string {
	if c.StateDir == "" || filepath.IsAbs(c.StateDir) {
		return c.StateDir
	}
	return filepath.Join(root, c.StateDir)
}
