// Package config loads moin2rst settings from a YAML file, the environment
// and command line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jcorbin/moin2rst/internal/convert"
	"github.com/jcorbin/moin2rst/internal/textio"
	"github.com/jcorbin/moin2rst/internal/wikipage"
)

// FileName is the configuration file looked for when none is given.
const FileName = "moin2rst.yaml"

// EnvPrefix prefixes the environment variables overriding settings, as in
// MOIN2RST_URL_TEMPLATE.
const EnvPrefix = "MOIN2RST"

// Config holds all moin2rst settings.
type Config struct {
	// Directory is the wiki (or wiki data) directory pages are read from.
	Directory string `mapstructure:"directory" yaml:"directory"`

	// Revision selects the page revision to convert, counting from 1; 0 is
	// the current revision.
	Revision int `mapstructure:"revision" yaml:"revision"`

	// URLTemplate builds page URLs: its single '%' is replaced by the page
	// name. A template without '%' gets one appended.
	URLTemplate string `mapstructure:"url_template" yaml:"url_template"`

	Parser     string   `mapstructure:"parser" yaml:"parser"`
	Encoding   string   `mapstructure:"encoding" yaml:"encoding"`
	URLSchemes []string `mapstructure:"url_schemes" yaml:"url_schemes"`
	LogLevel   string   `mapstructure:"log_level" yaml:"log_level"`

	// Listen is the address the serve command listens on.
	Listen string `mapstructure:"listen" yaml:"listen"`

	// Output names the file converted pages are written to; "" or "-" is
	// stdout.
	Output string `mapstructure:"output" yaml:"output"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Directory:   ".",
		Revision:    0,
		URLTemplate: "",
		Parser:      convert.Blackfriday,
		Encoding:    "utf-8",
		URLSchemes:  []string{},
		LogLevel:    "info",
		Listen:      "localhost:8080",
		Output:      "-",
	}
}

func (c *Config) defaults() map[string]interface{} {
	return map[string]interface{}{
		"directory":    c.Directory,
		"revision":     c.Revision,
		"url_template": c.URLTemplate,
		"parser":       c.Parser,
		"encoding":     c.Encoding,
		"url_schemes":  c.URLSchemes,
		"log_level":    c.LogLevel,
		"listen":       c.Listen,
		"output":       c.Output,
	}
}

// flagNames maps setting keys to the command line flags overriding them.
var flagNames = map[string]string{
	"directory":    "directory",
	"revision":     "revision",
	"url_template": "url-template",
	"parser":       "parser",
	"encoding":     "encoding",
	"url_schemes":  "url-scheme",
	"log_level":    "log-level",
	"listen":       "listen",
	"output":       "output",
}

// Find looks for FileName in the working directory and its parents,
// returning "" if there is none.
func Find() (string, error) {
	_, path, err := findWDFile(FileName)
	return path, err
}

// findWDFile attempts to find a named file relative to the current working
// directory, checking every parent directory until one is found.
func findWDFile(name string) (os.FileInfo, string, error) {
	info, err := os.Stat(name)
	if err == nil {
		path, err := filepath.Abs(name)
		return info, path, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}

	for {
		path := filepath.Join(wd, name)
		if info, err = os.Stat(path); err == nil {
			return info, path, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return nil, "", nil
		}
		wd = parent
	}
}

// Load reads the settings. The file at path is read if path is not empty;
// otherwise Find locates one, if any. Set flags of the given flag set take
// precedence over everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range Default().defaults() {
		v.SetDefault(key, value)
	}

	if path == "" {
		found, err := Find()
		if err != nil {
			return nil, fmt.Errorf("failed to look for %s: %w", FileName, err)
		}
		path = found
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Example: MOIN2RST_URL_TEMPLATE
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !strings.Contains(cfg.URLTemplate, "%") {
		cfg.URLTemplate += "%"
	}
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Revision < 0 {
		return fmt.Errorf("revision cannot be negative")
	}
	if strings.Count(c.URLTemplate, "%") > 1 {
		return fmt.Errorf("url_template must contain at most one '%%'")
	}
	if err := convert.ValidParser(c.Parser); err != nil {
		return fmt.Errorf("invalid parser: %w", err)
	}
	if err := wikipage.ValidCharset(c.Encoding); err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}
	return level, nil
}

// WriteFile writes c as YAML to the named file, atomically replacing it.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out, err := textio.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer out.Cleanup()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return out.Close()
}
