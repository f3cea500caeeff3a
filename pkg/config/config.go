package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/kontocsv/pkg/document"
	"github.com/yurifrl/kontocsv/pkg/keywords"
	"github.com/yurifrl/kontocsv/pkg/locale"
	"github.com/yurifrl/kontocsv/pkg/parser"
)

const envPrefix = "KONTOCSV"

type Config struct {
	OutputDir        string        `mapstructure:"output_dir"`
	Separator        string        `mapstructure:"separator"`
	Keywords         []string      `mapstructure:"keywords"`
	KeywordFile      string        `mapstructure:"keyword_file"`
	ExtendedKeywords bool          `mapstructure:"extended_keywords"`
	SkipLastPage     bool          `mapstructure:"skip_last_page"`
	PDFMode          string        `mapstructure:"pdf_mode"`
	Extensions       []string      `mapstructure:"extensions"`
	Workers          int           `mapstructure:"workers"`
	Report           bool          `mapstructure:"report"`
	LogLevel         string        `mapstructure:"log_level"`
	Locale           locale.Locale `mapstructure:"locale"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"output":         "output_dir",
	"separator":      "separator",
	"keywords":       "keyword_file",
	"extended":       "extended_keywords",
	"skip-last-page": "skip_last_page",
	"pdf-mode":       "pdf_mode",
	"workers":        "workers",
	"report":         "report",
	"log-level":      "log_level",
}

func setDefaults(v *viper.Viper) {
	de := locale.German()
	v.SetDefault("output_dir", "")
	v.SetDefault("separator", ",")
	v.SetDefault("keywords", []string{})
	v.SetDefault("keyword_file", "")
	v.SetDefault("extended_keywords", false)
	v.SetDefault("skip_last_page", true)
	v.SetDefault("pdf_mode", string(document.ModeLayout))
	v.SetDefault("extensions", document.DefaultExtensions)
	v.SetDefault("workers", 1)
	v.SetDefault("report", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("locale.decimal_separator", de.DecimalSeparator)
	v.SetDefault("locale.group_separator", de.GroupSeparator)
	v.SetDefault("locale.date_layout", de.DateLayout)
}

// RegisterFlags adds the command line overrides understood by Build.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "", "Output directory (default: next to each input file)")
	fs.StringP("separator", "s", ",", "CSV field separator (use \"tab\" for tabs)")
	fs.StringP("keywords", "k", "", "YAML file with the keyword table")
	fs.Bool("extended", false, "Add standing orders to the default keyword table")
	fs.Bool("skip-last-page", true, "Ignore the last page of every document")
	fs.String("pdf-mode", string(document.ModeLayout), "Text extraction mode: layout, plain or rows")
	fs.IntP("workers", "w", 1, "Documents converted in parallel in directory mode")
	fs.Bool("report", true, "Print the category coverage report")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
}

// Build merges defaults, an optional YAML config file, KONTOCSV_* environment
// variables (a .env file is honoured) and flags, in increasing priority.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Separator:    ",",
		SkipLastPage: true,
		PDFMode:      string(document.ModeLayout),
		Extensions:   document.DefaultExtensions,
		Workers:      1,
		Report:       true,
		LogLevel:     "info",
		Locale:       locale.German(),
	}
}

func (c *Config) Validate() error {
	if _, err := c.Comma(); err != nil {
		return err
	}
	if err := c.Locale.Validate(); err != nil {
		return fmt.Errorf("invalid locale: %w", err)
	}
	switch document.Mode(c.PDFMode) {
	case document.ModeLayout, document.ModePlain, document.ModeRows:
	default:
		return fmt.Errorf("unknown pdf mode %q", c.PDFMode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.Extensions) == 0 {
		return errors.New("no document extensions configured")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Comma returns the field separator as a rune.
func (c *Config) Comma() (rune, error) {
	sep := c.Separator
	if sep == "tab" || sep == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(sep) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)
	if r == '.' || r == '"' || r == '-' || r == '\r' || r == '\n' || (r >= '0' && r <= '9') {
		return 0, fmt.Errorf("separator %q cannot be used", sep)
	}
	return r, nil
}

// Table resolves the keyword table: a keyword file wins over an inline list,
// which wins over the built-in tables.
func (c *Config) Table() (*keywords.Table, error) {
	switch {
	case c.KeywordFile != "":
		return keywords.Load(c.KeywordFile)
	case len(c.Keywords) > 0:
		return keywords.New(c.Keywords...)
	case c.ExtendedKeywords:
		return keywords.Extended(), nil
	default:
		return keywords.Default(), nil
	}
}

func (c *Config) SkipFunc() parser.SkipFunc {
	if c.SkipLastPage {
		return parser.SkipLastPage
	}
	return parser.SkipNone
}

func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
