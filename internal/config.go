package internal

import (
	"errors"
	"log/slog"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/docsaudit/internal/finding"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Docs    DocsConfig        `yaml:"docs"`
	Nav     NavConfig         `yaml:"nav"`
	Links   LinksConfig       `yaml:"links"`
	Reports ReportsConfig     `yaml:"reports"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Reports.Validate(); err != nil {
		return err
	}
	return c.SQLite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// Format selects the report output: text or json.
	Format string `yaml:"format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In(finding.FormatText, finding.FormatJSON)),
	)
}

var extensionPattern = regexp.MustCompile(`^\.?[A-Za-z0-9]+$`)

// DocsConfig describes the documentation tree.
type DocsConfig struct {
	Root      string `yaml:"root"`
	Extension string `yaml:"extension"`
	// Exempt lists extra basenames left out of orphan and metadata checks.
	Exempt []string `yaml:"exempt"`
	// ExemptGlobs lists doublestar globs of root-relative paths left out of
	// the same checks.
	ExemptGlobs []string `yaml:"exempt_globs"`
	// Ignore lists doublestar globs of files left out of every pass.
	Ignore []string `yaml:"ignore"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionPattern)),
		validation.Field(&c.ExemptGlobs, validation.Each(validation.By(validGlob))),
		validation.Field(&c.Ignore, validation.Each(validation.By(validGlob))),
	)
}

func validGlob(v any) error {
	s, _ := v.(string)
	if !doublestar.ValidatePattern(s) {
		return errors.New("invalid glob pattern")
	}
	return nil
}

// NavConfig locates the navigation manifest. An empty path skips the
// navigation check.
type NavConfig struct {
	Path string `yaml:"path"`
}

// LinksConfig tunes the link checker.
type LinksConfig struct {
	CheckAnchors bool `yaml:"check_anchors"`
	// GenericTexts replaces the built-in list of non-descriptive link texts.
	GenericTexts []string `yaml:"generic_texts"`
}

// ReportsConfig holds the output paths of written reports.
type ReportsConfig struct {
	MetricsPath string `yaml:"metrics_path"`
	// LinksPath, when set, receives the JSON link report of every run.
	LinksPath string `yaml:"links_path"`
}

// Validate validates the reports configuration.
func (c *ReportsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MetricsPath, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
			Format:   finding.FormatText,
		},
		Docs: DocsConfig{
			Root:      "docs",
			Extension: ".md",
		},
		Nav: NavConfig{
			Path: "mkdocs.yml",
		},
		Reports: ReportsConfig{
			MetricsPath: "content_metrics_report.json",
		},
		SQLite: SQLiteConfig{
			Path: "docs-graph.db",
		},
	}
}
