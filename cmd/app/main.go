package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/docsaudit/internal"
	"github.com/starford/docsaudit/internal/apperr"
	pkgconfig "github.com/starford/docsaudit/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// loadConfig reads the config file and applies flag overrides. A missing
// config file leaves the defaults in place. The result is validated by
// options once every override is in.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.DecodeOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("root") {
		cfg.Docs.Root = cmd.String("root")
	}
	if cmd.IsSet("nav") {
		cfg.Nav.Path = cmd.String("nav")
	}
	if cmd.IsSet("format") {
		cfg.App.Format = cmd.String("format")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	return cfg, nil
}

func options(cmd *cli.Command, override func(*internal.Config)) ([]internal.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return []internal.Option{internal.WithConfig(cfg)}, nil
}

func dbOverride(cmd *cli.Command) func(*internal.Config) {
	return func(cfg *internal.Config) {
		if cmd.IsSet("db") {
			cfg.SQLite.Path = cmd.String("db")
		}
	}
}

func runLinks(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, func(cfg *internal.Config) {
		if cmd.IsSet("report") {
			cfg.Reports.LinksPath = cmd.String("report")
		}
		if cmd.IsSet("anchors") {
			cfg.Links.CheckAnchors = cmd.Bool("anchors")
		}
	})
	if err != nil {
		return err
	}
	return internal.CheckLinks(ctx, cmd.Bool("watch"), opts...)
}

func runFrontmatterValidate(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, nil)
	if err != nil {
		return err
	}
	return internal.ValidateFrontmatter(ctx, opts...)
}

func runFrontmatterAdd(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, nil)
	if err != nil {
		return err
	}
	return internal.AddFrontmatter(ctx, cmd.Bool("dry-run"), opts...)
}

func runContent(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, nil)
	if err != nil {
		return err
	}
	return internal.CheckContent(ctx, opts...)
}

func runMetrics(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, func(cfg *internal.Config) {
		if cmd.IsSet("output") {
			cfg.Reports.MetricsPath = cmd.String("output")
		}
	})
	if err != nil {
		return err
	}
	return internal.Metrics(ctx, opts...)
}

func runGraphExport(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, dbOverride(cmd))
	if err != nil {
		return err
	}
	return internal.ExportGraph(ctx, opts...)
}

func runGraphBacklinks(ctx context.Context, cmd *cli.Command) error {
	target := cmd.Args().First()
	if target == "" {
		return fmt.Errorf("backlinks: a target path is required")
	}
	opts, err := options(cmd, dbOverride(cmd))
	if err != nil {
		return err
	}
	return internal.Backlinks(ctx, target, opts...)
}

func runGraphOrphans(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, dbOverride(cmd))
	if err != nil {
		return err
	}
	return internal.Orphans(ctx, opts...)
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd, dbOverride(cmd))
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, version, opts...)
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "db",
		Usage:       "Path to the SQLite link graph",
		DefaultText: "docs-graph.db",
	}
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Documentation directory",
		},
		&cli.StringFlag{
			Name:  "nav",
			Usage: "Navigation manifest; empty skips the navigation check",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Report format: text or json",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "docsaudit",
		Usage:   "Audit a markdown documentation tree: links, front-matter, content standards and metrics",
		Version: version,
		Flags:   rootFlags(),
		Commands: []*cli.Command{
			{
				Name:   "links",
				Usage:  "Check internal links, orphaned files and navigation",
				Action: runLinks,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "Rerun the check whenever a file changes"},
					&cli.StringFlag{Name: "report", Usage: "Also write the JSON report to this file"},
					&cli.BoolFlag{Name: "anchors", Usage: "Check #fragments against heading anchors"},
				},
			},
			{
				Name:  "frontmatter",
				Usage: "Validate or generate YAML front-matter",
				Commands: []*cli.Command{
					{
						Name:   "validate",
						Usage:  "Validate front-matter headers",
						Action: runFrontmatterValidate,
					},
					{
						Name:   "add",
						Usage:  "Add generated front-matter to files without one",
						Action: runFrontmatterAdd,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "dry-run", Usage: "Print the changes without writing files"},
						},
					},
				},
			},
			{
				Name:   "content",
				Usage:  "Check content against the writing standards",
				Action: runContent,
			},
			{
				Name:   "metrics",
				Usage:  "Measure the documentation and save the JSON report",
				Action: runMetrics,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Path of the JSON report"},
				},
			},
			{
				Name:  "graph",
				Usage: "Export and query the link graph",
				Flags: []cli.Flag{dbFlag()},
				Commands: []*cli.Command{
					{
						Name:   "export",
						Usage:  "Rebuild the link graph into the SQLite database",
						Action: runGraphExport,
					},
					{
						Name:      "backlinks",
						Usage:     "List the links pointing at a document",
						ArgsUsage: "<path>",
						Action:    runGraphBacklinks,
					},
					{
						Name:   "orphans",
						Usage:  "List stored documents without incoming links",
						Action: runGraphOrphans,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the audit tools over MCP stdio",
				Action: runMCP,
				Flags:  []cli.Flag{dbFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, apperr.ErrChecksFailed) {
			os.Exit(1)
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
