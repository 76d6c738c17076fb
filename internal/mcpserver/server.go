// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the audit passes for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/docsaudit/internal/apperr"
	"github.com/starford/docsaudit/internal/docset"
	"github.com/starford/docsaudit/internal/finding"
	"github.com/starford/docsaudit/internal/index"
	"github.com/starford/docsaudit/internal/linkcheck"
	"github.com/starford/docsaudit/internal/metadata"
	"github.com/starford/docsaudit/internal/metrics"
	"github.com/starford/docsaudit/internal/models"
	"github.com/starford/docsaudit/internal/storage"
)

// MetadataFormatURI addresses the header contract resource.
const MetadataFormatURI = "docsaudit://metadata-format"

// Options configures the passes the tools run.
type Options struct {
	Links  linkcheck.Options
	Logger *slog.Logger
}

// Server wraps the MCP server with the audit tools.
type Server struct {
	mcp    *server.MCPServer
	store  storage.Provider
	db     index.GraphIndex
	opts   Options
	logger *slog.Logger
}

// New creates a new MCP server with all tools registered. db receives the
// link graph rebuilt by find_backlinks.
func New(store storage.Provider, db index.GraphIndex, opts Options, version string) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Links.Logger == nil {
		opts.Links.Logger = logger
	}
	s := &Server{store: store, db: db, opts: opts, logger: logger}

	s.mcp = server.NewMCPServer(
		"docsaudit",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("check_links",
		mcp.WithDescription("Check every internal link of the documentation tree and report broken links, "+
			"orphaned files and navigation entries pointing at missing files."),
		mcp.WithString("format", mcp.Description("Output format: text (default) or json")),
	), s.checkLinks)

	s.mcp.AddTool(mcp.NewTool("validate_frontmatter",
		mcp.WithDescription("Validate YAML front-matter headers against the metadata format. "+
			"Read the "+MetadataFormatURI+" resource for the expected structure."),
		mcp.WithString("path", mcp.Description("Optional relative path of a single file (e.g. coding/arrays.md)")),
		mcp.WithString("format", mcp.Description("Output format: text (default) or json")),
	), s.validateFrontmatter)

	s.mcp.AddTool(mcp.NewTool("content_metrics",
		mcp.WithDescription("Measure the documentation tree: words, reading time, code examples, "+
			"practice problems and completeness per section. Returns the JSON report."),
	), s.contentMetrics)

	s.mcp.AddTool(mcp.NewTool("find_backlinks",
		mcp.WithDescription("Find all files that link to the specified file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the target file")),
	), s.findBacklinks)

	s.mcp.AddResource(
		mcp.NewResource(MetadataFormatURI, "Metadata Format",
			mcp.WithResourceDescription("Front-matter header every documentation file must carry."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMetadataFormatResource,
	)

	return s
}

// Serve answers requests read from in until in is exhausted or ctx is
// cancelled. Cancellation is a clean shutdown.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) load(ctx context.Context) (*docset.Set, error) {
	return docset.NewLoader(s.store, s.opts.Links.Ignore, s.logger).Load(ctx)
}

func (s *Server) checkLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := linkcheck.New(s.store, s.opts.Links).Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if getString(req, "format", finding.FormatText) == finding.FormatJSON {
		err = r.WriteJSON(&buf)
	} else {
		err = r.WriteText(&buf)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) validateFrontmatter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v := metadata.NewValidator(docset.Exemptions{
		Names: append(metadata.SkipNames(), s.opts.Links.Exempt.Names...),
		Globs: s.opts.Links.Exempt.Globs,
	}, s.logger)

	var rep *finding.Report
	if p := getString(req, "path", ""); p != "" {
		p = path.Clean(p)
		data, err := s.store.Read(p)
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", p)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rep = finding.NewReport("frontmatter")
		rep.Check(p)
		rep.Add(v.Document(models.Document{Path: p, Content: data})...)
	} else {
		set, err := s.load(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if rep, err = v.Run(ctx, set); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var buf bytes.Buffer
	f := finding.NewFormatter(getString(req, "format", finding.FormatText), "")
	if err := f.Format(&buf, rep); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) contentMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set, err := s.load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := metrics.NewAnalyzer(s.logger).Run(ctx, set)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) findBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target = path.Clean(target)

	set, err := s.load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r := linkcheck.New(s.store, s.opts.Links).Check(set)
	if err := s.db.Export(r.Graph(set.Documents)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bl, err := s.db.Backlinks(target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	out, _ := json.MarshalIndent(bl, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMetadataFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MetadataFormatURI,
			MIMEType: "text/markdown",
			Text:     MetadataFormat(),
		},
	}, nil
}

// getString extracts an optional string parameter, returning def when it is
// missing or not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}
