// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes beatscan tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/soundforge/beatscan/internal/api"
	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/scanner"
	"github.com/soundforge/beatscan/internal/store"
)

// Server wraps the MCP server with beatscan tools.
type Server struct {
	mcp *server.MCPServer
	svc api.Organizer
	db  store.SampleStore
}

// New creates a new MCP server with all beatscan tools registered.
func New(svc api.Organizer, db store.SampleStore) *Server {
	s := &Server{svc: svc, db: db}

	s.mcp = server.NewMCPServer(
		"beatscan",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("organize_samples",
		mcp.WithDescription("Scan a directory for audio samples, extract metadata "+
			"(duration, sample rate, tempo, key), register the samples, and return the batch report."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory to scan")),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User identity for usage tracking")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project identity for usage tracking")),
		mcp.WithBoolean("spectrogram", mcp.Description("Render spectrogram images (default false)")),
		mcp.WithString("theme", mcp.Description("Spectrogram theme: dark or light (default light)")),
	), s.organizeSamples)

	s.mcp.AddTool(mcp.NewTool("lookup_sample",
		mcp.WithDescription("Look up a registered sample by its file path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Full path of the sample file")),
	), s.lookupSample)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) organizeSamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := req.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := req.RequireInt("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	projectID, err := req.RequireInt("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep, err := s.svc.Scan(ctx, scanner.Request{
		Directory:         directory,
		UserID:            int64(userID),
		ProjectID:         int64(projectID),
		RenderSpectrogram: req.GetBool("spectrogram", false),
		Theme:             req.GetString("theme", "light"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(rep, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupSample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.db.GetSample(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
