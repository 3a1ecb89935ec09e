// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes status rotation tools via stdio transport.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/modeswitch/internal/api"
)

// Mode pairs a status value with its human-readable name.
type Mode struct {
	Value int
	Label string
}

// Server wraps the MCP server with modeswitch tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *api.Service
	modes []Mode
}

// New creates a new MCP server with all modeswitch tools registered.
func New(svc *api.Service, modes []Mode) *Server {
	s := &Server{svc: svc, modes: modes}

	s.mcp = server.NewMCPServer(
		"Modeswitch",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Read the current mode number and its label from the status file."),
	), s.getStatus)

	s.mcp.AddTool(mcp.NewTool("rotate_status",
		mcp.WithDescription("Advance the status file to the next mode, wrapping past the maximum back to 0."),
		mcp.WithNumber("max", mcp.Description("Inclusive upper bound of the rotation range (defaults to the configured max)")),
	), s.rotateStatus)

	s.mcp.AddTool(mcp.NewTool("set_status",
		mcp.WithDescription("Write an explicit mode number to the status file, creating it when absent."),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Non-negative mode number to write")),
	), s.setStatus)

	s.mcp.AddTool(mcp.NewTool("list_modes",
		mcp.WithDescription("List the configured mode numbers and their labels."),
	), s.listModes)

	// Resource: status file contract.
	s.mcp.AddResource(
		mcp.NewResource("modeswitch://status-format", "Status File Contract",
			mcp.WithResourceDescription("Format of the shared status file consumers depend on."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readStatusFormatResource,
	)

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

func (s *Server) getStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.Status()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d %s", st.Value, st.Label)), nil
}

func (s *Server) rotateStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	max := req.GetInt("max", -1)
	rot, err := s.svc.Rotate(max, "mcp")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("rotated %d -> %d (%s)", rot.Old, rot.New, s.svc.Label(rot.New))), nil
}

func (s *Server) setStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := req.RequireInt("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if value < 0 {
		return mcp.NewToolResultError("value must be a non-negative integer"), nil
	}
	if err := s.svc.Set(value, "mcp"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("set status to %d (%s)", value, s.svc.Label(value))), nil
}

func (s *Server) listModes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if len(s.modes) == 0 {
		return mcp.NewToolResultText("no modes configured"), nil
	}
	var lines []string
	for _, m := range s.modes {
		lines = append(lines, fmt.Sprintf("%d\t%s", m.Value, m.Label))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readStatusFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "modeswitch://status-format",
			MIMEType: "text/markdown",
			Text:     StatusFileContract,
		},
	}, nil
}
