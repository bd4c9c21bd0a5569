// Package mcp wires the tool registry and the stdio transport.
//
// Protocol traffic (one JSON-RPC response per request) goes to stdout only;
// every diagnostic line goes to the stderr logger, so log output can never
// corrupt protocol framing.
package mcp

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devbridge/devbridge/internal/adb"
	"github.com/devbridge/devbridge/internal/artifact"
	"github.com/devbridge/devbridge/internal/config"
	"github.com/devbridge/devbridge/internal/core"
	gh "github.com/devbridge/devbridge/internal/github"
	"github.com/devbridge/devbridge/internal/telemetry"
)

type Server struct {
	cfg    config.Config
	gh     *gh.Client
	adb    *adb.Runner
	store  *artifact.Store
	logger *slog.Logger
	mcp    *server.MCPServer

	// Serializes tool calls: at most one external operation (and one child
	// process) is in flight at a time.
	mu sync.Mutex
}

func NewServer(cfg config.Config, ghClient *gh.Client, adbRunner *adb.Runner, store *artifact.Store, logger *slog.Logger, version string) *Server {
	s := &Server{
		cfg:    cfg,
		gh:     ghClient,
		adb:    adbRunner,
		store:  store,
		logger: logger,
	}

	m := server.NewMCPServer(
		"devbridge",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	m.AddTool(s.prListTool(), s.wrap("github_pr_list", s.handlePRList))
	m.AddTool(s.prDiffTool(), s.wrap("github_pr_diff", s.handlePRDiff))
	m.AddTool(s.summarySaveTool(), s.wrap("summary_save", s.handleSummarySave))
	m.AddTool(s.devicesListTool(), s.wrap("adb_devices_list", s.handleDevicesList))
	m.AddTool(s.bugreportTool(), s.wrap("adb_bugreport", s.handleBugreport))

	s.mcp = m
	return s
}

// Serve attaches the server to stdin/stdout and blocks until the input
// stream closes.
func (s *Server) Serve() error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return server.ServeStdio(s.mcp, server.WithErrorLogger(log.New(os.Stderr, "devbridge: ", log.LstdFlags)))
}

type toolHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// wrap serializes the call, assigns a trace ID, and records telemetry and
// a completion log line for every invocation.
func (s *Server) wrap(name string, h toolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		traceID := uuid.New().String()
		start := time.Now()
		res, err := h(ctx, req)

		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		telemetry.IncToolCall(name, status)
		telemetry.ObserveToolDuration(name, time.Since(start))
		s.logger.Info("tool call completed",
			"trace_id", traceID,
			"tool_name", name,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return res, err
	}
}

// errResult logs the failure on the diagnostic channel and converts it into
// an error-flagged tool result. Handlers never terminate a request with a
// protocol-level error; this is the one error-surfacing convention applied
// to every tool.
func (s *Server) errResult(toolName string, err error) *mcp.CallToolResult {
	s.logger.Error("tool call failed",
		"tool_name", toolName,
		"code", core.ErrorCode(err),
		"err", err,
	)
	return mcp.NewToolResultError(core.FormatError(err))
}
