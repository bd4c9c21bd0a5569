package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devbridge/devbridge/internal/core"
)

type SummarySaveResult struct {
	Path string `json:"path"`
}

func (s *Server) summarySaveTool() mcp.Tool {
	return mcp.NewTool("summary_save",
		mcp.WithDescription("Save free-form text to a file in the summaries directory"),
		mcp.WithString("file_name",
			mcp.Required(),
			mcp.Description("File name; path separators and parent-directory sequences are sanitized away"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Text content, written verbatim"),
		),
		mcp.WithOutputSchema[SummarySaveResult](),
	)
}

func (s *Server) handleSummarySave(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("file_name")
	if err != nil {
		return s.errResult("summary_save", core.WrapError(core.CodeInvalidArgument, err)), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return s.errResult("summary_save", core.WrapError(core.CodeInvalidArgument, err)), nil
	}

	path, err := s.store.SaveSummary(name, content)
	if err != nil {
		// Filesystem failures are never raised; always an error-flagged result.
		return s.errResult("summary_save", err), nil
	}

	summary := fmt.Sprintf("Summary saved to %s", path)
	return mcp.NewToolResultStructured(SummarySaveResult{Path: path}, summary), nil
}
