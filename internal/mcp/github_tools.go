package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devbridge/devbridge/internal/core"
)

type PRRecord struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	State  string `json:"state"`
}

type PRListResult struct {
	PullRequests []PRRecord `json:"pull_requests"`
	Count        int        `json:"count"`
}

func (s *Server) prListTool() mcp.Tool {
	return mcp.NewTool("github_pr_list",
		mcp.WithDescription("List pull requests for a GitHub repository"),
		mcp.WithString("owner",
			mcp.Description("Repository owner"),
			mcp.DefaultString(s.cfg.DefaultOwner),
		),
		mcp.WithString("repo",
			mcp.Description("Repository name"),
			mcp.DefaultString(s.cfg.DefaultRepo),
		),
		mcp.WithString("state",
			mcp.Description("Lifecycle filter"),
			mcp.Enum("open", "closed", "all"),
			mcp.DefaultString("open"),
		),
		mcp.WithOutputSchema[PRListResult](),
	)
}

func (s *Server) handlePRList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo, err := s.ownerRepo(req)
	if err != nil {
		return s.errResult("github_pr_list", err), nil
	}
	state := req.GetString("state", "open")
	switch state {
	case "open", "closed", "all":
	default:
		return s.errResult("github_pr_list",
			core.NewError(core.CodeInvalidArgument, "state must be one of open, closed, all; got %q", state)), nil
	}

	prs, err := s.gh.ListPullRequests(ctx, owner, repo, state)
	if err != nil {
		return s.errResult("github_pr_list", err), nil
	}

	records := make([]PRRecord, len(prs))
	for i, pr := range prs {
		records[i] = PRRecord{Number: pr.Number, Title: pr.Title, URL: pr.HTMLURL, State: pr.State}
	}
	result := PRListResult{PullRequests: records, Count: len(records)}
	summary := fmt.Sprintf("Found %d %s pull request(s) in %s/%s", result.Count, state, owner, repo)
	return mcp.NewToolResultStructured(result, summary), nil
}

func (s *Server) prDiffTool() mcp.Tool {
	return mcp.NewTool("github_pr_diff",
		mcp.WithDescription("Fetch the unified diff of one pull request"),
		mcp.WithString("owner",
			mcp.Description("Repository owner"),
			mcp.DefaultString(s.cfg.DefaultOwner),
		),
		mcp.WithString("repo",
			mcp.Description("Repository name"),
			mcp.DefaultString(s.cfg.DefaultRepo),
		),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Pull request number"),
			mcp.Min(1),
		),
	)
}

func (s *Server) handlePRDiff(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo, err := s.ownerRepo(req)
	if err != nil {
		return s.errResult("github_pr_diff", err), nil
	}
	number, err := req.RequireInt("number")
	if err != nil {
		return s.errResult("github_pr_diff",
			core.WrapError(core.CodeInvalidArgument, err)), nil
	}
	if number < 1 {
		return s.errResult("github_pr_diff",
			core.NewError(core.CodeInvalidArgument, "number must be a positive integer, got %d", number)), nil
	}

	diff, err := s.gh.GetPullRequestDiff(ctx, owner, repo, number)
	if err != nil {
		return s.errResult("github_pr_diff", err), nil
	}

	summary := fmt.Sprintf("Diff for %s/%s#%d (%d characters)", owner, repo, number, len(diff))
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(summary),
			mcp.NewTextContent(diff),
		},
	}, nil
}

// ownerRepo resolves owner and repo from arguments, falling back to the
// configured defaults.
func (s *Server) ownerRepo(req mcp.CallToolRequest) (string, string, error) {
	owner := strings.TrimSpace(req.GetString("owner", s.cfg.DefaultOwner))
	repo := strings.TrimSpace(req.GetString("repo", s.cfg.DefaultRepo))
	if owner == "" {
		return "", "", core.NewError(core.CodeInvalidArgument, "owner is required and no default is configured")
	}
	if repo == "" {
		return "", "", core.NewError(core.CodeInvalidArgument, "repo is required and no default is configured")
	}
	return owner, repo, nil
}
