package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/pack"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/workspace"
)

func (s *Server) registerDigestTools() {
	s.addTool(mcp.NewTool(
		"digest",
		mcp.WithDescription("Build a text digest of a directory, a single file or a git repository URL"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Directory path, file path or git URL")),
		mcp.WithString("output", mcp.Description("Write the digest to this file (.txt, .md or .pdf)")),
		mcp.WithArray("exclude", mcp.Description("Extra glob patterns to exclude"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("includeContent", mcp.Description("Return file contents, default false")),
	), s.digest)
}

func (s *Server) registerVersionTools() {
	dirParam := mcp.WithString("dir", mcp.Required(), mcp.Description("Directory under version control"))

	s.addTool(mcp.NewTool(
		"versions_list",
		mcp.WithDescription("List the saved versions of a directory"),
		dirParam,
	), s.versionsList)

	s.addTool(mcp.NewTool(
		"version_revert",
		mcp.WithDescription("Restore the directory to the previous version"),
		dirParam,
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.move(ctx, req, (*workspace.Workspace).Revert)
	})

	s.addTool(mcp.NewTool(
		"version_forward",
		mcp.WithDescription("Move the directory forward to the next version"),
		dirParam,
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.move(ctx, req, (*workspace.Workspace).Forward)
	})
}

func (s *Server) scanner(req mcp.CallToolRequest) *project.Scanner {
	excludes := append(append([]string{}, s.opts.Excludes...), helper.GetStringSliceFromRequest(req, "exclude")...)
	return project.NewScanner(project.WithExcludes(excludes...))
}

func (s *Server) digest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := pack.Digest(ctx, source, pack.DigestOptions{Scanner: s.scanner(req)})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("digest failed", err), nil
	}

	var b strings.Builder
	b.WriteString(d.Summary)
	b.WriteString("\n")
	b.WriteString(d.Tree)
	if output, ok := helper.GetStringFromRequest(req, "output", ""); ok {
		path, err := pack.WriteDigest(d, output)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("write digest failed", err), nil
		}
		fmt.Fprintf(&b, "\nDigest written to %s\n", path)
	}
	if include, _ := helper.GetBoolFromRequest(req, "includeContent", false); include {
		b.WriteString("\n")
		b.WriteString(d.Content)
	}
	for _, diag := range d.Diagnostics {
		b.WriteString("\nwarning: " + diag.String())
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) load(ctx context.Context, req mcp.CallToolRequest) (*workspace.Workspace, error) {
	dir, err := req.RequireString("dir")
	if err != nil {
		return nil, err
	}
	return workspace.Load(ctx, dir, workspace.Options{
		Mode:    workspace.ModeEdit,
		Scanner: s.scanner(req),
		Policy:  s.opts.Policy,
	})
}

func (s *Server) versionsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, err := s.load(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := ws.Versions()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("list versions failed", err), nil
	}
	return mcp.NewToolResultText(helper.ToJSON(list)), nil
}

func (s *Server) move(ctx context.Context, req mcp.CallToolRequest, step func(*workspace.Workspace) (version.Info, error)) (*mcp.CallToolResult, error) {
	ws, err := s.load(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := step(ws)
	if errors.Is(err, version.ErrVersionBounds) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorFromErr("version change failed", err), nil
	}
	return mcp.NewToolResultText(helper.ToJSON(info)), nil
}
