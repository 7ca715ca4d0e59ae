// Package mcpserver 以 MCP 工具的形式提供目录摘要和版本链操作
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/share"
	"go.uber.org/zap"
)

type handlerFunc = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Options 服务器选项
type Options struct {
	// Excludes 附加的排除规则，作用于所有工具
	Excludes []string
	// Policy 回退后再提交的策略
	Policy version.Policy
}

// Server 封装 MCP 服务器及已注册的工具
type Server struct {
	mcp      *server.MCPServer
	opts     Options
	handlers map[string]handlerFunc
}

// New 创建服务器并注册全部工具
func New(opts Options) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			share.MCP_SERVER_NAME,
			share.VERSION,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		opts:     opts,
		handlers: make(map[string]handlerFunc),
	}
	s.registerDigestTools()
	s.registerVersionTools()
	return s
}

func (s *Server) addTool(tool mcp.Tool, h handlerFunc) {
	name := tool.Name
	wrapped := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger.Debug("mcp tool call", zap.String("tool", name))
		return h(ctx, req)
	}
	s.mcp.AddTool(tool, wrapped)
	s.handlers[name] = wrapped
}

// MCPServer 底层的 mcp-go 服务器
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// Tools 已注册的工具名
func (s *Server) Tools() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}

// Call 直接调用已注册的工具
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return mcp.NewToolResultError("unknown tool: " + name), nil
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return h(ctx, req)
}

// ServeStdio 通过标准输入输出提供服务，阻塞直到连接结束
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// ServeSSE 通过 SSE 在 addr 上提供服务
func (s *Server) ServeSSE(addr string) error {
	return server.NewSSEServer(s.mcp).Start(addr)
}

// ServeHTTP 通过 Streamable HTTP 在 addr 上提供服务
func (s *Server) ServeHTTP(addr string) error {
	return server.NewStreamableHTTPServer(s.mcp).Start(addr)
}
