package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/mcpserver"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/spf13/cobra"
)

var (
	mcpTransport string
	mcpPort      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: lang.T("MCP Server"),
	Long:  lang.T("Serve the digest and version history operations as MCP tools"),
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "", lang.T("Transport: stdio, http or sse (default stdio)"))
	mcpCmd.Flags().StringVar(&mcpPort, "port", "8080", lang.T("Port for the http and sse transports"))
}

func runMCP(cmd *cobra.Command, args []string) error {
	policy, err := version.ParsePolicy(config.GetConfigWithDefault(config.KeyVersionPolicy, "keep"))
	if err != nil {
		return err
	}
	srv := mcpserver.New(mcpserver.Options{Excludes: excludePatterns, Policy: policy})

	transport := mcpTransport
	if transport == "" {
		transport = os.Getenv("MCP_TRANSPORT")
	}
	port := mcpPort
	if envPort := os.Getenv("MCP_PORT"); envPort != "" {
		port = envPort
	}

	// stdio 模式下标准输出属于协议，提示信息只写标准错误
	switch transport {
	case "http":
		fmt.Fprintf(os.Stderr, lang.T("Serving MCP over HTTP on port %s")+"\n", port)
		return srv.ServeHTTP(":" + port)
	case "sse":
		fmt.Fprintf(os.Stderr, lang.T("Serving MCP over SSE on port %s")+"\n", port)
		return srv.ServeSSE(":" + port)
	case "", "stdio":
		return srv.ServeStdio()
	default:
		return fmt.Errorf(lang.T("Unknown transport: %s"), transport)
	}
}
