package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/helper/renders"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/share"
	"github.com/spf13/cobra"
)

var (
	excludePatterns []string
	debugMode       bool
	langFlag        string
)

var RootCmd = rootCmd

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: lang.T("Directory-aware AI assistant"),
	Long:  lang.T("Chat, digest directories, ask about them and edit them with a version history"),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		fmt.Fprintln(os.Stderr, lang.T("Invalid arguments")+": ", args)
		os.Exit(1)
	},
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&excludePatterns, "exclude", "x", []string{}, lang.T("Glob patterns to exclude"))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "v", false, lang.T("Debug mode"))
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", lang.T("Interface and response language"))
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		share.SetDebug(debugMode)
		if l := langFlag; l != "" {
			lang.SetLanguage(l)
		} else if l := config.GetConfig(config.KeyLang); l != "" {
			lang.SetLanguage(l)
		}
		return logger.Init(debugMode)
	}
}

// newScanner 带上命令行排除规则的扫描器
func newScanner(opts ...project.ScanOption) *project.Scanner {
	opts = append([]project.ScanOption{project.WithExcludes(excludePatterns...)}, opts...)
	return project.NewScanner(opts...)
}

// printDiagnostic 扫描过程中即时输出警告
func printDiagnostic(d project.Diagnostic) {
	fmt.Fprintln(os.Stderr, lang.T("Warning")+": "+d.String())
}

// loadSettings 读取并校验运行配置
func loadSettings() (*config.Settings, error) {
	s := config.Load()
	if langFlag != "" {
		s.Lang = langFlag
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", lang.T("Invalid configuration"), err)
	}
	return s, nil
}

// policyFrom 命令行优先，其次是配置
func policyFrom(flag string, s *config.Settings) (version.Policy, error) {
	if flag == "" && s != nil {
		flag = s.VersionPolicy
	}
	return version.ParsePolicy(flag)
}

func newRenderer(s *config.Settings) renders.Renderer {
	return renders.New(s.Renderer, os.Stdout)
}

// signalContext 在 Ctrl+C 或 SIGTERM 时取消
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
