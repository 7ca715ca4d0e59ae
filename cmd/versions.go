package cmd

import (
	"errors"
	"fmt"

	"github.com/sjzsdu/dirpilot/cmdio"
	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/workspace"
	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: lang.T("Inspect and move along the version history of a directory"),
}

var versionsListCmd = &cobra.Command{
	Use:   "list [directory]",
	Short: lang.T("List saved versions"),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openVersioned(cmd, args)
		if err != nil {
			return err
		}
		list, err := ws.Versions()
		if err != nil {
			return err
		}
		fmt.Print(cmdio.FormatVersions(list))
		return nil
	},
}

var versionsRevertCmd = &cobra.Command{
	Use:   "revert [directory]",
	Short: lang.T("Restore the previous version"),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openVersioned(cmd, args)
		if err != nil {
			return err
		}
		info, err := ws.Revert()
		if errors.Is(err, version.ErrVersionBounds) {
			fmt.Println(lang.T("Already at the oldest version."))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf(lang.T("Reverted to version %d.")+"\n", info.CurrentVersion)
		return nil
	},
}

var versionsForwardCmd = &cobra.Command{
	Use:   "forward [directory]",
	Short: lang.T("Move to the next version"),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openVersioned(cmd, args)
		if err != nil {
			return err
		}
		info, err := ws.Forward()
		if errors.Is(err, version.ErrVersionBounds) {
			fmt.Println(lang.T("Already at the latest version."))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf(lang.T("Moved forward to version %d.")+"\n", info.CurrentVersion)
		return nil
	},
}

func init() {
	versionsCmd.AddCommand(versionsListCmd, versionsRevertCmd, versionsForwardCmd)
	rootCmd.AddCommand(versionsCmd)
}

// openVersioned 以编辑模式加载目录，不存在版本链时会建立版本 0
func openVersioned(cmd *cobra.Command, args []string) (*workspace.Workspace, error) {
	policy, err := version.ParsePolicy(config.GetConfigWithDefault(config.KeyVersionPolicy, "keep"))
	if err != nil {
		return nil, err
	}
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	return workspace.Load(cmd.Context(), dir, workspace.Options{
		Mode:    workspace.ModeEdit,
		Scanner: newScanner(project.WithDiagnosticHandler(printDiagnostic)),
		Policy:  policy,
	})
}
