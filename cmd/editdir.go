package cmd

import (
	"fmt"

	"github.com/sjzsdu/dirpilot/cmdio"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/workspace"
	"github.com/spf13/cobra"
)

var policyFlag string

var editdirCmd = &cobra.Command{
	Use:   "editdir [directory]",
	Short: lang.T("Plan and apply changes to a directory"),
	Long:  lang.T("Load a directory as context, propose a plan for each request, write the generated files after confirmation and keep every change in a version history"),
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEditdir,
}

func init() {
	editdirCmd.Flags().BoolVar(&skipOverview, "no-overview", false, lang.T("Skip the initial project overview"))
	editdirCmd.Flags().StringVar(&policyFlag, "policy", "", lang.T("What a commit after revert does to newer versions: keep or truncate"))
	rootCmd.AddCommand(editdirCmd)
}

func runEditdir(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, settings, err := newClient(ctx)
	if err != nil {
		return err
	}
	policy, err := policyFrom(policyFlag, settings)
	if err != nil {
		return err
	}
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	ws, err := loadWorkspace(ctx, dir, workspace.ModeEdit, policy)
	if err != nil {
		return err
	}
	if info, err := ws.Info(); err == nil && info.TotalVersions > 1 {
		fmt.Printf(lang.T("Found an existing version history: %d versions, currently at version %d.")+"\n",
			info.TotalVersions, info.CurrentVersion)
	}

	p := cmdio.NewEditProcessor(client, ws, settings.Lang)
	r := newRenderer(settings)
	if err := showOverview(ctx, p, r); err != nil {
		return err
	}
	return runSession(ctx, p, r,
		lang.T("Describe the change you want to make."),
		commandTips("/revert", "/forward", "/versions", "/show", "/files", "/overview"),
	)
}
