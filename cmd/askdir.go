package cmd

import (
	"github.com/sjzsdu/dirpilot/cmdio"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/workspace"
	"github.com/spf13/cobra"
)

var askdirCmd = &cobra.Command{
	Use:   "askdir [directory]",
	Short: lang.T("Ask questions about a directory"),
	Long:  lang.T("Load every text file of a directory as context and answer questions about it without changing anything"),
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAskdir,
}

func init() {
	askdirCmd.Flags().BoolVar(&skipOverview, "no-overview", false, lang.T("Skip the initial project overview"))
	rootCmd.AddCommand(askdirCmd)
}

func runAskdir(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, settings, err := newClient(ctx)
	if err != nil {
		return err
	}
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	ws, err := loadWorkspace(ctx, dir, workspace.ModeAsk, version.PolicyKeep)
	if err != nil {
		return err
	}

	p := cmdio.NewAskProcessor(client, ws, settings.Lang)
	r := newRenderer(settings)
	if err := showOverview(ctx, p, r); err != nil {
		return err
	}
	return runSession(ctx, p, r,
		lang.T("Ask anything about the directory."),
		commandTips("/files", "/overview"),
	)
}
