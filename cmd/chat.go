package cmd

import (
	"github.com/sjzsdu/dirpilot/cmdio"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/project/pack"
	"github.com/sjzsdu/dirpilot/prompt"
	"github.com/spf13/cobra"
)

var (
	codeOnly   bool
	digestFrom string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: lang.T("Chat with the model"),
	Long:  lang.T("Free conversation with history. With --code answers are code only, with --digest questions are answered from a digest of a directory, file or git repository"),
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&codeOnly, "code", "c", false, lang.T("Answer with code only"))
	chatCmd.Flags().StringVar(&digestFrom, "digest", "", lang.T("Chat about the digest of a directory, file or git URL"))
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, settings, err := newClient(ctx)
	if err != nil {
		return err
	}
	r := newRenderer(settings)

	if digestFrom != "" {
		d, err := pack.Digest(ctx, digestFrom, pack.DigestOptions{Scanner: newScanner()})
		if err != nil {
			return err
		}
		p := cmdio.NewDigestProcessor(client, d, settings.Lang)
		return runSession(ctx, p, r, d.Summary, commandTips("/files", "/overview"))
	}

	instruction := ""
	if codeOnly {
		if instruction, err = prompt.Render(prompt.Code, prompt.Vars{}); err != nil {
			return err
		}
	}
	instruction = prompt.WithLanguage(instruction, settings.Lang)
	p := cmdio.NewChatProcessor(client, instruction)
	return runSession(ctx, p, r, lang.T("Start chatting."), commandTips("/clear"))
}
