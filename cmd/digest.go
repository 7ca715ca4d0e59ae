package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/pack"
	"github.com/sjzsdu/dirpilot/share"
	"github.com/spf13/cobra"
)

var (
	digestOutput string
	digestQuiet  bool
)

var digestCmd = &cobra.Command{
	Use:   "digest <directory | file | git-url>",
	Short: lang.T("Pack a directory into a single digest file"),
	Long:  lang.T("Read a directory, a single file or a git repository and write its tree and file contents into one text, markdown or PDF file"),
	Args:  cobra.ExactArgs(1),
	RunE:  runDigest,
}

func init() {
	digestCmd.Flags().StringVarP(&digestOutput, "out", "o", share.DIGEST_OUTPUT, lang.T("Output file name"))
	digestCmd.Flags().BoolVarP(&digestQuiet, "quiet", "q", false, lang.T("Do not print the directory tree"))
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	d, err := pack.Digest(ctx, args[0], pack.DigestOptions{
		Scanner:  newScanner(project.WithDiagnosticHandler(printDiagnostic)),
		Progress: os.Stderr,
	})
	if err != nil {
		return err
	}
	path, err := pack.WriteDigest(d, digestOutput)
	if err != nil {
		return err
	}
	fmt.Println(d.Summary)
	if !digestQuiet {
		fmt.Print(d.Tree)
	}
	fmt.Printf(lang.T("Digest written to %s")+"\n", path)
	return nil
}
