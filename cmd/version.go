package cmd

import (
	"fmt"

	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/share"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: lang.T("Print version information"),
	Long:  lang.T("Print detailed version information of dirpilot"),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s: %s\n", lang.T("dirpilot version"), share.VERSION)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
