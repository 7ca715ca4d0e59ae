package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/prompt"
	"github.com/spf13/cobra"
)

var (
	promptContent string
	contentFile   string
)

var promptCmd = &cobra.Command{
	Use:       "prompt <list|show|save|delete> [name]",
	Short:     lang.T("Prompt management"),
	Long:      lang.T("List the built-in prompt templates and manage user prompts that override them"),
	ValidArgs: []string{"list", "show", "save", "delete"},
	Args:      cobra.RangeArgs(1, 2),
	RunE:      runPrompt,
}

func init() {
	promptCmd.Flags().StringVar(&promptContent, "content", "", lang.T("Prompt content"))
	promptCmd.Flags().StringVar(&contentFile, "file", "", lang.T("Read content from file"))
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	m := prompt.Default()
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	if args[0] != "list" && name == "" {
		return errors.New(lang.T("Prompt name is required"))
	}

	switch args[0] {
	case "list":
		system, user := m.List()
		fmt.Println(lang.T("System Prompts:"))
		for _, n := range system {
			fmt.Println("  " + n)
		}
		fmt.Println(lang.T("User Prompts:"))
		for _, n := range user {
			fmt.Println("  " + n)
		}
	case "show":
		content, ok := m.Content(name)
		if !ok {
			return fmt.Errorf(lang.T("Prompt not found: %s"), name)
		}
		fmt.Println(content)
		if vars := prompt.Variables(content); len(vars) > 0 {
			fmt.Println("\n" + lang.T("Variables") + ": " + strings.Join(vars, ", "))
		}
	case "save":
		content, err := readPromptContent()
		if err != nil {
			return err
		}
		if err := m.Save(name, content); err != nil {
			return fmt.Errorf(lang.T("Failed to save prompt: %v"), err)
		}
		fmt.Println(lang.T("Prompt saved successfully"))
	case "delete":
		if err := m.Delete(name); err != nil {
			if m.IsSystem(name) {
				return errors.New(lang.T("Cannot delete system prompt"))
			}
			return err
		}
		fmt.Println(lang.T("Prompt deleted successfully"))
	default:
		return fmt.Errorf(lang.T("Unknown action: %s"), args[0])
	}
	return nil
}

// readPromptContent 依次取 --content、--file，都没有时打开编辑器
func readPromptContent() (string, error) {
	if promptContent != "" {
		return promptContent, nil
	}
	if contentFile != "" {
		data, err := os.ReadFile(contentFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return helper.ReadFromEditor()
}
