package cmd

import (
	"fmt"
	"strings"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: lang.T("Set config"),
	Long:  lang.T("Set global configuration"),
	RunE:  handleConfigCommand,
}

var (
	showAllConfigs bool
	clearConfigs   []string
	clearAll       bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVarP(&showAllConfigs, "list", "l", false, lang.T("List all configurations"))
	configCmd.Flags().StringSliceVar(&clearConfigs, "clear", nil, lang.T("Remove the given configuration keys"))
	configCmd.Flags().BoolVar(&clearAll, "clear-all", false, lang.T("Remove all configurations"))

	for _, key := range config.GetAllConfigKeys() {
		configCmd.Flags().String(key, "", lang.T(config.GetConfigDescription(key)))
	}
}

func handleConfigCommand(cmd *cobra.Command, args []string) error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("%s: %w", lang.T("Error loading config"), err)
	}

	if showAllConfigs {
		fmt.Println(lang.T("Current configurations:"))
		for _, key := range config.GetAllConfigKeys() {
			value := config.GetConfig(key)
			if value == "" {
				continue
			}
			if config.GetConfigType(key) == "secret" {
				value = maskSecret(value)
			}
			fmt.Printf("%s=%s\n", config.GetEnvKey(key), value)
		}
		return nil
	}

	changed := false
	if clearAll {
		ok, err := helper.PromptYesNo(lang.T("Remove all configurations? (y/n): "), false)
		if err != nil {
			return err
		}
		if ok {
			config.ClearAllConfig()
			changed = true
		}
	}
	for _, key := range clearConfigs {
		config.ClearConfig(key)
		changed = true
	}

	for _, key := range config.GetAllConfigKeys() {
		flag := cmd.Flag(key)
		if flag == nil || !flag.Changed {
			continue
		}
		value := flag.Value.String()
		if err := config.ValidateValue(key, value); err != nil {
			return err
		}
		config.SetConfig(key, value)
		changed = true
	}

	if !changed {
		return cmd.Help()
	}
	if err := config.SaveConfig(); err != nil {
		return fmt.Errorf("%s: %w", lang.T("Error saving config"), err)
	}
	fmt.Println(lang.T("Configuration saved to") + " " + config.ConfigFile())
	return nil
}

func maskSecret(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", len(v)-8) + v[len(v)-4:]
}
