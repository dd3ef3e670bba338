package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect or replace the research prompt template",
}

var templateGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current prompt template",
	RunE: func(cmd *cobra.Command, args []string) error {
		template, err := apiClient().Template(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(template)
		return nil
	},
}

var templateSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Replace the prompt template with the contents of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := apiClient().UpdateTemplate(cmd.Context(), string(data)); err != nil {
			return err
		}
		fmt.Println("template updated")
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateGetCmd, templateSetCmd)
}
