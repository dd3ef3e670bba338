package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the web-search-capable models",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := apiClient().Models(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no web-search-capable models available")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDESCRIPTION")
		for _, m := range list {
			fmt.Fprintf(w, "%s\t%s\n", m.ID, m.Description)
		}
		return w.Flush()
	},
}
