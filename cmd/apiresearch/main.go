// Package main is the terminal client for the api-research backend: it
// submits substance searches, renders the research report in the terminal,
// and remembers the chosen model between sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dougal-McGuire/api-research/internal/client"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "apiresearch",
	Short: "Research pharmaceutical substances from the terminal",
	Long: `apiresearch is the terminal client for the api-research backend. It sends a
substance name to the research service, which queries a web-search-capable
reasoning model and returns a markdown report rendered here as structured
text.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "research backend base URL")
	rootCmd.AddCommand(searchCmd, modelsCmd, templateCmd)
}

func defaultServer() string {
	if v := os.Getenv("API_RESEARCH_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func apiClient() *client.Client {
	return client.New(serverURL)
}

func openPrefs() client.Prefs {
	prefs, err := client.NewFilePrefs(client.DefaultPrefsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: preferences unavailable: %v\n", err)
		return noPrefs{}
	}
	return prefs
}

// noPrefs is used when the preference file cannot be opened; choices then
// simply do not persist.
type noPrefs struct{}

func (noPrefs) Get(string) string        { return "" }
func (noPrefs) Set(string, string) error { return nil }

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
