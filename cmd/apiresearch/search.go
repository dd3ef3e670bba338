package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Dougal-McGuire/api-research/internal/client"
	"github.com/Dougal-McGuire/api-research/internal/models"
	"github.com/Dougal-McGuire/api-research/internal/render"
)

var (
	searchModelFlag string
	searchDebug     bool
	searchRaw       bool
	searchPlain     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [substance]",
	Short: "Research a pharmaceutical substance",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := openPrefs()

		modelID := searchModelFlag
		if modelID == "" {
			modelID = prefs.Get(client.PrefModel)
		}
		raw := searchRaw || prefs.Get(client.PrefRawOutput) == "true"

		var substance string
		if len(args) == 1 {
			substance = strings.TrimSpace(args[0])
		}

		if searchPlain {
			if substance == "" {
				return fmt.Errorf("a substance name is required with --plain")
			}
			return runPlainSearch(cmd.Context(), substance, modelID, raw)
		}

		m := newSearchUI(apiClient(), prefs, substance, modelID, searchDebug, raw)
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchModelFlag, "model", "", "model id (defaults to the last-used model)")
	searchCmd.Flags().BoolVar(&searchDebug, "debug", false, "request diagnostic metadata with the result")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "show the model output verbatim instead of rendering it")
	searchCmd.Flags().BoolVar(&searchPlain, "plain", false, "print the result once and exit (no interactive UI)")
}

// runPlainSearch is the non-interactive path: one request, one printout.
func runPlainSearch(ctx context.Context, substance, modelID string, raw bool) error {
	result, err := apiClient().Search(ctx, models.SearchRequest{
		APIName: substance,
		Debug:   searchDebug,
		Model:   modelID,
	})
	if err != nil {
		return err
	}

	switch result.Status {
	case models.StatusCompleted:
		doc := render.Render(result.ResearchContent, raw)
		fmt.Println(formatDocument(doc))
		printArtifacts(result)
	case models.StatusEmpty:
		fmt.Printf("No content generated for %s: %s\n", result.Substance, result.Message)
	default:
		return fmt.Errorf("research failed: %s", result.Message)
	}

	if searchDebug && result.DebugInfo != nil {
		fmt.Println("\ndebug info:")
		for k, v := range result.DebugInfo {
			fmt.Printf("  %s: %v\n", k, v)
		}
	}
	return nil
}

func printArtifacts(result models.SearchResult) {
	if len(result.Artifacts) == 0 {
		return
	}
	fmt.Println("\nStored documents:")
	for _, a := range result.Artifacts {
		fmt.Printf("  %s (%s)\n", a.Title, a.URL)
	}
	if result.DownloadAllURL != "" {
		fmt.Printf("  download all: %s\n", result.DownloadAllURL)
	}
}
