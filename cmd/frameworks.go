package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"appdetect/pkg/framework"
)

var (
	keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true).Width(10)
	memStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Width(6)
	docStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List the frameworks appdetect can report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type row struct {
			ID          string `json:"id"`
			Memory      string `json:"mem"`
			Description string `json:"description"`
		}

		entries := framework.All()

		if jsonOutput {
			rows := make([]row, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, row{ID: e.Key, Memory: e.Memory, Description: e.Description})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.JoinHorizontal(lipgloss.Top,
				keyStyle.Render(e.Key),
				memStyle.Render(e.Memory),
				docStyle.Render(e.Description),
			))
		}
		return nil
	},
}
