package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"camgr/internal/modelapi"
)

func init() {
	rootCmd.AddCommand(copilotModelsCmd)
}

// copilotModelsCmd prints one model ID per line so it can serve as a
// list_models_cmd. The fetcher also recognizes it and runs the same helper
// in-process.
var copilotModelsCmd = &cobra.Command{
	Use:   "copilot-models",
	Short: "List GitHub Copilot models",
	Long:  "List the model IDs available to the GITHUB_TOKEN in the environment, one per line",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := modelapi.ListCopilotModels(context.Background())
		if err != nil {
			fail(err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}
