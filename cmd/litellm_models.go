package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camgr/internal/modelapi"
)

func init() {
	rootCmd.AddCommand(litellmModelsCmd)
}

// litellmModelsCmd prints one model ID per line. The endpoint URL and key
// come from the `endpoint` and API_KEY_LITELLM environment variables the
// fetcher exports.
var litellmModelsCmd = &cobra.Command{
	Use:   "litellm-models",
	Short: "List LiteLLM proxy models",
	Long:  "List the model IDs a LiteLLM proxy routes for the configured API key, one per line",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := modelapi.ListLitellmModels(context.Background(), os.Getenv("endpoint"), os.Getenv("api_key"))
		if err != nil {
			fail(err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}
