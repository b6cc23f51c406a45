package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagModelsRefresh bool

func init() {
	modelsCmd.Flags().BoolVar(&flagModelsRefresh, "refresh", false, "bypass the cache and re-run model discovery")
	rootCmd.AddCommand(modelsCmd)
}

var modelsCmd = &cobra.Command{
	Use:   "models <endpoint>",
	Short: "Show the model list for an endpoint",
	Long:  "Show the model list for an endpoint, served from the cache when fresh unless --refresh is given",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, mgr, err := openManager()
		if err != nil {
			fail(err)
		}

		name := args[0]
		rc, err := mgr.GetEndpointConfig(name)
		if err != nil {
			fail(err)
		}

		modelIDs, fromCache, err := mgr.FetchModels(context.Background(), name, rc, !flagModelsRefresh)
		if err != nil {
			fail(err)
		}

		if len(modelIDs) == 0 {
			fmt.Printf("No models available for %s\n", name)
			return
		}

		source := "fetched"
		if fromCache {
			source = "cached"
		}
		fmt.Printf("Models for %s (%s):\n", name, source)
		for _, id := range modelIDs {
			fmt.Println("  " + id)
		}
	},
}
