package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"camgr/internal/launcher"
)

var (
	flagLaunchModel   string
	flagLaunchRefresh bool
	flagLaunchSync    bool
)

func init() {
	launchCmd.Flags().StringVarP(&flagLaunchModel, "model", "m", "", "model to use (defaults to the first discovered model)")
	launchCmd.Flags().BoolVar(&flagLaunchRefresh, "refresh", false, "bypass the model cache before launching")
	launchCmd.Flags().BoolVar(&flagLaunchSync, "sync-settings", false, "also write the endpoint into ~/.claude/settings.json (claude only)")
	rootCmd.AddCommand(launchCmd)
}

var launchCmd = &cobra.Command{
	Use:   "launch <client> <endpoint> [-- args...]",
	Short: "Launch a coding-assistant CLI against an endpoint",
	Long: "Resolve an endpoint, pick a model, and start the client CLI with the " +
		"endpoint's URL and credential in its environment. Arguments after -- are " +
		"passed to the client untouched.",
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client, name := args[0], args[1]
		extraArgs := args[2:]

		_, mgr, err := openManager()
		if err != nil {
			fail(err)
		}

		rc, err := mgr.GetEndpointConfig(name)
		if err != nil {
			fail(err)
		}
		if !rc.SupportsClient(client) {
			fmt.Fprintf(os.Stderr, "Error: endpoint %s does not support client %s\n", name, client)
			os.Exit(1)
		}

		ctx := context.Background()

		model := flagLaunchModel
		if model == "" {
			modelIDs, _, err := mgr.FetchModels(ctx, name, rc, !flagLaunchRefresh)
			if err != nil {
				fail(err)
			}
			if len(modelIDs) == 0 {
				fmt.Fprintf(os.Stderr, "Error: no models available for %s; pass one with --model\n", name)
				os.Exit(1)
			}
			model = modelIDs[0]
		}

		if flagLaunchSync && client == "claude" {
			if err := launcher.SyncClaudeSettings(rc, model); err != nil {
				logrus.Warnf("launch: %v", err)
			}
		}

		if err := launcher.New().Launch(ctx, client, rc, model, extraArgs); err != nil {
			fail(err)
		}
	},
}
