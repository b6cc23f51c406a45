package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"camgr/internal/utils"
)

var flagListClient string

func init() {
	listCmd.Flags().StringVar(&flagListClient, "client", "", "only show endpoints supporting this client")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured endpoints",
	Long:  "List the endpoints in the configuration file, with credential presence and proxy settings",
	Run: func(cmd *cobra.Command, args []string) {
		store, mgr, err := openManager()
		if err != nil {
			fail(err)
		}

		names := mgr.EndpointNames(flagListClient)
		if len(names) == 0 {
			fmt.Println("No endpoints configured")
			return
		}

		fmt.Printf("Endpoints (%s):\n", store.Path())
		for _, name := range names {
			rc, err := mgr.GetEndpointConfig(name)
			if err != nil {
				fmt.Printf("  %s: %v\n", name, err)
				continue
			}

			keyInfo := "no key"
			if rc.HasKey() {
				keyInfo = "key " + utils.MaskAPIKey(rc.APIKey) + " (" + rc.KeySource.String() + ")"
			}

			line := fmt.Sprintf("  %s: %s (%s)", name, rc.URL, keyInfo)
			if rc.UseProxy {
				line += " [proxy]"
			}
			fmt.Println(line)
			if rc.Description != "" {
				fmt.Println("      " + rc.Description)
			}
		}
	},
}
