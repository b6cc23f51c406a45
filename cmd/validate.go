package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  "Check every endpoint section and the common section for structural problems",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fail(err)
		}

		ok, problems := store.Validate()
		if ok {
			fmt.Printf("Configuration OK (%s, %d endpoints)\n", store.Path(), len(store.EndpointNames()))
			return
		}

		fmt.Fprintf(os.Stderr, "Configuration has problems (%s):\n", store.Path())
		for _, problem := range problems {
			fmt.Fprintln(os.Stderr, "  - "+problem)
		}
		os.Exit(1)
	},
}
