package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"camgr/config"
	"camgr/internal/endpoint"
	"camgr/internal/envfile"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var (
	flagVerbose    bool
	flagConfigPath string
	flagEnvFile    string
)

var rootCmd = &cobra.Command{
	Use:   "camgr",
	Short: "Endpoint and model configuration manager for coding-assistant CLIs",
	Long: "A command line tool that resolves configured API endpoints, " +
		"discovers their model lists, and launches coding-assistant CLIs against them",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		envfile.Load(flagEnvFile, flagEnvFile != "")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to settings.json")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "path to a .env file to load")
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`camgr {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}

// openStore loads the configuration store, honoring --config.
func openStore() (*config.Store, error) {
	if flagConfigPath != "" {
		return config.LoadStore(flagConfigPath)
	}
	return config.NewStore()
}

// openManager loads the store and wires an endpoint manager around it.
func openManager() (*config.Store, *endpoint.Manager, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	mgr, err := endpoint.NewManager(store)
	if err != nil {
		return nil, nil, err
	}
	return store, mgr, nil
}

// fail prints an error (with suggestions when available) and exits.
func fail(err error) {
	var epErr *endpoint.Error
	if errors.As(err, &epErr) {
		fmt.Fprintln(os.Stderr, "Error: "+epErr.Detailed())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
