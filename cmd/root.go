// Copyright 2025 The LogLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/dynatrace"
	"github.com/loglens/loglens/helper"
	"github.com/loglens/loglens/session"
	"github.com/loglens/loglens/store"
	"github.com/loglens/loglens/ui"
)

var Verbose bool

// rootCmd opens the interactive session; subcommands cover one-shot use.
var rootCmd = &cobra.Command{
	Use:   "loglens",
	Short: "Terminal client for querying Dynatrace Grail logs",
	Long: `LogLens is a terminal client for querying logs with DQL.

Without a subcommand it opens the interactive session: a query editor, a
navigable results table with inline search, a details pane, and pickers for
saved queries, history, columns, and time ranges. Without credentials the
session browses synthetic sample data instead of failing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		executor, st := buildSession(cfg)
		return ui.Run(cfg, executor, st, afero.NewOsFs())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&helper.CfgFile, "config", "", "config file (default is $HOME/.loglens.toml)")

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().Bool("development", false, "browse synthetic data, never contact the backend")
	viper.BindPFlag("development", rootCmd.PersistentFlags().Lookup("development"))

	rootCmd.PersistentFlags().String("remote", "", "config file section to read credentials from")
	viper.BindPFlag("remote", rootCmd.PersistentFlags().Lookup("remote"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configName := ".loglens"

	if helper.CfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(helper.CfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".loglens" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)

		helper.CfgFile = path.Join(home, configName+".toml")
	}

	viper.SetEnvPrefix("dynatrace")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); Verbose && err != nil {
		log.Println(err)
	}

	if Verbose {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads and validates the configuration and routes the session
// log into the data directory so terminal output stays clean. An invalid
// production configuration is fatal and prints setup guidance.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, config.SetupGuidance())
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	if err := helper.ConfigureLogger(cfg.Verbose, cfg.LogFile()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// localStore opens the persisted collections without validating the backend
// setup; history and saved queries are local data.
func localStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	if err := helper.ConfigureLogger(cfg.Verbose, cfg.LogFile()); err != nil {
		return nil, err
	}
	return store.New(afero.NewOsFs(), cfg.DataDir, cfg.HistoryLimit), nil
}

// buildSession wires the executor and the persisted collections. The
// gateway stays nil in development mode or without credentials; every
// execution then falls back to synthetic data.
func buildSession(cfg *config.Config) (*session.Executor, *store.Store) {
	st := store.New(afero.NewOsFs(), cfg.DataDir, cfg.HistoryLimit)

	var gateway session.Gateway
	if !cfg.Development && cfg.HasCredentials() {
		gateway = dynatrace.NewClient(cfg)
	}

	source := session.NewDummySource(time.Now().UnixNano())
	return session.NewExecutor(gateway, st, source, cfg.FallbackCount), st
}
