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
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/helper"
)

type remoteConfig struct {
	URL   string
	Token string
}

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure [name]",
	Short: "Store backend credentials in the config file",
	Long: `Store backend credentials in the config file.

Credentials are stored under a named section ("default" unless a name is
given); the top-level "remote" key selects the active section.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := "default"
		if len(args) > 0 {
			name = args[0]
		}

		if err := runConfigureCmd(name, os.Stdin); err != nil {
			log.Fatalln(err)
		}

		fmt.Printf("%s remote has been added to %s\n", name, helper.CfgFile)
	},
}

func readRemoteConfig(stdin io.Reader) *remoteConfig {
	reader := bufio.NewReader(stdin)
	rc := remoteConfig{}

	fmt.Print("Environment URL (e.g. https://abc12345.apps.dynatrace.com): ")
	url, _ := reader.ReadString('\n')
	rc.URL = strings.TrimRight(strings.TrimSuffix(url, "\n"), "/")

	fmt.Print("API token (needs the storage:logs:read scope): ")
	token, _ := reader.ReadString('\n')
	rc.Token = strings.TrimSuffix(token, "\n")

	return &rc
}

func runConfigureCmd(name string, stdin io.Reader) error {
	rc := readRemoteConfig(stdin)

	if rc.Token != "" && !strings.HasPrefix(rc.Token, config.TokenPrefix) {
		fmt.Printf("Warning: the token does not start with %q and will be rejected\n", config.TokenPrefix)
	}

	viper.Set(fmt.Sprintf("%s.url", name), rc.URL)
	viper.Set(fmt.Sprintf("%s.token", name), rc.Token)

	remote := viper.GetString("remote")
	if len(remote) < 1 {
		viper.Set("remote", name)
	}

	if err := viper.WriteConfigAs(helper.CfgFile); err != nil {
		fmt.Printf("Unable to write config : %s", err)
		return err
	}

	return nil
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
