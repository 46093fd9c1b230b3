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

package helper

import (
	"fmt"

	"github.com/spf13/viper"
)

// CfgFile is the config file in use, set from the --config flag or the
// default $HOME/.loglens.toml.
var CfgFile string

// CurrentRemote returns the name of the active environment section of the
// config file. The "default" section is used unless the file selects
// another one with a top-level "remote" key.
func CurrentRemote() string {
	remote := viper.GetString("remote")
	if remote == "" {
		remote = "default"
	}
	return remote
}

// CurrentConfig resolves key against the active remote section, e.g. with
// remote "prod" the key "url" reads "prod.url".
func CurrentConfig(key string) string {
	return viper.GetString(fmt.Sprintf("%s.%s", CurrentRemote(), key))
}
