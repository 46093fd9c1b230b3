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
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens/loglens/helper"
)

func TestConfigureCommand(t *testing.T) {
	viper.Reset()
	viper.SetFs(afero.NewMemMapFs())
	helper.CfgFile = "/tmp/.loglens.toml"

	const expectedToken = "dt0s16.NEWTOKEN"

	var stdin bytes.Buffer
	// 1st line is the URL, 2nd the token.
	stdin.Write([]byte("https://abc12345.apps.dynatrace.com/\n" + expectedToken + "\n"))

	err := runConfigureCmd("default", &stdin)
	assert.NoError(t, err)

	viper.SetConfigFile(helper.CfgFile)
	require.NoError(t, viper.ReadInConfig())

	assert.Equal(t, expectedToken, viper.GetString("default.token"))
	assert.Equal(t, "https://abc12345.apps.dynatrace.com", viper.GetString("default.url"),
		"the trailing slash is dropped before writing")
	assert.Equal(t, "default", viper.GetString("remote"))
}

func TestConfigureKeepsSelectedRemote(t *testing.T) {
	viper.Reset()
	viper.SetFs(afero.NewMemMapFs())
	helper.CfgFile = "/tmp/.loglens.toml"
	viper.Set("remote", "prod")

	var stdin bytes.Buffer
	stdin.Write([]byte("https://staging.apps.dynatrace.com\ndt0s16.STAGING\n"))

	require.NoError(t, runConfigureCmd("staging", &stdin))

	assert.Equal(t, "prod", viper.GetString("remote"),
		"configuring a new section must not steal the active remote")
	assert.Equal(t, "dt0s16.STAGING", viper.GetString("staging.token"))
}
