// Copyright 2026 The LogLens Authors
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

package ui

import (
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v2"

	"github.com/loglens/loglens/session"
)

const prefsFile = "preferences.yaml"

// Prefs carries the view choices kept between sessions. Unlike the query
// collections, preferences are disposable: unreadable content falls back to
// defaults instead of surfacing an error.
type Prefs struct {
	Columns       []string `yaml:"columns,omitempty"`
	DetailsHeight int      `yaml:"details_height,omitempty"`
	DetailsHidden bool     `yaml:"details_hidden,omitempty"`
	Range         string   `yaml:"range,omitempty"`
}

func defaultPrefs() Prefs {
	return Prefs{
		Columns:       []string{colTimestamp, colLevel, colService, colMessage, colHost},
		DetailsHeight: detailsHeights[1],
		Range:         session.DefaultRange,
	}
}

func loadPrefs(fs afero.Fs, dir string, logger *zap.SugaredLogger) Prefs {
	prefs := defaultPrefs()

	raw, err := afero.ReadFile(fs, filepath.Join(dir, prefsFile))
	if err != nil {
		return prefs
	}
	var stored Prefs
	if err := yaml.Unmarshal(raw, &stored); err != nil {
		logger.Warnw("ignoring unreadable preferences", "file", prefsFile, "error", err)
		return prefs
	}

	if len(stored.Columns) > 0 {
		prefs.Columns = stored.Columns
	}
	if stored.DetailsHeight > 0 {
		prefs.DetailsHeight = stored.DetailsHeight
	}
	prefs.DetailsHidden = stored.DetailsHidden
	if rangeKnown(stored.Range) {
		prefs.Range = stored.Range
	}
	return prefs
}

func rangeKnown(label string) bool {
	for _, r := range session.Ranges() {
		if r.Label == label {
			return true
		}
	}
	return false
}

func savePrefs(fs afero.Fs, dir string, prefs Prefs, logger *zap.SugaredLogger) {
	raw, err := yaml.Marshal(prefs)
	if err != nil {
		logger.Warnw("unable to encode preferences", "error", err)
		return
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		logger.Warnw("unable to persist preferences", "error", err)
		return
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, prefsFile), raw, 0o644); err != nil {
		logger.Warnw("unable to persist preferences", "error", err)
	}
}
