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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/loglens/loglens/session"
	"github.com/loglens/loglens/store"
)

// savedCmd represents the saved command
var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List the saved queries",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := localStore()
		if err != nil {
			log.Fatal(err)
		}

		saved, err := st.LoadSaved()
		if err != nil {
			log.Fatal(err)
		}
		if len(saved) == 0 {
			fmt.Println("No saved queries yet. Save one with `loglens saved add`.")
			return
		}

		fmt.Println(formatSaved(saved))
	},
}

var savedAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Save a query under a name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := cmd.Flags().GetString("query")
		if err != nil {
			log.Fatal(err)
		}
		queryText := session.CleanQuery(raw)
		if queryText == "" {
			log.Fatal("a query is required (-q)")
		}

		st, err := localStore()
		if err != nil {
			log.Fatal(err)
		}

		saved, err := st.SaveQuery(args[0], queryText)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Saved query %q\n", saved.Name)
	},
}

var savedRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a saved query by name or id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := localStore()
		if err != nil {
			log.Fatal(err)
		}

		saved, err := st.LoadSaved()
		if err != nil {
			log.Fatal(err)
		}

		id, name, err := resolveSavedQuery(saved, args[0])
		if err != nil {
			log.Fatal(err)
		}

		if err := st.DeleteSaved(id); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Deleted saved query %q\n", name)
	},
}

func formatSaved(saved []store.SavedQuery) string {
	output := []string{strings.Join([]string{"NAME", "SAVED", "QUERY"}, cellDelim)}

	for _, q := range saved {
		row := []string{
			q.Name,
			humanize.Time(q.CreatedAt),
			oneLine(q.QueryText, 60),
		}
		output = append(output, strings.Join(row, cellDelim))
	}

	return formatColumns(output)
}

// resolveSavedQuery accepts a query name, a full id, or an unambiguous id
// prefix.
func resolveSavedQuery(saved []store.SavedQuery, ref string) (id, name string, err error) {
	for _, q := range saved {
		if q.Name == ref || q.ID == ref {
			return q.ID, q.Name, nil
		}
	}
	var match *store.SavedQuery
	for i, q := range saved {
		if strings.HasPrefix(q.ID, ref) {
			if match != nil {
				return "", "", fmt.Errorf("saved query id %q is ambiguous", ref)
			}
			match = &saved[i]
		}
	}
	if match == nil {
		return "", "", fmt.Errorf("no saved query %q", ref)
	}
	return match.ID, match.Name, nil
}

func init() {
	rootCmd.AddCommand(savedCmd)
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedRmCmd)

	savedAddCmd.Flags().StringP("query", "q", "", "query text to save")
}
