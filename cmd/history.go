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

	"github.com/loglens/loglens/store"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the query history",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := localStore()
		if err != nil {
			log.Fatal(err)
		}

		history, err := st.LoadHistory()
		if err != nil {
			log.Fatal(err)
		}
		if len(history) == 0 {
			fmt.Println("No query history yet.")
			return
		}

		fmt.Println(formatHistory(history))
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole query history",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := localStore()
		if err != nil {
			log.Fatal(err)
		}

		if err := st.ClearHistory(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Query history cleared")
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete one history record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := localStore()
		if err != nil {
			log.Fatal(err)
		}

		history, err := st.LoadHistory()
		if err != nil {
			log.Fatal(err)
		}

		id, err := resolveHistoryID(history, args[0])
		if err != nil {
			log.Fatal(err)
		}

		if err := st.DeleteHistory(id); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Removed history record %s\n", shortID(id))
	},
}

// formatHistory renders the history newest first.
func formatHistory(history []store.HistoryQuery) string {
	output := []string{strings.Join([]string{"ID", "WHEN", "RANGE", "QUERY"}, cellDelim)}

	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		row := []string{
			shortID(h.ID),
			humanize.Time(h.ExecutedAt),
			h.RangeLabel,
			oneLine(h.QueryText, 60),
		}
		output = append(output, strings.Join(row, cellDelim))
	}

	return formatColumns(output)
}

// resolveHistoryID accepts a full record id or an unambiguous prefix of one.
func resolveHistoryID(history []store.HistoryQuery, idOrPrefix string) (string, error) {
	var match string
	for _, h := range history {
		if h.ID == idOrPrefix {
			return h.ID, nil
		}
		if strings.HasPrefix(h.ID, idOrPrefix) {
			if match != "" {
				return "", fmt.Errorf("history id %q is ambiguous", idOrPrefix)
			}
			match = h.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no history record with id %q", idOrPrefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// oneLine flattens text for tabular display and truncates it.
func oneLine(text string, max int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) > max {
		return string(runes[:max-1]) + "..."
	}
	return flat
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyRmCmd)
}
