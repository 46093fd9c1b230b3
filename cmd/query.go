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
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/export"
	"github.com/loglens/loglens/session"
)

var levelColors = map[string]func(format string, a ...interface{}) string{
	session.LevelError: color.RedString,
	session.LevelWarn:  color.YellowString,
	session.LevelInfo:  color.GreenString,
	session.LevelDebug: color.CyanString,
}

// Query text and log messages regularly contain "|", columnize's default
// cell delimiter, so table rows are joined on a control character instead.
const cellDelim = "\x1f"

func formatColumns(rows []string) string {
	config := columnize.DefaultConfig()
	config.Delim = cellDelim
	return columnize.Format(rows, config)
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [DQL]",
	Short: "Run one query and print the matching logs",
	Long: `Run one query and print the matching logs as a table.

Without an argument the default query "fetch logs" is executed. The run is
recorded in the query history like an interactive one.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		executor, _ := buildSession(cfg)

		queryText := session.DefaultQuery
		if len(args) > 0 {
			queryText = session.CleanQuery(args[0])
			if queryText == "" {
				log.Fatal("the query is empty after dropping comment lines")
			}
		}

		rangeLabel, csvPath := queryOptionsFromFlags(cmd.Flags())

		rs, err := runQueryCmd(executor, queryText, rangeLabel)
		if err != nil {
			var unknown *session.UnknownRangeError
			if errors.As(err, &unknown) {
				log.Fatalf("unknown time range %q (valid: %s)", rangeLabel, strings.Join(rangeLabels(), ", "))
			}
			log.Fatal(err)
		}

		if rs.Provenance == session.ProvenanceFallback {
			fmt.Fprintln(os.Stderr, color.YellowString("showing synthetic sample data (%s)", fallbackNotice(cfg, rs.FallbackCause)))
		}

		if csvPath != "" {
			if err := writeCSVFile(csvPath, rs.Entries); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Exported %d logs to %s\n", rs.Len(), csvPath)
			return
		}

		fmt.Println(formatEntries(rs.Entries))
	},
}

func queryOptionsFromFlags(flags *pflag.FlagSet) (string, string) {
	rangeLabel, err := flags.GetString("range")
	if err != nil {
		log.Fatalf("%v", err)
	}

	csvPath, err := flags.GetString("csv")
	if err != nil {
		log.Fatalf("%v", err)
	}

	return rangeLabel, csvPath
}

func runQueryCmd(executor *session.Executor, queryText, rangeLabel string) (*session.ResultSet, error) {
	return executor.Run(context.Background(), queryText, rangeLabel)
}

func formatEntries(entries []session.LogEntry) string {
	output := []string{strings.Join([]string{"TIMESTAMP", "LEVEL", "SERVICE", "MESSAGE"}, cellDelim)}

	for _, entry := range entries {
		level := entry.Level
		if colored, ok := levelColors[level]; ok {
			level = colored("%s", level)
		}

		row := []string{
			entry.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			level,
			entry.Attr(session.AttrService),
			entry.Attr(session.AttrMessage),
		}

		output = append(output, strings.Join(row, cellDelim))
	}

	return formatColumns(output)
}

func fallbackNotice(cfg *config.Config, cause error) string {
	switch {
	case cfg.Development:
		return "development mode"
	case errors.Is(cause, session.ErrAuthMissing):
		return "credentials not configured"
	default:
		return "backend unreachable"
	}
}

func rangeLabels() []string {
	var labels []string
	for _, r := range session.Ranges() {
		labels = append(labels, r.Label)
	}
	return labels
}

func writeCSVFile(path string, entries []session.LogEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = export.WriteCSV(f, entries)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().String("range", session.DefaultRange, "time range to query (30m, 1h, 2h, 6h, today, yesterday, 24h, 7d)")
	queryCmd.Flags().String("csv", "", "write the results to a CSV file instead of printing them")
}
