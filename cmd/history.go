/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ademuri/bookshelf-tools/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [from] [to]",
	Short: "Lists your reading history, optionally for a date range (yyyy, yyyy-mm, or yyyy-mm-dd)",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printHistory(os.Stdout, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func printHistory(out io.Writer, args []string) error {
	var start, end time.Time
	if len(args) > 0 {
		var err error
		start, end, err = parseDateRangeFromArgs(args)
		if err != nil {
			return err
		}
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user, err := currentUser(db)
	if err != nil {
		return err
	}

	readings, err := db.GetReadings(user.ID)
	if err != nil {
		return err
	}
	if !start.IsZero() {
		readings = filterReadingsByDate(readings, start, end)
	}
	if len(readings) == 0 {
		fmt.Fprintln(out, "No reading history yet.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Title", "Authors", "Status", "Rating", "Finished"})
	for _, r := range readings {
		rating := ""
		if r.HasRating {
			rating = fmt.Sprintf("%.1f", r.Rating)
		}
		finished := ""
		if !r.FinishDate.IsZero() {
			finished = r.FinishDate.Format("2006-01-02")
		}
		row := []string{
			r.Book.Title,
			strings.Join(r.Book.Authors, ", "),
			string(r.Status),
			rating,
			finished,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

// filterReadingsByDate keeps readings whose finish date falls in [start, end).
// Unfinished readings fall back to their start date; undated rows are dropped.
func filterReadingsByDate(readings []store.Reading, start, end time.Time) []store.Reading {
	var filtered []store.Reading
	for _, r := range readings {
		when := r.FinishDate
		if when.IsZero() {
			when = r.StartDate
		}
		if when.IsZero() {
			continue
		}
		if when.Before(start) || !when.Before(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
