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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

var compareLimit int

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Shows recommendations side by side for every comfort level",
	Long:  `Runs the same catalog through all five comfort levels so you can see how the dial changes the picks.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printComparison(os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().IntVar(&compareLimit, "limit", 5, "Number of recommendations per comfort level")
}

func printComparison(out io.Writer) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	profile, pool, err := loadEngineInputs(db)
	if err != nil {
		return err
	}

	req := recommend.Request{Limit: compareLimit}
	results, err := recommend.CompareAllLevels(context.Background(), pool, profile, req, recommend.DefaultConfig())
	if err != nil {
		return err
	}

	for _, level := range recommend.Levels() {
		fmt.Fprintf(out, "\n## %s\n", level)
		recs := results[level]
		if len(recs) == 0 {
			fmt.Fprintln(out, "No books matched.")
			continue
		}
		if err := renderRecommendations(out, recs); err != nil {
			return err
		}
	}
	return nil
}
