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
	"os"

	"github.com/spf13/cobra"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

var (
	readingStatus string
	readingRating float64
	readingReview string
)

var addReadingCmd = &cobra.Command{
	Use:   "add-reading <title>",
	Short: "Records that you read (or want to read) a book",
	Long: `Adds or updates an entry in your reading history, looked up by exact title.
  Status is one of: want_to_read, reading, completed, abandoned.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := addReading(args[0], cmd.Flags().Changed("rating"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addReadingCmd)

	addReadingCmd.Flags().StringVar(&readingStatus, "status", "completed", "Reading status")
	addReadingCmd.Flags().Float64Var(&readingRating, "rating", 0, "Your rating, 1 to 5")
	addReadingCmd.Flags().StringVar(&readingReview, "review", "", "Free-form review text")
}

func addReading(title string, hasRating bool) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user, err := currentUser(db)
	if err != nil {
		return err
	}

	book, err := db.FindBookByTitle(title)
	if err != nil {
		return err
	}

	var rating *float64
	if hasRating {
		rating = &readingRating
	}

	err = db.SetReading(user.ID, book.ID, recommend.ReadingStatus(readingStatus), rating, readingReview)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %q as %s\n", book.Title, readingStatus)
	return nil
}
