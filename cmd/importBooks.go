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
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ademuri/bookshelf-tools/internal/store"
)

var (
	enrichPageCounts bool
	openLibraryURL   string
)

var importBooksCmd = &cobra.Command{
	Use:   "import-books <catalog.json>",
	Short: "Bulk loads a book catalog from a JSON file",
	Long: `Loads books with their authors and genres into the database. Re-importing
the same file is safe. With --enrich, missing page counts are fetched from
Open Library by ISBN.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := importBooks(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importBooksCmd)

	importBooksCmd.Flags().BoolVar(&enrichPageCounts, "enrich", false, "Fetch missing page counts from Open Library")
	importBooksCmd.Flags().StringVar(&openLibraryURL, "openlibrary_url", "https://openlibrary.org", "Open Library base URL")
}

type catalogEntry struct {
	Title           string   `json:"title"`
	ISBN            string   `json:"isbn"`
	PublicationYear int      `json:"publication_year"`
	Description     string   `json:"description"`
	PageCount       int      `json:"page_count"`
	AverageRating   float64  `json:"average_rating"`
	RatingsCount    int      `json:"ratings_count"`
	Language        string   `json:"language"`
	Publisher       string   `json:"publisher"`
	Authors         []string `json:"authors"`
	Genres          []string `json:"genres"`
}

func importBooks(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	var entries []catalogEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}

	if enrichPageCounts {
		if err := enrichFromOpenLibrary(entries); err != nil {
			return err
		}
	}

	books := make([]store.BookImport, len(entries))
	for i, e := range entries {
		books[i] = store.BookImport{
			Title:           e.Title,
			ISBN:            e.ISBN,
			PublicationYear: e.PublicationYear,
			Description:     e.Description,
			PageCount:       e.PageCount,
			AverageRating:   e.AverageRating,
			RatingsCount:    e.RatingsCount,
			Language:        e.Language,
			Publisher:       e.Publisher,
			Authors:         e.Authors,
			Genres:          e.Genres,
		}
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.AddBooks(books); err != nil {
		return fmt.Errorf("importing books: %w", err)
	}

	count, err := db.CountBooks()
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d entries, catalog now has %d books\n", len(entries), count)
	return nil
}

type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// enrichFromOpenLibrary fills in missing page counts, one lookup per second.
func enrichFromOpenLibrary(entries []catalogEntry) error {
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)
	client := &http.Client{Timeout: 10 * time.Second}

	for i := range entries {
		if entries[i].PageCount > 0 || entries[i].ISBN == "" {
			continue
		}

		limiter.Wait(context.Background())

		var pages int
		err := retry.Do(
			func() error {
				var err error
				pages, err = fetchPageCount(client, entries[i].ISBN)
				return err
			},
			retry.RetryIf(func(err error) bool {
				if herr, ok := err.(*httpStatusError); ok {
					if herr.code/100 == 5 {
						fmt.Printf("Open Library errored, retrying: %v\n", herr)
						return true
					}
					return false
				}
				return false
			}),
		)
		if err != nil {
			fmt.Printf("Could not enrich %q: %v\n", entries[i].Title, err)
			continue
		}
		entries[i].PageCount = pages
		fmt.Printf("Enriched %q: %d pages\n", entries[i].Title, pages)
	}
	return nil
}

func fetchPageCount(client *http.Client, isbn string) (int, error) {
	resp, err := client.Get(fmt.Sprintf("%s/isbn/%s.json", openLibraryURL, isbn))
	if err != nil {
		return 0, fmt.Errorf("fetching ISBN %s: %w", isbn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &httpStatusError{code: resp.StatusCode}
	}

	var body struct {
		NumberOfPages int `json:"number_of_pages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("parsing ISBN %s response: %w", isbn, err)
	}
	return body.NumberOfPages, nil
}
