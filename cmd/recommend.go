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
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
	"github.com/ademuri/bookshelf-tools/internal/store"
)

var (
	filterGenre     string
	filterAuthor    string
	filterMinRating float64
	filterMinPages  int
	filterMaxPages  int
	resultLimit     int
	similarToTitle  string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <comfort_level>",
	Short: "Recommends books for a comfort level",
	Long: `Scores the catalog against your taste profile and prints the top picks.
  <comfort_level> is one of: same_old, comfort_zone, balanced, adventurous, completely_new.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printRecommendations(os.Stdout, args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&filterGenre, "genre", "", "Only recommend books in this genre")
	recommendCmd.Flags().StringVar(&filterAuthor, "author", "", "Only recommend books by this author")
	recommendCmd.Flags().Float64Var(&filterMinRating, "min_rating", 0, "Only recommend books rated at least this")
	recommendCmd.Flags().IntVar(&filterMinPages, "min_pages", 0, "Only recommend books with at least this many pages")
	recommendCmd.Flags().IntVar(&filterMaxPages, "max_pages", 0, "Only recommend books with at most this many pages")
	recommendCmd.Flags().IntVar(&resultLimit, "limit", 0, "Number of recommendations to show")
	recommendCmd.Flags().StringVar(&similarToTitle, "similar_to", "", "Only recommend books similar to this title")
}

func cliFilters() recommend.Filters {
	return recommend.Filters{
		Genre:     filterGenre,
		Author:    filterAuthor,
		MinRating: filterMinRating,
		MinPages:  filterMinPages,
		MaxPages:  filterMaxPages,
	}
}

// loadEngineInputs fetches everything the ranker needs for the current user.
func loadEngineInputs(db *store.Store) (recommend.TasteProfile, []recommend.Book, error) {
	user, err := currentUser(db)
	if err != nil {
		return recommend.TasteProfile{}, nil, err
	}

	history, err := db.GetHistory(user.ID)
	if err != nil {
		return recommend.TasteProfile{}, nil, err
	}
	prefs, err := db.GetPreferences(user.ID)
	if err != nil {
		return recommend.TasteProfile{}, nil, err
	}
	pool, err := db.GetCandidateBooks(user.ID)
	if err != nil {
		return recommend.TasteProfile{}, nil, err
	}

	profile := recommend.BuildProfile(history, prefs, recommend.DefaultConfig())
	return profile, pool, nil
}

func printRecommendations(out io.Writer, comfortArg string) error {
	comfort, err := recommend.ParseComfortLevel(comfortArg)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	profile, pool, err := loadEngineInputs(db)
	if err != nil {
		return err
	}

	cfg := recommend.DefaultConfig()
	req := recommend.Request{Comfort: comfort, Filters: cliFilters(), Limit: resultLimit}

	var recs []recommend.Recommendation
	if similarToTitle != "" {
		base, err := db.FindBookByTitle(similarToTitle)
		if err != nil {
			return err
		}
		recs, err = recommend.SimilarTo(context.Background(), pool, base, profile, req, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Books similar to %q (%s):\n", base.Title, comfort)
	} else {
		recs, err = recommend.Recommend(context.Background(), pool, profile, req, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recommendations for %s (%s):\n", viper.GetString("user"), comfort)
	}

	if len(recs) == 0 {
		fmt.Fprintln(out, "No books matched.")
		return nil
	}
	return renderRecommendations(out, recs)
}

func renderRecommendations(out io.Writer, recs []recommend.Recommendation) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Title", "Authors", "Score", "Why"})
	for i, rec := range recs {
		row := []string{
			fmt.Sprintf("%d", i+1),
			rec.Book.Title,
			strings.Join(rec.Book.Authors, ", "),
			fmt.Sprintf("%.3f", rec.Breakdown.Composite),
			strings.Join(rec.Reasons, "; "),
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
