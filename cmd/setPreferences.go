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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

var (
	prefGenres  []string
	prefAuthors []string
)

var setPreferencesCmd = &cobra.Command{
	Use:   "set-preferences",
	Short: "Sets your favorite genres and authors",
	Long:  `Replaces your stated preferences. Favorites get a scoring boost even before you've read them.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := setPreferences()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(setPreferencesCmd)

	setPreferencesCmd.Flags().StringSliceVar(&prefGenres, "genres", nil, "Favorite genres, comma separated")
	setPreferencesCmd.Flags().StringSliceVar(&prefAuthors, "authors", nil, "Favorite authors, comma separated")
}

func setPreferences() error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user, err := currentUser(db)
	if err != nil {
		return err
	}

	prefs := recommend.Preferences{Genres: prefGenres, Authors: prefAuthors}
	if err := db.SetPreferences(user.ID, prefs); err != nil {
		return err
	}

	fmt.Printf("Preferences for %q set: genres [%s], authors [%s]\n",
		user.Email, strings.Join(prefGenres, ", "), strings.Join(prefAuthors, ", "))
	return nil
}
