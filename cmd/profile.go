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
	"gopkg.in/yaml.v3"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Prints your derived taste profile as YAML",
	Long:  `Shows the genre and author affinities, rating range, and page range derived from your reading history.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runProfile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating profile: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile() error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	profile, _, err := loadEngineInputs(db)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	err = encoder.Encode(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	return nil
}
