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
	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/auth"
)

var (
	newUserName     string
	newUserPassword string
)

var addUserCmd = &cobra.Command{
	Use:   "add-user",
	Short: "Creates a user account",
	Long:  `Creates a local account for the email given with --user. The password is only needed for the HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := addUser()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addUserCmd)

	addUserCmd.Flags().StringVar(&newUserName, "name", "", "Display name")
	addUserCmd.MarkFlagRequired("name")
	addUserCmd.Flags().StringVar(&newUserPassword, "password", "", "Password for API login")
}

func addUser() error {
	email := viper.GetString("user")
	if email == "" {
		return fmt.Errorf("--user is required")
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	hash := ""
	if newUserPassword != "" {
		hash, err = auth.HashPassword(newUserPassword)
		if err != nil {
			return err
		}
	}

	id, err := db.CreateUser(email, newUserName, hash)
	if err != nil {
		return err
	}

	fmt.Printf("User %q ready (id %d)\n", email, id)
	return nil
}
