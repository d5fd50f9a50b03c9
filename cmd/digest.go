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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
	"github.com/ademuri/bookshelf-tools/internal/store"
)

var addDigestCmd = &cobra.Command{
	Use:   "add-digest",
	Short: "Adds a monthly recommendation email, to be sent with `send-digests`",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := addDigest(
			viper.GetString("name"),
			viper.GetString("dest"),
			viper.GetString("comfort"),
			viper.GetInt("run_day"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var listDigestsCmd = &cobra.Command{
	Use:   "list-digests",
	Short: "Lists digest subscriptions",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := listDigests(os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var deleteDigestCmd = &cobra.Command{
	Use:   "delete-digest <name>",
	Short: "Deletes a digest subscription",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := deleteDigest(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addDigestCmd)
	rootCmd.AddCommand(listDigestsCmd)
	rootCmd.AddCommand(deleteDigestCmd)

	var email string
	addDigestCmd.Flags().StringVar(&email, "dest", "", "Destination email address")
	addDigestCmd.MarkFlagRequired("dest")
	viper.BindPFlag("dest", addDigestCmd.Flags().Lookup("dest"))

	var digestName string
	addDigestCmd.Flags().StringVar(&digestName, "name", "", "Digest name - included in the email title, and used for periodic sending")
	addDigestCmd.MarkFlagRequired("name")
	viper.BindPFlag("name", addDigestCmd.Flags().Lookup("name"))

	var runDay int
	addDigestCmd.Flags().IntVar(&runDay, "run_day", 1, "Which day of the month to send this digest on")
	viper.BindPFlag("run_day", addDigestCmd.Flags().Lookup("run_day"))

	var comfort string
	addDigestCmd.Flags().StringVar(&comfort, "comfort", "balanced", "Comfort level for the digest's recommendations")
	viper.BindPFlag("comfort", addDigestCmd.Flags().Lookup("comfort"))
}

func addDigest(name, dest, comfort string, runDay int) error {
	level, err := recommend.ParseComfortLevel(comfort)
	if err != nil {
		return err
	}
	if len(dest) == 0 {
		return fmt.Errorf("must specify destination email")
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

	err = db.AddDigest(store.Digest{
		UserID:  user.ID,
		Name:    name,
		Email:   dest,
		Comfort: level,
		RunDay:  runDay,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Digest %q added for %q, sending on day %d\n", name, user.Email, runDay)
	return nil
}

func listDigests(out io.Writer) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	digests, err := db.ListDigests()
	if err != nil {
		return err
	}
	if len(digests) == 0 {
		fmt.Fprintln(out, "No digests configured.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"User", "Name", "Email", "Comfort", "Run Day", "Last Sent"})
	for _, d := range digests {
		sent := "never"
		if !d.Sent.IsZero() {
			sent = d.Sent.Format("2006-01-02")
		}
		row := []string{
			strconv.FormatInt(d.UserID, 10),
			d.Name,
			d.Email,
			string(d.Comfort),
			strconv.Itoa(d.RunDay),
			sent,
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

func deleteDigest(name string) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user, err := currentUser(db)
	if err != nil {
		return err
	}

	if err := db.DeleteDigest(user.ID, name); err != nil {
		return err
	}

	fmt.Printf("Deleted digest %q\n", name)
	return nil
}
