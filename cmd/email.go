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
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

type SendEmailConfig struct {
	From    string
	To      string
	Comfort string
	Limit   int
	DryRun  bool
}

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Sends a one-off recommendation email",
	Long: `Emails recommendations for the current user to the given address,
without requiring a digest subscription.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			From:    viper.GetString("from"),
			To:      args[0],
			Comfort: viper.GetString("email_comfort"),
			Limit:   viper.GetInt("email_limit"),
			DryRun:  viper.GetBool("email_dry_run"),
		}
		err := sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	var comfort string
	emailCmd.Flags().StringVar(&comfort, "comfort", "balanced", "Comfort level for the recommendations")
	viper.BindPFlag("email_comfort", emailCmd.Flags().Lookup("comfort"))

	var limit int
	emailCmd.Flags().IntVar(&limit, "limit", 5, "How many recommendations to include")
	viper.BindPFlag("email_limit", emailCmd.Flags().Lookup("limit"))

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("email_dry_run", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(config SendEmailConfig) error {
	level, err := recommend.ParseComfortLevel(config.Comfort)
	if err != nil {
		return err
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

	profile, pool, err := loadEngineInputs(db)
	if err != nil {
		return err
	}

	recs, err := recommend.Recommend(context.Background(), pool, profile,
		recommend.Request{Comfort: level, Limit: config.Limit}, recommend.DefaultConfig())
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Books to read next (%s)", level)
	plain, htmlBody := digestBody(user.Name, level, recs)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, plain)
		return nil
	}

	from := mail.NewEmail("bookshelf-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, plain, htmlBody)
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
