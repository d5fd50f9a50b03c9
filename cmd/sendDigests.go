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
	"html"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
	"github.com/ademuri/bookshelf-tools/internal/store"
)

type SendDigestsConfig struct {
	DbPath string
	From   string
	DryRun bool
}

var sendDigestsCmd = &cobra.Command{
	Use:   "send-digests",
	Short: "Sends the recommendation digests that are due",
	Long:  ``,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendDigestsConfig{
			DbPath: viper.GetString("database"),
			From:   viper.GetString("from"),
			DryRun: viper.GetBool("dry_run"),
		}
		err := sendDigests(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendDigestsCmd)

	var from string
	sendDigestsCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", sendDigestsCmd.Flags().Lookup("from"))

	var dryRun bool
	sendDigestsCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", sendDigestsCmd.Flags().Lookup("dry_run"))
}

func sendDigests(config SendDigestsConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	digests, err := db.ListDigests()
	if err != nil {
		return err
	}

	now := time.Now()
	var due []store.Digest
	for _, d := range digests {
		toSendThisMonth := time.Date(now.Year(), now.Month(), d.RunDay, 0, 0, 0, 0, now.Location())
		toSendLastMonth := time.Date(now.Year(), now.Month()-1, d.RunDay, 0, 0, 0, 0, now.Location())
		if d.Sent.After(toSendThisMonth) {
			fmt.Printf("Digest (%d, %q) was already sent this month on %s, not sending.\n",
				d.UserID, d.Name, d.Sent.Format("2006-01-02"))
			continue
		}
		if now.Before(toSendThisMonth) && d.Sent.After(toSendLastMonth) {
			fmt.Printf("Digest (%d, %q) was already sent for last month on %s, not sending.\n",
				d.UserID, d.Name, d.Sent.Format("2006-01-02"))
			continue
		}
		due = append(due, d)
	}

	errOccurred := false
	for _, d := range due {
		fmt.Printf("Sending digest (%d, %q)\n", d.UserID, d.Name)
		err := sendDigest(db, config, d, now)
		if err != nil {
			errOccurred = true
			fmt.Printf("sendDigest: %v\n", err)
		}
	}

	if errOccurred {
		return fmt.Errorf("error occurred while sending digests")
	}
	return nil
}

func sendDigest(db *store.Store, config SendDigestsConfig, d store.Digest, now time.Time) error {
	user, err := db.GetUser(d.UserID)
	if err != nil {
		return err
	}

	history, err := db.GetHistory(user.ID)
	if err != nil {
		return err
	}
	prefs, err := db.GetPreferences(user.ID)
	if err != nil {
		return err
	}
	pool, err := db.GetCandidateBooks(user.ID)
	if err != nil {
		return err
	}

	cfg := recommend.DefaultConfig()
	profile := recommend.BuildProfile(history, prefs, cfg)
	recs, err := recommend.Recommend(context.Background(), pool, profile,
		recommend.Request{Comfort: d.Comfort, Limit: 5}, cfg)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s: books to read next (%s)", d.Name, d.Comfort)
	plain, htmlBody := digestBody(user.Name, d.Comfort, recs)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, plain)
		return nil
	}

	from := mail.NewEmail("bookshelf-tools", config.From)
	to := mail.NewEmail(d.Email, d.Email)
	message := mail.NewSingleEmail(from, subject, to, plain, htmlBody)
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return db.MarkDigestSent(d.UserID, d.Name, now)
}

func digestBody(name string, comfort recommend.ComfortLevel, recs []recommend.Recommendation) (plain, htmlBody string) {
	var text strings.Builder
	var body strings.Builder

	fmt.Fprintf(&text, "Hi %s, here's what to read next (%s):\n\n", name, comfort)
	fmt.Fprintf(&body, "<html><body><p>Hi %s, here's what to read next (%s):</p><ol>\n",
		html.EscapeString(name), comfort)

	if len(recs) == 0 {
		text.WriteString("Nothing new this month. Import more books!\n")
		body.WriteString("<li>Nothing new this month. Import more books!</li>\n")
	}
	for _, rec := range recs {
		authors := strings.Join(rec.Book.Authors, ", ")
		reasons := strings.Join(rec.Reasons, "; ")
		fmt.Fprintf(&text, "- %s by %s (%s)\n", rec.Book.Title, authors, reasons)
		fmt.Fprintf(&body, "<li><b>%s</b> by %s <i>%s</i></li>\n",
			html.EscapeString(rec.Book.Title), html.EscapeString(authors), html.EscapeString(reasons))
	}

	body.WriteString("</ol></body></html>")
	return text.String(), body.String()
}
