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
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/api"
	"github.com/ademuri/bookshelf-tools/internal/auth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the bookshelf HTTP API",
	Long:  `Serves user accounts, reading history, and recommendations over HTTP.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("jwt_secret") == "" {
			return fmt.Errorf("required flag(s) \"jwt_secret\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := runServer()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	var addr string
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	var jwtSecret string
	serveCmd.Flags().StringVar(&jwtSecret, "jwt_secret", "", "Secret for signing session tokens")
	viper.BindPFlag("jwt_secret", serveCmd.Flags().Lookup("jwt_secret"))

	var sessionTimeout time.Duration
	serveCmd.Flags().DurationVar(&sessionTimeout, "session_timeout", 24*time.Hour, "How long session tokens stay valid")
	viper.BindPFlag("session_timeout", serveCmd.Flags().Lookup("session_timeout"))
}

func runServer() error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	jwt, err := auth.NewJWTManager(viper.GetString("jwt_secret"), viper.GetDuration("session_timeout"))
	if err != nil {
		return err
	}

	server := api.NewServer(db, jwt, logger)
	addr := viper.GetString("addr")
	logger.Info().Str("addr", addr).Msg("listening")

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return httpServer.ListenAndServe()
}
