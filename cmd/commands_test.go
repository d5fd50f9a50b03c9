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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
	"github.com/ademuri/bookshelf-tools/internal/store"
)

// createTestDb sets up a temporary database and points viper at it.
func createTestDb(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bookshelf.db")
	viper.Set("database", dbPath)

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s): %v", dbPath, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedCatalog(t *testing.T, db *store.Store) {
	t.Helper()
	books := []store.BookImport{
		{Title: "BookA", AverageRating: 4.0, PageCount: 300, Genres: []string{"fantasy"}, Authors: []string{"Author1"}},
		{Title: "BookB", AverageRating: 4.5, PageCount: 320, Genres: []string{"fantasy"}, Authors: []string{"Author2"}},
		{Title: "BookC", AverageRating: 4.5, PageCount: 310, Genres: []string{"romance"}, Authors: []string{"Author3"}},
	}
	if err := db.AddBooks(books); err != nil {
		t.Fatalf("AddBooks: %v", err)
	}
}

func createReader(t *testing.T, db *store.Store) int64 {
	t.Helper()
	viper.Set("user", "reader@example.com")
	id, err := db.CreateUser("reader@example.com", "Reader", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return id
}

func TestAddReading(t *testing.T) {
	db := createTestDb(t)
	seedCatalog(t, db)
	userID := createReader(t, db)

	readingStatus = "completed"
	readingRating = 5
	readingReview = ""
	if err := addReading("BookA", true); err != nil {
		t.Fatalf("addReading: %v", err)
	}

	history, err := db.GetHistory(userID)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d history entries, want 1", len(history))
	}
	if history[0].Book.Title != "BookA" || !history[0].HasRating || history[0].Rating != 5 {
		t.Errorf("unexpected entry: %+v", history[0])
	}

	if err := addReading("No Such Book", false); err == nil {
		t.Error("adding a reading for an unknown title should fail")
	}
}

func TestPrintHistory(t *testing.T) {
	db := createTestDb(t)
	seedCatalog(t, db)
	userID := createReader(t, db)

	rating := 4.0
	bookA, err := db.FindBookByTitle("BookA")
	if err != nil {
		t.Fatalf("FindBookByTitle: %v", err)
	}
	if err := db.SetReading(userID, bookA.ID, recommend.StatusCompleted, &rating, ""); err != nil {
		t.Fatalf("SetReading: %v", err)
	}

	var out bytes.Buffer
	if err := printHistory(&out, nil); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "BookA") || !strings.Contains(got, "completed") {
		t.Errorf("history output missing expected content:\n%s", got)
	}

	// The reading was finished just now, so a past range excludes it
	out.Reset()
	if err := printHistory(&out, []string{"2019"}); err != nil {
		t.Fatalf("printHistory with range: %v", err)
	}
	if strings.Contains(out.String(), "BookA") {
		t.Errorf("reading outside the date range should be excluded:\n%s", out.String())
	}

	out.Reset()
	thisYear := time.Now().Format("2006")
	if err := printHistory(&out, []string{thisYear}); err != nil {
		t.Fatalf("printHistory with range: %v", err)
	}
	if !strings.Contains(out.String(), "BookA") {
		t.Errorf("reading inside the date range should be included:\n%s", out.String())
	}

	if err := printHistory(&out, []string{"not-a-date"}); err == nil {
		t.Error("invalid date argument should fail")
	}
}

func TestPrintRecommendations(t *testing.T) {
	db := createTestDb(t)
	seedCatalog(t, db)
	userID := createReader(t, db)

	rating := 5.0
	bookA, err := db.FindBookByTitle("BookA")
	if err != nil {
		t.Fatalf("FindBookByTitle: %v", err)
	}
	if err := db.SetReading(userID, bookA.ID, recommend.StatusCompleted, &rating, ""); err != nil {
		t.Fatalf("SetReading: %v", err)
	}

	filterGenre = ""
	filterAuthor = ""
	filterMinRating = 0
	filterMinPages = 0
	filterMaxPages = 0
	resultLimit = 0
	similarToTitle = ""

	var out bytes.Buffer
	if err := printRecommendations(&out, "same_old"); err != nil {
		t.Fatalf("printRecommendations: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "BookB") || !strings.Contains(got, "BookC") {
		t.Errorf("recommendations missing candidates:\n%s", got)
	}
	if strings.Contains(got, "BookA") {
		t.Errorf("already-read book appears in recommendations:\n%s", got)
	}
	// Under same_old the familiar fantasy book comes first
	if strings.Index(got, "BookB") > strings.Index(got, "BookC") {
		t.Errorf("same_old should rank BookB above BookC:\n%s", got)
	}

	if err := printRecommendations(&out, "bogus"); err == nil {
		t.Error("unknown comfort level should fail")
	}
}

func TestPrintComparison(t *testing.T) {
	db := createTestDb(t)
	seedCatalog(t, db)
	createReader(t, db)

	compareLimit = 3
	var out bytes.Buffer
	if err := printComparison(&out); err != nil {
		t.Fatalf("printComparison: %v", err)
	}
	got := out.String()
	for _, level := range recommend.Levels() {
		if !strings.Contains(got, string(level)) {
			t.Errorf("comparison output missing level %s:\n%s", level, got)
		}
	}
}

func TestImportBooks(t *testing.T) {
	db := createTestDb(t)

	catalog := []catalogEntry{
		{Title: "Dune", ISBN: "9780441013593", PageCount: 412, AverageRating: 4.2,
			Authors: []string{"Frank Herbert"}, Genres: []string{"scifi"}},
		{Title: "Emma", PageCount: 474, AverageRating: 4.0,
			Authors: []string{"Jane Austen"}, Genres: []string{"romance", "classic"}},
	}
	payload, err := json.Marshal(catalog)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		t.Fatal(err)
	}

	enrichPageCounts = false
	if err := importBooks(path); err != nil {
		t.Fatalf("importBooks: %v", err)
	}

	count, err := db.CountBooks()
	if err != nil {
		t.Fatalf("CountBooks: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d books, want 2", count)
	}

	// Re-import is idempotent
	if err := importBooks(path); err != nil {
		t.Fatalf("importBooks (repeat): %v", err)
	}
	count, err = db.CountBooks()
	if err != nil {
		t.Fatalf("CountBooks: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d books after repeat, want 2", count)
	}
}

func TestFetchPageCount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/isbn/9780441013593.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"number_of_pages": 412})
	}))
	defer ts.Close()

	client := &http.Client{Timeout: time.Second}
	openLibraryURL = ts.URL

	pages, err := fetchPageCount(client, "9780441013593")
	if err != nil {
		t.Fatalf("fetchPageCount: %v", err)
	}
	if pages != 412 {
		t.Errorf("pages = %d, want 412", pages)
	}

	if _, err := fetchPageCount(client, "0000000000"); err == nil {
		t.Error("missing ISBN should return an error")
	}
}

func TestDigestLifecycle(t *testing.T) {
	db := createTestDb(t)
	createReader(t, db)

	if err := addDigest("monthly", "reader@example.com", "adventurous", 15); err != nil {
		t.Fatalf("addDigest: %v", err)
	}
	if err := addDigest("bad", "reader@example.com", "bogus", 15); err == nil {
		t.Error("unknown comfort level should be rejected")
	}
	if err := addDigest("bad", "", "balanced", 15); err == nil {
		t.Error("empty destination should be rejected")
	}

	var out bytes.Buffer
	if err := listDigests(&out); err != nil {
		t.Fatalf("listDigests: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "monthly") || !strings.Contains(got, "adventurous") {
		t.Errorf("digest listing missing content:\n%s", got)
	}

	if err := deleteDigest("monthly"); err != nil {
		t.Fatalf("deleteDigest: %v", err)
	}
	if err := deleteDigest("monthly"); err == nil {
		t.Error("deleting a missing digest should fail")
	}
}

func TestSendDigestsDryRun(t *testing.T) {
	db := createTestDb(t)
	seedCatalog(t, db)
	userID := createReader(t, db)

	err := db.AddDigest(store.Digest{
		UserID:  userID,
		Name:    "monthly",
		Email:   "reader@example.com",
		Comfort: recommend.Balanced,
		RunDay:  1,
	})
	if err != nil {
		t.Fatalf("AddDigest: %v", err)
	}

	config := SendDigestsConfig{
		DbPath: viper.GetString("database"),
		From:   "digests@example.com",
		DryRun: true,
	}
	if err := sendDigests(config); err != nil {
		t.Fatalf("sendDigests (dry run): %v", err)
	}

	// Dry run must not mark the digest as sent
	digests, err := db.ListDigests()
	if err != nil {
		t.Fatalf("ListDigests: %v", err)
	}
	if len(digests) != 1 {
		t.Fatalf("got %d digests, want 1", len(digests))
	}
	if !digests[0].Sent.IsZero() {
		t.Errorf("dry run marked digest sent at %v", digests[0].Sent)
	}
}

func TestSendEmailDryRun(t *testing.T) {
	db := createTestDb(t)
	seedCatalog(t, db)
	createReader(t, db)

	config := SendEmailConfig{
		From:    "digests@example.com",
		To:      "reader@example.com",
		Comfort: "balanced",
		Limit:   5,
		DryRun:  true,
	}
	if err := sendEmail(config); err != nil {
		t.Fatalf("sendEmail (dry run): %v", err)
	}

	config.Comfort = "bogus"
	if err := sendEmail(config); err == nil {
		t.Error("unknown comfort level should fail")
	}
}

func TestDigestBody(t *testing.T) {
	recs := []recommend.Recommendation{
		{
			Book:    recommend.Book{Title: "BookB", Authors: []string{"Author2"}},
			Reasons: []string{"Highly rated book"},
		},
	}
	plain, htmlBody := digestBody("Reader", recommend.Balanced, recs)

	if !strings.Contains(plain, "BookB by Author2") {
		t.Errorf("plain body missing book line:\n%s", plain)
	}
	if !strings.Contains(htmlBody, "<b>BookB</b>") {
		t.Errorf("html body missing book markup:\n%s", htmlBody)
	}

	plain, _ = digestBody("Reader", recommend.Balanced, nil)
	if !strings.Contains(plain, "Nothing new this month") {
		t.Errorf("empty digest should say so:\n%s", plain)
	}
}
