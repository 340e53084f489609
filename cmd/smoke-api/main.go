package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

// Smoke check against a running instance: log in, create an article,
// publish it, read it back anonymously.
func main() {
	base := os.Getenv("HUB_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	email := os.Getenv("HUB_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("HUB_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("HUB_ADMIN_PASSWORD is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	login := post(client, base+"/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	if login.StatusCode != http.StatusOK {
		log.Fatalf("login: status %d", login.StatusCode)
	}
	login.Body.Close()

	slug := fmt.Sprintf("smoke-%d", rand.Int63())
	created := post(client, base+"/api/articles", map[string]any{
		"title":   "Smoke Article",
		"content": "Written by the smoke checker.",
		"slug":    slug,
	})
	if created.StatusCode != http.StatusCreated {
		log.Fatalf("create article: status %d", created.StatusCode)
	}
	created.Body.Close()

	published := post(client, base+"/api/articles/"+slug+"/publish", map[string]any{
		"published": true,
	})
	if published.StatusCode != http.StatusOK {
		log.Fatalf("publish article: status %d", published.StatusCode)
	}
	published.Body.Close()

	// Anonymous read must see the published article.
	anon := &http.Client{Timeout: 10 * time.Second}
	resp, err := anon.Get(base + "/api/articles/" + slug)
	if err != nil {
		log.Fatalf("get article: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("get article: status %d", resp.StatusCode)
	}
	var article struct {
		Title     string `json:"title"`
		Published bool   `json:"published"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		log.Fatalf("decode article: %v", err)
	}
	if article.Title != "Smoke Article" || !article.Published {
		log.Fatalf("unexpected article state: %+v", article)
	}

	fmt.Printf("SMOKE OK: %s/%s\n", base, slug)
}

func post(client *http.Client, url string, body map[string]any) *http.Response {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	return resp
}
