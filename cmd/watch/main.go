// Command watch follows the live incident feed in the terminal. It fetches
// the current snapshot, attaches to the live channel, and reprints the
// reconciled list whenever an incident arrives.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/incidentflow/incidentflow/internal/feed"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "server base URL")
		token    = flag.String("token", "", "credential (skips login)")
		email    = flag.String("email", "", "login email (used when -token is empty)")
		password = flag.String("password", "", "login password")
	)
	flag.Parse()

	if *token == "" {
		tok, err := login(*baseURL, *email, *password)
		if err != nil {
			fmt.Fprintln(os.Stderr, "login:", err)
			os.Exit(1)
		}
		*token = tok
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := &feed.Watcher{
		BaseURL:  *baseURL,
		Token:    *token,
		OnChange: render,
	}

	if err := watcher.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		os.Exit(1)
	}
}

func login(baseURL, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("provide -token or -email and -password")
	}

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func render(list []*domain.Incident) {
	fmt.Printf("--- %d incidents ---\n", len(list))
	for _, incident := range list {
		fmt.Printf("#%d [%s] %s (%s, by %s)\n",
			incident.ID,
			incident.Severity,
			incident.Title,
			incident.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			incident.CreatorName,
		)
	}
}
