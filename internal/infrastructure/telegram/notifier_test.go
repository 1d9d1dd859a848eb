package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinewire/internal/config"
)

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText, gotMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotChat = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		gotMode = r.FormValue("parse_mode")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "bot-token", ChatID: "42"}, server.Client())
	n.apiBase = server.URL

	if err := n.PublishDigest(context.Background(), "*Run finished*: 2 created"); err != nil {
		t.Fatalf("PublishDigest: %v", err)
	}
	if gotPath != "/botbot-token/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChat != "42" || gotMode != "Markdown" {
		t.Errorf("chat_id = %q parse_mode = %q", gotChat, gotMode)
	}
	if gotText != "*Run finished*: 2 created" {
		t.Errorf("text = %q", gotText)
	}
}

func TestPublishDigestRejectsFailureStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "t", ChatID: "c"}, server.Client())
	n.apiBase = server.URL

	if err := n.PublishDigest(context.Background(), "digest"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestPublishDigestUnconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.TelegramConfig{}, nil)
	if n.Configured() {
		t.Error("empty credentials reported as configured")
	}
	if err := n.PublishDigest(context.Background(), "digest"); err == nil {
		t.Fatal("expected error when unconfigured")
	}
}
