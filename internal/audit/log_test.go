package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"articlehub.org/internal/auth"
	"articlehub.org/internal/obs"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	obs.Logger().SetOutput(&buf)
	t.Cleanup(func() { obs.Logger().SetOutput(os.Stdout) })
	return &buf
}

func TestLogEventShape(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{ID: "user-1", Role: auth.RoleAdmin})

	if err := LogEvent(ctx, "article.created", map[string]any{"slug": "hello"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not valid JSON: %v (%s)", err, buf.String())
	}
	if entry["type"] != "audit" || entry["event"] != "article.created" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("request_id missing: %v", entry)
	}
	if entry["user_id"] != "user-1" {
		t.Fatalf("user_id missing: %v", entry)
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["slug"] != "hello" {
		t.Fatalf("fields not carried: %v", entry)
	}
	if entry["ts"] == "" {
		t.Fatal("timestamp missing")
	}
}

func TestLogEventWithoutContext(t *testing.T) {
	buf := captureLog(t)

	if err := LogEvent(context.Background(), "auth.login.denied", nil); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := entry["request_id"]; ok {
		t.Fatal("request_id must be omitted without context")
	}
	if _, ok := entry["user_id"]; ok {
		t.Fatal("user_id must be omitted without identity")
	}
}

func TestLogEventRejectsEmptyName(t *testing.T) {
	if err := LogEvent(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}
