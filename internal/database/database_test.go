package database

import (
	"context"
	"testing"
	"time"
)

func TestOpenWithOptions_BadDSN(t *testing.T) {
	// Missing the closing parenthesis, rejected by the DSN parser.
	if _, err := OpenWithOptions(context.Background(), "user@tcp(127.0.0.1:1/db", DefaultOptions); err == nil {
		t.Fatalf("expected DSN parse error")
	}
}

func TestOpenWithOptions_GivesUpAfterRetries(t *testing.T) {
	opts := Options{MaxOpenConns: 1, MaxIdleConns: 1, Retries: 1, RetryBackoff: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Port 1 on loopback refuses connections immediately.
	_, err := OpenWithOptions(ctx, "user:pw@tcp(127.0.0.1:1)/db?timeout=1s", opts)
	if err == nil {
		t.Fatalf("expected ping failure")
	}
}
