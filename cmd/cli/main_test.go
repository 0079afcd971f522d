package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append(args, "--url", serverURL))

	err := cmd.Execute()
	return out.String(), err
}

func TestAccountGetCommand(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"acc1","currency":"USD","balance":"1000"}`))
	}))
	defer server.Close()

	out, err := executeCommand(t, server.URL, "account", "get", "acc1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if gotPath != "/api/v1/accounts/acc1" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if !strings.Contains(out, `"id": "acc1"`) {
		t.Fatalf("expected pretty-printed account, got:\n%s", out)
	}
}

func TestWithdrawCommandSendsIdempotencyKey(t *testing.T) {
	var (
		gotKey  string
		gotBody []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"transaction":{"id":"txn-1"}}`))
	}))
	defer server.Close()

	out, err := executeCommand(t, server.URL,
		"withdraw", "acc1",
		"--amount", "100.50",
		"--idempotency-key", "key-1",
	)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if gotKey != "key-1" {
		t.Fatalf("expected idempotency key header, got %q", gotKey)
	}
	if !strings.Contains(string(gotBody), `"amount":"100.50"`) {
		t.Fatalf("unexpected request body: %s", gotBody)
	}
	if !strings.Contains(out, `"success": true`) {
		t.Fatalf("expected success output, got:\n%s", out)
	}
}

func TestWithdrawCommandFailsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":"INSUFFICIENT_FUNDS","message":"Insufficient funds for withdrawal"}`))
	}))
	defer server.Close()

	out, err := executeCommand(t, server.URL, "withdraw", "acc1", "--amount", "100")
	if err == nil {
		t.Fatalf("expected error for 422 response")
	}
	if !strings.Contains(out, "INSUFFICIENT_FUNDS") {
		t.Fatalf("expected error body to be printed, got:\n%s", out)
	}
}

func TestWithdrawCommandRequiresAmount(t *testing.T) {
	if _, err := executeCommand(t, "http://localhost:0", "withdraw", "acc1"); err == nil {
		t.Fatalf("expected error for missing --amount")
	}
}

func TestPrintJSONFallsBackToRaw(t *testing.T) {
	out := &bytes.Buffer{}
	printJSON(out, []byte("not-json"))

	if strings.TrimSpace(out.String()) != "not-json" {
		t.Fatalf("expected raw passthrough, got %q", out.String())
	}
}
