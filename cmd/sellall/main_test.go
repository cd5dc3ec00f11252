package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"sniper-telemetry/pkg/pumpportal"
)

func TestSellAll_ContinuesPastFailures(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		var req pumpportal.TradeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Mint == "mintDead" {
			json.NewEncoder(w).Encode(pumpportal.TradeResponse{Error: "no route"})
			return
		}
		json.NewEncoder(w).Encode(pumpportal.TradeResponse{Signature: "sig"})
	}))
	defer srv.Close()

	client := pumpportal.New("k")
	client.SetBaseURL(srv.URL)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	sold, failed := sellAll(context.Background(), log, client,
		[]string{"mintA", "mintDead", "mintC"}, 0)

	if sold != 2 || failed != 1 {
		t.Fatalf("sold=%d failed=%d, want 2/1", sold, failed)
	}
	if atomic.LoadInt64(&calls) != 3 {
		t.Fatalf("calls=%d, a failure must not stop the sweep", calls)
	}
}

func TestReadMints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.txt")
	content := "mintA\n\n# stale position\nmintB\n  mintC  \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write mint list: %v", err)
	}

	mints, err := readMints(path)
	if err != nil {
		t.Fatalf("readMints: %v", err)
	}
	want := []string{"mintA", "mintB", "mintC"}
	if len(mints) != len(want) {
		t.Fatalf("got %v, want %v", mints, want)
	}
	for i := range want {
		if mints[i] != want[i] {
			t.Errorf("mints[%d]=%q, want %q", i, mints[i], want[i])
		}
	}
}

func TestReadMints_MissingFile(t *testing.T) {
	if _, err := readMints(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error")
	}
}
