package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchWithRetryEventualSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	body, err := FetchWithRetry(context.Background(), srv.Client(), srv.URL, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("FetchWithRetry: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("body = %q", body)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("server saw %d calls, want 3", got)
	}
}

func TestFetchWithRetryExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchWithRetry(context.Background(), srv.Client(), srv.URL, 3, time.Millisecond)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("server saw %d calls, want 3", got)
	}
}

func TestFetchWithRetryHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FetchWithRetry(ctx, srv.Client(), srv.URL, 5, time.Hour)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestDownloadGuardSingleFlightPerID(t *testing.T) {
	var g DownloadGuard

	ctx, err := g.Begin(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !g.InFlight("doc-1") {
		t.Fatal("doc-1 should be in flight")
	}

	if _, err := g.Begin(context.Background(), "doc-1"); err != ErrDownloadInFlight {
		t.Fatalf("concurrent Begin of same id err = %v, want ErrDownloadInFlight", err)
	}

	// An unrelated document does not contend.
	if _, err := g.Begin(context.Background(), "doc-2"); err != nil {
		t.Fatalf("Begin of unrelated id: %v", err)
	}
	g.Done("doc-2")

	g.Done("doc-1")
	select {
	case <-ctx.Done():
	default:
		t.Fatal("Done must cancel the operation context")
	}
	if g.InFlight("doc-1") {
		t.Fatal("doc-1 should be idle after Done")
	}

	// The same document can start again once released.
	if _, err := g.Begin(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Begin after Done: %v", err)
	}
	g.Done("doc-1")
	g.Done("doc-1") // idempotent
}

func TestImportFromURLStoresBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("protocol body"))
	}))
	defer srv.Close()

	s := newTestStore(t)
	key, err := s.ImportFromURL(context.Background(), srv.Client(),
		"meeting-1", "protokoll.pdf", srv.URL, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("ImportFromURL: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("server saw %d calls, want 2", got)
	}

	f, err := s.Open(key)
	if err != nil {
		t.Fatalf("Open imported object: %v", err)
	}
	body, err := io.ReadAll(f)
	f.Close()
	if err != nil || string(body) != "protocol body" {
		t.Fatalf("read back %q err=%v", body, err)
	}
}

func TestImportFromURLExhaustedStoresNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := newTestStore(t)
	if _, err := s.ImportFromURL(context.Background(), srv.Client(),
		"meeting-1", "gone.pdf", srv.URL, 2, time.Millisecond); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
