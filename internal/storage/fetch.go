package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrDownloadInFlight is returned by DownloadGuard.Begin while a
// transfer of the same ID is still running; duplicates are rejected
// rather than queued.
var ErrDownloadInFlight = errors.New("download already in progress")

// FetchWithRetry issues GET requests against url until one succeeds,
// making at most tries attempts. The delay before attempt n is
// delay × n (linearly increasing), matching the portal's document
// download behavior. A non-2xx status counts as a failure. On success
// the response body is returned; on exhaustion the last error is.
func FetchWithRetry(ctx context.Context, client *http.Client, url string, tries int, delay time.Duration) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if tries < 1 {
		tries = 1
	}
	var lastErr error
	for attempt := 1; attempt <= tries; attempt++ {
		body, err := fetchOnce(ctx, client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == tries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

func fetchOnce(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ImportFromURL fetches a remote document with FetchWithRetry and
// stores the body under the meeting, returning the new object key.
// Used by the admin import endpoint to pull protocols from the
// association's previous website.
func (s *Store) ImportFromURL(ctx context.Context, client *http.Client, meetingID, name, url string, tries int, delay time.Duration) (string, error) {
	body, err := FetchWithRetry(ctx, client, url, tries, delay)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return s.Save(meetingID, name, bytes.NewReader(body))
}

// DownloadGuard deduplicates document transfers per ID. The state is
// explicit: each in-flight ID maps to the cancel function of its
// operation. Begin rejects a concurrent download of the same ID
// instead of silently ignoring it, while unrelated IDs proceed in
// parallel; Done both releases the slot and cancels the operation's
// context.
type DownloadGuard struct {
	mu       sync.Mutex
	inFlight map[string]context.CancelFunc
}

// Begin claims the guard for document id and returns a derived context
// for the download. It fails with ErrDownloadInFlight when a download
// of the same id is already running.
func (g *DownloadGuard) Begin(ctx context.Context, id string) (context.Context, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]context.CancelFunc)
	}
	if _, busy := g.inFlight[id]; busy {
		return nil, ErrDownloadInFlight
	}
	dctx, cancel := context.WithCancel(ctx)
	g.inFlight[id] = cancel
	return dctx, nil
}

// Done releases the slot for id and cancels the in-flight operation's
// context. Calling Done for an idle id is a no-op.
func (g *DownloadGuard) Done(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cancel, ok := g.inFlight[id]; ok {
		cancel()
		delete(g.inFlight, id)
	}
}

// InFlight reports whether a download of id is currently running.
func (g *DownloadGuard) InFlight(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[id]
	return busy
}
