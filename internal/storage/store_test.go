package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "test-secret")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"protokoll 2024.pdf", "protokoll_2024.pdf"},
		{"års/redovisning.pdf", "_rs_redovisning.pdf"},
		{"a   b.txt", "a_b.txt"},
		{"plain-name.doc", "plain-name.doc"},
	}
	for _, tc := range cases {
		if got := SafeFileName(tc.in); got != tc.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSaveOpenRemove(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save("meeting-1", "minutes.pdf", strings.NewReader("document body"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, "meeting-1/") || !strings.HasSuffix(key, "_minutes.pdf") {
		t.Fatalf("unexpected key %q", key)
	}

	f, err := s.Open(key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, err := io.ReadAll(f)
	f.Close()
	if err != nil || string(body) != "document body" {
		t.Fatalf("read back %q err=%v", body, err)
	}

	if err := s.Remove(key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Open(key); err == nil {
		t.Fatal("object should be gone after Remove")
	}
	// Removing an absent object stays silent so dangling rows can be cleaned.
	if err := s.Remove(key); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

// failingReader errors partway through, standing in for an upload that
// breaks off mid-transfer.
type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		n := copy(p, "partial")
		return n, nil
	}
	return 0, errors.New("connection reset")
}

func TestSaveStagesThroughTempFile(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save("meeting-1", "ok.pdf", strings.NewReader("complete"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if countTempFiles(t, s.root) != 0 {
		t.Fatal("successful Save must not leave a .tmp file")
	}
	if _, err := s.Open(key); err != nil {
		t.Fatalf("Open after Save: %v", err)
	}

	if _, err := s.Save("meeting-1", "broken.pdf", &failingReader{}); err == nil {
		t.Fatal("expected error from interrupted upload")
	}
	if countTempFiles(t, s.root) != 1 {
		t.Fatal("interrupted Save must leave its .tmp file for the purge")
	}
	// The partial body must not be visible as a finished object.
	entries, err := os.ReadDir(filepath.Join(s.root, "meeting-1"))
	if err != nil {
		t.Fatalf("read meeting dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_broken.pdf") {
			t.Fatalf("partial object published as %q", e.Name())
		}
	}
}

func TestPurgeTempFilesCollectsInterruptedUploads(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save("meeting-1", "broken.pdf", &failingReader{}); err == nil {
		t.Fatal("expected error from interrupted upload")
	}

	// Not yet stale: a cutoff in the past leaves the file alone.
	if n, err := s.PurgeTempFiles(time.Now().Add(-time.Hour)); err != nil || n != 0 {
		t.Fatalf("PurgeTempFiles(fresh) = %d,%v, want 0,nil", n, err)
	}
	if countTempFiles(t, s.root) != 1 {
		t.Fatal("fresh .tmp file must survive the purge")
	}

	if n, err := s.PurgeTempFiles(time.Now().Add(time.Hour)); err != nil || n != 1 {
		t.Fatalf("PurgeTempFiles(stale) = %d,%v, want 1,nil", n, err)
	}
	if countTempFiles(t, s.root) != 0 {
		t.Fatal("stale .tmp file must be removed")
	}
}

func countTempFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".tmp") {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk store root: %v", err)
	}
	return n
}

func TestResolveRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, key := range []string{"", "../etc/passwd", "/abs/path", "m/../../x"} {
		if _, err := s.Open(key); err != ErrInvalidKey {
			t.Errorf("Open(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestSignedURLRoundTrip(t *testing.T) {
	s := newTestStore(t)

	key, exp, sig := s.SignedQuery("meeting-1/1_minutes.pdf", 5*time.Minute)
	if err := s.Verify(key, exp, sig); err != nil {
		t.Fatalf("Verify fresh signature: %v", err)
	}

	if err := s.Verify(key, exp, sig+"00"); err != ErrBadSignature {
		t.Errorf("tampered signature: err = %v, want ErrBadSignature", err)
	}
	if err := s.Verify("other/key", exp, sig); err != ErrBadSignature {
		t.Errorf("signature bound to key: err = %v, want ErrBadSignature", err)
	}

	past := time.Now().UTC().Add(-time.Minute)
	expiredSig := s.Sign(key, past)
	if err := s.Verify(key, past.Unix(), expiredSig); err != ErrExpired {
		t.Errorf("expired link: err = %v, want ErrExpired", err)
	}
}

func TestSignDiffersPerSecret(t *testing.T) {
	a, err := NewStore(t.TempDir(), "secret-a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewStore(t.TempDir(), "secret-b")
	if err != nil {
		t.Fatal(err)
	}
	exp := time.Now().Add(time.Minute)
	if a.Sign("k", exp) == b.Sign("k", exp) {
		t.Fatal("signatures must depend on the secret")
	}
}
