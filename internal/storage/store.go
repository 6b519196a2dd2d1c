// Package storage implements the document object store: files on disk
// under a configured root, addressed by meeting-scoped keys, plus
// HMAC-signed time-limited download URLs so document bodies can be
// served without a JWT.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrExpired is returned by Verify when the signed URL's deadline has
// passed.
var ErrExpired = errors.New("signed url expired")

// ErrBadSignature is returned by Verify when the signature does not
// match the key and expiry.
var ErrBadSignature = errors.New("bad signature")

// ErrInvalidKey is returned for object keys that escape the store root.
var ErrInvalidKey = errors.New("invalid object key")

// Store is a disk-rooted object store. Keys look like
// "<meeting_id>/<timestamp>_<safe_name>"; the secret signs download
// URLs.
type Store struct {
	root   string
	secret []byte
}

// NewStore returns a Store rooted at dir, creating it if necessary.
func NewStore(dir, secret string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{root: dir, secret: []byte(secret)}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
var repeatedUnderscore = regexp.MustCompile(`_{2,}`)

// SafeFileName reduces an uploaded filename to characters that are safe
// as an object key: anything outside [a-zA-Z0-9.-] becomes an
// underscore and runs of underscores collapse to one.
func SafeFileName(original string) string {
	name := unsafeChars.ReplaceAllString(original, "_")
	return repeatedUnderscore.ReplaceAllString(name, "_")
}

// Save writes the file body under a key scoped to the meeting, using a
// millisecond timestamp prefix so repeated uploads of the same filename
// never collide. The body is staged to "<key>.tmp" and renamed into
// place once fully written, so a reader can never observe a partial
// object; an interrupted upload leaves only the .tmp file, which the
// nightly PurgeTempFiles sweep collects. It returns the object key to
// persist alongside the document row.
func (s *Store) Save(meetingID, originalName string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%d_%s", meetingID, time.Now().UnixMilli(), SafeFileName(originalName))
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create meeting dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		// The partial .tmp stays behind for the maintenance purge.
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("flush object: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("publish object: %w", err)
	}
	return key, nil
}

// Open returns a reader for the object body. The caller must close it.
func (s *Store) Open(key string) (*os.File, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes the object body. Removing an absent object is not an
// error so a dangling document row can always be cleaned up.
func (s *Store) Remove(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of key and expiry, the capability
// that makes a download URL valid until exp.
func (s *Store) Sign(key string, exp time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(exp.Unix(), 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedQuery builds the query fragment (path, exp, sig) for a download
// URL valid for ttl from now.
func (s *Store) SignedQuery(key string, ttl time.Duration) (path string, exp int64, sig string) {
	deadline := time.Now().UTC().Add(ttl)
	return key, deadline.Unix(), s.Sign(key, deadline)
}

// Verify checks a presented key, expiry and signature. Expiry is
// checked first so an expired link reports ErrExpired even when the
// signature is also wrong.
func (s *Store) Verify(key string, exp int64, sig string) error {
	if time.Now().UTC().Unix() > exp {
		return ErrExpired
	}
	want := s.Sign(key, time.Unix(exp, 0))
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

// PurgeTempFiles removes stale partial files (".tmp" suffix) older than
// the cutoff. Called from the maintenance schedule.
func (s *Store) PurgeTempFiles(cutoff time.Time) (int, error) {
	removed := 0
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".tmp") {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// resolve maps an object key to an absolute path, rejecting keys that
// would escape the store root.
func (s *Store) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
