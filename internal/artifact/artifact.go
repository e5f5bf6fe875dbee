// Package artifact stores scan artifacts (screenshots and reports) under stable keys.
//
// Keys are "<scanID>/<name>". Offline analyses that have no scan id use ContentID, a
// digest of the analyzed bytes, in its place, so the same input always maps to the same
// key.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Artifact names.
const (
	Screenshot     = "screenshot.png"
	Annotated      = "annotated.png"
	JSONReport     = "report.json"
	MarkdownReport = "report.md"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = goerr.New("invalid artifact key")

// ErrNotFound is returned by Get for a missing artifact.
var ErrNotFound = goerr.New("artifact not found")

// Store persists artifacts.
type Store interface {
	// Put stores data under key and returns its location (a file path or an object URL).
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get returns the bytes stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Key builds the key of artifact name for a scan.
func Key(scanID, name string) string {
	return path.Join(scanID, name)
}

// ContentID returns a stable identifier for data: the first 16 hex digits of its SHA-256.
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// ContentType guesses the MIME type of an artifact from its name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	}
	return "application/octet-stream"
}

// cleanKey validates key and returns it in canonical form.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", goerr.Wrap(ErrInvalidKey, "empty key")
	}
	clean := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if path.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", goerr.Wrap(ErrInvalidKey, "key escapes store root", goerr.V("key", key))
	}
	return clean, nil
}
