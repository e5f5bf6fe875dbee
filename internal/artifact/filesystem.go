package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/m-mizutani/goerr/v2"
)

// Filesystem stores artifacts as files below a root directory.
type Filesystem struct {
	root        string
	retryConfig retry.Config
}

// NewFilesystem creates a Filesystem store rooted at root. The directory is created on
// first write.
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the root directory.
func (s *Filesystem) Root() string {
	return s.root
}

// ResolvePath maps a key to a file path inside the root.
func (s *Filesystem) ResolvePath(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes data to a temporary file next to the target and renames it into place, so
// readers never see a partial artifact. Transient failures are retried.
func (s *Filesystem) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	p, err := s.ResolvePath(key)
	if err != nil {
		return "", err
	}

	retryer := retry.New[string](s.retryConfig)
	return retryer.Do(ctx, func(ctx context.Context) (string, error) {
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return "", goerr.Wrap(err, "failed to create artifact directory", goerr.V("path", p))
		}

		tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
		if err != nil {
			return "", goerr.Wrap(err, "failed to create temp file", goerr.V("path", p))
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			return "", goerr.Wrap(err, "failed to write artifact", goerr.V("path", p))
		}
		if err := tmp.Close(); err != nil {
			return "", goerr.Wrap(err, "failed to close artifact", goerr.V("path", p))
		}
		if err := os.Rename(tmp.Name(), p); err != nil {
			return "", goerr.Wrap(err, "failed to move artifact into place", goerr.V("path", p))
		}
		return p, nil
	})
}

// Get reads an artifact back.
func (s *Filesystem) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.ResolvePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrNotFound, "no such artifact", goerr.V("key", key))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact", goerr.V("path", p))
	}
	return data, nil
}
