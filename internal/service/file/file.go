// Package file stores attachment bytes on the local disk or in S3.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/Alijeyrad/scheduleease/config"
	s3pkg "github.com/Alijeyrad/scheduleease/pkg/s3"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"

	DefaultDir  = "data/appointment-attachment"
	maxAttempts = 8
)

var ErrNameExhausted = errors.New("could not allocate a unique file name")

// Store keeps uploaded bytes. Save returns a path unique per call.
type Store interface {
	Save(ctx context.Context, r io.Reader, ext string) (string, error)
	Remove(ctx context.Context, path string) error
}

// uniqueName returns "<unix ms><0..9999>.<ext>".
func uniqueName(now time.Time, ext string) string {
	return fmt.Sprintf("%d%d.%s", now.UnixMilli(), rand.IntN(10000), ext)
}

// ---------------------------------------------------------------------------
// Local disk
// ---------------------------------------------------------------------------

type LocalStore struct {
	dir  string
	name func(ext string) string
}

func NewLocal(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	return &LocalStore{
		dir:  abs,
		name: func(ext string) string { return uniqueName(time.Now(), ext) },
	}, nil
}

// Save creates the directory on demand and never overwrites an existing file.
func (s *LocalStore) Save(ctx context.Context, r io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	for i := 0; i < maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := filepath.Join(s.dir, s.name(ext))
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create file: %w", err)
		}

		_, err = io.Copy(f, r)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(p)
			return "", fmt.Errorf("write file: %w", err)
		}
		return p, nil
	}
	return "", ErrNameExhausted
}

func (s *LocalStore) Remove(_ context.Context, p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// S3
// ---------------------------------------------------------------------------

type objectClient interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

type S3Store struct {
	client objectClient
	prefix string
	name   func(ext string) string
}

func NewS3(client *s3pkg.Client, prefix string) *S3Store {
	return newS3(client, prefix)
}

func newS3(client objectClient, prefix string) *S3Store {
	if prefix == "" {
		prefix = "appointment-attachment"
	}
	return &S3Store{
		client: client,
		prefix: prefix,
		name:   func(ext string) string { return uniqueName(time.Now(), ext) },
	}
}

// Save buffers the upload so the object length is known up front. Uploads
// are bounded by the attachment size limit.
func (s *S3Store) Save(ctx context.Context, r io.Reader, ext string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	contentType := mime.TypeByExtension("." + ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := path.Join(s.prefix, s.name(ext))
	if err := s.client.Upload(ctx, key, contentType, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		return "", err
	}
	return key, nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	return s.client.Delete(ctx, key)
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// New selects the backend named by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "", DriverLocal:
		return NewLocal(cfg.Storage.Local.Dir)
	case DriverS3:
		client, err := s3pkg.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3(client, cfg.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
