package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotFound is returned by Get for keys that were never stored.
var ErrNotFound = errors.New("object not found")

// Storage keeps derived assets and receipts and returns their public URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Reader reads back objects stored by Put.
type Reader interface {
	// Key maps a URL returned by Put back to its key. ok is false for URLs
	// outside this store.
	Key(rawURL string) (key string, ok bool)
	// Get returns at most limit+1 bytes, so callers can detect oversize objects.
	Get(ctx context.Context, key string, limit int64) ([]byte, error)
}

// Store is a Storage that can also read its objects back.
type Store interface {
	Storage
	Reader
}

type Config struct {
	Driver   string
	LocalDir string
	BaseURL  string
	Bucket   string
	Region   string
}

// New builds the Store named by cfg.Driver ("local" or "s3").
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.BaseURL), nil
	case "s3":
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}

		return NewS3(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Region, cfg.BaseURL), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Local writes objects below a directory served at baseURL.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	path := filepath.Join(l.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", clean, err)
	}

	return l.baseURL + "/" + clean, nil
}

func (l *Local) Key(rawURL string) (string, bool) {
	return keyFromURL(l.baseURL, rawURL)
}

func (l *Local) Get(_ context.Context, key string, limit int64) ([]byte, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(l.dir, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}

	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", clean, err)
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", clean, err)
	}

	return body, nil
}

// Handler serves the stored files. Mount it where baseURL points.
func (l *Local) Handler() http.Handler {
	return http.FileServer(http.Dir(l.dir))
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 keeps objects in a bucket.
type S3 struct {
	client  objectAPI
	bucket  string
	region  string
	baseURL string
}

// NewS3 returns an S3 store. An empty baseURL falls back to the bucket's
// virtual-hosted URL.
func NewS3(client objectAPI, bucket, region, baseURL string) *S3 {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3{client: client, bucket: bucket, region: region, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *S3) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(clean),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", clean, err)
	}

	return s.baseURL + "/" + (&url.URL{Path: clean}).EscapedPath(), nil
}

func (s *S3) Key(rawURL string) (string, bool) {
	return keyFromURL(s.baseURL, rawURL)
}

func (s *S3) Get(ctx context.Context, key string, limit int64) ([]byte, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}

		return nil, fmt.Errorf("downloading %s: %w", clean, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", clean, err)
	}

	return body, nil
}

// keyFromURL accepts only URLs directly below baseURL whose path is already
// a clean key, so "..", queries and fragments never resolve.
func keyFromURL(baseURL, rawURL string) (string, bool) {
	rest, ok := strings.CutPrefix(rawURL, baseURL+"/")
	if !ok || strings.ContainsAny(rest, "?#\\") {
		return "", false
	}

	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}

	clean, err := cleanKey(key)
	if err != nil || clean != key {
		return "", false
	}

	return key, true
}

func cleanKey(key string) (string, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	return clean, nil
}
