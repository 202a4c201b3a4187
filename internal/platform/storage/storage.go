// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides the S3-compatible object store used for person media.

Objects are written once under a unique key and served directly from the
bucket through a public-read policy, so the API only ever hands out URLs.

Key Layout:

	<subfolder>/<uuid>_<slugified-name>.<ext>

Deletion is best-effort. Callers treat a failed delete as an orphaned blob,
not as a reason to keep the database row.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/pkg/slug"
	"github.com/taibuivan/roots/pkg/uuid"
)

// Config carries the connection settings of the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client uploads and removes objects in a single bucket.
type Client struct {
	minio   *minio.Client
	bucket  string
	baseURL string
}

/*
NewClient builds a MinIO client. It does not contact the server.

Parameters:
  - cfg: Config (endpoint may carry an http(s):// prefix, which is stripped)

Returns:
  - *Client: Ready to use after [Client.EnsureBucket]
  - error: Invalid endpoint
*/
func NewClient(cfg Config) (*Client, error) {
	host := endpointHost(cfg.Endpoint)

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: invalid endpoint %q: %w", host, err)
	}

	return &Client{
		minio:   client,
		bucket:  cfg.Bucket,
		baseURL: PublicBaseURL(cfg),
	}, nil
}

// # Bucket Lifecycle

/*
EnsureBucket creates the bucket with an anonymous read policy when it does
not exist yet. Called once at startup.
*/
func (client *Client) EnsureBucket(ctx context.Context) error {
	logger := ctxutil.GetLogger(ctx)

	exists, err := client.minio.BucketExists(ctx, client.bucket)
	if err != nil {
		return fmt.Errorf("storage: bucket lookup failed: %w", err)
	}

	if exists {
		logger.Info("storage_bucket_ready", slog.String("bucket", client.bucket))
		return nil
	}

	if err := client.minio.MakeBucket(ctx, client.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket failed: %w", err)
	}

	if err := client.minio.SetBucketPolicy(ctx, client.bucket, publicReadPolicy(client.bucket)); err != nil {
		return fmt.Errorf("storage: set bucket policy failed: %w", err)
	}

	logger.Info("storage_bucket_created", slog.String("bucket", client.bucket))
	return nil
}

// Ping reports whether the bucket is reachable.
func (client *Client) Ping(ctx context.Context) error {
	if _, err := client.minio.BucketExists(ctx, client.bucket); err != nil {
		return fmt.Errorf("storage: ping failed: %w", err)
	}
	return nil
}

// # Objects

/*
Upload stores data under a fresh key and returns its public URL.

Parameters:
  - ctx: context.Context
  - data: []byte (full object body)
  - filename: string (client supplied, only used to derive a readable key)
  - contentType: string
  - subfolder: string (e.g. "photos", "documents")

Returns:
  - string: Public URL of the stored object
  - error: Upload failures
*/
func (client *Client) Upload(ctx context.Context, data []byte, filename, contentType, subfolder string) (string, error) {
	key := ObjectKey(subfolder, filename)

	_, err := client.minio.PutObject(ctx, client.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %q failed: %w", key, err)
	}

	return client.baseURL + "/" + key, nil
}

/*
Delete removes the object behind a URL produced by [Client.Upload].

It never returns an error; failures are logged and reported as false.
*/
func (client *Client) Delete(ctx context.Context, fileURL string) bool {
	logger := ctxutil.GetLogger(ctx)

	key, ok := KeyFromURL(fileURL, client.bucket)
	if !ok {
		logger.WarnContext(ctx, "storage_delete_skipped", slog.String("url", fileURL))
		return false
	}

	if err := client.minio.RemoveObject(ctx, client.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		logger.ErrorContext(ctx, "storage_delete_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return true
}

// # Key Helpers

// ObjectKey builds "<subfolder>/<uuid>_<slug>.<ext>" from a client file name.
func ObjectKey(subfolder, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	extension := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	name := slug.From(strings.TrimSuffix(base, path.Ext(base)))

	if name == "" {
		name = "file"
	}

	object := uuid.New() + "_" + name
	if extension != "" && slug.From(extension) == extension {
		object += "." + extension
	}

	subfolder = strings.Trim(subfolder, "/")
	if subfolder == "" {
		return object
	}
	return subfolder + "/" + object
}

// PublicBaseURL returns "http(s)://endpoint/bucket" for the configured store.
func PublicBaseURL(cfg Config) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + endpointHost(cfg.Endpoint) + "/" + cfg.Bucket
}

// KeyFromURL extracts the object key from a public URL of the given bucket.
func KeyFromURL(fileURL, bucket string) (string, bool) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", false
	}

	bucketName, key, found := strings.Cut(strings.TrimPrefix(parsed.Path, "/"), "/")
	if !found || bucketName != bucket || key == "" {
		return "", false
	}

	return key, true
}

// endpointHost strips an http(s):// prefix; the SDK expects host:port only.
func endpointHost(endpoint string) string {
	if _, host, found := strings.Cut(endpoint, "://"); found {
		endpoint = host
	}
	return strings.TrimRight(endpoint, "/")
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`, bucket)
}
