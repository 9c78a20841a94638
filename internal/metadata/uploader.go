package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/CodexForgeBR/nft-mint/internal/chain"
)

// Uploader stores a Document and returns the URI it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, doc Document) (string, error)
}

// StoreConfig describes the S3-compatible bucket metadata is written to.
type StoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicURL is the base URL objects are served from. Defaults to the
	// endpoint itself.
	PublicURL string
}

// Validate checks the fields needed to reach the bucket.
func (c StoreConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("storage endpoint is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("storage bucket is required")
	}
	return nil
}

// BaseURL returns the URL prefix of uploaded objects, without trailing slash.
func (c StoreConfig) BaseURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + c.Endpoint
}

// objectStore is the subset of *minio.Client the uploader calls.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectStoreUploader writes documents as JSON objects under metadata/.
type ObjectStoreUploader struct {
	store       objectStore
	cfg         StoreConfig
	bucketReady bool
	newKey      func() string
}

// NewObjectStoreUploader connects to the bucket described by cfg.
func NewObjectStoreUploader(cfg StoreConfig) (*ObjectStoreUploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("object store client: %w", err)
	}
	return newUploader(client, cfg), nil
}

func newUploader(store objectStore, cfg StoreConfig) *ObjectStoreUploader {
	return &ObjectStoreUploader{
		store: store,
		cfg:   cfg,
		newKey: func() string {
			return "metadata/" + uuid.NewString() + ".json"
		},
	}
}

// Upload ensures the bucket exists, writes doc and returns its public URI.
func (u *ObjectStoreUploader) Upload(ctx context.Context, doc Document) (string, error) {
	const op = "upload metadata"

	body, err := json.Marshal(doc)
	if err != nil {
		return "", &chain.Error{Kind: chain.KindInvalidInput, Op: op, Err: fmt.Errorf("encode document: %w", err)}
	}

	if !u.bucketReady {
		if err := u.ensureBucket(ctx); err != nil {
			return "", chain.Classify(op, err)
		}
		u.bucketReady = true
	}

	key := u.newKey()
	_, err = u.store.PutObject(ctx, u.cfg.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", chain.Classify(op, err)
	}

	return u.cfg.BaseURL() + "/" + u.cfg.Bucket + "/" + key, nil
}

func (u *ObjectStoreUploader) ensureBucket(ctx context.Context) error {
	exists, err := u.store.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.store.MakeBucket(ctx, u.cfg.Bucket, minio.MakeBucketOptions{Region: u.cfg.Region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", u.cfg.Bucket, err)
	}
	return nil
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
