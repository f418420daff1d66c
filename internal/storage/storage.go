package storage

import (
	"context"
	"io"
	"time"
)

type Uploader interface {
	// Upload stores r under objectName and returns the URL clients use to
	// fetch it.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (url string, err error)
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
