package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Bucket binds the package helpers to one client so callers can depend on
// a small interface instead of the S3 SDK.
type Bucket struct {
	Client *s3.Client
}

func (b Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	return GetFile(ctx, b.Client, key)
}

func (b Bucket) Put(ctx context.Context, key string, data []byte) error {
	return PutFile(ctx, b.Client, key, data)
}

func (b Bucket) Delete(ctx context.Context, key string) error {
	return DeleteFile(ctx, b.Client, key)
}

func (b Bucket) DeletePrefix(ctx context.Context, prefix string) error {
	return DeleteFolder(ctx, b.Client, prefix)
}

func (b Bucket) DownloadLink(ctx context.Context, key string, filename string) (string, error) {
	return GenerateDownloadLink(ctx, b.Client, key, filename)
}
