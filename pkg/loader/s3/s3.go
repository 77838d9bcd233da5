package s3

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OFFIS-RIT/ifcfilter/pkg/loader"
)

// S3ModelFileLoader is a ModelFileLoader implementation that loads model
// files from an S3 bucket. ModelFile.FilePath is the object key.
type S3ModelFileLoader struct {
	bucket string
	client *s3.Client
	cache  *loader.Cache
}

// NewS3ModelFileLoaderWithClient reuses a preconfigured client.
func NewS3ModelFileLoaderWithClient(bucket string, client *s3.Client, maxEntries int) *S3ModelFileLoader {
	return &S3ModelFileLoader{
		bucket: bucket,
		client: client,
		cache:  loader.NewCache(maxEntries),
	}
}

// NewS3ModelFileLoaderParams defines the configuration parameters for
// creating a new S3ModelFileLoader.
//
// Endpoint allows overriding the S3 endpoint for S3-compatible storage
// like MinIO.
type NewS3ModelFileLoaderParams struct {
	Bucket     string
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	MaxEntries int
}

func NewS3ModelFileLoader(ctx context.Context, params NewS3ModelFileLoaderParams) (*S3ModelFileLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return NewS3ModelFileLoaderWithClient(params.Bucket, client, params.MaxEntries), nil
}

// GetFileBytes retrieves the object from the configured bucket. It
// implements the ModelFileLoader interface.
func (l *S3ModelFileLoader) GetFileBytes(ctx context.Context, file loader.ModelFile) ([]byte, error) {
	return l.cache.Get(loader.CacheKey(file), func() ([]byte, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// NewModelFile returns a ModelFile for key backed by l.
func (l *S3ModelFileLoader) NewModelFile(id string, key string) loader.ModelFile {
	return loader.ModelFile{ID: id, FilePath: key, Loader: l}
}
