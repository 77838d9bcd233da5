package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	ContentTypeIFC    = "application/x-step"
	ContentTypeIFCZIP = "application/zip"
)

// DownloadExpiry is how long a presigned result link stays valid.
var DownloadExpiry = 15 * time.Minute

func NewS3Client(ctx context.Context) (*s3.Client, error) {
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// SourceKey is where an uploaded model is stored. The extension of the
// original file name is kept so readers can tell IFC from IFCZIP.
func SourceKey(modelID int64, objectID string, filename string) string {
	return fmt.Sprintf("models/%d/source/%s%s", modelID, objectID, ModelExt(filename))
}

// ResultKey is where the filtered model of a job is stored.
func ResultKey(modelID int64, jobID int64, outputName string) string {
	return fmt.Sprintf("models/%d/results/%d/%s", modelID, jobID, path.Base(outputName))
}

// ModelPrefix covers every object that belongs to a model.
func ModelPrefix(modelID int64) string {
	return fmt.Sprintf("models/%d/", modelID)
}

// ModelExt returns ".ifczip" or ".ifc" for a model file name.
func ModelExt(filename string) string {
	if strings.EqualFold(path.Ext(filename), ".ifczip") {
		return ".ifczip"
	}
	return ".ifc"
}

func ContentTypeFor(key string) string {
	if ModelExt(key) == ".ifczip" {
		return ContentTypeIFCZIP
	}
	return ContentTypeIFC
}

func bucket() string {
	return util.GetEnv("AWS_BUCKET")
}

func GetFile(ctx context.Context, client *s3.Client, key string) ([]byte, error) {
	return util.RetryWithContext(ctx, util.DefaultPolicy, func(ctx context.Context) ([]byte, error) {
		result, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket()),
			Key:    aws.String(key),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				return nil, util.Permanent(fmt.Errorf("object %s does not exist: %w", key, err))
			}
			return nil, fmt.Errorf("failed to get file from S3: %w", err)
		}
		defer result.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, result.Body); err != nil {
			return nil, fmt.Errorf("failed to read file contents: %w", err)
		}
		return buf.Bytes(), nil
	})
}

// PutFile uploads data under key. The body is rewound before every attempt.
func PutFile(ctx context.Context, client *s3.Client, key string, data []byte) error {
	return util.RetryErrWithContext(ctx, util.DefaultPolicy, func(ctx context.Context) error {
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket()),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(ContentTypeFor(key)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload file to S3: %w", err)
		}
		return nil
	})
}

func DeleteFile(ctx context.Context, client *s3.Client, key string) error {
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket()),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func GenerateDownloadLink(ctx context.Context, baseClient *s3.Client, key string, filename string) (string, error) {
	publicEndpoint := util.GetEnv("AWS_PUBLIC_ENDPOINT")

	publicURL, err := url.Parse(publicEndpoint)
	if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
		return "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", publicEndpoint)
	}
	prefix := strings.TrimSuffix(publicURL.Path, "/")

	publicBaseEndpoint := fmt.Sprintf("%s://%s", publicURL.Scheme, publicURL.Host)

	// Presign against the public host so the signature matches the Host
	// header the browser sends.
	presignClientS3 := s3.NewFromConfig(
		aws.Config{
			Region:      baseClient.Options().Region,
			Credentials: baseClient.Options().Credentials,
			HTTPClient:  baseClient.Options().HTTPClient,
		},
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(publicBaseEndpoint)
			o.UsePathStyle = true
		},
	)

	presigner := s3.NewPresignClient(presignClientS3)

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket()),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", filename))
	}

	out, err := presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(DownloadExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	if prefix != "" {
		signedURL, parseErr := url.Parse(out.URL)
		if parseErr != nil {
			return "", fmt.Errorf("failed to parse presigned url: %w", parseErr)
		}
		signedURL.Path = prefix + signedURL.Path
		return signedURL.String(), nil
	}

	return out.URL, nil
}

func DeleteFolder(ctx context.Context, client *s3.Client, prefix string) error {
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket()),
		Prefix: aws.String(prefix),
	}

	for {
		listOutput, err := client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return fmt.Errorf("failed to list objects in folder %s: %w", prefix, err)
		}

		if len(listOutput.Contents) == 0 {
			break
		}

		var objectsToDelete []types.ObjectIdentifier
		for _, obj := range listOutput.Contents {
			objectsToDelete = append(objectsToDelete, types.ObjectIdentifier{
				Key: obj.Key,
			})
		}

		_, err = client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket()),
			Delete: &types.Delete{
				Objects: objectsToDelete,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects in folder %s: %w", prefix, err)
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return nil
}
